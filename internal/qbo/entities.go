package qbo

import (
	"context"
	"fmt"
)

// GetCompanyInfo returns the company behind the configured realm.
func (c *Client) GetCompanyInfo(ctx context.Context) (*CompanyInfo, error) {
	resp, err := c.query(ctx, "select * from CompanyInfo")
	if err != nil {
		return nil, err
	}
	if len(resp.CompanyInfo) == 0 {
		return nil, &QueryError{Query: "select * from CompanyInfo", Body: "no CompanyInfo returned"}
	}
	return &resp.CompanyInfo[0], nil
}

// GetTaxCode looks up a tax code by id. Returns nil when no tax code
// matches. Tax codes are configured by the company's administrator;
// this client never creates them.
func (c *Client) GetTaxCode(ctx context.Context, taxCodeID string) (*TaxCode, error) {
	resp, err := c.query(ctx, fmt.Sprintf("select * from TaxCode where Id = '%s'", quoteLiteral(taxCodeID)))
	if err != nil {
		return nil, err
	}
	if len(resp.TaxCode) == 0 {
		return nil, nil
	}
	return &resp.TaxCode[0], nil
}

// GetCustomerByName looks up a customer by exact display name. Returns
// nil when no customer matches.
func (c *Client) GetCustomerByName(ctx context.Context, name string) (*Customer, error) {
	resp, err := c.query(ctx, fmt.Sprintf("select * from Customer where DisplayName = '%s'", quoteLiteral(name)))
	if err != nil {
		return nil, err
	}
	if len(resp.Customer) == 0 {
		return nil, nil
	}
	return &resp.Customer[0], nil
}

type createCustomerRequest struct {
	DisplayName string `json:"DisplayName"`
	CurrencyRef ref    `json:"CurrencyRef"`
}

// CreateCustomer creates a customer with the given display name and
// currency.
func (c *Client) CreateCustomer(ctx context.Context, name, currency string) (*Customer, error) {
	req := createCustomerRequest{
		DisplayName: name,
		CurrencyRef: ref{Value: currency},
	}

	var customer Customer
	if err := c.create(ctx, "customer", "Customer", req, &customer); err != nil {
		return nil, err
	}
	c.log.Info().Str("id", customer.ID).Str("name", customer.DisplayName).Msg("customer created")
	return &customer, nil
}

// GetOrCreateCustomer returns the customer with the given display name,
// creating it when absent. When the name is already taken by a customer
// in a different currency, a second customer named "{name} ({currency})"
// is created instead: display names are unique per company, and the
// existing customer's currency cannot be changed. The suffixed branch
// creates a fresh customer on every call; everything else is idempotent
// per (name, currency).
func (c *Client) GetOrCreateCustomer(ctx context.Context, name, currency string) (*Customer, error) {
	customer, err := getOrCreate(
		func() (*Customer, error) { return c.GetCustomerByName(ctx, name) },
		func() (*Customer, error) { return c.CreateCustomer(ctx, name, currency) },
	)
	if err != nil {
		return nil, err
	}
	if customer.CurrencyRef.Value != currency {
		return c.CreateCustomer(ctx, fmt.Sprintf("%s (%s)", name, currency), currency)
	}
	return customer, nil
}

// GetItemByName looks up a product/service item by name. Returns nil
// when no item matches.
func (c *Client) GetItemByName(ctx context.Context, name string) (*ItemRef, error) {
	resp, err := c.query(ctx, fmt.Sprintf("select * from Item where Name = '%s'", quoteLiteral(name)))
	if err != nil {
		return nil, err
	}
	if len(resp.Item) == 0 {
		return nil, nil
	}
	return &ItemRef{Value: resp.Item[0].ID, Name: resp.Item[0].Name}, nil
}

type createItemRequest struct {
	Name             string `json:"Name"`
	Type             string `json:"Type"`
	IncomeAccountRef ref    `json:"IncomeAccountRef"`
}

// CreateItem creates a service-type item booked against the given
// income account.
func (c *Client) CreateItem(ctx context.Context, name, incomeAccountID string) (*ItemRef, error) {
	req := createItemRequest{
		Name:             name,
		Type:             "Service",
		IncomeAccountRef: ref{Value: incomeAccountID},
	}

	var item Item
	if err := c.create(ctx, "item", "Item", req, &item); err != nil {
		return nil, err
	}
	c.log.Info().Str("id", item.ID).Str("name", item.Name).Msg("item created")
	return &ItemRef{Value: item.ID, Name: item.Name}, nil
}

// GetOrCreateItem returns the item with the given name, creating it
// when absent. Idempotent per name.
func (c *Client) GetOrCreateItem(ctx context.Context, name, incomeAccountID string) (*ItemRef, error) {
	return getOrCreate(
		func() (*ItemRef, error) { return c.GetItemByName(ctx, name) },
		func() (*ItemRef, error) { return c.CreateItem(ctx, name, incomeAccountID) },
	)
}

// GetAccountID looks up an account by name and returns its id, or ""
// when no account matches. More than one match is a ConflictError.
func (c *Client) GetAccountID(ctx context.Context, name string) (string, error) {
	resp, err := c.query(ctx, fmt.Sprintf("select * from Account where Name = '%s'", quoteLiteral(name)))
	if err != nil {
		return "", err
	}
	if len(resp.Account) == 0 {
		return "", nil
	}
	if len(resp.Account) > 1 {
		return "", &ConflictError{Name: name, Count: len(resp.Account)}
	}
	return resp.Account[0].ID, nil
}

type createAccountRequest struct {
	Name        string `json:"Name"`
	AccountType string `json:"AccountType"`
}

// CreateAccount creates an account of the given type and returns its
// id. The type is fixed at creation; QuickBooks does not let this
// client change it afterwards.
func (c *Client) CreateAccount(ctx context.Context, name, accountType string) (string, error) {
	req := createAccountRequest{
		Name:        name,
		AccountType: accountType,
	}

	var account Account
	if err := c.create(ctx, "account", "Account", req, &account); err != nil {
		return "", err
	}
	c.log.Info().Str("id", account.ID).Str("name", name).Msg("account created")
	return account.ID, nil
}

// GetOrCreateAccount returns the id of the account with the given name,
// creating it when absent. Idempotent per name.
func (c *Client) GetOrCreateAccount(ctx context.Context, name, accountType string) (string, error) {
	accountID, err := getOrCreate(
		func() (*string, error) {
			id, err := c.GetAccountID(ctx, name)
			if err != nil || id == "" {
				return nil, err
			}
			return &id, nil
		},
		func() (*string, error) {
			id, err := c.CreateAccount(ctx, name, accountType)
			if err != nil {
				return nil, err
			}
			return &id, nil
		},
	)
	if err != nil {
		return "", err
	}
	return *accountID, nil
}
