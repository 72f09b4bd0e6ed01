package qbo

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Line detail discriminators used by the QuickBooks transaction schema.
const (
	DetailTypeSalesItem = "SalesItemLineDetail"
	DetailTypeTaxLine   = "TaxLineDetail"
	DetailTypeExpense   = "AccountBasedExpenseLineDetail"
)

// CompanyInfo identifies the QuickBooks company behind a realm.
type CompanyInfo struct {
	CompanyName string `json:"CompanyName"`
	Country     string `json:"Country"`
}

// CurrencyRef references an ISO currency code.
type CurrencyRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// ItemRef references a product/service item by id.
type ItemRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// TaxRateRef references a tax rate by id.
type TaxRateRef struct {
	Value string `json:"value"`
	Name  string `json:"name,omitempty"`
}

// TaxCodeRef references a tax code by id.
type TaxCodeRef struct {
	Value string `json:"value"`
}

// Customer is a QuickBooks customer record. DisplayName is unique across
// the company, which is what makes name-keyed lookups safe.
type Customer struct {
	ID          string      `json:"Id"`
	DisplayName string      `json:"DisplayName"`
	CurrencyRef CurrencyRef `json:"CurrencyRef"`
}

// Item is a product/service item record.
type Item struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Account is a chart-of-accounts entry.
type Account struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	AccountType string `json:"AccountType,omitempty"`
}

// TaxRateDetail is one rate in a tax code's rate list.
type TaxRateDetail struct {
	TaxRateRef TaxRateRef `json:"TaxRateRef"`
}

// TaxRateList is the ordered list of rates attached to a tax code.
type TaxRateList struct {
	TaxRateDetail []TaxRateDetail `json:"TaxRateDetail"`
}

// TaxCode is administrative data configured in the company; this client
// only ever reads them.
type TaxCode struct {
	ID               string      `json:"Id"`
	SalesTaxRateList TaxRateList `json:"SalesTaxRateList"`
}

// TaxLineDetail describes how one tax line was computed.
type TaxLineDetail struct {
	TaxRateRef       TaxRateRef `json:"TaxRateRef"`
	PercentBased     bool       `json:"PercentBased"`
	TaxPercent       float64    `json:"TaxPercent"`
	NetAmountTaxable float64    `json:"NetAmountTaxable"`
}

// TaxLine is one tax amount on a transaction's tax detail.
type TaxLine struct {
	DetailType    string        `json:"DetailType"`
	Amount        float64       `json:"Amount"`
	TaxLineDetail TaxLineDetail `json:"TaxLineDetail"`
}

// TaxDetail is the transaction-level tax block on an invoice.
type TaxDetail struct {
	TotalTax      float64     `json:"TotalTax"`
	TaxLine       []TaxLine   `json:"TaxLine,omitempty"`
	TxnTaxCodeRef *TaxCodeRef `json:"TxnTaxCodeRef,omitempty"`
}

// Validate checks that TotalTax matches the sum of the tax lines. The
// comparison is exact in decimal terms so float noise from upstream
// arithmetic does not slip a mismatched total past the service.
func (d TaxDetail) Validate() error {
	if len(d.TaxLine) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, line := range d.TaxLine {
		sum = sum.Add(decimal.NewFromFloat(line.Amount))
	}
	if !sum.Equal(decimal.NewFromFloat(d.TotalTax)) {
		return fmt.Errorf("tax detail total %v does not match line sum %v", d.TotalTax, sum)
	}
	return nil
}

// SalesItemLineDetail binds an invoice line to an item and tax code.
type SalesItemLineDetail struct {
	ItemRef    ItemRef     `json:"ItemRef"`
	TaxCodeRef *TaxCodeRef `json:"TaxCodeRef,omitempty"`
}

// InvoiceLine is one sales line on an invoice. DetailType may be left
// empty; the client fills in DetailTypeSalesItem before posting.
type InvoiceLine struct {
	Amount              float64             `json:"Amount"`
	Description         string              `json:"Description"`
	DetailType          string              `json:"DetailType"`
	SalesItemLineDetail SalesItemLineDetail `json:"SalesItemLineDetail"`
}
