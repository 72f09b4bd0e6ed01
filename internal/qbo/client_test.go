package qbo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRealm = "9130350"

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, zerolog.Nop())
	c.SetToken(testRealm, "test-token")
	return c
}

// queryLiteral extracts the quoted value from a query like
// "select * from Customer where DisplayName = 'Acme'".
func queryLiteral(q string) string {
	i := strings.Index(q, "'")
	j := strings.LastIndex(q, "'")
	if i < 0 || j <= i {
		return ""
	}
	return strings.ReplaceAll(q[i+1:j], `\'`, "'")
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_TokenNotSet(t *testing.T) {
	c := NewClient("http://localhost:1", zerolog.Nop())

	_, err := c.GetCustomerByName(context.Background(), "Acme Corp")
	assert.ErrorIs(t, err, ErrTokenNotSet)

	_, err = c.CreateTransfer(context.Background(), CreateTransferParams{})
	assert.ErrorIs(t, err, ErrTokenNotSet)
}

func TestClient_BearerTokenAndRealmInPath(t *testing.T) {
	var gotPath, gotAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		writeJSON(t, w, map[string]any{"QueryResponse": map[string]any{}})
	})

	c := newTestClient(t, mux)
	_, err := c.GetCustomerByName(context.Background(), "Acme Corp")
	require.NoError(t, err)

	assert.Equal(t, "/"+testRealm+"/query", gotPath)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestQuery_MissingEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"Fault": map[string]any{"type": "ValidationFault"}})
	})

	c := newTestClient(t, mux)
	_, err := c.GetCustomerByName(context.Background(), "Acme Corp")

	var qerr *QueryError
	require.ErrorAs(t, err, &qerr)
	assert.Contains(t, qerr.Body, "ValidationFault")
}

func TestQuery_HTTPError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_grant", http.StatusUnauthorized)
	})

	c := newTestClient(t, mux)
	_, err := c.GetCustomerByName(context.Background(), "Acme Corp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestGetTaxCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{}
		if queryLiteral(r.URL.Query().Get("query")) == "5" {
			resp["TaxCode"] = []TaxCode{{
				ID: "5",
				SalesTaxRateList: TaxRateList{TaxRateDetail: []TaxRateDetail{
					{TaxRateRef: TaxRateRef{Value: "11", Name: "GST"}},
				}},
			}}
		}
		writeJSON(t, w, map[string]any{"QueryResponse": resp})
	})
	c := newTestClient(t, mux)

	tc, err := c.GetTaxCode(context.Background(), "5")
	require.NoError(t, err)
	require.NotNil(t, tc)
	assert.Equal(t, "5", tc.ID)
	require.Len(t, tc.SalesTaxRateList.TaxRateDetail, 1)
	assert.Equal(t, "11", tc.SalesTaxRateList.TaxRateDetail[0].TaxRateRef.Value)

	// Nonexistent id returns nil, not an error.
	tc, err = c.GetTaxCode(context.Background(), "999")
	require.NoError(t, err)
	assert.Nil(t, tc)
}

func TestGetCompanyInfo(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"QueryResponse": map[string]any{
			"CompanyInfo": []CompanyInfo{{CompanyName: "Acme Corp", Country: "CA"}},
		}})
	})
	c := newTestClient(t, mux)

	info, err := c.GetCompanyInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", info.CompanyName)
	assert.Equal(t, "CA", info.Country)
}

// customerServer is a minimal stateful stand-in for the customer
// endpoints: name-keyed lookup plus create.
func customerServer(t *testing.T, creates *int) (http.Handler, *[]Customer) {
	t.Helper()
	var customers []Customer

	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		name := queryLiteral(r.URL.Query().Get("query"))
		var matched []Customer
		for _, c := range customers {
			if c.DisplayName == name {
				matched = append(matched, c)
			}
		}
		resp := map[string]any{}
		if len(matched) > 0 {
			resp["Customer"] = matched
		}
		writeJSON(t, w, map[string]any{"QueryResponse": resp})
	})
	mux.HandleFunc("POST /"+testRealm+"/customer", func(w http.ResponseWriter, r *http.Request) {
		*creates++
		var req createCustomerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		customer := Customer{
			ID:          fmt.Sprintf("%d", len(customers)+1),
			DisplayName: req.DisplayName,
			CurrencyRef: CurrencyRef{Value: req.CurrencyRef.Value},
		}
		customers = append(customers, customer)
		writeJSON(t, w, map[string]any{"Customer": customer})
	})
	return mux, &customers
}

func TestGetOrCreateCustomer_Idempotent(t *testing.T) {
	creates := 0
	handler, _ := customerServer(t, &creates)
	c := newTestClient(t, handler)

	first, err := c.GetOrCreateCustomer(context.Background(), "Acme Corp", "USD")
	require.NoError(t, err)

	second, err := c.GetOrCreateCustomer(context.Background(), "Acme Corp", "USD")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, creates, "second call must reuse, not create")
}

func TestGetOrCreateCustomer_CurrencyMismatch(t *testing.T) {
	creates := 0
	handler, customers := customerServer(t, &creates)
	c := newTestClient(t, handler)

	_, err := c.GetOrCreateCustomer(context.Background(), "Acme Corp", "USD")
	require.NoError(t, err)

	// Same name, different currency: a disambiguated customer is
	// created, the existing one untouched.
	eur, err := c.GetOrCreateCustomer(context.Background(), "Acme Corp", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp (EUR)", eur.DisplayName)
	assert.Equal(t, "EUR", eur.CurrencyRef.Value)

	assert.Equal(t, 2, creates)
	assert.Equal(t, "Acme Corp", (*customers)[0].DisplayName)
	assert.Equal(t, "USD", (*customers)[0].CurrencyRef.Value)
}

func TestCreateCustomer_MissingEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /"+testRealm+"/customer", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"Fault": map[string]any{"type": "ValidationFault"}})
	})
	c := newTestClient(t, mux)

	_, err := c.CreateCustomer(context.Background(), "Acme Corp", "USD")

	var rerr *ResponseError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Customer", rerr.Entity)
	assert.Contains(t, rerr.Body, "ValidationFault")
}

func TestGetOrCreateItem_Idempotent(t *testing.T) {
	var items []Item
	creates := 0

	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		name := queryLiteral(r.URL.Query().Get("query"))
		resp := map[string]any{}
		for _, it := range items {
			if it.Name == name {
				resp["Item"] = []Item{it}
			}
		}
		writeJSON(t, w, map[string]any{"QueryResponse": resp})
	})
	mux.HandleFunc("POST /"+testRealm+"/item", func(w http.ResponseWriter, r *http.Request) {
		creates++
		var req createItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Service", req.Type)
		assert.Equal(t, "40", req.IncomeAccountRef.Value)
		item := Item{ID: fmt.Sprintf("%d", len(items)+1), Name: req.Name}
		items = append(items, item)
		writeJSON(t, w, map[string]any{"Item": item})
	})
	c := newTestClient(t, mux)

	first, err := c.GetOrCreateItem(context.Background(), "Stripe Subscription", "40")
	require.NoError(t, err)

	second, err := c.GetOrCreateItem(context.Background(), "Stripe Subscription", "40")
	require.NoError(t, err)

	assert.Equal(t, first.Value, second.Value)
	assert.Equal(t, "Stripe Subscription", second.Name)
	assert.Equal(t, 1, creates)
}

func TestGetOrCreateAccount_Idempotent(t *testing.T) {
	var accounts []Account
	creates := 0

	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		name := queryLiteral(r.URL.Query().Get("query"))
		var matched []Account
		for _, a := range accounts {
			if a.Name == name {
				matched = append(matched, a)
			}
		}
		resp := map[string]any{}
		if len(matched) > 0 {
			resp["Account"] = matched
		}
		writeJSON(t, w, map[string]any{"QueryResponse": resp})
	})
	mux.HandleFunc("POST /"+testRealm+"/account", func(w http.ResponseWriter, r *http.Request) {
		creates++
		var req createAccountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		account := Account{ID: fmt.Sprintf("%d", len(accounts)+1), Name: req.Name, AccountType: req.AccountType}
		accounts = append(accounts, account)
		writeJSON(t, w, map[string]any{"Account": account})
	})
	c := newTestClient(t, mux)

	first, err := c.GetOrCreateAccount(context.Background(), "Stripe Clearing", "Bank")
	require.NoError(t, err)

	second, err := c.GetOrCreateAccount(context.Background(), "Stripe Clearing", "Bank")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, creates)
}

func TestGetAccountID_Conflict(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"QueryResponse": map[string]any{
			"Account": []Account{
				{ID: "1", Name: "Stripe Clearing"},
				{ID: "2", Name: "Stripe Clearing"},
			},
		}})
	})
	c := newTestClient(t, mux)

	_, err := c.GetAccountID(context.Background(), "Stripe Clearing")

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Count)
	assert.Equal(t, "Stripe Clearing", cerr.Name)
}

func TestQuery_EscapesSingleQuotes(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+testRealm+"/query", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query")
		writeJSON(t, w, map[string]any{"QueryResponse": map[string]any{}})
	})
	c := newTestClient(t, mux)

	_, err := c.GetCustomerByName(context.Background(), "O'Reilly Media")
	require.NoError(t, err)
	assert.Contains(t, gotQuery, `O\'Reilly Media`)
}
