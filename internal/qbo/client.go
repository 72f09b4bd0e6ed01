// Package qbo is a client for the QuickBooks Online accounting API. It
// covers the entities a Stripe-to-QuickBooks sync touches: customers,
// service items, accounts, tax codes, invoices, payments, expenses and
// transfers. All records live in QuickBooks; the client never assigns
// ids and keeps no state beyond the realm id and access token.
package qbo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Base URLs for the two QuickBooks Online environments.
const (
	ProductionBaseURL = "https://quickbooks.api.intuit.com/v3/company"
	SandboxBaseURL    = "https://sandbox-quickbooks.api.intuit.com/v3/company"
)

// dateFormat is how QuickBooks expects every transaction date.
const dateFormat = "2006-01-02"

// Client issues synchronous requests against one QuickBooks company.
// SetToken must be called before the first operation. The client is not
// safe for concurrent token reassignment; set the token once, then
// share freely.
type Client struct {
	baseURL     string
	realmID     string
	accessToken string
	httpClient  *http.Client
	log         zerolog.Logger
}

// NewClient creates a client against the given base URL (use
// ProductionBaseURL or SandboxBaseURL).
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		log: log.With().Str("client", "qbo").Logger(),
	}
}

// SetToken sets the realm (company) id and bearer token used on every
// subsequent request.
func (c *Client) SetToken(realmID, accessToken string) {
	c.realmID = realmID
	c.accessToken = accessToken
}

// ref is the {"value": id} shape QuickBooks uses for every entity
// reference in a request body.
type ref struct {
	Value string `json:"value"`
}

// txnResult is the slice of a created transaction this client cares
// about.
type txnResult struct {
	ID string `json:"Id"`
}

// queryResponse is the results envelope of the query endpoint, with one
// field per entity type this client queries.
type queryResponse struct {
	CompanyInfo []CompanyInfo `json:"CompanyInfo"`
	Customer    []Customer    `json:"Customer"`
	Item        []Item        `json:"Item"`
	Account     []Account     `json:"Account"`
	TaxCode     []TaxCode     `json:"TaxCode"`
}

// do performs one request against the realm and returns the raw
// response body. A non-2xx status is an error carrying the body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.accessToken == "" || c.realmID == "" {
		return nil, ErrTokenNotSet
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	fullURL := fmt.Sprintf("%s/%s/%s", c.baseURL, c.realmID, strings.TrimPrefix(path, "/"))
	c.log.Debug().Str("method", method).Str("url", fullURL).Msg("request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("qbo: %s /%s: status %d: %s", method, strings.TrimPrefix(path, "/"), resp.StatusCode, respBody)
	}
	return respBody, nil
}

// query runs one statement against the query endpoint and returns the
// QueryResponse envelope. A body without that envelope is a QueryError.
func (c *Client) query(ctx context.Context, q string) (*queryResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "query?query="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		QueryResponse *queryResponse `json:"QueryResponse"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.QueryResponse == nil {
		return nil, &QueryError{Query: q, Body: string(body)}
	}
	return envelope.QueryResponse, nil
}

// create posts body and decodes the named entity envelope into out.
// Every create checks for the envelope: the service reports some
// logical failures with a 2xx body that simply lacks the entity.
func (c *Client) create(ctx context.Context, path, entity string, body, out any) error {
	respBody, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return &ResponseError{Entity: entity, Body: string(respBody)}
	}
	raw, ok := envelope[entity]
	if !ok {
		return &ResponseError{Entity: entity, Body: string(respBody)}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", entity, err)
	}
	return nil
}

// quoteLiteral escapes embedded single quotes so a caller-supplied name
// cannot break out of a query string literal.
func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

// formatDate renders an optional date the way QuickBooks wants it, or
// empty (and therefore omitted) when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateFormat)
}

// getOrCreate is the lookup-then-create step shared by customers, items
// and accounts. find returns nil when nothing matches; create runs only
// then. A failure partway leaves whatever the remote side already has.
func getOrCreate[T any](find func() (*T, error), create func() (*T, error)) (*T, error) {
	got, err := find()
	if err != nil {
		return nil, err
	}
	if got != nil {
		return got, nil
	}
	return create()
}
