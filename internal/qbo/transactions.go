package qbo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceParams holds everything needed to record an invoice.
// Optional fields left at their zero value are omitted from the request
// body entirely rather than sent as nulls.
type CreateInvoiceParams struct {
	CustomerID  string
	Lines       []InvoiceLine
	Currency    string // defaults to USD
	CreatedDate *time.Time
	TxnDate     *time.Time
	DueDate     *time.Time
	TaxDetail   *TaxDetail
	PrivateNote string
	DocNumber   string
}

type invoiceRequest struct {
	CustomerRef  ref           `json:"CustomerRef"`
	CurrencyRef  ref           `json:"CurrencyRef"`
	Line         []InvoiceLine `json:"Line"`
	TxnDate      string        `json:"TxnDate,omitempty"`
	DueDate      string        `json:"DueDate,omitempty"`
	TxnTaxDetail *TaxDetail    `json:"TxnTaxDetail,omitempty"`
	PrivateNote  string        `json:"PrivateNote,omitempty"`
	DocNumber    string        `json:"DocNumber,omitempty"`
}

// CreateInvoice records a multi-line invoice and returns its id. Lines
// map in order into the request. When both TxnDate and CreatedDate are
// supplied, TxnDate wins: it names the transaction date explicitly,
// while CreatedDate is only a fallback for callers that track a single
// creation timestamp. Not idempotent; calling twice records two
// invoices.
func (c *Client) CreateInvoice(ctx context.Context, params CreateInvoiceParams) (string, error) {
	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}

	lines := make([]InvoiceLine, len(params.Lines))
	copy(lines, params.Lines)
	for i := range lines {
		if lines[i].DetailType == "" {
			lines[i].DetailType = DetailTypeSalesItem
		}
	}

	if params.TaxDetail != nil {
		if err := params.TaxDetail.Validate(); err != nil {
			return "", err
		}
	}

	req := invoiceRequest{
		CustomerRef:  ref{Value: params.CustomerID},
		CurrencyRef:  ref{Value: currency},
		Line:         lines,
		DueDate:      formatDate(params.DueDate),
		TxnTaxDetail: params.TaxDetail,
		PrivateNote:  params.PrivateNote,
		DocNumber:    params.DocNumber,
	}
	switch {
	case params.TxnDate != nil:
		req.TxnDate = params.TxnDate.Format(dateFormat)
	case params.CreatedDate != nil:
		req.TxnDate = params.CreatedDate.Format(dateFormat)
	}

	var invoice txnResult
	if err := c.create(ctx, "invoice", "Invoice", req, &invoice); err != nil {
		return "", err
	}
	c.log.Info().Str("id", invoice.ID).Msg("invoice created")
	return invoice.ID, nil
}

// CreateInvoicePaymentParams holds everything needed to record a
// payment. InvoiceID is optional; when set, the payment carries a line
// linking it to that invoice.
type CreateInvoicePaymentParams struct {
	InvoiceID        string
	CustomerID       string
	Amount           decimal.Decimal
	Date             time.Time
	DepositAccountID string
	Currency         string
	ExchangeRate     decimal.Decimal // zero defaults to 1
	PrivateNote      string
}

type paymentRequest struct {
	TotalAmt            float64       `json:"TotalAmt"`
	CustomerRef         ref           `json:"CustomerRef"`
	TxnDate             string        `json:"TxnDate"`
	DepositToAccountRef ref           `json:"DepositToAccountRef"`
	PrivateNote         string        `json:"PrivateNote,omitempty"`
	CurrencyRef         ref           `json:"CurrencyRef"`
	ExchangeRate        float64       `json:"ExchangeRate"`
	Line                []paymentLine `json:"Line,omitempty"`
}

type paymentLine struct {
	Amount    float64     `json:"Amount"`
	LinkedTxn []linkedTxn `json:"LinkedTxn"`
}

type linkedTxn struct {
	TxnID   string `json:"TxnId"`
	TxnType string `json:"TxnType"`
}

// CreateInvoicePayment records a payment into the given deposit account
// and returns its id. Not idempotent.
func (c *Client) CreateInvoicePayment(ctx context.Context, params CreateInvoicePaymentParams) (string, error) {
	rate := params.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	req := paymentRequest{
		TotalAmt:            params.Amount.InexactFloat64(),
		CustomerRef:         ref{Value: params.CustomerID},
		TxnDate:             params.Date.Format(dateFormat),
		DepositToAccountRef: ref{Value: params.DepositAccountID},
		PrivateNote:         params.PrivateNote,
		CurrencyRef:         ref{Value: params.Currency},
		ExchangeRate:        rate.InexactFloat64(),
	}
	if params.InvoiceID != "" {
		req.Line = []paymentLine{{
			Amount:    params.Amount.InexactFloat64(),
			LinkedTxn: []linkedTxn{{TxnID: params.InvoiceID, TxnType: "Invoice"}},
		}}
	}

	var payment txnResult
	if err := c.create(ctx, "payment", "Payment", req, &payment); err != nil {
		return "", err
	}
	c.log.Info().Str("id", payment.ID).Msg("payment created")
	return payment.ID, nil
}

// CreateExpenseParams holds everything needed to record a check-type
// expense: the bank account it was paid from, the vendor it was paid
// to, and the expense account it books against.
type CreateExpenseParams struct {
	Amount           decimal.Decimal
	Date             time.Time
	BankAccountID    string
	VendorID         string
	ExpenseAccountID string
	PrivateNote      string
	Description      string
}

type purchaseRequest struct {
	TotalAmt    float64        `json:"TotalAmt"`
	AccountRef  ref            `json:"AccountRef"`
	PaymentType string         `json:"PaymentType"`
	Line        []purchaseLine `json:"Line"`
	EntityRef   ref            `json:"EntityRef"`
	TxnDate     string         `json:"TxnDate"`
	PrivateNote string         `json:"PrivateNote,omitempty"`
}

type purchaseLine struct {
	Amount                        float64           `json:"Amount"`
	DetailType                    string            `json:"DetailType"`
	AccountBasedExpenseLineDetail expenseLineDetail `json:"AccountBasedExpenseLineDetail"`
	Description                   string            `json:"Description,omitempty"`
}

type expenseLineDetail struct {
	AccountRef ref `json:"AccountRef"`
}

// CreateExpense records a purchase with a single expense line and
// returns its id. Not idempotent.
func (c *Client) CreateExpense(ctx context.Context, params CreateExpenseParams) (string, error) {
	req := purchaseRequest{
		TotalAmt:    params.Amount.InexactFloat64(),
		AccountRef:  ref{Value: params.BankAccountID},
		PaymentType: "Check",
		Line: []purchaseLine{{
			Amount:     params.Amount.InexactFloat64(),
			DetailType: DetailTypeExpense,
			AccountBasedExpenseLineDetail: expenseLineDetail{
				AccountRef: ref{Value: params.ExpenseAccountID},
			},
			Description: params.Description,
		}},
		EntityRef:   ref{Value: params.VendorID},
		TxnDate:     params.Date.Format(dateFormat),
		PrivateNote: params.PrivateNote,
	}

	var purchase txnResult
	if err := c.create(ctx, "purchase", "Purchase", req, &purchase); err != nil {
		return "", err
	}
	c.log.Info().Str("id", purchase.ID).Msg("expense created")
	return purchase.ID, nil
}

// CreateTransferParams holds everything needed to record a transfer
// between two accounts.
type CreateTransferParams struct {
	Amount        decimal.Decimal
	Date          time.Time
	FromAccountID string
	ToAccountID   string
	PrivateNote   string
}

type transferRequest struct {
	Amount         float64 `json:"Amount"`
	FromAccountRef ref     `json:"FromAccountRef"`
	ToAccountRef   ref     `json:"ToAccountRef"`
	TxnDate        string  `json:"TxnDate"`
	PrivateNote    string  `json:"PrivateNote,omitempty"`
}

// CreateTransfer records a fund transfer and returns its id. Not
// idempotent.
func (c *Client) CreateTransfer(ctx context.Context, params CreateTransferParams) (string, error) {
	req := transferRequest{
		Amount:         params.Amount.InexactFloat64(),
		FromAccountRef: ref{Value: params.FromAccountID},
		ToAccountRef:   ref{Value: params.ToAccountID},
		TxnDate:        params.Date.Format(dateFormat),
		PrivateNote:    params.PrivateNote,
	}

	var transfer txnResult
	if err := c.create(ctx, "transfer", "Transfer", req, &transfer); err != nil {
		return "", err
	}
	c.log.Info().Str("id", transfer.ID).Msg("transfer created")
	return transfer.ID, nil
}
