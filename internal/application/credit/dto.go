package credit

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/credit"
)

// TransactionLineRequest represents one line on a create request.
// The unit price is resolved from the product catalog server side;
// clients send only product code and quantity.
type TransactionLineRequest struct {
	ProductCode string          `json:"product_code" binding:"required,min=1,max=50"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Notes       string          `json:"notes"`
}

// CreateTransactionRequest represents a request to create a transaction
type CreateTransactionRequest struct {
	CustomerID      uuid.UUID                `json:"customer_id" binding:"required"`
	Type            string                   `json:"type" binding:"required,oneof=PICKUP RETURN"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	PerformedBy     string                   `json:"performed_by" binding:"required,min=1,max=200"`
	PerformedByRole string                   `json:"performed_by_role" binding:"required,oneof=CUSTOMER EMPLOYEE ADMINISTRATOR"`
	Notes           string                   `json:"notes"`
}

// CreateQuickPickupRequest creates a PICKUP by customer code instead of
// ID. This is the counter flow: staff types the customer's card code.
type CreateQuickPickupRequest struct {
	CustomerCode    string                   `json:"customer_code" binding:"required,min=1,max=50"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	PerformedBy     string                   `json:"performed_by" binding:"required,min=1,max=200"`
	PerformedByRole string                   `json:"performed_by_role" binding:"required,oneof=CUSTOMER EMPLOYEE ADMINISTRATOR"`
	Notes           string                   `json:"notes"`
}

// CreateReturnFromPickupRequest creates an independent RETURN that
// references an existing confirmed PICKUP by number
type CreateReturnFromPickupRequest struct {
	PickupNumber    string                   `json:"pickup_number" binding:"required"`
	Lines           []TransactionLineRequest `json:"lines" binding:"required,min=1,dive"`
	PerformedBy     string                   `json:"performed_by" binding:"required,min=1,max=200"`
	PerformedByRole string                   `json:"performed_by_role" binding:"required,oneof=CUSTOMER EMPLOYEE ADMINISTRATOR"`
	Notes           string                   `json:"notes"`
}

// ConfirmTransactionRequest represents a confirmation with signature
type ConfirmTransactionRequest struct {
	ConfirmedBy   string `json:"confirmed_by" binding:"required,min=1,max=200"`
	SignatureData string `json:"signature_data" binding:"required"`
	PhotoData     string `json:"photo_data"`
	Notes         string `json:"notes"`
}

// CancelTransactionRequest represents a cancellation
type CancelTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// MarkInvoicedRequest links a confirmed transaction to an invoice
type MarkInvoicedRequest struct {
	InvoiceNumber string `json:"invoice_number" binding:"required,min=1,max=50"`
}

// ReverseTransactionRequest represents an admin correction
type ReverseTransactionRequest struct {
	Reason      string `json:"reason" binding:"required,min=1,max=500"`
	PerformedBy string `json:"performed_by" binding:"required,min=1,max=200"`
}

// TransactionLineResponse represents a line in API responses
type TransactionLineResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	Notes       string          `json:"notes,omitempty"`
}

// OverLimitWarning is attached to create responses when the projected
// balance would exceed the customer's credit limit. Advisory only; the
// transaction is still created as PENDING.
type OverLimitWarning struct {
	ProjectedBalance decimal.Decimal `json:"projected_balance"`
	CreditLimit      decimal.Decimal `json:"credit_limit"`
	Excess           decimal.Decimal `json:"excess"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                       uuid.UUID                 `json:"id"`
	TransactionNumber        string                    `json:"transaction_number"`
	CustomerID               uuid.UUID                 `json:"customer_id"`
	CustomerCode             string                    `json:"customer_code"`
	CustomerName             string                    `json:"customer_name"`
	Type                     string                    `json:"type"`
	Status                   string                    `json:"status"`
	Lines                    []TransactionLineResponse `json:"lines"`
	TotalAmount              decimal.Decimal           `json:"total_amount"`
	TotalItems               decimal.Decimal           `json:"total_items"`
	PerformedBy              string                    `json:"performed_by"`
	PerformedByRole          string                    `json:"performed_by_role"`
	ConfirmedAt              *time.Time                `json:"confirmed_at,omitempty"`
	ConfirmedBy              string                    `json:"confirmed_by,omitempty"`
	CancelledAt              *time.Time                `json:"cancelled_at,omitempty"`
	CancelReason             string                    `json:"cancel_reason,omitempty"`
	InvoicedAt               *time.Time                `json:"invoiced_at,omitempty"`
	InvoiceNumber            string                    `json:"invoice_number,omitempty"`
	Reversed                 bool                      `json:"reversed,omitempty"`
	ReversedAt               *time.Time                `json:"reversed_at,omitempty"`
	ReversalReason           string                    `json:"reversal_reason,omitempty"`
	RelatedTransactionNumber string                    `json:"related_transaction_number,omitempty"`
	Notes                    string                    `json:"notes,omitempty"`
	OverLimitWarning         *OverLimitWarning         `json:"over_limit_warning,omitempty"`
	CreatedAt                time.Time                 `json:"created_at"`
	UpdatedAt                time.Time                 `json:"updated_at"`
	Version                  int                       `json:"version"`
}

// TransactionListResponse represents a list item for transactions
type TransactionListResponse struct {
	ID                uuid.UUID       `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	CustomerCode      string          `json:"customer_code"`
	CustomerName      string          `json:"customer_name"`
	Type              string          `json:"type"`
	Status            string          `json:"status"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalItems        decimal.Decimal `json:"total_items"`
	PerformedBy       string          `json:"performed_by"`
	CreatedAt         time.Time       `json:"created_at"`
}

// TransactionListFilter represents filter options for transaction list
type TransactionListFilter struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=PICKUP RETURN"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED INVOICED CANCELLED"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StatementResponse is a customer's monthly statement
type StatementResponse struct {
	CustomerID     uuid.UUID                 `json:"customer_id"`
	CustomerCode   string                    `json:"customer_code"`
	CustomerName   string                    `json:"customer_name"`
	Year           int                       `json:"year"`
	Month          int                       `json:"month"`
	Transactions   []TransactionListResponse `json:"transactions"`
	TotalPickups   decimal.Decimal           `json:"total_pickups"`
	TotalReturns   decimal.Decimal           `json:"total_returns"`
	NetChange      decimal.Decimal           `json:"net_change"`
	ClosingBalance decimal.Decimal           `json:"closing_balance"`
}

// ToTransactionResponse converts a domain transaction to a response DTO
func ToTransactionResponse(tx *credit.CreditTransaction) TransactionResponse {
	lines := make([]TransactionLineResponse, 0, len(tx.Lines))
	for i := range tx.Lines {
		l := &tx.Lines[i]
		lines = append(lines, TransactionLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductCode: l.ProductCode,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
			Notes:       l.Notes,
		})
	}

	return TransactionResponse{
		ID:                       tx.ID,
		TransactionNumber:        tx.TransactionNumber,
		CustomerID:               tx.CustomerID,
		CustomerCode:             tx.CustomerCode,
		CustomerName:             tx.CustomerName,
		Type:                     string(tx.Type),
		Status:                   string(tx.Status),
		Lines:                    lines,
		TotalAmount:              tx.TotalAmount,
		TotalItems:               tx.TotalItems,
		PerformedBy:              tx.PerformedBy,
		PerformedByRole:          string(tx.PerformedByRole),
		ConfirmedAt:              tx.ConfirmedAt,
		ConfirmedBy:              tx.ConfirmedBy,
		CancelledAt:              tx.CancelledAt,
		CancelReason:             tx.CancelReason,
		InvoicedAt:               tx.InvoicedAt,
		InvoiceNumber:            tx.InvoiceNumber,
		Reversed:                 tx.Reversed,
		ReversedAt:               tx.ReversedAt,
		ReversalReason:           tx.ReversalReason,
		RelatedTransactionNumber: tx.RelatedTransactionNumber,
		Notes:                    tx.Notes,
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
		Version:                  tx.Version,
	}
}

// ToTransactionListResponses converts domain transactions to list DTOs
func ToTransactionListResponses(transactions []credit.CreditTransaction) []TransactionListResponse {
	responses := make([]TransactionListResponse, 0, len(transactions))
	for i := range transactions {
		tx := &transactions[i]
		responses = append(responses, TransactionListResponse{
			ID:                tx.ID,
			TransactionNumber: tx.TransactionNumber,
			CustomerCode:      tx.CustomerCode,
			CustomerName:      tx.CustomerName,
			Type:              string(tx.Type),
			Status:            string(tx.Status),
			TotalAmount:       tx.TotalAmount,
			TotalItems:        tx.TotalItems,
			PerformedBy:       tx.PerformedBy,
			CreatedAt:         tx.CreatedAt,
		})
	}
	return responses
}
