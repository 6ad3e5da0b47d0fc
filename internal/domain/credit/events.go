package credit

import (
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCreditTransaction = "CreditTransaction"

// Event type constants
const (
	EventTypeTransactionCreated   = "CreditTransactionCreated"
	EventTypeTransactionConfirmed = "CreditTransactionConfirmed"
	EventTypeTransactionCancelled = "CreditTransactionCancelled"
	EventTypeTransactionInvoiced  = "CreditTransactionInvoiced"
	EventTypeTransactionReversed  = "CreditTransactionReversed"
)

// TransactionCreatedEvent is published when a transaction is created
type TransactionCreatedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	CustomerCode      string          `json:"customer_code"`
	Type              TransactionType `json:"transaction_type"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PerformedBy       string          `json:"performed_by"`
}

// NewTransactionCreatedEvent creates a new TransactionCreatedEvent
func NewTransactionCreatedEvent(tx *CreditTransaction) *TransactionCreatedEvent {
	return &TransactionCreatedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCreated, AggregateTypeCreditTransaction, tx.ID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		CustomerID:        tx.CustomerID,
		CustomerCode:      tx.CustomerCode,
		Type:              tx.Type,
		TotalAmount:       tx.TotalAmount,
		PerformedBy:       tx.PerformedBy,
	}
}

// TransactionConfirmedEvent is published when a transaction is confirmed
type TransactionConfirmedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	Type              TransactionType `json:"transaction_type"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	ConfirmedBy       string          `json:"confirmed_by"`
}

// NewTransactionConfirmedEvent creates a new TransactionConfirmedEvent
func NewTransactionConfirmedEvent(tx *CreditTransaction) *TransactionConfirmedEvent {
	return &TransactionConfirmedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionConfirmed, AggregateTypeCreditTransaction, tx.ID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		CustomerID:        tx.CustomerID,
		Type:              tx.Type,
		TotalAmount:       tx.TotalAmount,
		ConfirmedBy:       tx.ConfirmedBy,
	}
}

// TransactionCancelledEvent is published when a pending transaction is cancelled
type TransactionCancelledEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionNumber string    `json:"transaction_number"`
	CustomerID        uuid.UUID `json:"customer_id"`
	Reason            string    `json:"reason"`
}

// NewTransactionCancelledEvent creates a new TransactionCancelledEvent
func NewTransactionCancelledEvent(tx *CreditTransaction) *TransactionCancelledEvent {
	return &TransactionCancelledEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionCancelled, AggregateTypeCreditTransaction, tx.ID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		CustomerID:        tx.CustomerID,
		Reason:            tx.CancelReason,
	}
}

// TransactionInvoicedEvent is published when a confirmed transaction is
// included in a billing cycle
type TransactionInvoicedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID `json:"transaction_id"`
	TransactionNumber string    `json:"transaction_number"`
	CustomerID        uuid.UUID `json:"customer_id"`
	InvoiceNumber     string    `json:"invoice_number"`
}

// NewTransactionInvoicedEvent creates a new TransactionInvoicedEvent
func NewTransactionInvoicedEvent(tx *CreditTransaction) *TransactionInvoicedEvent {
	return &TransactionInvoicedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionInvoiced, AggregateTypeCreditTransaction, tx.ID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		CustomerID:        tx.CustomerID,
		InvoiceNumber:     tx.InvoiceNumber,
	}
}

// TransactionReversedEvent is published when an admin reverses a
// confirmed transaction
type TransactionReversedEvent struct {
	shared.BaseDomainEvent
	TransactionID     uuid.UUID       `json:"transaction_id"`
	TransactionNumber string          `json:"transaction_number"`
	CustomerID        uuid.UUID       `json:"customer_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Reason            string          `json:"reason"`
	PerformedBy       string          `json:"performed_by"`
}

// NewTransactionReversedEvent creates a new TransactionReversedEvent
func NewTransactionReversedEvent(tx *CreditTransaction, performedBy string) *TransactionReversedEvent {
	return &TransactionReversedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransactionReversed, AggregateTypeCreditTransaction, tx.ID),
		TransactionID:     tx.ID,
		TransactionNumber: tx.TransactionNumber,
		CustomerID:        tx.CustomerID,
		TotalAmount:       tx.TotalAmount,
		Reason:            tx.ReversalReason,
		PerformedBy:       performedBy,
	}
}
