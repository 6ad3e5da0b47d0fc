package returns

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeReturnCase = "ReturnCase"

// Event type constants
const (
	EventTypeReturnCreated   = "ReturnCaseCreated"
	EventTypeReturnApproved  = "ReturnCaseApproved"
	EventTypeReturnRejected  = "ReturnCaseRejected"
	EventTypeReturnInTransit = "ReturnCaseInTransit"
	EventTypeReturnReceived  = "ReturnCaseReceived"
	EventTypeReturnInspected = "ReturnCaseInspected"
	EventTypeReturnRestocked = "ReturnCaseRestocked"
	EventTypeReturnCompleted = "ReturnCaseCompleted"
	EventTypeRefundProcessed = "ReturnRefundProcessed"
)

// ReturnCreatedEvent is published when a new return case is opened
type ReturnCreatedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	OrderNumber  string    `json:"order_number"`
	CustomerID   uuid.UUID `json:"customer_id"`
	ReasonCode   string    `json:"reason_code"`
}

// NewReturnCreatedEvent creates a new ReturnCreatedEvent
func NewReturnCreatedEvent(rc *ReturnCase) *ReturnCreatedEvent {
	return &ReturnCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCreated, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		OrderNumber:     rc.OrderNumber,
		CustomerID:      rc.CustomerID,
		ReasonCode:      rc.ReasonCode,
	}
}

// ReturnApprovedEvent is published when a return case is approved
type ReturnApprovedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	ApprovedBy   string    `json:"approved_by"`
}

// NewReturnApprovedEvent creates a new ReturnApprovedEvent
func NewReturnApprovedEvent(rc *ReturnCase) *ReturnApprovedEvent {
	return &ReturnApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnApproved, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		ApprovedBy:      rc.ApprovedBy,
	}
}

// ReturnRejectedEvent is published when a return case is rejected
type ReturnRejectedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	RejectReason string    `json:"reject_reason"`
}

// NewReturnRejectedEvent creates a new ReturnRejectedEvent
func NewReturnRejectedEvent(rc *ReturnCase) *ReturnRejectedEvent {
	return &ReturnRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRejected, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		RejectReason:    rc.RejectReason,
	}
}

// ReturnInTransitEvent is published when a return is handed to a carrier
type ReturnInTransitEvent struct {
	shared.BaseDomainEvent
	ReturnID       uuid.UUID `json:"return_id"`
	ReturnNumber   string    `json:"return_number"`
	Carrier        string    `json:"carrier,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
}

// NewReturnInTransitEvent creates a new ReturnInTransitEvent
func NewReturnInTransitEvent(rc *ReturnCase) *ReturnInTransitEvent {
	return &ReturnInTransitEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnInTransit, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		Carrier:         rc.Carrier,
		TrackingNumber:  rc.TrackingNumber,
	}
}

// ReturnReceivedEvent is published when goods arrive at the warehouse
type ReturnReceivedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
	ReceivedBy   string    `json:"received_by"`
}

// NewReturnReceivedEvent creates a new ReturnReceivedEvent
func NewReturnReceivedEvent(rc *ReturnCase) *ReturnReceivedEvent {
	return &ReturnReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnReceived, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		ReceivedBy:      rc.ReceivedBy,
	}
}

// ReturnInspectedEvent is published after inspection with the draft refund
type ReturnInspectedEvent struct {
	shared.BaseDomainEvent
	ReturnID      uuid.UUID       `json:"return_id"`
	ReturnNumber  string          `json:"return_number"`
	InspectedBy   string          `json:"inspected_by"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	TotalAccepted decimal.Decimal `json:"total_accepted"`
}

// NewReturnInspectedEvent creates a new ReturnInspectedEvent
func NewReturnInspectedEvent(rc *ReturnCase) *ReturnInspectedEvent {
	return &ReturnInspectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnInspected, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		InspectedBy:     rc.InspectedBy,
		RefundAmount:    rc.RefundAmount,
		TotalAccepted:   rc.TotalAccepted(),
	}
}

// RestockedItem describes one restocked line for inventory consumers
type RestockedItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ReturnRestockedEvent carries the inventory adjustment for restocked
// lines. Inventory itself lives outside this system; consumers of the
// event apply the adjustment.
type ReturnRestockedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	Items        []RestockedItem `json:"items"`
}

// NewReturnRestockedEvent creates a new ReturnRestockedEvent
func NewReturnRestockedEvent(rc *ReturnCase, restocked []ReturnLine) *ReturnRestockedEvent {
	items := make([]RestockedItem, 0, len(restocked))
	for i := range restocked {
		items = append(items, RestockedItem{
			ProductID:   restocked[i].ProductID,
			ProductCode: restocked[i].ProductCode,
			Quantity:    restocked[i].QuantityAccepted,
		})
	}

	return &ReturnRestockedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRestocked, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		Items:           items,
	}
}

// ReturnCompletedEvent is published when a case reaches COMPLETED
type ReturnCompletedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID `json:"return_id"`
	ReturnNumber string    `json:"return_number"`
}

// NewReturnCompletedEvent creates a new ReturnCompletedEvent
func NewReturnCompletedEvent(rc *ReturnCase) *ReturnCompletedEvent {
	return &ReturnCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnCompleted, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
	}
}

// RefundProcessedEvent is published when the refund payout is recorded
type RefundProcessedEvent struct {
	shared.BaseDomainEvent
	ReturnID     uuid.UUID       `json:"return_id"`
	ReturnNumber string          `json:"return_number"`
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method"`
	Reference    string          `json:"reference,omitempty"`
}

// NewRefundProcessedEvent creates a new RefundProcessedEvent
func NewRefundProcessedEvent(rc *ReturnCase) *RefundProcessedEvent {
	return &RefundProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRefundProcessed, AggregateTypeReturnCase, rc.ID),
		ReturnID:        rc.ID,
		ReturnNumber:    rc.ReturnNumber,
		Amount:          rc.RefundAmount,
		Method:          rc.RefundMethod,
		Reference:       rc.RefundReference,
	}
}
