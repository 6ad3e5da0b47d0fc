package returns

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

// ReturnStatus represents the status of a return case
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "PENDING"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusInTransit ReturnStatus = "IN_TRANSIT"
	ReturnStatusReceived  ReturnStatus = "RECEIVED"
	ReturnStatusInspected ReturnStatus = "INSPECTED"
	ReturnStatusCompleted ReturnStatus = "COMPLETED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
)

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusInTransit,
		ReturnStatusReceived, ReturnStatusInspected, ReturnStatusCompleted,
		ReturnStatusRejected:
		return true
	}
	return false
}

// String returns the string representation
func (s ReturnStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if a transition to the target status is
// allowed. Stages are strictly sequential; only the transit leg is
// optional. REJECTED is reachable from PENDING only.
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	transitions := map[ReturnStatus][]ReturnStatus{
		ReturnStatusPending:   {ReturnStatusApproved, ReturnStatusRejected},
		ReturnStatusApproved:  {ReturnStatusInTransit, ReturnStatusReceived},
		ReturnStatusInTransit: {ReturnStatusReceived},
		ReturnStatusReceived:  {ReturnStatusInspected},
		ReturnStatusInspected: {ReturnStatusCompleted},
		ReturnStatusCompleted: {},
		ReturnStatusRejected:  {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusCompleted || s == ReturnStatusRejected
}

// ReturnType distinguishes full-order returns from partial ones
type ReturnType string

const (
	ReturnTypeFull    ReturnType = "FULL"
	ReturnTypePartial ReturnType = "PARTIAL"
)

// IsValid checks if the type is a valid ReturnType
func (t ReturnType) IsValid() bool {
	return t == ReturnTypeFull || t == ReturnTypePartial
}

// ProductCondition is the assessed condition of a returned item
type ProductCondition string

const (
	ConditionUnknown      ProductCondition = "UNKNOWN"
	ConditionPerfect      ProductCondition = "PERFECT"
	ConditionGood         ProductCondition = "GOOD"
	ConditionDamaged      ProductCondition = "DAMAGED"
	ConditionDefective    ProductCondition = "DEFECTIVE"
	ConditionMissingParts ProductCondition = "MISSING_PARTS"
)

// IsValid checks if the condition is a valid ProductCondition
func (c ProductCondition) IsValid() bool {
	switch c {
	case ConditionUnknown, ConditionPerfect, ConditionGood,
		ConditionDamaged, ConditionDefective, ConditionMissingParts:
		return true
	}
	return false
}

// AllowsRestock returns true for conditions in which an item can go
// back on the shelf
func (c ProductCondition) AllowsRestock() bool {
	return c == ConditionPerfect || c == ConditionGood
}

// RefundStatus tracks the refund leg of a return case
type RefundStatus string

const (
	RefundStatusPending    RefundStatus = "PENDING"
	RefundStatusProcessing RefundStatus = "PROCESSING"
	RefundStatusCompleted  RefundStatus = "COMPLETED"
	RefundStatusFailed     RefundStatus = "FAILED"
	RefundStatusCancelled  RefundStatus = "CANCELLED"
)

// ReturnLine is a line item on a return case. The unit price is a
// snapshot from the originating order.
type ReturnLine struct {
	ID               uuid.UUID
	ReturnCaseID     uuid.UUID
	ProductID        uuid.UUID
	ProductCode      string
	ProductName      string
	UnitPrice        decimal.Decimal
	QuantityReturned decimal.Decimal
	QuantityAccepted decimal.Decimal
	QuantityRejected decimal.Decimal
	Condition        ProductCondition
	Restocked        bool
	InspectionNotes  string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewReturnLine creates a new return line
func NewReturnLine(
	returnCaseID, productID uuid.UUID,
	productCode, productName string,
	quantityReturned decimal.Decimal,
	unitPrice valueobject.Money,
) (*ReturnLine, error) {
	if productCode == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product code cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if !quantityReturned.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Returned quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}

	now := time.Now()
	return &ReturnLine{
		ID:               uuid.New(),
		ReturnCaseID:     returnCaseID,
		ProductID:        productID,
		ProductCode:      productCode,
		ProductName:      productName,
		UnitPrice:        unitPrice.Amount(),
		QuantityReturned: quantityReturned,
		QuantityAccepted: decimal.Zero,
		QuantityRejected: decimal.Zero,
		Condition:        ConditionUnknown,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// recordInspection applies an inspection result to the line.
// Accepted plus rejected must equal the returned quantity exactly.
func (l *ReturnLine) recordInspection(accepted, rejected decimal.Decimal, condition ProductCondition, notes string) error {
	if accepted.IsNegative() || rejected.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Inspected quantities cannot be negative")
	}
	if !accepted.Add(rejected).Equal(l.QuantityReturned) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Accepted (%s) plus rejected (%s) must equal returned quantity (%s) for product %s",
				accepted, rejected, l.QuantityReturned, l.ProductCode))
	}
	if !condition.IsValid() || condition == ConditionUnknown {
		return shared.NewDomainError("VALIDATION_ERROR", "A concrete product condition is required at inspection")
	}

	l.QuantityAccepted = accepted
	l.QuantityRejected = rejected
	l.Condition = condition
	l.InspectionNotes = notes
	l.UpdatedAt = time.Now()

	return nil
}

// AcceptedAmount returns accepted quantity times unit price
func (l *ReturnLine) AcceptedAmount() decimal.Decimal {
	return l.QuantityAccepted.Mul(l.UnitPrice)
}

// RestockEligible reports whether this line can go back to stock given
// the case reason's restock policy
func (l *ReturnLine) RestockEligible(reasonAllowsRestock bool) bool {
	return reasonAllowsRestock && l.Condition.AllowsRestock() && l.QuantityAccepted.IsPositive()
}

// LineInspection carries one line's inspection result into Inspect
type LineInspection struct {
	LineID           uuid.UUID
	QuantityAccepted decimal.Decimal
	QuantityRejected decimal.Decimal
	Condition        ProductCondition
	Notes            string
}

// ReturnCase is the aggregate root for an order-level product return.
// It runs a strictly sequential workflow from PENDING through
// inspection to COMPLETED, or straight to REJECTED while still
// PENDING. The refund amount is a draft computed at inspection and
// only becomes final when the refund is processed.
type ReturnCase struct {
	shared.BaseAggregateRoot
	ReturnNumber        string
	OrderNumber         string
	CustomerID          uuid.UUID
	CustomerCode        string
	CustomerName        string
	Type                ReturnType
	Status              ReturnStatus
	ReasonCode          string
	ReasonAllowsRestock bool // policy snapshot from the reason catalog
	Lines               []ReturnLine
	CustomerComments    string
	Notes               string

	ApprovedAt *time.Time
	ApprovedBy string

	RejectedAt   *time.Time
	RejectReason string

	InTransitAt    *time.Time
	Carrier        string
	TrackingNumber string

	ReceivedAt *time.Time
	ReceivedBy string

	InspectedAt *time.Time
	InspectedBy string

	CompletedAt *time.Time

	RefundAmount    decimal.Decimal
	RefundStatus    RefundStatus
	RefundMethod    string
	RefundReference string
	RefundDate      *time.Time
}

// NewReturnCase creates a new return case in PENDING status
func NewReturnCase(
	returnNumber, orderNumber string,
	customer *partner.Customer,
	reason *ReturnReason,
	returnType ReturnType,
	customerComments string,
) (*ReturnCase, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return number cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if customer == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer cannot be nil")
	}
	if reason == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return reason cannot be nil")
	}
	if !reason.Active {
		return nil, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Return reason %s is no longer available", reason.Code))
	}
	if !returnType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return type must be FULL or PARTIAL")
	}

	rc := &ReturnCase{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		ReturnNumber:        returnNumber,
		OrderNumber:         orderNumber,
		CustomerID:          customer.ID,
		CustomerCode:        customer.Code,
		CustomerName:        customer.DisplayName(),
		Type:                returnType,
		Status:              ReturnStatusPending,
		ReasonCode:          reason.Code,
		ReasonAllowsRestock: reason.AllowsRestock,
		Lines:               make([]ReturnLine, 0),
		CustomerComments:    customerComments,
		RefundAmount:        decimal.Zero,
		RefundStatus:        RefundStatusPending,
	}

	rc.AddDomainEvent(NewReturnCreatedEvent(rc))

	return rc, nil
}

// AddLine adds a line item. Only allowed while PENDING.
func (r *ReturnCase) AddLine(
	productID uuid.UUID,
	productCode, productName string,
	quantityReturned decimal.Decimal,
	unitPrice valueobject.Money,
) (*ReturnLine, error) {
	if r.Status != ReturnStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add lines to a %s return", r.Status))
	}

	line, err := NewReturnLine(r.ID, productID, productCode, productName, quantityReturned, unitPrice)
	if err != nil {
		return nil, err
	}

	r.Lines = append(r.Lines, *line)
	r.UpdatedAt = time.Now()

	return &r.Lines[len(r.Lines)-1], nil
}

// Approve moves the case from PENDING to APPROVED
func (r *ReturnCase) Approve(approvedBy, notes string) error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve return %s in %s status", r.ReturnNumber, r.Status))
	}
	if approvedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Approved by cannot be empty")
	}
	if len(r.Lines) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot approve a return without lines")
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedAt = &now
	r.ApprovedBy = approvedBy
	if notes != "" {
		r.appendNotes(notes)
	}
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnApprovedEvent(r))

	return nil
}

// Reject moves the case from PENDING to REJECTED. Terminal.
func (r *ReturnCase) Reject(reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject return %s in %s status", r.ReturnNumber, r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	r.Status = ReturnStatusRejected
	r.RejectedAt = &now
	r.RejectReason = reason
	r.RefundStatus = RefundStatusCancelled
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnRejectedEvent(r))

	return nil
}

// MarkInTransit records carrier handoff. Optional leg between
// APPROVED and RECEIVED.
func (r *ReturnCase) MarkInTransit(carrier, trackingNumber string) error {
	if !r.Status.CanTransitionTo(ReturnStatusInTransit) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot mark return %s in transit in %s status", r.ReturnNumber, r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusInTransit
	r.InTransitAt = &now
	r.Carrier = carrier
	r.TrackingNumber = trackingNumber
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnInTransitEvent(r))

	return nil
}

// MarkReceived records physical custody transfer at the warehouse
func (r *ReturnCase) MarkReceived(receivedBy string) error {
	if !r.Status.CanTransitionTo(ReturnStatusReceived) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot receive return %s in %s status", r.ReturnNumber, r.Status))
	}
	if receivedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Received by cannot be empty")
	}

	now := time.Now()
	r.Status = ReturnStatusReceived
	r.ReceivedAt = &now
	r.ReceivedBy = receivedBy
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnReceivedEvent(r))

	return nil
}

// Inspect applies inspection results to every line and computes the
// draft refund amount. Every line must be covered and each line's
// accepted plus rejected quantity must equal its returned quantity.
// Any validation failure leaves the case in RECEIVED untouched.
func (r *ReturnCase) Inspect(inspections []LineInspection, inspectedBy string) error {
	if !r.Status.CanTransitionTo(ReturnStatusInspected) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot inspect return %s in %s status", r.ReturnNumber, r.Status))
	}
	if inspectedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Inspected by cannot be empty")
	}
	if len(inspections) != len(r.Lines) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Inspection must cover all %d lines, got %d", len(r.Lines), len(inspections)))
	}

	byLine := make(map[uuid.UUID]LineInspection, len(inspections))
	for _, insp := range inspections {
		if _, dup := byLine[insp.LineID]; dup {
			return shared.NewDomainError("VALIDATION_ERROR", "Duplicate inspection entry for the same line")
		}
		byLine[insp.LineID] = insp
	}

	// Validate everything against copies before mutating the case
	inspected := make([]ReturnLine, len(r.Lines))
	for i := range r.Lines {
		line := r.Lines[i]
		insp, ok := byLine[line.ID]
		if !ok {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Missing inspection entry for product %s", line.ProductCode))
		}
		if err := line.recordInspection(insp.QuantityAccepted, insp.QuantityRejected, insp.Condition, insp.Notes); err != nil {
			return err
		}
		inspected[i] = line
	}

	now := time.Now()
	r.Lines = inspected
	r.Status = ReturnStatusInspected
	r.InspectedAt = &now
	r.InspectedBy = inspectedBy
	r.RefundAmount = r.computeRefundDraft()
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReturnInspectedEvent(r))

	return nil
}

// computeRefundDraft sums accepted quantity times unit price over all lines
func (r *ReturnCase) computeRefundDraft() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].AcceptedAmount())
	}
	return total
}

// Restock marks eligible lines as restocked and completes the case.
// A line is eligible when the reason's policy allows restocking, its
// condition is PERFECT or GOOD and it has accepted quantity. The
// actual inventory adjustment is carried by the emitted event.
func (r *ReturnCase) Restock() error {
	if !r.Status.CanTransitionTo(ReturnStatusCompleted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot restock return %s in %s status", r.ReturnNumber, r.Status))
	}

	restocked := make([]ReturnLine, 0, len(r.Lines))
	for i := range r.Lines {
		if r.Lines[i].RestockEligible(r.ReasonAllowsRestock) {
			r.Lines[i].Restocked = true
			r.Lines[i].UpdatedAt = time.Now()
			restocked = append(restocked, r.Lines[i])
		}
	}

	now := time.Now()
	r.Status = ReturnStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	if len(restocked) > 0 {
		r.AddDomainEvent(NewReturnRestockedEvent(r, restocked))
	}
	r.AddDomainEvent(NewReturnCompletedEvent(r))

	return nil
}

// ProcessRefund records the refund payout. Callable from INSPECTED
// (refund-only path) or from COMPLETED after a restock. The amount
// must not exceed the draft computed at inspection.
func (r *ReturnCase) ProcessRefund(method string, amount decimal.Decimal, reference string) error {
	if r.Status != ReturnStatusInspected && r.Status != ReturnStatusCompleted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot process refund for return %s in %s status", r.ReturnNumber, r.Status))
	}
	if r.RefundStatus == RefundStatusCompleted {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Refund for return %s has already been processed", r.ReturnNumber))
	}
	if method == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Refund method cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Refund amount cannot be negative")
	}
	if amount.GreaterThan(r.RefundAmount) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("Refund amount %s exceeds the inspected draft %s", amount, r.RefundAmount))
	}

	now := time.Now()
	r.RefundAmount = amount
	r.RefundStatus = RefundStatusCompleted
	r.RefundMethod = method
	r.RefundReference = reference
	r.RefundDate = &now
	if r.Status == ReturnStatusInspected {
		r.Status = ReturnStatusCompleted
		r.CompletedAt = &now
		r.AddDomainEvent(NewReturnCompletedEvent(r))
	}
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRefundProcessedEvent(r))

	return nil
}

// appendNotes appends to existing notes, separated by a newline
func (r *ReturnCase) appendNotes(notes string) {
	if r.Notes == "" {
		r.Notes = notes
		return
	}
	r.Notes = r.Notes + "\n" + notes
}

// GetLine returns the line with the given ID, or nil
func (r *ReturnCase) GetLine(lineID uuid.UUID) *ReturnLine {
	for i := range r.Lines {
		if r.Lines[i].ID == lineID {
			return &r.Lines[i]
		}
	}
	return nil
}

// TotalReturned returns the sum of returned quantities
func (r *ReturnCase) TotalReturned() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].QuantityReturned)
	}
	return total
}

// TotalAccepted returns the sum of accepted quantities
func (r *ReturnCase) TotalAccepted() decimal.Decimal {
	total := decimal.Zero
	for i := range r.Lines {
		total = total.Add(r.Lines[i].QuantityAccepted)
	}
	return total
}

// GetRefundAmountMoney returns the refund amount as Money
func (r *ReturnCase) GetRefundAmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(r.RefundAmount)
}

// IsPending returns true if the case is awaiting approval
func (r *ReturnCase) IsPending() bool {
	return r.Status == ReturnStatusPending
}

// IsCompleted returns true if the case reached COMPLETED
func (r *ReturnCase) IsCompleted() bool {
	return r.Status == ReturnStatusCompleted
}
