package credit

import (
	"fmt"
	"strconv"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a credit transaction
type TransactionType string

const (
	TransactionTypePickup TransactionType = "PICKUP" // Goods taken on credit, increases debt
	TransactionTypeReturn TransactionType = "RETURN" // Goods given back, decreases debt
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	return t == TransactionTypePickup || t == TransactionTypeReturn
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// TransactionStatus represents the lifecycle state of a credit transaction
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"   // Created, awaiting signature
	TransactionStatusConfirmed TransactionStatus = "CONFIRMED" // Signed, balance applied
	TransactionStatusInvoiced  TransactionStatus = "INVOICED"  // Included in a billing cycle
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusConfirmed,
		TransactionStatusInvoiced, TransactionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch s {
	case TransactionStatusPending:
		return target == TransactionStatusConfirmed || target == TransactionStatusCancelled
	case TransactionStatusConfirmed:
		return target == TransactionStatusInvoiced
	case TransactionStatusInvoiced, TransactionStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PerformedByRole identifies who initiated a transaction
type PerformedByRole string

const (
	RoleCustomer      PerformedByRole = "CUSTOMER" // Self-service
	RoleEmployee      PerformedByRole = "EMPLOYEE"
	RoleAdministrator PerformedByRole = "ADMINISTRATOR"
)

// IsValid checks if the role is a valid PerformedByRole
func (r PerformedByRole) IsValid() bool {
	switch r {
	case RoleCustomer, RoleEmployee, RoleAdministrator:
		return true
	}
	return false
}

// NewTransactionNumber generates a transaction number for the given type.
// Pickups are prefixed with "P", returns with "R", followed by a
// millisecond timestamp. Uniqueness is enforced by the store; a
// collision surfaces as DUPLICATE_ENTRY and is never retried silently.
func NewTransactionNumber(txType TransactionType, at time.Time) string {
	prefix := "R"
	if txType == TransactionTypePickup {
		prefix = "P"
	}
	return prefix + strconv.FormatInt(at.UnixMilli(), 10)
}

// TransactionLine is a line item on a credit transaction.
// The unit price is a snapshot taken at creation time.
type TransactionLine struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	ProductID     uuid.UUID
	ProductCode   string
	ProductName   string
	Quantity      decimal.Decimal
	UnitPrice     decimal.Decimal
	LineTotal     decimal.Decimal // Quantity * UnitPrice, never set directly
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransactionLine creates a new transaction line
func NewTransactionLine(
	transactionID, productID uuid.UUID,
	productCode, productName string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
) (*TransactionLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if productCode == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product code cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}

	now := time.Now()
	return &TransactionLine{
		ID:            uuid.New(),
		TransactionID: transactionID,
		ProductID:     productID,
		ProductCode:   productCode,
		ProductName:   productName,
		Quantity:      quantity,
		UnitPrice:     unitPrice.Amount(),
		LineTotal:     quantity.Mul(unitPrice.Amount()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateQuantity updates the quantity and recalculates the line total
func (l *TransactionLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	l.Quantity = quantity
	l.LineTotal = quantity.Mul(l.UnitPrice)
	l.UpdatedAt = time.Now()

	return nil
}

// SetNotes sets the line notes
func (l *TransactionLine) SetNotes(notes string) {
	l.Notes = notes
	l.UpdatedAt = time.Now()
}

// GetLineTotalMoney returns the line total as Money
func (l *TransactionLine) GetLineTotalMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(l.LineTotal)
}

// CreditTransaction records goods taken on credit or returned against
// credit. It is the aggregate root of the transaction lifecycle: created
// PENDING, confirmed with a signature (the point the customer balance is
// affected), cancelled with a reason, or later marked invoiced.
type CreditTransaction struct {
	shared.BaseAggregateRoot
	TransactionNumber string
	CustomerID        uuid.UUID
	CustomerCode      string // Snapshot for listings and statements
	CustomerName      string
	Type              TransactionType
	Status            TransactionStatus
	Lines             []TransactionLine
	TotalAmount       decimal.Decimal // Sum of line totals
	TotalItems        decimal.Decimal // Sum of line quantities
	PerformedBy       string
	PerformedByRole   PerformedByRole
	SignatureData     string
	PhotoData         string
	ConfirmedAt       *time.Time
	ConfirmedBy       string
	CancelledAt       *time.Time
	CancelReason      string
	InvoicedAt        *time.Time
	InvoiceNumber     string
	Reversed          bool
	ReversedAt        *time.Time
	ReversalReason    string
	// RelatedTransactionNumber points a quick return at the pickup it was
	// created from. Informational only, not a foreign key.
	RelatedTransactionNumber string
	Notes                    string
}

// NewCreditTransaction creates a new credit transaction in PENDING status
func NewCreditTransaction(
	transactionNumber string,
	customer *partner.Customer,
	txType TransactionType,
	performedBy string,
	performedByRole PerformedByRole,
) (*CreditTransaction, error) {
	if transactionNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transaction number cannot be empty")
	}
	if len(transactionNumber) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transaction number cannot exceed 50 characters")
	}
	if customer == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer cannot be nil")
	}
	if !customer.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot create transactions for an inactive customer")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Transaction type must be PICKUP or RETURN")
	}
	if performedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Performed by cannot be empty")
	}
	if !performedByRole.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Performed by role must be CUSTOMER, EMPLOYEE, or ADMINISTRATOR")
	}

	tx := &CreditTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TransactionNumber: transactionNumber,
		CustomerID:        customer.ID,
		CustomerCode:      customer.Code,
		CustomerName:      customer.DisplayName(),
		Type:              txType,
		Status:            TransactionStatusPending,
		Lines:             make([]TransactionLine, 0),
		TotalAmount:       decimal.Zero,
		TotalItems:        decimal.Zero,
		PerformedBy:       performedBy,
		PerformedByRole:   performedByRole,
	}

	tx.AddDomainEvent(NewTransactionCreatedEvent(tx))

	return tx, nil
}

// AddLine adds a line item. Only allowed while PENDING; line contents
// are immutable once the transaction is confirmed or cancelled.
func (t *CreditTransaction) AddLine(
	productID uuid.UUID,
	productCode, productName string,
	quantity decimal.Decimal,
	unitPrice valueobject.Money,
) (*TransactionLine, error) {
	if t.Status != TransactionStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot add lines to a %s transaction", t.Status))
	}

	line, err := NewTransactionLine(t.ID, productID, productCode, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	t.Lines = append(t.Lines, *line)
	t.recalculateTotals()
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return &t.Lines[len(t.Lines)-1], nil
}

// UpdateLineQuantity updates the quantity of an existing line.
// Only allowed while PENDING.
func (t *CreditTransaction) UpdateLineQuantity(lineID uuid.UUID, quantity decimal.Decimal) error {
	if t.Status != TransactionStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot update lines on a %s transaction", t.Status))
	}

	for idx := range t.Lines {
		if t.Lines[idx].ID == lineID {
			if err := t.Lines[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			t.recalculateTotals()
			t.UpdatedAt = time.Now()
			t.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Transaction line not found")
}

// RemoveLine removes a line item. Only allowed while PENDING.
func (t *CreditTransaction) RemoveLine(lineID uuid.UUID) error {
	if t.Status != TransactionStatusPending {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot remove lines from a %s transaction", t.Status))
	}

	for idx, line := range t.Lines {
		if line.ID == lineID {
			t.Lines = append(t.Lines[:idx], t.Lines[idx+1:]...)
			t.recalculateTotals()
			t.UpdatedAt = time.Now()
			t.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Transaction line not found")
}

// recalculateTotals recomputes TotalAmount and TotalItems from the lines
func (t *CreditTransaction) recalculateTotals() {
	amount := decimal.Zero
	items := decimal.Zero
	for _, line := range t.Lines {
		amount = amount.Add(line.LineTotal)
		items = items.Add(line.Quantity)
	}
	t.TotalAmount = amount
	t.TotalItems = items
}

// Confirm moves the transaction from PENDING to CONFIRMED.
// A signature and the confirmer's name are required; the photo is
// optional. The caller applies the balance effect in the same unit of
// work (see Ledger.ApplyConfirmed).
func (t *CreditTransaction) Confirm(confirmedBy, signatureData, photoData, notes string) error {
	if !t.Status.CanTransitionTo(TransactionStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot confirm transaction %s in %s status", t.TransactionNumber, t.Status))
	}
	if confirmedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Confirmed by cannot be empty")
	}
	if signatureData == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Signature is required to confirm a transaction")
	}
	if len(t.Lines) == 0 {
		return shared.NewDomainError("EMPTY_TRANSACTION", "Cannot confirm a transaction without lines")
	}

	now := time.Now()
	t.Status = TransactionStatusConfirmed
	t.ConfirmedAt = &now
	t.ConfirmedBy = confirmedBy
	t.SignatureData = signatureData
	t.PhotoData = photoData
	if notes != "" {
		t.appendNotes(notes)
	}
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionConfirmedEvent(t))

	return nil
}

// Cancel moves the transaction from PENDING to CANCELLED.
// A confirmed transaction cannot be cancelled; it must go through the
// reversal path instead. The ledger is never touched here since a
// pending transaction has not affected the balance.
func (t *CreditTransaction) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(TransactionStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel transaction %s in %s status", t.TransactionNumber, t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Cancellation reason is required")
	}

	now := time.Now()
	t.Status = TransactionStatusCancelled
	t.CancelledAt = &now
	t.CancelReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionCancelledEvent(t))

	return nil
}

// MarkInvoiced records that the transaction was included in a billing
// cycle. Transitions from CONFIRMED to INVOICED.
func (t *CreditTransaction) MarkInvoiced(invoiceNumber string) error {
	if !t.Status.CanTransitionTo(TransactionStatusInvoiced) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot invoice transaction %s in %s status", t.TransactionNumber, t.Status))
	}
	if invoiceNumber == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Invoice number cannot be empty")
	}

	now := time.Now()
	t.Status = TransactionStatusInvoiced
	t.InvoicedAt = &now
	t.InvoiceNumber = invoiceNumber
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionInvoicedEvent(t))

	return nil
}

// MarkReversed records an out-of-band admin correction of a confirmed
// transaction. The caller reverses the balance effect in the same unit
// of work (see Ledger.ReverseConfirmed). The status stays CONFIRMED;
// the flag prevents a second reversal.
func (t *CreditTransaction) MarkReversed(reason, performedBy string) error {
	if t.Status != TransactionStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reverse transaction %s in %s status", t.TransactionNumber, t.Status))
	}
	if t.Reversed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Transaction %s has already been reversed", t.TransactionNumber))
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Reversal reason is required")
	}
	if performedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Performed by cannot be empty")
	}

	now := time.Now()
	t.Reversed = true
	t.ReversedAt = &now
	t.ReversalReason = reason
	t.appendNotes("REVERSED by " + performedBy + ": " + reason)
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTransactionReversedEvent(t, performedBy))

	return nil
}

// SetRelatedTransaction links a quick return to its originating pickup
func (t *CreditTransaction) SetRelatedTransaction(transactionNumber string) {
	t.RelatedTransactionNumber = transactionNumber
	t.UpdatedAt = time.Now()
}

// SetNotes sets the transaction notes
func (t *CreditTransaction) SetNotes(notes string) {
	t.Notes = notes
	t.UpdatedAt = time.Now()
}

func (t *CreditTransaction) appendNotes(notes string) {
	if t.Notes == "" {
		t.Notes = notes
		return
	}
	t.Notes = t.Notes + "\n" + notes
}

// SignedAmount returns the effect of the transaction on the customer
// balance: positive for pickups, negative for returns.
func (t *CreditTransaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionTypeReturn {
		return t.TotalAmount.Neg()
	}
	return t.TotalAmount
}

// GetTotalAmountMoney returns the total amount as Money
func (t *CreditTransaction) GetTotalAmountMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(t.TotalAmount)
}

// LineCount returns the number of lines on the transaction
func (t *CreditTransaction) LineCount() int {
	return len(t.Lines)
}

// GetLine returns a line by its ID
func (t *CreditTransaction) GetLine(lineID uuid.UUID) *TransactionLine {
	for idx := range t.Lines {
		if t.Lines[idx].ID == lineID {
			return &t.Lines[idx]
		}
	}
	return nil
}

// IsPending returns true if the transaction is awaiting confirmation
func (t *CreditTransaction) IsPending() bool {
	return t.Status == TransactionStatusPending
}

// IsConfirmed returns true if the transaction is confirmed
func (t *CreditTransaction) IsConfirmed() bool {
	return t.Status == TransactionStatusConfirmed
}

// IsInvoiced returns true if the transaction is invoiced
func (t *CreditTransaction) IsInvoiced() bool {
	return t.Status == TransactionStatusInvoiced
}

// IsCancelled returns true if the transaction is cancelled
func (t *CreditTransaction) IsCancelled() bool {
	return t.Status == TransactionStatusCancelled
}

// IsPickup returns true if the transaction increases debt
func (t *CreditTransaction) IsPickup() bool {
	return t.Type == TransactionTypePickup
}

// IsReturn returns true if the transaction decreases debt
func (t *CreditTransaction) IsReturn() bool {
	return t.Type == TransactionTypeReturn
}
