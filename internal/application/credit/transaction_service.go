package credit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/catalog"
	"github.com/elektromeistras/creditledger/internal/domain/credit"
	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

// confirmIdempotencyTTL bounds how long a completed confirmation's key
// rejects duplicate submissions
const confirmIdempotencyTTL = 10 * time.Minute

// TransactionService handles the credit transaction lifecycle
type TransactionService struct {
	txRepo           credit.CreditTransactionRepository
	customerRepo     partner.CustomerRepository
	productRepo      catalog.ProductRepository
	idempotencyStore shared.IdempotencyStore
	eventPublisher   shared.EventPublisher
	now              func() time.Time
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	txRepo credit.CreditTransactionRepository,
	customerRepo partner.CustomerRepository,
	productRepo catalog.ProductRepository,
) *TransactionService {
	return &TransactionService{
		txRepo:       txRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		now:          time.Now,
	}
}

// SetIdempotencyStore enables duplicate-confirmation protection. When
// unset, confirms rely on optimistic locking alone.
func (s *TransactionService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotencyStore = store
}

// SetEventPublisher enables domain event publication after successful
// state changes. When unset, events are silently discarded.
func (s *TransactionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// publishEvents flushes pending aggregate events. Publication failures
// never fail the operation; the state change is already committed.
func (s *TransactionService) publishEvents(ctx context.Context, aggregates ...shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

// Create creates a new PENDING transaction. Product codes are resolved
// against the catalog and their current price is snapshotted onto the
// lines. An over-limit pickup still succeeds; the response carries an
// advisory warning with the projected balance.
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, customer, credit.TransactionType(req.Type), req.Lines, req.PerformedBy, req.PerformedByRole, req.Notes, "")
}

// CreateQuickPickup creates a PENDING pickup by customer code
func (s *TransactionService) CreateQuickPickup(ctx context.Context, req CreateQuickPickupRequest) (*TransactionResponse, error) {
	customer, err := s.customerRepo.FindByCode(ctx, req.CustomerCode)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, customer, credit.TransactionTypePickup, req.Lines, req.PerformedBy, req.PerformedByRole, req.Notes, "")
}

// CreateReturnFromPickup creates an independent RETURN referencing a
// confirmed PICKUP by number. The original pickup's lines stay
// untouched; only the net balance reflects the partial return.
func (s *TransactionService) CreateReturnFromPickup(ctx context.Context, req CreateReturnFromPickupRequest) (*TransactionResponse, error) {
	pickup, err := s.txRepo.FindByNumber(ctx, req.PickupNumber)
	if err != nil {
		return nil, err
	}
	if !pickup.IsPickup() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Referenced transaction is not a pickup")
	}
	if !pickup.IsConfirmed() && !pickup.IsInvoiced() {
		return nil, shared.NewDomainError("INVALID_STATE",
			"Returns can only reference a confirmed or invoiced pickup")
	}

	customer, err := s.customerRepo.FindByID(ctx, pickup.CustomerID)
	if err != nil {
		return nil, err
	}

	return s.create(ctx, customer, credit.TransactionTypeReturn, req.Lines, req.PerformedBy, req.PerformedByRole, req.Notes, pickup.TransactionNumber)
}

func (s *TransactionService) create(
	ctx context.Context,
	customer *partner.Customer,
	txType credit.TransactionType,
	lineReqs []TransactionLineRequest,
	performedBy, performedByRole, notes, relatedNumber string,
) (*TransactionResponse, error) {
	if len(lineReqs) == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "At least one line is required")
	}

	tx, err := credit.NewCreditTransaction(
		credit.NewTransactionNumber(txType, s.now()),
		customer, txType, performedBy, credit.PerformedByRole(performedByRole),
	)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(lineReqs))
	for _, lr := range lineReqs {
		codes = append(codes, lr.ProductCode)
	}
	products, err := s.productRepo.FindByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}
	byCode := make(map[string]*catalog.Product, len(products))
	for i := range products {
		byCode[products[i].Code] = &products[i]
	}

	for _, lr := range lineReqs {
		product, ok := byCode[lr.ProductCode]
		if !ok {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				"Unknown product code: "+lr.ProductCode)
		}
		if !product.IsActive() {
			return nil, shared.NewDomainError("VALIDATION_ERROR",
				"Product is not available: "+lr.ProductCode)
		}

		line, err := tx.AddLine(product.ID, product.Code, product.Name, lr.Quantity, product.GetBasePriceMoney())
		if err != nil {
			return nil, err
		}
		if lr.Notes != "" {
			line.SetNotes(lr.Notes)
		}
	}

	if relatedNumber != "" {
		tx.SetRelatedTransaction(relatedNumber)
	}
	if notes != "" {
		tx.SetNotes(notes)
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	if tx.IsPickup() {
		projected := credit.ProjectedBalance(customer, tx.Type, tx.TotalAmount)
		if credit.IsOverLimit(customer, projected) {
			response.OverLimitWarning = &OverLimitWarning{
				ProjectedBalance: projected,
				CreditLimit:      customer.CreditLimit,
				Excess:           projected.Sub(customer.CreditLimit),
			}
		}
	}

	return &response, nil
}

// Confirm confirms a PENDING transaction with the customer's signature
// and applies the balance effect. The status flip and the balance
// update are persisted in one database transaction under optimistic
// version checks; a losing concurrent confirm gets
// CONCURRENT_MODIFICATION or INVALID_STATE, never a double-applied
// balance.
func (s *TransactionService) Confirm(ctx context.Context, transactionID uuid.UUID, req ConfirmTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	confirmKey := "confirm:" + tx.TransactionNumber
	if s.idempotencyStore != nil {
		processed, err := s.idempotencyStore.IsProcessed(ctx, confirmKey)
		if err == nil && processed {
			return nil, shared.NewDomainError("CONCURRENT_MODIFICATION",
				"Transaction "+tx.TransactionNumber+" has already been confirmed")
		}
	}

	customer, err := s.customerRepo.FindByID(ctx, tx.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := tx.Confirm(req.ConfirmedBy, req.SignatureData, req.PhotoData, req.Notes); err != nil {
		return nil, err
	}
	if err := credit.ApplyConfirmed(customer, tx); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithCustomer(ctx, tx, customer); err != nil {
		return nil, err
	}

	// The key is recorded only once the write has committed; a failed
	// attempt must not block the corrected retry. Concurrent confirms
	// are resolved by the optimistic version check in SaveWithCustomer.
	if s.idempotencyStore != nil {
		_, _ = s.idempotencyStore.MarkProcessed(ctx, confirmKey, confirmIdempotencyTTL)
	}
	s.publishEvents(ctx, tx, customer)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Cancel cancels a PENDING transaction. No ledger effect.
func (s *TransactionService) Cancel(ctx context.Context, transactionID uuid.UUID, req CancelTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.Cancel(req.Reason); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// MarkInvoiced links a CONFIRMED transaction to a billing cycle invoice
func (s *TransactionService) MarkInvoiced(ctx context.Context, transactionID uuid.UUID, req MarkInvoicedRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkInvoiced(req.InvoiceNumber); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithLock(ctx, tx); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// Reverse is the admin correction path for a CONFIRMED transaction.
// It flags the transaction reversed and applies the compensating
// balance entry in the same database transaction. A transaction can
// be reversed at most once.
func (s *TransactionService) Reverse(ctx context.Context, transactionID uuid.UUID, req ReverseTransactionRequest) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, tx.CustomerID)
	if err != nil {
		return nil, err
	}

	if err := tx.MarkReversed(req.Reason, req.PerformedBy); err != nil {
		return nil, err
	}
	if err := credit.ReverseConfirmed(customer, tx); err != nil {
		return nil, err
	}

	if err := s.txRepo.SaveWithCustomer(ctx, tx, customer); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, tx, customer)

	response := ToTransactionResponse(tx)
	return &response, nil
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, transactionID uuid.UUID) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// GetByNumber retrieves a transaction by its number
func (s *TransactionService) GetByNumber(ctx context.Context, transactionNumber string) (*TransactionResponse, error) {
	tx, err := s.txRepo.FindByNumber(ctx, transactionNumber)
	if err != nil {
		return nil, err
	}

	response := ToTransactionResponse(tx)
	return &response, nil
}

// List retrieves transactions with filtering and pagination
func (s *TransactionService) List(ctx context.Context, filter TransactionListFilter) ([]TransactionListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := credit.TransactionFilter{}
	if filter.CustomerID != "" {
		customerID, err := uuid.Parse(filter.CustomerID)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid customer ID")
		}
		domainFilter.CustomerID = &customerID
	}
	if filter.Type != "" {
		txType := credit.TransactionType(filter.Type)
		domainFilter.Type = &txType
	}
	if filter.Status != "" {
		status := credit.TransactionStatus(filter.Status)
		domainFilter.Status = &status
	}
	if filter.DateFrom != "" {
		from, err := time.Parse("2006-01-02", filter.DateFrom)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid date_from")
		}
		domainFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, err := time.Parse("2006-01-02", filter.DateTo)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid date_to")
		}
		// Inclusive end date: extend to the end of the day
		to = to.AddDate(0, 0, 1)
		domainFilter.DateTo = &to
	}

	page := shared.DefaultFilter()
	page.Page = filter.Page
	page.PageSize = filter.PageSize

	transactions, total, err := s.txRepo.FindAll(ctx, domainFilter, page)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionListResponses(transactions), total, nil
}

// Search finds transactions by number, customer code or customer name
func (s *TransactionService) Search(ctx context.Context, query string, page, pageSize int) ([]TransactionListResponse, int64, error) {
	if query == "" {
		return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Search query cannot be empty")
	}

	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	transactions, total, err := s.txRepo.Search(ctx, query, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToTransactionListResponses(transactions), total, nil
}

// Recent retrieves the most recent transactions for a customer
func (s *TransactionService) Recent(ctx context.Context, customerID uuid.UUID, limit int) ([]TransactionListResponse, error) {
	if limit <= 0 {
		limit = 10
	}

	transactions, err := s.txRepo.FindRecentByCustomer(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}

	return ToTransactionListResponses(transactions), nil
}

// Pending retrieves a customer's transactions awaiting confirmation
func (s *TransactionService) Pending(ctx context.Context, customerID uuid.UUID) ([]TransactionListResponse, error) {
	transactions, err := s.txRepo.FindPendingByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return ToTransactionListResponses(transactions), nil
}

// MonthlyStatement builds a customer's statement for a calendar month:
// all CONFIRMED and INVOICED transactions plus pickup/return totals
func (s *TransactionService) MonthlyStatement(ctx context.Context, customerID uuid.UUID, year, month int) (*StatementResponse, error) {
	if year < 2000 || year > 2100 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid year")
	}
	if month < 1 || month > 12 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid month")
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	transactions, err := s.txRepo.FindByCustomerAndDateRange(ctx, customerID, from, to)
	if err != nil {
		return nil, err
	}

	totalPickups := decimal.Zero
	totalReturns := decimal.Zero
	for i := range transactions {
		if transactions[i].IsPickup() {
			totalPickups = totalPickups.Add(transactions[i].TotalAmount)
		} else {
			totalReturns = totalReturns.Add(transactions[i].TotalAmount)
		}
	}

	return &StatementResponse{
		CustomerID:     customer.ID,
		CustomerCode:   customer.Code,
		CustomerName:   customer.DisplayName(),
		Year:           year,
		Month:          month,
		Transactions:   ToTransactionListResponses(transactions),
		TotalPickups:   totalPickups,
		TotalReturns:   totalReturns,
		NetChange:      totalPickups.Sub(totalReturns),
		ClosingBalance: customer.CurrentBalance,
	}, nil
}

// ProjectBalance computes the advisory projected balance for a
// prospective transaction without creating anything
func (s *TransactionService) ProjectBalance(ctx context.Context, customerID uuid.UUID, txType string, amount decimal.Decimal) (*OverLimitWarning, valueobject.Money, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, valueobject.ZeroEUR(), err
	}

	t := credit.TransactionType(txType)
	if !t.IsValid() {
		return nil, valueobject.ZeroEUR(), shared.NewDomainError("VALIDATION_ERROR", "Transaction type must be PICKUP or RETURN")
	}

	projected := credit.ProjectedBalance(customer, t, amount)
	var warning *OverLimitWarning
	if t == credit.TransactionTypePickup && credit.IsOverLimit(customer, projected) {
		warning = &OverLimitWarning{
			ProjectedBalance: projected,
			CreditLimit:      customer.CreditLimit,
			Excess:           projected.Sub(customer.CreditLimit),
		}
	}

	return warning, valueobject.NewMoneyEUR(projected), nil
}
