package credit

import (
	"context"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/google/uuid"
)

// TransactionFilter holds optional filters for transaction queries
type TransactionFilter struct {
	CustomerID *uuid.UUID
	Type       *TransactionType
	Status     *TransactionStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}

// CreditTransactionRepository defines the interface for transaction persistence
type CreditTransactionRepository interface {
	// FindByID finds a transaction with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CreditTransaction, error)

	// FindByNumber finds a transaction with its lines by transaction number
	FindByNumber(ctx context.Context, transactionNumber string) (*CreditTransaction, error)

	// FindAll finds transactions matching the filter, paginated
	FindAll(ctx context.Context, filter TransactionFilter, page shared.Filter) ([]CreditTransaction, int64, error)

	// FindRecentByCustomer finds the most recent transactions for a customer
	FindRecentByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]CreditTransaction, error)

	// FindPendingByCustomer finds transactions awaiting confirmation for a customer
	FindPendingByCustomer(ctx context.Context, customerID uuid.UUID) ([]CreditTransaction, error)

	// FindByCustomerAndDateRange finds CONFIRMED and INVOICED transactions
	// for a customer within [from, to), ordered by creation time.
	// Used for monthly statements.
	FindByCustomerAndDateRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]CreditTransaction, error)

	// Search finds transactions whose number, customer code, or customer
	// name matches the query, paginated
	Search(ctx context.Context, query string, page shared.Filter) ([]CreditTransaction, int64, error)

	// Save creates or updates a transaction and its lines.
	// A transaction number collision returns DUPLICATE_ENTRY.
	Save(ctx context.Context, tx *CreditTransaction) error

	// SaveWithLock saves with an optimistic version check.
	// Returns CONCURRENT_MODIFICATION if the stored version differs.
	SaveWithLock(ctx context.Context, tx *CreditTransaction) error

	// SaveWithCustomer persists the transaction and the customer in one
	// database transaction, both under optimistic version checks. Used
	// for confirm and reversal so the status change and the balance
	// change commit together or not at all.
	SaveWithCustomer(ctx context.Context, tx *CreditTransaction, customer *partner.Customer) error

	// ExistsByNumber checks if a transaction number is already taken
	ExistsByNumber(ctx context.Context, transactionNumber string) (bool, error)

	// CountByStatus counts transactions in the given status
	CountByStatus(ctx context.Context, status TransactionStatus) (int64, error)
}
