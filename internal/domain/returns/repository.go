package returns

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
)

// ReturnFilter narrows return case queries
type ReturnFilter struct {
	CustomerID  *uuid.UUID
	Status      *ReturnStatus
	ReasonCode  *string
	OrderNumber *string
	DateFrom    *time.Time
	DateTo      *time.Time
}

// ReturnCaseRepository defines the interface for return case persistence
type ReturnCaseRepository interface {
	// FindByID finds a return case by its ID, lines included
	FindByID(ctx context.Context, id uuid.UUID) (*ReturnCase, error)

	// FindByNumber finds a return case by its return number
	FindByNumber(ctx context.Context, returnNumber string) (*ReturnCase, error)

	// FindAll finds return cases matching the filter, newest first
	FindAll(ctx context.Context, filter ReturnFilter, page shared.Filter) ([]ReturnCase, int64, error)

	// FindByCustomer finds return cases for a customer, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, page shared.Filter) ([]ReturnCase, error)

	// FindByStatus finds return cases in a given status
	FindByStatus(ctx context.Context, status ReturnStatus, page shared.Filter) ([]ReturnCase, error)

	// NextReturnNumber allocates the next sequential return number for
	// the given date, formatted RET-yyyyMMdd-NNNN. Allocation is atomic
	// across concurrent callers.
	NextReturnNumber(ctx context.Context, date time.Time) (string, error)

	// Save creates or updates a return case with its lines
	Save(ctx context.Context, rc *ReturnCase) error

	// SaveWithLock updates a return case with optimistic locking.
	// Returns CONCURRENT_MODIFICATION when the stored version moved.
	SaveWithLock(ctx context.Context, rc *ReturnCase) error

	// CountByStatus counts return cases per status
	CountByStatus(ctx context.Context) (map[ReturnStatus]int64, error)
}

// ReturnReasonRepository defines the interface for the reason catalog
type ReturnReasonRepository interface {
	// FindByCode finds a reason by its code
	FindByCode(ctx context.Context, code string) (*ReturnReason, error)

	// FindAllActive lists active reasons ordered by sort order
	FindAllActive(ctx context.Context) ([]ReturnReason, error)

	// Save creates or updates a reason
	Save(ctx context.Context, reason *ReturnReason) error
}
