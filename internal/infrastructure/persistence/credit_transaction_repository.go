package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/credit"
	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCreditTransactionRepository implements CreditTransactionRepository using GORM
type GormCreditTransactionRepository struct {
	db *gorm.DB
}

// NewGormCreditTransactionRepository creates a new GormCreditTransactionRepository
func NewGormCreditTransactionRepository(db *gorm.DB) *GormCreditTransactionRepository {
	return &GormCreditTransactionRepository{db: db}
}

// orderedLines preloads line rows in insertion order. Postgres gives no
// ordering guarantee without it, and lines added in one batch share a
// timestamp, so the id breaks the tie.
func orderedLines(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC, id ASC")
}

// FindByID finds a transaction with its lines by ID
func (r *GormCreditTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*credit.CreditTransaction, error) {
	var model models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a transaction with its lines by transaction number
func (r *GormCreditTransactionRepository) FindByNumber(ctx context.Context, transactionNumber string) (*credit.CreditTransaction, error) {
	var model models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("transaction_number = ?", transactionNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds transactions matching the filter, paginated
func (r *GormCreditTransactionRepository) FindAll(ctx context.Context, filter credit.TransactionFilter, page shared.Filter) ([]credit.CreditTransaction, int64, error) {
	base := r.applyTransactionFilter(r.db.WithContext(ctx).Model(&models.CreditTransactionModel{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.CreditTransactionModel
	query := r.applyPage(base.Preload("Lines", orderedLines), page)
	if err := query.Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainTransactions(txModels), total, nil
}

// FindRecentByCustomer finds the most recent transactions for a customer
func (r *GormCreditTransactionRepository) FindRecentByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]credit.CreditTransaction, error) {
	var txModels []models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindPendingByCustomer finds transactions awaiting confirmation for a customer
func (r *GormCreditTransactionRepository) FindPendingByCustomer(ctx context.Context, customerID uuid.UUID) ([]credit.CreditTransaction, error) {
	var txModels []models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("customer_id = ? AND status = ?", customerID, credit.TransactionStatusPending).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// FindByCustomerAndDateRange finds CONFIRMED and INVOICED transactions
// for a customer within [from, to), ordered by creation time.
func (r *GormCreditTransactionRepository) FindByCustomerAndDateRange(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]credit.CreditTransaction, error) {
	var txModels []models.CreditTransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("customer_id = ? AND status IN ? AND created_at >= ? AND created_at < ?",
			customerID,
			[]credit.TransactionStatus{credit.TransactionStatusConfirmed, credit.TransactionStatusInvoiced},
			from, to).
		Order("created_at ASC").
		Find(&txModels).Error; err != nil {
		return nil, err
	}
	return toDomainTransactions(txModels), nil
}

// Search finds transactions whose number, customer code, or customer name
// matches the query, paginated
func (r *GormCreditTransactionRepository) Search(ctx context.Context, query string, page shared.Filter) ([]credit.CreditTransaction, int64, error) {
	searchPattern := "%" + query + "%"
	base := r.db.WithContext(ctx).Model(&models.CreditTransactionModel{}).
		Where("transaction_number ILIKE ? OR customer_code ILIKE ? OR customer_name ILIKE ?",
			searchPattern, searchPattern, searchPattern)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.CreditTransactionModel
	if err := r.applyPage(base.Preload("Lines", orderedLines), page).Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainTransactions(txModels), total, nil
}

// Save creates or updates a transaction and its lines.
// A transaction number collision returns DUPLICATE_ENTRY.
func (r *GormCreditTransactionRepository) Save(ctx context.Context, tx *credit.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(tx)
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := dbtx.Omit("Lines").Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrDuplicateEntry
			}
			return err
		}
		return r.saveLines(dbtx, model)
	})
}

// SaveWithLock saves with an optimistic version check.
// Returns CONCURRENT_MODIFICATION if the stored version differs.
func (r *GormCreditTransactionRepository) SaveWithLock(ctx context.Context, tx *credit.CreditTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		return r.saveWithLockTx(dbtx, tx)
	})
}

// SaveWithCustomer persists the transaction and the customer in one
// database transaction, both under optimistic version checks.
func (r *GormCreditTransactionRepository) SaveWithCustomer(ctx context.Context, tx *credit.CreditTransaction, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		if err := r.saveWithLockTx(dbtx, tx); err != nil {
			return err
		}

		customerModel := models.CustomerModelFromDomain(customer)
		result := dbtx.Model(customerModel).
			Where("id = ? AND version = ?", customer.ID, customer.Version-1).
			Updates(customerModel)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// ExistsByNumber checks if a transaction number is already taken
func (r *GormCreditTransactionRepository) ExistsByNumber(ctx context.Context, transactionNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Where("transaction_number = ?", transactionNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByStatus counts transactions in the given status
func (r *GormCreditTransactionRepository) CountByStatus(ctx context.Context, status credit.TransactionStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CreditTransactionModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// saveWithLockTx updates the transaction and its lines within an open
// database transaction, failing on a stale version.
func (r *GormCreditTransactionRepository) saveWithLockTx(dbtx *gorm.DB, tx *credit.CreditTransaction) error {
	model := models.CreditTransactionModelFromDomain(tx)
	result := dbtx.Model(&models.CreditTransactionModel{}).
		Omit("Lines").
		Where("id = ? AND version = ?", tx.ID, tx.Version-1).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return r.saveLines(dbtx, model)
}

// saveLines replaces the stored line set with the aggregate's current lines
func (r *GormCreditTransactionRepository) saveLines(dbtx *gorm.DB, model *models.CreditTransactionModel) error {
	currentLineIDs := make([]uuid.UUID, len(model.Lines))
	for i, line := range model.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := dbtx.Where("transaction_id = ? AND id NOT IN ?", model.ID, currentLineIDs).
			Delete(&models.TransactionLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := dbtx.Where("transaction_id = ?", model.ID).
			Delete(&models.TransactionLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Lines {
		model.Lines[i].TransactionID = model.ID
		if err := dbtx.Save(&model.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyTransactionFilter applies the domain filter to the query
func (r *GormCreditTransactionRepository) applyTransactionFilter(query *gorm.DB, filter credit.TransactionFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at < ?", *filter.DateTo)
	}
	return query
}

// applyPage applies pagination and ordering to the query
func (r *GormCreditTransactionRepository) applyPage(query *gorm.DB, page shared.Filter) *gorm.DB {
	if page.Page > 0 && page.PageSize > 0 {
		offset := (page.Page - 1) * page.PageSize
		query = query.Offset(offset).Limit(page.PageSize)
	}

	if page.OrderBy != "" {
		orderBy := ValidateSortField(page.OrderBy, TransactionSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(page.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func toDomainTransactions(txModels []models.CreditTransactionModel) []credit.CreditTransaction {
	txs := make([]credit.CreditTransaction, len(txModels))
	for i, model := range txModels {
		txs[i] = *model.ToDomain()
	}
	return txs
}

// Ensure GormCreditTransactionRepository implements CreditTransactionRepository
var _ credit.CreditTransactionRepository = (*GormCreditTransactionRepository)(nil)
