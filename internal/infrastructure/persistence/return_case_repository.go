package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReturnCaseRepository implements ReturnCaseRepository using GORM
type GormReturnCaseRepository struct {
	db *gorm.DB
}

// NewGormReturnCaseRepository creates a new GormReturnCaseRepository
func NewGormReturnCaseRepository(db *gorm.DB) *GormReturnCaseRepository {
	return &GormReturnCaseRepository{db: db}
}

// FindByID finds a return case by its ID, lines included
func (r *GormReturnCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*returns.ReturnCase, error) {
	var model models.ReturnCaseModel
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

// FindByNumber finds a return case by its return number
func (r *GormReturnCaseRepository) FindByNumber(ctx context.Context, returnNumber string) (*returns.ReturnCase, error) {
	var model models.ReturnCaseModel
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderedLines).
		Where("return_number = ?", returnNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds return cases matching the filter, newest first
func (r *GormReturnCaseRepository) FindAll(ctx context.Context, filter returns.ReturnFilter, page shared.Filter) ([]returns.ReturnCase, int64, error) {
	base := r.applyReturnFilter(r.db.WithContext(ctx).Model(&models.ReturnCaseModel{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var caseModels []models.ReturnCaseModel
	if err := r.applyPage(base.Preload("Lines", orderedLines), page).Find(&caseModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainReturnCases(caseModels), total, nil
}

// FindByCustomer finds return cases for a customer, newest first
func (r *GormReturnCaseRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, page shared.Filter) ([]returns.ReturnCase, error) {
	var caseModels []models.ReturnCaseModel
	query := r.applyPage(
		r.db.WithContext(ctx).Model(&models.ReturnCaseModel{}).
			Preload("Lines", orderedLines).
			Where("customer_id = ?", customerID),
		page,
	)
	if err := query.Find(&caseModels).Error; err != nil {
		return nil, err
	}
	return toDomainReturnCases(caseModels), nil
}

// FindByStatus finds return cases in a given status
func (r *GormReturnCaseRepository) FindByStatus(ctx context.Context, status returns.ReturnStatus, page shared.Filter) ([]returns.ReturnCase, error) {
	var caseModels []models.ReturnCaseModel
	query := r.applyPage(
		r.db.WithContext(ctx).Model(&models.ReturnCaseModel{}).
			Preload("Lines", orderedLines).
			Where("status = ?", status),
		page,
	)
	if err := query.Find(&caseModels).Error; err != nil {
		return nil, err
	}
	return toDomainReturnCases(caseModels), nil
}

// NextReturnNumber allocates the next sequential return number for the
// given date, formatted RET-yyyyMMdd-NNNN. The counter row is bumped
// with an atomic upsert so concurrent callers never collide.
func (r *GormReturnCaseRepository) NextReturnNumber(ctx context.Context, date time.Time) (string, error) {
	dateKey := date.Format("20060102")

	var lastNumber int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO return_number_sequences (date_key, last_number)
		VALUES (?, 1)
		ON CONFLICT (date_key)
		DO UPDATE SET last_number = return_number_sequences.last_number + 1
		RETURNING last_number`, dateKey).
		Scan(&lastNumber).Error
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("RET-%s-%04d", dateKey, lastNumber), nil
}

// Save creates or updates a return case with its lines
func (r *GormReturnCaseRepository) Save(ctx context.Context, rc *returns.ReturnCase) error {
	model := models.ReturnCaseModelFromDomain(rc)
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

// SaveWithLock updates a return case with optimistic locking.
// Returns CONCURRENT_MODIFICATION when the stored version moved.
func (r *GormReturnCaseRepository) SaveWithLock(ctx context.Context, rc *returns.ReturnCase) error {
	model := models.ReturnCaseModelFromDomain(rc)
	return r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		result := dbtx.Model(&models.ReturnCaseModel{}).
			Omit("Lines").
			Where("id = ? AND version = ?", rc.ID, rc.Version-1).
			Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return r.saveLines(dbtx, model)
	})
}

// CountByStatus counts return cases per status
func (r *GormReturnCaseRepository) CountByStatus(ctx context.Context) (map[returns.ReturnStatus]int64, error) {
	type statusCount struct {
		Status returns.ReturnStatus
		Count  int64
	}

	var rows []statusCount
	if err := r.db.WithContext(ctx).
		Model(&models.ReturnCaseModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[returns.ReturnStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// saveLines replaces the stored line set with the aggregate's current lines
func (r *GormReturnCaseRepository) saveLines(dbtx *gorm.DB, model *models.ReturnCaseModel) error {
	currentLineIDs := make([]uuid.UUID, len(model.Lines))
	for i, line := range model.Lines {
		currentLineIDs[i] = line.ID
	}

	if len(currentLineIDs) > 0 {
		if err := dbtx.Where("return_case_id = ? AND id NOT IN ?", model.ID, currentLineIDs).
			Delete(&models.ReturnLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := dbtx.Where("return_case_id = ?", model.ID).
			Delete(&models.ReturnLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range model.Lines {
		model.Lines[i].ReturnCaseID = model.ID
		if err := dbtx.Save(&model.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyReturnFilter applies the domain filter to the query
func (r *GormReturnCaseRepository) applyReturnFilter(query *gorm.DB, filter returns.ReturnFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ReasonCode != nil {
		query = query.Where("reason_code = ?", *filter.ReasonCode)
	}
	if filter.OrderNumber != nil {
		query = query.Where("order_number = ?", *filter.OrderNumber)
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
func (r *GormReturnCaseRepository) applyPage(query *gorm.DB, page shared.Filter) *gorm.DB {
	if page.Page > 0 && page.PageSize > 0 {
		offset := (page.Page - 1) * page.PageSize
		query = query.Offset(offset).Limit(page.PageSize)
	}

	if page.OrderBy != "" {
		orderBy := ValidateSortField(page.OrderBy, ReturnCaseSortFields, "created_at")
		query = query.Order(orderBy + " " + ValidateSortOrder(page.OrderDir))
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func toDomainReturnCases(caseModels []models.ReturnCaseModel) []returns.ReturnCase {
	cases := make([]returns.ReturnCase, len(caseModels))
	for i, model := range caseModels {
		cases[i] = *model.ToDomain()
	}
	return cases
}

// Ensure GormReturnCaseRepository implements ReturnCaseRepository
var _ returns.ReturnCaseRepository = (*GormReturnCaseRepository)(nil)
