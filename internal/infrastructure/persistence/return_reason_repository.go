package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReturnReasonRepository implements ReturnReasonRepository using GORM
type GormReturnReasonRepository struct {
	db *gorm.DB
}

// NewGormReturnReasonRepository creates a new GormReturnReasonRepository
func NewGormReturnReasonRepository(db *gorm.DB) *GormReturnReasonRepository {
	return &GormReturnReasonRepository{db: db}
}

// FindByCode finds a reason by its code
func (r *GormReturnReasonRepository) FindByCode(ctx context.Context, code string) (*returns.ReturnReason, error) {
	var model models.ReturnReasonModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllActive lists active reasons ordered by sort order
func (r *GormReturnReasonRepository) FindAllActive(ctx context.Context) ([]returns.ReturnReason, error) {
	var reasonModels []models.ReturnReasonModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, code ASC").
		Find(&reasonModels).Error; err != nil {
		return nil, err
	}

	reasons := make([]returns.ReturnReason, len(reasonModels))
	for i, model := range reasonModels {
		reasons[i] = *model.ToDomain()
	}
	return reasons, nil
}

// Save creates or updates a reason
func (r *GormReturnReasonRepository) Save(ctx context.Context, reason *returns.ReturnReason) error {
	model := models.ReturnReasonModelFromDomain(reason)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrDuplicateEntry
		}
		return err
	}
	return nil
}

// Ensure GormReturnReasonRepository implements ReturnReasonRepository
var _ returns.ReturnReasonRepository = (*GormReturnReasonRepository)(nil)
