package returns

import (
	"strings"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
)

// Well-known return reason codes. The catalog is seeded by migration
// and can be extended at runtime; these constants cover the seeded set.
const (
	ReasonWrongItem        = "WRONG_ITEM"
	ReasonDamagedInTransit = "DAMAGED_IN_TRANSIT"
	ReasonDefective        = "DEFECTIVE"
	ReasonNotAsDescribed   = "NOT_AS_DESCRIBED"
	ReasonChangedMind      = "CHANGED_MIND"
	ReasonOther            = "OTHER"
)

// ReturnReason is a catalog entry describing why goods came back.
// AllowsRestock is a policy flag: even a perfect-condition item cannot
// be restocked when the reason forbids it (e.g. DEFECTIVE).
type ReturnReason struct {
	shared.BaseEntity
	Code               string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string `gorm:"type:varchar(100);not null"`
	Description        string `gorm:"type:text"`
	AllowsRestock      bool   `gorm:"not null;default:false"`
	RequiresInspection bool   `gorm:"not null;default:true"`
	Active             bool   `gorm:"not null;default:true"`
	SortOrder          int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnReason) TableName() string {
	return "return_reasons"
}

// NewReturnReason creates a new return reason
func NewReturnReason(code, name string, allowsRestock, requiresInspection bool) (*ReturnReason, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reason code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reason code cannot exceed 50 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reason name cannot be empty")
	}

	return &ReturnReason{
		BaseEntity:         shared.NewBaseEntity(),
		Code:               strings.ToUpper(code),
		Name:               name,
		AllowsRestock:      allowsRestock,
		RequiresInspection: requiresInspection,
		Active:             true,
	}, nil
}

// Deactivate hides the reason from new return cases
func (r *ReturnReason) Deactivate() {
	r.Active = false
}

// DefaultReasons returns the seeded reason catalog
func DefaultReasons() []ReturnReason {
	build := func(code, name string, allowsRestock bool, sortOrder int) ReturnReason {
		reason, _ := NewReturnReason(code, name, allowsRestock, true)
		reason.SortOrder = sortOrder
		return *reason
	}

	return []ReturnReason{
		build(ReasonWrongItem, "Wrong item delivered", true, 1),
		build(ReasonDamagedInTransit, "Damaged in transit", false, 2),
		build(ReasonDefective, "Defective product", false, 3),
		build(ReasonNotAsDescribed, "Not as described", true, 4),
		build(ReasonChangedMind, "Customer changed mind", true, 5),
		build(ReasonOther, "Other", false, 6),
	}
}
