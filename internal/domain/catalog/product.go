package catalog

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

var productCodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-_]*$`)

// Product is a catalog item that can appear on a credit transaction or
// return. Transactions snapshot the code, name and price at creation
// time, so later catalog edits never rewrite history.
type Product struct {
	shared.BaseAggregateRoot
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Barcode     string          `gorm:"type:varchar(50);index"`
	Unit        string          `gorm:"type:varchar(20);not null"` // e.g. "pcs", "m", "box"
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status      ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if unit == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit cannot exceed 20 characters")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Unit:              unit,
		BasePrice:         decimal.Zero,
		Status:            ProductStatusActive,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// NewProductWithPrice creates a new product with a base price
func NewProductWithPrice(code, name, unit string, basePrice valueobject.Money) (*Product, error) {
	product, err := NewProduct(code, name, unit)
	if err != nil {
		return nil, err
	}
	if err := product.SetBasePrice(basePrice); err != nil {
		return nil, err
	}
	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBarcode sets the product barcode
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBasePrice sets the base selling price
func (p *Product) SetBasePrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Base price cannot be negative")
	}

	oldPrice := p.BasePrice
	p.BasePrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Cannot activate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusActive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusActive))

	return nil
}

// Deactivate deactivates the product
func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate a discontinued product")
	}

	oldStatus := p.Status
	p.Status = ProductStatusInactive
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusInactive))

	return nil
}

// Discontinue marks the product as discontinued.
// A discontinued product cannot be reactivated.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("INVALID_STATE", "Product is already discontinued")
	}

	oldStatus := p.Status
	p.Status = ProductStatusDiscontinued
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStatusChangedEvent(p, oldStatus, ProductStatusDiscontinued))

	return nil
}

// IsActive returns true if the product is active
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// GetBasePriceMoney returns the base price as Money
func (p *Product) GetBasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyEUR(p.BasePrice)
}

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product code cannot exceed 50 characters")
	}
	if !productCodePattern.MatchString(strings.ToUpper(code)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Product code can only contain letters, numbers, hyphens and underscores")
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 200 characters")
	}
	return nil
}
