package models

import (
	"github.com/elektromeistras/creditledger/internal/domain/catalog"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Code        string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name        string                `gorm:"type:varchar(200);not null"`
	Description string                `gorm:"type:text"`
	Barcode     string                `gorm:"type:varchar(50);index"`
	Unit        string                `gorm:"type:varchar(20);not null"`
	BasePrice   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	Status      catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		Barcode:     m.Barcode,
		Unit:        m.Unit,
		BasePrice:   m.BasePrice,
		Status:      m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Code = p.Code
	m.Name = p.Name
	m.Description = p.Description
	m.Barcode = p.Barcode
	m.Unit = p.Unit
	m.BasePrice = p.BasePrice
	m.Status = p.Status
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
