package models

import (
	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Code           string                 `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type           partner.CustomerType   `gorm:"type:varchar(20);not null;default:'RETAIL'"`
	CompanyName    string                 `gorm:"type:varchar(300)"`
	VATCode        string                 `gorm:"type:varchar(50);index"`
	FirstName      string                 `gorm:"type:varchar(100)"`
	LastName       string                 `gorm:"type:varchar(100)"`
	Email          string                 `gorm:"type:varchar(200);index"`
	Phone          string                 `gorm:"type:varchar(50)"`
	Address        string                 `gorm:"type:text"`
	City           string                 `gorm:"type:varchar(100)"`
	PostalCode     string                 `gorm:"type:varchar(20)"`
	Country        string                 `gorm:"type:varchar(100);default:'Lithuania'"`
	CreditLimit    decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentBalance decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	Status         partner.CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
	Notes          string                 `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		Code:           m.Code,
		Type:           m.Type,
		CompanyName:    m.CompanyName,
		VATCode:        m.VATCode,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		Address:        m.Address,
		City:           m.City,
		PostalCode:     m.PostalCode,
		Country:        m.Country,
		CreditLimit:    m.CreditLimit,
		CurrentBalance: m.CurrentBalance,
		Status:         m.Status,
		Notes:          m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Code = c.Code
	m.Type = c.Type
	m.CompanyName = c.CompanyName
	m.VATCode = c.VATCode
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.City = c.City
	m.PostalCode = c.PostalCode
	m.Country = c.Country
	m.CreditLimit = c.CreditLimit
	m.CurrentBalance = c.CurrentBalance
	m.Status = c.Status
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
