package models

import (
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/credit"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditTransactionModel is the persistence model for the CreditTransaction aggregate root.
type CreditTransactionModel struct {
	AggregateModel
	TransactionNumber        string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	CustomerID               uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerCode             string                   `gorm:"type:varchar(50);not null;index"`
	CustomerName             string                   `gorm:"type:varchar(300);not null"`
	Type                     credit.TransactionType   `gorm:"type:varchar(20);not null;index"`
	Status                   credit.TransactionStatus `gorm:"type:varchar(20);not null;index"`
	Lines                    []TransactionLineModel   `gorm:"foreignKey:TransactionID;references:ID"`
	TotalAmount              decimal.Decimal          `gorm:"type:decimal(12,2);not null;default:0"`
	TotalItems               decimal.Decimal          `gorm:"type:decimal(12,3);not null;default:0"`
	PerformedBy              string                   `gorm:"type:varchar(200);not null"`
	PerformedByRole          credit.PerformedByRole   `gorm:"type:varchar(20);not null"`
	SignatureData            string                   `gorm:"type:text"`
	PhotoData                string                   `gorm:"type:text"`
	ConfirmedAt              *time.Time               `gorm:"index"`
	ConfirmedBy              string                   `gorm:"type:varchar(200)"`
	CancelledAt              *time.Time
	CancelReason             string `gorm:"type:varchar(500)"`
	InvoicedAt               *time.Time
	InvoiceNumber            string `gorm:"type:varchar(50);index"`
	Reversed                 bool   `gorm:"not null;default:false"`
	ReversedAt               *time.Time
	ReversalReason           string `gorm:"type:varchar(500)"`
	RelatedTransactionNumber string `gorm:"type:varchar(50)"`
	Notes                    string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CreditTransactionModel) TableName() string {
	return "credit_transactions"
}

// ToDomain converts the persistence model to a domain CreditTransaction entity.
func (m *CreditTransactionModel) ToDomain() *credit.CreditTransaction {
	tx := &credit.CreditTransaction{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		TransactionNumber:        m.TransactionNumber,
		CustomerID:               m.CustomerID,
		CustomerCode:             m.CustomerCode,
		CustomerName:             m.CustomerName,
		Type:                     m.Type,
		Status:                   m.Status,
		TotalAmount:              m.TotalAmount,
		TotalItems:               m.TotalItems,
		PerformedBy:              m.PerformedBy,
		PerformedByRole:          m.PerformedByRole,
		SignatureData:            m.SignatureData,
		PhotoData:                m.PhotoData,
		ConfirmedAt:              m.ConfirmedAt,
		ConfirmedBy:              m.ConfirmedBy,
		CancelledAt:              m.CancelledAt,
		CancelReason:             m.CancelReason,
		InvoicedAt:               m.InvoicedAt,
		InvoiceNumber:            m.InvoiceNumber,
		Reversed:                 m.Reversed,
		ReversedAt:               m.ReversedAt,
		ReversalReason:           m.ReversalReason,
		RelatedTransactionNumber: m.RelatedTransactionNumber,
		Notes:                    m.Notes,
		Lines:                    make([]credit.TransactionLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		tx.Lines[i] = *line.ToDomain()
	}
	return tx
}

// FromDomain populates the persistence model from a domain CreditTransaction entity.
func (m *CreditTransactionModel) FromDomain(t *credit.CreditTransaction) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TransactionNumber = t.TransactionNumber
	m.CustomerID = t.CustomerID
	m.CustomerCode = t.CustomerCode
	m.CustomerName = t.CustomerName
	m.Type = t.Type
	m.Status = t.Status
	m.TotalAmount = t.TotalAmount
	m.TotalItems = t.TotalItems
	m.PerformedBy = t.PerformedBy
	m.PerformedByRole = t.PerformedByRole
	m.SignatureData = t.SignatureData
	m.PhotoData = t.PhotoData
	m.ConfirmedAt = t.ConfirmedAt
	m.ConfirmedBy = t.ConfirmedBy
	m.CancelledAt = t.CancelledAt
	m.CancelReason = t.CancelReason
	m.InvoicedAt = t.InvoicedAt
	m.InvoiceNumber = t.InvoiceNumber
	m.Reversed = t.Reversed
	m.ReversedAt = t.ReversedAt
	m.ReversalReason = t.ReversalReason
	m.RelatedTransactionNumber = t.RelatedTransactionNumber
	m.Notes = t.Notes
	m.Lines = make([]TransactionLineModel, len(t.Lines))
	for i, line := range t.Lines {
		m.Lines[i] = *TransactionLineModelFromDomain(&line)
	}
}

// CreditTransactionModelFromDomain creates a new persistence model from a domain CreditTransaction entity.
func CreditTransactionModelFromDomain(t *credit.CreditTransaction) *CreditTransactionModel {
	m := &CreditTransactionModel{}
	m.FromDomain(t)
	return m
}

// TransactionLineModel is the persistence model for the TransactionLine entity.
type TransactionLineModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	ProductCode   string          `gorm:"type:varchar(50);not null"`
	ProductName   string          `gorm:"type:varchar(200);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes         string          `gorm:"type:varchar(500)"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TransactionLineModel) TableName() string {
	return "credit_transaction_lines"
}

// ToDomain converts the persistence model to a domain TransactionLine entity.
func (m *TransactionLineModel) ToDomain() *credit.TransactionLine {
	return &credit.TransactionLine{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ProductID:     m.ProductID,
		ProductCode:   m.ProductCode,
		ProductName:   m.ProductName,
		Quantity:      m.Quantity,
		UnitPrice:     m.UnitPrice,
		LineTotal:     m.LineTotal,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain TransactionLine entity.
func (m *TransactionLineModel) FromDomain(l *credit.TransactionLine) {
	m.ID = l.ID
	m.TransactionID = l.TransactionID
	m.ProductID = l.ProductID
	m.ProductCode = l.ProductCode
	m.ProductName = l.ProductName
	m.Quantity = l.Quantity
	m.UnitPrice = l.UnitPrice
	m.LineTotal = l.LineTotal
	m.Notes = l.Notes
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// TransactionLineModelFromDomain creates a new persistence model from a domain TransactionLine entity.
func TransactionLineModelFromDomain(l *credit.TransactionLine) *TransactionLineModel {
	m := &TransactionLineModel{}
	m.FromDomain(l)
	return m
}
