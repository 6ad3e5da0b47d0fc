package models

import (
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnCaseModel is the persistence model for the ReturnCase aggregate root.
type ReturnCaseModel struct {
	AggregateModel
	ReturnNumber        string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderNumber         string               `gorm:"type:varchar(50);index"`
	CustomerID          uuid.UUID            `gorm:"type:uuid;not null;index"`
	CustomerCode        string               `gorm:"type:varchar(50);not null;index"`
	CustomerName        string               `gorm:"type:varchar(300);not null"`
	Type                returns.ReturnType   `gorm:"type:varchar(20);not null"`
	Status              returns.ReturnStatus `gorm:"type:varchar(20);not null;index"`
	ReasonCode          string               `gorm:"type:varchar(50);not null;index"`
	ReasonAllowsRestock bool                 `gorm:"not null;default:false"`
	Lines               []ReturnLineModel    `gorm:"foreignKey:ReturnCaseID;references:ID"`
	CustomerComments    string               `gorm:"type:text"`
	Notes               string               `gorm:"type:text"`
	ApprovedAt          *time.Time
	ApprovedBy          string `gorm:"type:varchar(200)"`
	RejectedAt          *time.Time
	RejectReason        string `gorm:"type:varchar(500)"`
	InTransitAt         *time.Time
	Carrier             string `gorm:"type:varchar(100)"`
	TrackingNumber      string `gorm:"type:varchar(100)"`
	ReceivedAt          *time.Time
	ReceivedBy          string `gorm:"type:varchar(200)"`
	InspectedAt         *time.Time
	InspectedBy         string `gorm:"type:varchar(200)"`
	CompletedAt         *time.Time
	RefundAmount        decimal.Decimal      `gorm:"type:decimal(12,2);not null;default:0"`
	RefundStatus        returns.RefundStatus `gorm:"type:varchar(20);not null"`
	RefundMethod        string               `gorm:"type:varchar(50)"`
	RefundReference     string               `gorm:"type:varchar(100)"`
	RefundDate          *time.Time
}

// TableName returns the table name for GORM
func (ReturnCaseModel) TableName() string {
	return "return_cases"
}

// ToDomain converts the persistence model to a domain ReturnCase entity.
func (m *ReturnCaseModel) ToDomain() *returns.ReturnCase {
	rc := &returns.ReturnCase{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		ReturnNumber:        m.ReturnNumber,
		OrderNumber:         m.OrderNumber,
		CustomerID:          m.CustomerID,
		CustomerCode:        m.CustomerCode,
		CustomerName:        m.CustomerName,
		Type:                m.Type,
		Status:              m.Status,
		ReasonCode:          m.ReasonCode,
		ReasonAllowsRestock: m.ReasonAllowsRestock,
		CustomerComments:    m.CustomerComments,
		Notes:               m.Notes,
		ApprovedAt:          m.ApprovedAt,
		ApprovedBy:          m.ApprovedBy,
		RejectedAt:          m.RejectedAt,
		RejectReason:        m.RejectReason,
		InTransitAt:         m.InTransitAt,
		Carrier:             m.Carrier,
		TrackingNumber:      m.TrackingNumber,
		ReceivedAt:          m.ReceivedAt,
		ReceivedBy:          m.ReceivedBy,
		InspectedAt:         m.InspectedAt,
		InspectedBy:         m.InspectedBy,
		CompletedAt:         m.CompletedAt,
		RefundAmount:        m.RefundAmount,
		RefundStatus:        m.RefundStatus,
		RefundMethod:        m.RefundMethod,
		RefundReference:     m.RefundReference,
		RefundDate:          m.RefundDate,
		Lines:               make([]returns.ReturnLine, len(m.Lines)),
	}
	for i, line := range m.Lines {
		rc.Lines[i] = *line.ToDomain()
	}
	return rc
}

// FromDomain populates the persistence model from a domain ReturnCase entity.
func (m *ReturnCaseModel) FromDomain(r *returns.ReturnCase) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.ReturnNumber = r.ReturnNumber
	m.OrderNumber = r.OrderNumber
	m.CustomerID = r.CustomerID
	m.CustomerCode = r.CustomerCode
	m.CustomerName = r.CustomerName
	m.Type = r.Type
	m.Status = r.Status
	m.ReasonCode = r.ReasonCode
	m.ReasonAllowsRestock = r.ReasonAllowsRestock
	m.CustomerComments = r.CustomerComments
	m.Notes = r.Notes
	m.ApprovedAt = r.ApprovedAt
	m.ApprovedBy = r.ApprovedBy
	m.RejectedAt = r.RejectedAt
	m.RejectReason = r.RejectReason
	m.InTransitAt = r.InTransitAt
	m.Carrier = r.Carrier
	m.TrackingNumber = r.TrackingNumber
	m.ReceivedAt = r.ReceivedAt
	m.ReceivedBy = r.ReceivedBy
	m.InspectedAt = r.InspectedAt
	m.InspectedBy = r.InspectedBy
	m.CompletedAt = r.CompletedAt
	m.RefundAmount = r.RefundAmount
	m.RefundStatus = r.RefundStatus
	m.RefundMethod = r.RefundMethod
	m.RefundReference = r.RefundReference
	m.RefundDate = r.RefundDate
	m.Lines = make([]ReturnLineModel, len(r.Lines))
	for i, line := range r.Lines {
		m.Lines[i] = *ReturnLineModelFromDomain(&line)
	}
}

// ReturnCaseModelFromDomain creates a new persistence model from a domain ReturnCase entity.
func ReturnCaseModelFromDomain(r *returns.ReturnCase) *ReturnCaseModel {
	m := &ReturnCaseModel{}
	m.FromDomain(r)
	return m
}

// ReturnLineModel is the persistence model for the ReturnLine entity.
type ReturnLineModel struct {
	ID               uuid.UUID                `gorm:"type:uuid;primary_key"`
	ReturnCaseID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID                `gorm:"type:uuid;not null"`
	ProductCode      string                   `gorm:"type:varchar(50);not null"`
	ProductName      string                   `gorm:"type:varchar(200);not null"`
	UnitPrice        decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	QuantityReturned decimal.Decimal          `gorm:"type:decimal(12,3);not null"`
	QuantityAccepted decimal.Decimal          `gorm:"type:decimal(12,3);not null;default:0"`
	QuantityRejected decimal.Decimal          `gorm:"type:decimal(12,3);not null;default:0"`
	Condition        returns.ProductCondition `gorm:"type:varchar(20);not null;default:'UNKNOWN'"`
	Restocked        bool                     `gorm:"not null;default:false"`
	InspectionNotes  string                   `gorm:"type:varchar(500)"`
	CreatedAt        time.Time                `gorm:"not null"`
	UpdatedAt        time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ReturnLineModel) TableName() string {
	return "return_lines"
}

// ToDomain converts the persistence model to a domain ReturnLine entity.
func (m *ReturnLineModel) ToDomain() *returns.ReturnLine {
	return &returns.ReturnLine{
		ID:               m.ID,
		ReturnCaseID:     m.ReturnCaseID,
		ProductID:        m.ProductID,
		ProductCode:      m.ProductCode,
		ProductName:      m.ProductName,
		UnitPrice:        m.UnitPrice,
		QuantityReturned: m.QuantityReturned,
		QuantityAccepted: m.QuantityAccepted,
		QuantityRejected: m.QuantityRejected,
		Condition:        m.Condition,
		Restocked:        m.Restocked,
		InspectionNotes:  m.InspectionNotes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain ReturnLine entity.
func (m *ReturnLineModel) FromDomain(l *returns.ReturnLine) {
	m.ID = l.ID
	m.ReturnCaseID = l.ReturnCaseID
	m.ProductID = l.ProductID
	m.ProductCode = l.ProductCode
	m.ProductName = l.ProductName
	m.UnitPrice = l.UnitPrice
	m.QuantityReturned = l.QuantityReturned
	m.QuantityAccepted = l.QuantityAccepted
	m.QuantityRejected = l.QuantityRejected
	m.Condition = l.Condition
	m.Restocked = l.Restocked
	m.InspectionNotes = l.InspectionNotes
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// ReturnLineModelFromDomain creates a new persistence model from a domain ReturnLine entity.
func ReturnLineModelFromDomain(l *returns.ReturnLine) *ReturnLineModel {
	m := &ReturnLineModel{}
	m.FromDomain(l)
	return m
}

// ReturnReasonModel is the persistence model for the ReturnReason entity.
type ReturnReasonModel struct {
	BaseModel
	Code               string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name               string `gorm:"type:varchar(100);not null"`
	Description        string `gorm:"type:text"`
	AllowsRestock      bool   `gorm:"not null;default:false"`
	RequiresInspection bool   `gorm:"not null;default:true"`
	Active             bool   `gorm:"not null;default:true"`
	SortOrder          int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnReasonModel) TableName() string {
	return "return_reasons"
}

// ToDomain converts the persistence model to a domain ReturnReason entity.
func (m *ReturnReasonModel) ToDomain() *returns.ReturnReason {
	return &returns.ReturnReason{
		BaseEntity:         m.BaseModel.ToDomain(),
		Code:               m.Code,
		Name:               m.Name,
		Description:        m.Description,
		AllowsRestock:      m.AllowsRestock,
		RequiresInspection: m.RequiresInspection,
		Active:             m.Active,
		SortOrder:          m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain ReturnReason entity.
func (m *ReturnReasonModel) FromDomain(r *returns.ReturnReason) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Code = r.Code
	m.Name = r.Name
	m.Description = r.Description
	m.AllowsRestock = r.AllowsRestock
	m.RequiresInspection = r.RequiresInspection
	m.Active = r.Active
	m.SortOrder = r.SortOrder
}

// ReturnReasonModelFromDomain creates a new persistence model from a domain ReturnReason entity.
func ReturnReasonModelFromDomain(r *returns.ReturnReason) *ReturnReasonModel {
	m := &ReturnReasonModel{}
	m.FromDomain(r)
	return m
}

// ReturnNumberSequenceModel backs the per-day return number counter.
// Numbers are allocated with an atomic upsert so concurrent callers
// never receive the same value.
type ReturnNumberSequenceModel struct {
	DateKey    string `gorm:"type:varchar(8);primary_key"`
	LastNumber int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReturnNumberSequenceModel) TableName() string {
	return "return_number_sequences"
}
