package returns

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/returns"
)

// ReturnLineRequest represents one line on a create request
type ReturnLineRequest struct {
	ProductID        uuid.UUID       `json:"product_id" binding:"required"`
	ProductCode      string          `json:"product_code" binding:"required,min=1,max=50"`
	ProductName      string          `json:"product_name" binding:"required,min=1,max=200"`
	QuantityReturned decimal.Decimal `json:"quantity_returned" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price" binding:"required"`
}

// CreateReturnRequest represents a request to open a return case
type CreateReturnRequest struct {
	OrderNumber      string              `json:"order_number" binding:"required,min=1,max=50"`
	CustomerID       uuid.UUID           `json:"customer_id" binding:"required"`
	ReasonCode       string              `json:"reason_code" binding:"required,min=1,max=50"`
	Type             string              `json:"type" binding:"required,oneof=FULL PARTIAL"`
	Lines            []ReturnLineRequest `json:"lines" binding:"required,min=1,dive"`
	CustomerComments string              `json:"customer_comments" binding:"max=1000"`
}

// ApproveReturnRequest approves a pending return
type ApproveReturnRequest struct {
	ApprovedBy string `json:"approved_by" binding:"required,min=1,max=200"`
	Notes      string `json:"notes"`
}

// RejectReturnRequest rejects a pending return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// MarkInTransitRequest records carrier handoff
type MarkInTransitRequest struct {
	Carrier        string `json:"carrier" binding:"max=100"`
	TrackingNumber string `json:"tracking_number" binding:"max=100"`
}

// MarkReceivedRequest records warehouse receipt
type MarkReceivedRequest struct {
	ReceivedBy string `json:"received_by" binding:"required,min=1,max=200"`
}

// LineInspectionRequest carries one line's inspection result
type LineInspectionRequest struct {
	LineID           uuid.UUID       `json:"line_id" binding:"required"`
	QuantityAccepted decimal.Decimal `json:"quantity_accepted"`
	QuantityRejected decimal.Decimal `json:"quantity_rejected"`
	Condition        string          `json:"condition" binding:"required,oneof=PERFECT GOOD DAMAGED DEFECTIVE MISSING_PARTS"`
	Notes            string          `json:"notes"`
}

// InspectReturnRequest applies inspection results to all lines
type InspectReturnRequest struct {
	InspectedBy string                  `json:"inspected_by" binding:"required,min=1,max=200"`
	Lines       []LineInspectionRequest `json:"lines" binding:"required,min=1,dive"`
}

// ProcessRefundRequest records the refund payout
type ProcessRefundRequest struct {
	Method    string          `json:"method" binding:"required,oneof=cash bank_transfer credit_note card"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference" binding:"max=100"`
}

// ReturnLineResponse represents a line in API responses
type ReturnLineResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	QuantityReturned decimal.Decimal `json:"quantity_returned"`
	QuantityAccepted decimal.Decimal `json:"quantity_accepted"`
	QuantityRejected decimal.Decimal `json:"quantity_rejected"`
	Condition        string          `json:"condition"`
	Restocked        bool            `json:"restocked"`
	InspectionNotes  string          `json:"inspection_notes,omitempty"`
}

// ReturnResponse represents a return case in API responses
type ReturnResponse struct {
	ID               uuid.UUID            `json:"id"`
	ReturnNumber     string               `json:"return_number"`
	OrderNumber      string               `json:"order_number"`
	CustomerID       uuid.UUID            `json:"customer_id"`
	CustomerCode     string               `json:"customer_code"`
	CustomerName     string               `json:"customer_name"`
	Type             string               `json:"type"`
	Status           string               `json:"status"`
	ReasonCode       string               `json:"reason_code"`
	Lines            []ReturnLineResponse `json:"lines"`
	CustomerComments string               `json:"customer_comments,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	ApprovedAt       *time.Time           `json:"approved_at,omitempty"`
	ApprovedBy       string               `json:"approved_by,omitempty"`
	RejectedAt       *time.Time           `json:"rejected_at,omitempty"`
	RejectReason     string               `json:"reject_reason,omitempty"`
	InTransitAt      *time.Time           `json:"in_transit_at,omitempty"`
	Carrier          string               `json:"carrier,omitempty"`
	TrackingNumber   string               `json:"tracking_number,omitempty"`
	ReceivedAt       *time.Time           `json:"received_at,omitempty"`
	ReceivedBy       string               `json:"received_by,omitempty"`
	InspectedAt      *time.Time           `json:"inspected_at,omitempty"`
	InspectedBy      string               `json:"inspected_by,omitempty"`
	CompletedAt      *time.Time           `json:"completed_at,omitempty"`
	RefundAmount     decimal.Decimal      `json:"refund_amount"`
	RefundStatus     string               `json:"refund_status"`
	RefundMethod     string               `json:"refund_method,omitempty"`
	RefundReference  string               `json:"refund_reference,omitempty"`
	RefundDate       *time.Time           `json:"refund_date,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int                  `json:"version"`
}

// ReturnListResponse represents a list item for return cases
type ReturnListResponse struct {
	ID           uuid.UUID       `json:"id"`
	ReturnNumber string          `json:"return_number"`
	OrderNumber  string          `json:"order_number"`
	CustomerCode string          `json:"customer_code"`
	CustomerName string          `json:"customer_name"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	ReasonCode   string          `json:"reason_code"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	RefundStatus string          `json:"refund_status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ReturnListFilter represents filter options for return case list
type ReturnListFilter struct {
	CustomerID  string `form:"customer_id" binding:"omitempty,uuid"`
	Status      string `form:"status" binding:"omitempty,oneof=PENDING APPROVED IN_TRANSIT RECEIVED INSPECTED COMPLETED REJECTED"`
	ReasonCode  string `form:"reason_code"`
	OrderNumber string `form:"order_number"`
	DateFrom    string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ReasonResponse represents a return reason in API responses
type ReasonResponse struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	Description        string `json:"description,omitempty"`
	AllowsRestock      bool   `json:"allows_restock"`
	RequiresInspection bool   `json:"requires_inspection"`
}

// ToReturnResponse converts a domain return case to a response DTO
func ToReturnResponse(rc *returns.ReturnCase) ReturnResponse {
	lines := make([]ReturnLineResponse, 0, len(rc.Lines))
	for i := range rc.Lines {
		l := &rc.Lines[i]
		lines = append(lines, ReturnLineResponse{
			ID:               l.ID,
			ProductID:        l.ProductID,
			ProductCode:      l.ProductCode,
			ProductName:      l.ProductName,
			UnitPrice:        l.UnitPrice,
			QuantityReturned: l.QuantityReturned,
			QuantityAccepted: l.QuantityAccepted,
			QuantityRejected: l.QuantityRejected,
			Condition:        string(l.Condition),
			Restocked:        l.Restocked,
			InspectionNotes:  l.InspectionNotes,
		})
	}

	return ReturnResponse{
		ID:               rc.ID,
		ReturnNumber:     rc.ReturnNumber,
		OrderNumber:      rc.OrderNumber,
		CustomerID:       rc.CustomerID,
		CustomerCode:     rc.CustomerCode,
		CustomerName:     rc.CustomerName,
		Type:             string(rc.Type),
		Status:           string(rc.Status),
		ReasonCode:       rc.ReasonCode,
		Lines:            lines,
		CustomerComments: rc.CustomerComments,
		Notes:            rc.Notes,
		ApprovedAt:       rc.ApprovedAt,
		ApprovedBy:       rc.ApprovedBy,
		RejectedAt:       rc.RejectedAt,
		RejectReason:     rc.RejectReason,
		InTransitAt:      rc.InTransitAt,
		Carrier:          rc.Carrier,
		TrackingNumber:   rc.TrackingNumber,
		ReceivedAt:       rc.ReceivedAt,
		ReceivedBy:       rc.ReceivedBy,
		InspectedAt:      rc.InspectedAt,
		InspectedBy:      rc.InspectedBy,
		CompletedAt:      rc.CompletedAt,
		RefundAmount:     rc.RefundAmount,
		RefundStatus:     string(rc.RefundStatus),
		RefundMethod:     rc.RefundMethod,
		RefundReference:  rc.RefundReference,
		RefundDate:       rc.RefundDate,
		CreatedAt:        rc.CreatedAt,
		UpdatedAt:        rc.UpdatedAt,
		Version:          rc.Version,
	}
}

// ToReturnListResponses converts domain return cases to list DTOs
func ToReturnListResponses(cases []returns.ReturnCase) []ReturnListResponse {
	responses := make([]ReturnListResponse, 0, len(cases))
	for i := range cases {
		rc := &cases[i]
		responses = append(responses, ReturnListResponse{
			ID:           rc.ID,
			ReturnNumber: rc.ReturnNumber,
			OrderNumber:  rc.OrderNumber,
			CustomerCode: rc.CustomerCode,
			CustomerName: rc.CustomerName,
			Type:         string(rc.Type),
			Status:       string(rc.Status),
			ReasonCode:   rc.ReasonCode,
			RefundAmount: rc.RefundAmount,
			RefundStatus: string(rc.RefundStatus),
			CreatedAt:    rc.CreatedAt,
		})
	}
	return responses
}

// ToReasonResponses converts domain reasons to DTOs
func ToReasonResponses(reasons []returns.ReturnReason) []ReasonResponse {
	responses := make([]ReasonResponse, 0, len(reasons))
	for i := range reasons {
		r := &reasons[i]
		responses = append(responses, ReasonResponse{
			Code:               r.Code,
			Name:               r.Name,
			Description:        r.Description,
			AllowsRestock:      r.AllowsRestock,
			RequiresInspection: r.RequiresInspection,
		})
	}
	return responses
}
