package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Code        string           `json:"code" binding:"required,min=1,max=50"`
	Type        string           `json:"type" binding:"required,oneof=RETAIL BUSINESS CONTRACTOR"`
	FirstName   string           `json:"first_name" binding:"max=100"`
	LastName    string           `json:"last_name" binding:"max=100"`
	CompanyName string           `json:"company_name" binding:"max=200"`
	VATCode     string           `json:"vat_code" binding:"max=50"`
	Phone       string           `json:"phone" binding:"max=50"`
	Email       string           `json:"email" binding:"omitempty,email,max=200"`
	Address     string           `json:"address" binding:"max=500"`
	City        string           `json:"city" binding:"max=100"`
	PostalCode  string           `json:"postal_code" binding:"max=20"`
	Country     string           `json:"country" binding:"max=100"`
	CreditLimit *decimal.Decimal `json:"credit_limit"`
	Notes       string           `json:"notes"`
}

// UpdateCustomerRequest represents a request to update a customer
type UpdateCustomerRequest struct {
	FirstName   *string          `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string          `json:"last_name" binding:"omitempty,max=100"`
	CompanyName *string          `json:"company_name" binding:"omitempty,max=200"`
	VATCode     *string          `json:"vat_code" binding:"omitempty,max=50"`
	Phone       *string          `json:"phone" binding:"omitempty,max=50"`
	Email       *string          `json:"email" binding:"omitempty,email,max=200"`
	Address     *string          `json:"address" binding:"omitempty,max=500"`
	City        *string          `json:"city" binding:"omitempty,max=100"`
	PostalCode  *string          `json:"postal_code" binding:"omitempty,max=20"`
	Country     *string          `json:"country" binding:"omitempty,max=100"`
	Notes       *string          `json:"notes"`
}

// SetCreditLimitRequest represents a request to change a credit limit
type SetCreditLimitRequest struct {
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Type            string          `json:"type"`
	Status          string          `json:"status"`
	DisplayName     string          `json:"display_name"`
	FirstName       string          `json:"first_name,omitempty"`
	LastName        string          `json:"last_name,omitempty"`
	CompanyName     string          `json:"company_name,omitempty"`
	VATCode         string          `json:"vat_code,omitempty"`
	Phone           string          `json:"phone,omitempty"`
	Email           string          `json:"email,omitempty"`
	Address         string          `json:"address,omitempty"`
	City            string          `json:"city,omitempty"`
	PostalCode      string          `json:"postal_code,omitempty"`
	Country         string          `json:"country,omitempty"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	OverLimit       bool            `json:"over_limit"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// CustomerListResponse represents a list item for customers
type CustomerListResponse struct {
	ID             uuid.UUID       `json:"id"`
	Code           string          `json:"code"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	DisplayName    string          `json:"display_name"`
	Phone          string          `json:"phone,omitempty"`
	Email          string          `json:"email,omitempty"`
	City           string          `json:"city,omitempty"`
	CreditLimit    decimal.Decimal `json:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	OverLimit      bool            `json:"over_limit"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CustomerListFilter represents filter options for customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	Type     string `form:"type" binding:"omitempty,oneof=RETAIL BUSINESS CONTRACTOR"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BalanceResponse represents a customer's credit standing
type BalanceResponse struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	Code            string          `json:"code"`
	DisplayName     string          `json:"display_name"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	OverLimit       bool            `json:"over_limit"`
}

// ToCustomerResponse converts a domain customer to a response DTO
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Code:            c.Code,
		Type:            string(c.Type),
		Status:          string(c.Status),
		DisplayName:     c.DisplayName(),
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		CompanyName:     c.CompanyName,
		VATCode:         c.VATCode,
		Phone:           c.Phone,
		Email:           c.Email,
		Address:         c.Address,
		City:            c.City,
		PostalCode:      c.PostalCode,
		Country:         c.Country,
		CreditLimit:     c.CreditLimit,
		CurrentBalance:  c.CurrentBalance,
		AvailableCredit: c.AvailableCredit(),
		OverLimit:       c.IsOverLimit(),
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Version:         c.Version,
	}
}

// ToCustomerListResponses converts domain customers to list DTOs
func ToCustomerListResponses(customers []partner.Customer) []CustomerListResponse {
	responses := make([]CustomerListResponse, 0, len(customers))
	for i := range customers {
		c := &customers[i]
		responses = append(responses, CustomerListResponse{
			ID:             c.ID,
			Code:           c.Code,
			Type:           string(c.Type),
			Status:         string(c.Status),
			DisplayName:    c.DisplayName(),
			Phone:          c.Phone,
			Email:          c.Email,
			City:           c.City,
			CreditLimit:    c.CreditLimit,
			CurrentBalance: c.CurrentBalance,
			OverLimit:      c.IsOverLimit(),
			CreatedAt:      c.CreatedAt,
		})
	}
	return responses
}

// ToBalanceResponse converts a domain customer to a balance DTO
func ToBalanceResponse(c *partner.Customer) BalanceResponse {
	return BalanceResponse{
		CustomerID:      c.ID,
		Code:            c.Code,
		DisplayName:     c.DisplayName(),
		CreditLimit:     c.CreditLimit,
		CurrentBalance:  c.CurrentBalance,
		AvailableCredit: c.AvailableCredit(),
		OverLimit:       c.IsOverLimit(),
	}
}
