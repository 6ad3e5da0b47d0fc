package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// CustomerType represents the type of customer
type CustomerType string

const (
	CustomerTypeRetail     CustomerType = "RETAIL"     // Private person
	CustomerTypeBusiness   CustomerType = "BUSINESS"   // Company
	CustomerTypeContractor CustomerType = "CONTRACTOR" // Electrician / installer buying on account
)

// DefaultCountry is applied when no country is provided
const DefaultCountry = "Lithuania"

// Customer represents a credit account holder.
// It is the aggregate root for customer-related operations; the balance
// is only ever mutated through confirmed credit transactions.
type Customer struct {
	shared.BaseAggregateRoot
	Code           string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Type           CustomerType    `gorm:"type:varchar(20);not null;default:'RETAIL'"`
	CompanyName    string          `gorm:"type:varchar(300)"`
	VATCode        string          `gorm:"type:varchar(50);index"`
	FirstName      string          `gorm:"type:varchar(100)"`
	LastName       string          `gorm:"type:varchar(100)"`
	Email          string          `gorm:"type:varchar(200);index"`
	Phone          string          `gorm:"type:varchar(50)"`
	Address        string          `gorm:"type:text"`
	City           string          `gorm:"type:varchar(100)"`
	PostalCode     string          `gorm:"type:varchar(20)"`
	Country        string          `gorm:"type:varchar(100);default:'Lithuania'"`
	CreditLimit    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Outstanding debt
	Status         CustomerStatus  `gorm:"type:varchar(20);not null;default:'active'"`
	Notes          string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields
func NewCustomer(code string, customerType CustomerType) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerType(customerType); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Type:              customerType,
		Status:            CustomerStatusActive,
		CreditLimit:       decimal.Zero,
		CurrentBalance:    decimal.Zero,
		Country:           DefaultCountry,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// NewRetailCustomer creates a new retail customer with personal names
func NewRetailCustomer(code, firstName, lastName string) (*Customer, error) {
	customer, err := NewCustomer(code, CustomerTypeRetail)
	if err != nil {
		return nil, err
	}
	if err := customer.SetPersonName(firstName, lastName); err != nil {
		return nil, err
	}
	return customer, nil
}

// NewBusinessCustomer creates a new business customer with a company name
func NewBusinessCustomer(code, companyName, vatCode string) (*Customer, error) {
	customer, err := NewCustomer(code, CustomerTypeBusiness)
	if err != nil {
		return nil, err
	}
	if err := customer.SetCompany(companyName, vatCode); err != nil {
		return nil, err
	}
	return customer, nil
}

// DisplayName returns the customer-facing name: the company name for
// business and contractor accounts, the personal name otherwise.
func (c *Customer) DisplayName() string {
	if c.Type == CustomerTypeBusiness || c.Type == CustomerTypeContractor {
		if c.CompanyName != "" {
			return c.CompanyName
		}
	}
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name == "" {
		return c.Code
	}
	return name
}

// SetPersonName sets the personal name fields
func (c *Customer) SetPersonName(firstName, lastName string) error {
	if len(firstName) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "First name cannot exceed 100 characters")
	}
	if len(lastName) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Last name cannot exceed 100 characters")
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCompany sets the company name and VAT code
func (c *Customer) SetCompany(companyName, vatCode string) error {
	if companyName == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Company name cannot be empty")
	}
	if len(companyName) > 300 {
		return shared.NewDomainError("VALIDATION_ERROR", "Company name cannot exceed 300 characters")
	}
	if len(vatCode) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "VAT code cannot exceed 50 characters")
	}

	c.CompanyName = companyName
	c.VATCode = vatCode
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetContact sets the customer's contact information
func (c *Customer) SetContact(phone, email string) error {
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.Email = email
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address information
func (c *Customer) SetAddress(address, city, postalCode, country string) error {
	if len(address) > 500 {
		return shared.NewDomainError("VALIDATION_ERROR", "Address cannot exceed 500 characters")
	}
	if len(city) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "City cannot exceed 100 characters")
	}
	if len(postalCode) > 20 {
		return shared.NewDomainError("VALIDATION_ERROR", "Postal code cannot exceed 20 characters")
	}
	if len(country) > 100 {
		return shared.NewDomainError("VALIDATION_ERROR", "Country cannot exceed 100 characters")
	}

	c.Address = address
	c.City = city
	c.PostalCode = postalCode
	if country != "" {
		c.Country = country
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// SetCreditLimit sets the customer's credit limit
func (c *Customer) SetCreditLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Credit limit cannot be negative")
	}

	oldLimit := c.CreditLimit
	c.CreditLimit = limit
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerCreditLimitChangedEvent(c, oldLimit, limit))

	return nil
}

// IncreaseBalance increases the outstanding debt.
// Called by the ledger when a pickup transaction is confirmed; the
// balance is allowed to exceed the credit limit (over-limit is advisory).
func (c *Customer) IncreaseBalance(amount decimal.Decimal, reason string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}

	oldBalance := c.CurrentBalance
	c.CurrentBalance = c.CurrentBalance.Add(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, oldBalance, c.CurrentBalance, reason))

	return nil
}

// DecreaseBalance decreases the outstanding debt.
// Called by the ledger when a return transaction is confirmed; the
// balance may go below zero (the customer is then in credit).
func (c *Customer) DecreaseBalance(amount decimal.Decimal, reason string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Amount must be positive")
	}

	oldBalance := c.CurrentBalance
	c.CurrentBalance = c.CurrentBalance.Sub(amount)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerBalanceChangedEvent(c, oldBalance, c.CurrentBalance, reason))

	return nil
}

// SetNotes sets the customer's notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusActive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusActive))

	return nil
}

// Deactivate deactivates the customer. Customers are never deleted.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}

	oldStatus := c.Status
	c.Status = CustomerStatusInactive
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerStatusChangedEvent(c, oldStatus, CustomerStatusInactive))

	return nil
}

// IsActive returns true if the customer is active
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

// HasCreditLimit returns true if customer has a credit limit set
func (c *Customer) HasCreditLimit() bool {
	return c.CreditLimit.GreaterThan(decimal.Zero)
}

// AvailableCredit returns the remaining headroom under the credit limit.
// Negative when the customer is over limit.
func (c *Customer) AvailableCredit() decimal.Decimal {
	return c.CreditLimit.Sub(c.CurrentBalance)
}

// IsOverLimit returns true if the current balance strictly exceeds the limit
func (c *Customer) IsOverLimit() bool {
	return c.CurrentBalance.GreaterThan(c.CreditLimit)
}

// Validation functions

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("VALIDATION_ERROR", "Customer code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateCustomerType(t CustomerType) error {
	switch t {
	case CustomerTypeRetail, CustomerTypeBusiness, CustomerTypeContractor:
		return nil
	default:
		return shared.NewDomainError("VALIDATION_ERROR", "Customer type must be RETAIL, BUSINESS, or CONTRACTOR")
	}
}

func validatePhone(phone string) error {
	if len(phone) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "Phone number cannot exceed 50 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid phone number format")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Email cannot exceed 200 characters")
	}
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid email format")
	}
	return nil
}
