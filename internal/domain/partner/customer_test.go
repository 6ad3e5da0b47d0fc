package partner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektromeistras/creditledger/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates active customer with defaults", func(t *testing.T) {
		customer, err := NewCustomer("CUST001", CustomerTypeRetail)
		require.NoError(t, err)

		assert.Equal(t, "CUST001", customer.Code)
		assert.Equal(t, CustomerTypeRetail, customer.Type)
		assert.Equal(t, CustomerStatusActive, customer.Status)
		assert.Equal(t, DefaultCountry, customer.Country)
		assert.True(t, customer.CreditLimit.IsZero())
		assert.True(t, customer.CurrentBalance.IsZero())
		assert.Len(t, customer.GetDomainEvents(), 1)
	})

	t.Run("uppercases the code", func(t *testing.T) {
		customer, err := NewCustomer("cust002", CustomerTypeBusiness)
		require.NoError(t, err)
		assert.Equal(t, "CUST002", customer.Code)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewCustomer("", CustomerTypeRetail)
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
	})

	t.Run("rejects code with invalid characters", func(t *testing.T) {
		_, err := NewCustomer("CUST 003", CustomerTypeRetail)
		assert.Error(t, err)
	})

	t.Run("rejects unknown customer type", func(t *testing.T) {
		_, err := NewCustomer("CUST004", CustomerType("WHOLESALE"))
		assert.Error(t, err)
	})
}

func TestCustomerDisplayName(t *testing.T) {
	t.Run("retail uses personal name", func(t *testing.T) {
		customer, err := NewRetailCustomer("R001", "Jonas", "Petraitis")
		require.NoError(t, err)
		assert.Equal(t, "Jonas Petraitis", customer.DisplayName())
	})

	t.Run("business uses company name", func(t *testing.T) {
		customer, err := NewBusinessCustomer("B001", "UAB Elektra", "LT123456789")
		require.NoError(t, err)
		assert.Equal(t, "UAB Elektra", customer.DisplayName())
		assert.Equal(t, "LT123456789", customer.VATCode)
	})

	t.Run("falls back to code when no names set", func(t *testing.T) {
		customer, err := NewCustomer("C001", CustomerTypeRetail)
		require.NoError(t, err)
		assert.Equal(t, "C001", customer.DisplayName())
	})
}

func TestCustomerCreditLimit(t *testing.T) {
	t.Run("sets non-negative limit", func(t *testing.T) {
		customer, _ := NewCustomer("C002", CustomerTypeContractor)
		err := customer.SetCreditLimit(decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.True(t, customer.CreditLimit.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("rejects negative limit", func(t *testing.T) {
		customer, _ := NewCustomer("C003", CustomerTypeContractor)
		err := customer.SetCreditLimit(decimal.NewFromInt(-1))
		assert.Error(t, err)
	})

	t.Run("available credit", func(t *testing.T) {
		customer, _ := NewCustomer("C004", CustomerTypeContractor)
		require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(1000)))
		require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(300), "pickup_confirmed"))
		assert.True(t, customer.AvailableCredit().Equal(decimal.NewFromInt(700)))
	})
}

func TestCustomerBalance(t *testing.T) {
	newCustomer := func(t *testing.T) *Customer {
		customer, err := NewCustomer("C010", CustomerTypeContractor)
		require.NoError(t, err)
		require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(1000)))
		customer.ClearDomainEvents()
		return customer
	}

	t.Run("increase adds debt and emits event", func(t *testing.T) {
		customer := newCustomer(t)
		err := customer.IncreaseBalance(decimal.NewFromInt(200), "pickup_confirmed")
		require.NoError(t, err)
		assert.True(t, customer.CurrentBalance.Equal(decimal.NewFromInt(200)))

		events := customer.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeCustomerBalanceChanged, events[0].EventType())
	})

	t.Run("decrease reduces debt", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(200), "pickup_confirmed"))
		require.NoError(t, customer.DecreaseBalance(decimal.NewFromInt(50), "return_confirmed"))
		assert.True(t, customer.CurrentBalance.Equal(decimal.NewFromInt(150)))
	})

	t.Run("balance may go below zero", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.DecreaseBalance(decimal.NewFromInt(30), "return_confirmed"))
		assert.True(t, customer.CurrentBalance.Equal(decimal.NewFromInt(-30)))
	})

	t.Run("balance may exceed the credit limit", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(1500), "pickup_confirmed"))
		assert.True(t, customer.IsOverLimit())
		assert.True(t, customer.AvailableCredit().IsNegative())
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		customer := newCustomer(t)
		assert.Error(t, customer.IncreaseBalance(decimal.Zero, "x"))
		assert.Error(t, customer.DecreaseBalance(decimal.NewFromInt(-5), "x"))
	})

	t.Run("exactly at limit is not over limit", func(t *testing.T) {
		customer := newCustomer(t)
		require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(1000), "pickup_confirmed"))
		assert.False(t, customer.IsOverLimit())
	})
}

func TestCustomerStatus(t *testing.T) {
	t.Run("deactivate then activate", func(t *testing.T) {
		customer, _ := NewCustomer("C020", CustomerTypeRetail)

		require.NoError(t, customer.Deactivate())
		assert.False(t, customer.IsActive())

		require.NoError(t, customer.Activate())
		assert.True(t, customer.IsActive())
	})

	t.Run("double deactivate fails", func(t *testing.T) {
		customer, _ := NewCustomer("C021", CustomerTypeRetail)
		require.NoError(t, customer.Deactivate())
		assert.Error(t, customer.Deactivate())
	})
}

func TestCustomerContact(t *testing.T) {
	t.Run("valid contact", func(t *testing.T) {
		customer, _ := NewCustomer("C030", CustomerTypeRetail)
		err := customer.SetContact("+370 600 12345", "jonas@example.lt")
		require.NoError(t, err)
		assert.Equal(t, "+370 600 12345", customer.Phone)
	})

	t.Run("invalid email", func(t *testing.T) {
		customer, _ := NewCustomer("C031", CustomerTypeRetail)
		assert.Error(t, customer.SetContact("", "not-an-email"))
	})

	t.Run("invalid phone", func(t *testing.T) {
		customer, _ := NewCustomer("C032", CustomerTypeRetail)
		assert.Error(t, customer.SetContact("abc!", ""))
	})
}
