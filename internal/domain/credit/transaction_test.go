package credit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
)

func newTestCustomer(t *testing.T, limit int64) *partner.Customer {
	t.Helper()
	customer, err := partner.NewRetailCustomer("CUST001", "Jonas", "Petraitis")
	require.NoError(t, err)
	require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(limit)))
	customer.ClearDomainEvents()
	return customer
}

func newPendingPickup(t *testing.T, customer *partner.Customer) *CreditTransaction {
	t.Helper()
	tx, err := NewCreditTransaction(
		NewTransactionNumber(TransactionTypePickup, time.Now()),
		customer, TransactionTypePickup, "Ona Kazlauskiene", RoleEmployee,
	)
	require.NoError(t, err)
	_, err = tx.AddLine(uuid.New(), "A", "Cable 3x1.5", decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(100))
	require.NoError(t, err)
	return tx
}

func TestNewTransactionNumber(t *testing.T) {
	at := time.UnixMilli(1700000000000)

	assert.Equal(t, "P1700000000000", NewTransactionNumber(TransactionTypePickup, at))
	assert.Equal(t, "R1700000000000", NewTransactionNumber(TransactionTypeReturn, at))
}

func TestTransactionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{TransactionStatusPending, TransactionStatusConfirmed, true},
		{TransactionStatusPending, TransactionStatusCancelled, true},
		{TransactionStatusPending, TransactionStatusInvoiced, false},
		{TransactionStatusConfirmed, TransactionStatusInvoiced, true},
		{TransactionStatusConfirmed, TransactionStatusCancelled, false},
		{TransactionStatusConfirmed, TransactionStatusPending, false},
		{TransactionStatusInvoiced, TransactionStatusCancelled, false},
		{TransactionStatusCancelled, TransactionStatusConfirmed, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestNewCreditTransaction(t *testing.T) {
	t.Run("creates pending transaction", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx, err := NewCreditTransaction("P123", customer, TransactionTypePickup, "Ona", RoleEmployee)
		require.NoError(t, err)

		assert.Equal(t, TransactionStatusPending, tx.Status)
		assert.Equal(t, customer.ID, tx.CustomerID)
		assert.Equal(t, "CUST001", tx.CustomerCode)
		assert.Equal(t, "Jonas Petraitis", tx.CustomerName)
		assert.True(t, tx.TotalAmount.IsZero())
		assert.Len(t, tx.GetDomainEvents(), 1)
	})

	t.Run("rejects inactive customer", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		require.NoError(t, customer.Deactivate())

		_, err := NewCreditTransaction("P124", customer, TransactionTypePickup, "Ona", RoleEmployee)
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		_, err := NewCreditTransaction("X125", customer, TransactionType("LOAN"), "Ona", RoleEmployee)
		assert.Error(t, err)
	})

	t.Run("rejects missing performer", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		_, err := NewCreditTransaction("P126", customer, TransactionTypePickup, "", RoleEmployee)
		assert.Error(t, err)
	})

	t.Run("rejects invalid role", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		_, err := NewCreditTransaction("P127", customer, TransactionTypePickup, "Ona", PerformedByRole("MANAGER"))
		assert.Error(t, err)
	})
}

func TestTransactionLines(t *testing.T) {
	t.Run("line total is quantity times unit price", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx, _ := NewCreditTransaction("P200", customer, TransactionTypePickup, "Ona", RoleEmployee)

		line, err := tx.AddLine(uuid.New(), "A", "Cable 3x1.5", decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(100))
		require.NoError(t, err)

		assert.Equal(t, "200", line.LineTotal.String())
		assert.Equal(t, "200", tx.TotalAmount.String())
		assert.Equal(t, "2", tx.TotalItems.String())
	})

	t.Run("totals recomputed across lines", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx, _ := NewCreditTransaction("P201", customer, TransactionTypePickup, "Ona", RoleEmployee)

		_, err := tx.AddLine(uuid.New(), "A", "Cable", decimal.NewFromInt(2), valueobject.NewMoneyEURFromFloat(100))
		require.NoError(t, err)
		line2, err := tx.AddLine(uuid.New(), "B", "Socket", decimal.NewFromInt(3), valueobject.NewMoneyEURFromFloat(9.50))
		require.NoError(t, err)

		assert.Equal(t, "228.5", tx.TotalAmount.String())
		assert.Equal(t, "5", tx.TotalItems.String())

		require.NoError(t, tx.UpdateLineQuantity(line2.ID, decimal.NewFromInt(1)))
		assert.Equal(t, "209.5", tx.TotalAmount.String())
		assert.Equal(t, "3", tx.TotalItems.String())

		require.NoError(t, tx.RemoveLine(line2.ID))
		assert.Equal(t, "200", tx.TotalAmount.String())
	})

	t.Run("rejects zero or negative quantity", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx, _ := NewCreditTransaction("P202", customer, TransactionTypePickup, "Ona", RoleEmployee)

		_, err := tx.AddLine(uuid.New(), "A", "Cable", decimal.Zero, valueobject.NewMoneyEURFromFloat(100))
		assert.Error(t, err)
		_, err = tx.AddLine(uuid.New(), "A", "Cable", decimal.NewFromInt(-1), valueobject.NewMoneyEURFromFloat(100))
		assert.Error(t, err)
	})

	t.Run("lines immutable after confirmation", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Confirm("Jonas", "sig-data", "", ""))

		_, err := tx.AddLine(uuid.New(), "B", "Socket", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(5))
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestTransactionConfirm(t *testing.T) {
	t.Run("confirm stamps fields and emits event", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)

		err := tx.Confirm("Jonas Petraitis", "sig-data", "photo-data", "atsiskaitys menesio gale")
		require.NoError(t, err)

		assert.Equal(t, TransactionStatusConfirmed, tx.Status)
		assert.Equal(t, "Jonas Petraitis", tx.ConfirmedBy)
		assert.NotNil(t, tx.ConfirmedAt)
		assert.Equal(t, "sig-data", tx.SignatureData)
		assert.Contains(t, tx.Notes, "atsiskaitys")

		events := tx.GetDomainEvents()
		assert.Equal(t, EventTypeTransactionConfirmed, events[len(events)-1].EventType())
	})

	t.Run("signature required", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)

		err := tx.Confirm("Jonas", "", "", "")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_ERROR", domainErr.Code)
		assert.Equal(t, TransactionStatusPending, tx.Status)
	})

	t.Run("confirm without lines fails with empty transaction", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx, _ := NewCreditTransaction("P300", customer, TransactionTypePickup, "Ona", RoleEmployee)

		err := tx.Confirm("Jonas", "sig", "", "")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_TRANSACTION", domainErr.Code)
	})

	t.Run("double confirm fails with invalid state", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Confirm("Jonas", "sig", "", ""))

		err := tx.Confirm("Jonas", "sig", "", "")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
		assert.Contains(t, domainErr.Message, "CONFIRMED")
	})
}

func TestTransactionCancel(t *testing.T) {
	t.Run("cancel pending with reason", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)

		require.NoError(t, tx.Cancel("klaida"))
		assert.Equal(t, TransactionStatusCancelled, tx.Status)
		assert.Equal(t, "klaida", tx.CancelReason)
		assert.NotNil(t, tx.CancelledAt)
	})

	t.Run("reason required", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		assert.Error(t, tx.Cancel(""))
		assert.Equal(t, TransactionStatusPending, tx.Status)
	})

	t.Run("confirm after cancel fails", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Cancel("klaida"))

		err := tx.Confirm("Jonas", "sig", "", "")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("cancel after confirm fails", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Confirm("Jonas", "sig", "", ""))

		err := tx.Cancel("persigalvojo")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestTransactionInvoice(t *testing.T) {
	t.Run("invoice confirmed transaction", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Confirm("Jonas", "sig", "", ""))

		require.NoError(t, tx.MarkInvoiced("SF-2026-0001"))
		assert.Equal(t, TransactionStatusInvoiced, tx.Status)
		assert.Equal(t, "SF-2026-0001", tx.InvoiceNumber)
	})

	t.Run("pending transaction cannot be invoiced", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		assert.Error(t, tx.MarkInvoiced("SF-2026-0002"))
	})
}

func TestTransactionReversal(t *testing.T) {
	t.Run("reverse confirmed transaction once", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		require.NoError(t, tx.Confirm("Jonas", "sig", "", ""))

		require.NoError(t, tx.MarkReversed("wrong customer", "admin"))
		assert.True(t, tx.Reversed)
		assert.NotNil(t, tx.ReversedAt)

		err := tx.MarkReversed("again", "admin")
		require.Error(t, err)
		domainErr := &shared.DomainError{}
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("pending transaction cannot be reversed", func(t *testing.T) {
		customer := newTestCustomer(t, 1000)
		tx := newPendingPickup(t, customer)
		assert.Error(t, tx.MarkReversed("reason", "admin"))
	})
}

func TestSignedAmount(t *testing.T) {
	customer := newTestCustomer(t, 1000)

	pickup := newPendingPickup(t, customer)
	assert.Equal(t, "200", pickup.SignedAmount().String())

	ret, err := NewCreditTransaction("R999", customer, TransactionTypeReturn, "Ona", RoleEmployee)
	require.NoError(t, err)
	_, err = ret.AddLine(uuid.New(), "A", "Cable", decimal.NewFromInt(1), valueobject.NewMoneyEURFromFloat(50))
	require.NoError(t, err)
	assert.Equal(t, "-50", ret.SignedAmount().String())
}
