package persistence

import (
	"context"
	"testing"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence/models"
)

func setupCustomerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.CustomerModel{}))

	return db
}

func saveCustomerWithBalance(t *testing.T, repo *GormCustomerRepository, code string, limit, balance int64) *partner.Customer {
	t.Helper()
	customer, err := partner.NewRetailCustomer(code, "Jonas", "Petraitis")
	require.NoError(t, err)
	if limit > 0 {
		require.NoError(t, customer.SetCreditLimit(decimal.NewFromInt(limit)))
	}
	if balance > 0 {
		require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(balance), "pradinis likutis"))
	}
	require.NoError(t, repo.Save(context.Background(), customer))
	return customer
}

func TestGormCustomerRepository_FindByCode(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	saveCustomerWithBalance(t, repo, "CUST001", 0, 0)

	t.Run("uppercases the lookup code", func(t *testing.T) {
		found, err := repo.FindByCode(ctx, "cust001")
		require.NoError(t, err)
		assert.Equal(t, "CUST001", found.Code)
	})

	t.Run("returns NOT_FOUND for unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "NOSUCH")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormCustomerRepository_FindOverLimit(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	saveCustomerWithBalance(t, repo, "UNDER", 100, 50)
	saveCustomerWithBalance(t, repo, "ATLIMIT", 100, 100)
	over := saveCustomerWithBalance(t, repo, "OVER", 100, 150)

	found, err := repo.FindOverLimit(ctx, shared.DefaultFilter())
	require.NoError(t, err)

	// The balance must strictly exceed the limit
	require.Len(t, found, 1)
	assert.Equal(t, over.ID, found[0].ID)
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	db := setupCustomerTestDB(t)
	repo := NewGormCustomerRepository(db)
	ctx := context.Background()

	customer := saveCustomerWithBalance(t, repo, "CUST001", 200, 0)

	stale, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)

	require.NoError(t, customer.IncreaseBalance(decimal.NewFromInt(25), "pirmas atsiemimas"))
	require.NoError(t, repo.SaveWithLock(ctx, customer))

	require.NoError(t, stale.IncreaseBalance(decimal.NewFromInt(40), "antras atsiemimas"))
	err = repo.SaveWithLock(ctx, stale)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	found, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, found.CurrentBalance.Equal(decimal.NewFromInt(25)))
}
