package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/elektromeistras/creditledger/internal/domain/partner"
	"github.com/elektromeistras/creditledger/internal/domain/returns"
	"github.com/elektromeistras/creditledger/internal/domain/shared"
	"github.com/elektromeistras/creditledger/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/elektromeistras/creditledger/internal/infrastructure/persistence/models"
)

func setupReturnCaseTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.ReturnCaseModel{},
		&models.ReturnLineModel{},
		&models.ReturnNumberSequenceModel{},
	)
	require.NoError(t, err)

	return db
}

func testReturnCustomer(t *testing.T) *partner.Customer {
	t.Helper()
	customer, err := partner.NewRetailCustomer("CUST001", "Jonas", "Petraitis")
	require.NoError(t, err)
	return customer
}

func testReturnReason(t *testing.T) *returns.ReturnReason {
	t.Helper()
	reason, err := returns.NewReturnReason(returns.ReasonWrongItem, "Wrong item", true, true)
	require.NoError(t, err)
	return reason
}

func newSavedReturnCase(t *testing.T, repo *GormReturnCaseRepository, returnNumber string) *returns.ReturnCase {
	t.Helper()
	rc, err := returns.NewReturnCase(
		returnNumber, "P1700000000000",
		testReturnCustomer(t), testReturnReason(t),
		returns.ReturnTypePartial, "spalva ne ta",
	)
	require.NoError(t, err)

	_, err = rc.AddLine(
		uuid.New(), "KABEL-3X15", "Instaliacinis kabelis 3x1.5",
		decimal.NewFromInt(10), valueobject.NewMoneyEUR(decimal.RequireFromString("2.50")),
	)
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), rc))
	return rc
}

func TestGormReturnCaseRepository_SaveAndFind(t *testing.T) {
	db := setupReturnCaseTestDB(t)
	repo := NewGormReturnCaseRepository(db)
	ctx := context.Background()

	t.Run("round-trips a case with its lines", func(t *testing.T) {
		rc := newSavedReturnCase(t, repo, "RET-20260901-0001")

		found, err := repo.FindByID(ctx, rc.ID)
		require.NoError(t, err)
		assert.Equal(t, "RET-20260901-0001", found.ReturnNumber)
		assert.Equal(t, returns.ReturnStatusPending, found.Status)
		require.Len(t, found.Lines, 1)
		assert.Equal(t, "KABEL-3X15", found.Lines[0].ProductCode)
		assert.True(t, found.Lines[0].QuantityReturned.Equal(decimal.NewFromInt(10)))

		byNumber, err := repo.FindByNumber(ctx, "RET-20260901-0001")
		require.NoError(t, err)
		assert.Equal(t, rc.ID, byNumber.ID)
	})

	t.Run("returns NOT_FOUND for unknown number", func(t *testing.T) {
		_, err := repo.FindByNumber(ctx, "RET-19990101-0001")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormReturnCaseRepository_SaveWithLock(t *testing.T) {
	db := setupReturnCaseTestDB(t)
	repo := NewGormReturnCaseRepository(db)
	ctx := context.Background()

	t.Run("persists a lifecycle change", func(t *testing.T) {
		rc := newSavedReturnCase(t, repo, "RET-20260901-0001")

		require.NoError(t, rc.Approve("Ona Kazlauskiene", ""))
		require.NoError(t, repo.SaveWithLock(ctx, rc))

		found, err := repo.FindByID(ctx, rc.ID)
		require.NoError(t, err)
		assert.Equal(t, returns.ReturnStatusApproved, found.Status)
		assert.Equal(t, rc.Version, found.Version)
	})

	t.Run("rejects a stale version", func(t *testing.T) {
		rc := newSavedReturnCase(t, repo, "RET-20260901-0002")

		stale, err := repo.FindByID(ctx, rc.ID)
		require.NoError(t, err)

		require.NoError(t, rc.Approve("Ona Kazlauskiene", ""))
		require.NoError(t, repo.SaveWithLock(ctx, rc))

		require.NoError(t, stale.Approve("Petras Jonaitis", ""))
		err = repo.SaveWithLock(ctx, stale)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormReturnCaseRepository_NextReturnNumber(t *testing.T) {
	db := setupReturnCaseTestDB(t)
	repo := NewGormReturnCaseRepository(db)
	ctx := context.Background()

	date := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	first, err := repo.NextReturnNumber(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "RET-20260901-0001", first)

	second, err := repo.NextReturnNumber(ctx, date)
	require.NoError(t, err)
	assert.Equal(t, "RET-20260901-0002", second)

	// A new day starts a fresh sequence
	other, err := repo.NextReturnNumber(ctx, date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "RET-20260902-0001", other)
}

func TestGormReturnCaseRepository_CountByStatus(t *testing.T) {
	db := setupReturnCaseTestDB(t)
	repo := NewGormReturnCaseRepository(db)
	ctx := context.Background()

	rc := newSavedReturnCase(t, repo, "RET-20260901-0001")

	second, err := returns.NewReturnCase(
		"RET-20260901-0002", "P1700000000001",
		testReturnCustomer(t), testReturnReason(t),
		returns.ReturnTypeFull, "",
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	require.NoError(t, rc.Approve("Ona Kazlauskiene", ""))
	require.NoError(t, repo.SaveWithLock(ctx, rc))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[returns.ReturnStatusPending])
	assert.Equal(t, int64(1), counts[returns.ReturnStatusApproved])
}
