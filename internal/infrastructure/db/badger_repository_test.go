package db

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTx(id string, typ entity.TransactionType, category, amount string, date time.Time) entity.Transaction {
	return entity.Transaction{
		ID:          id,
		Type:        typ,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
		Date:        date,
		Description: "test " + id,
	}
}

func ids(txs []entity.Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}
	return out
}

func TestBadgerTransactionRepository(t *testing.T) {
	repo, err := NewBadgerTransactionRepository(openTestDB(t))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	date := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	// Keys sort differently from insertion order on purpose
	_, err = repo.Append(ctx, newTx("zeta", entity.Credit, "Salário", "1000", date))
	require.NoError(t, err)
	_, err = repo.Append(ctx, newTx("alpha", entity.Debit, "Lazer", "25.50", date))
	require.NoError(t, err)
	list, err := repo.Append(ctx, newTx("mid", entity.Debit, "Contas", "80", date.AddDate(0, 0, -1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids(list))

	t.Run("FindByID", func(t *testing.T) {
		tx, err := repo.FindByID(ctx, "alpha")
		require.NoError(t, err)
		assert.Equal(t, "25.5", tx.Amount.String())
		assert.Equal(t, entity.Debit, tx.Type)
		assert.True(t, tx.Date.Equal(date))

		_, err = repo.FindByID(ctx, "missing")
		assert.True(t, entity.IsNotFound(err))
	})

	t.Run("Append rejects duplicates and invalid records", func(t *testing.T) {
		_, err := repo.Append(ctx, newTx("alpha", entity.Debit, "Lazer", "1", date))
		assert.True(t, entity.IsValidation(err))

		_, err = repo.Append(ctx, newTx("bad", entity.Credit, "Lazer", "1", date))
		assert.True(t, entity.IsValidation(err))

		list, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})

	t.Run("Replace keeps position", func(t *testing.T) {
		list, err := repo.Replace(ctx, "alpha", newTx("ignored", entity.Debit, "Moradia", "700", date))
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, ids(list))
		assert.Equal(t, "Moradia", list[1].Category)

		_, err = repo.Replace(ctx, "missing", newTx("missing", entity.Debit, "Moradia", "1", date))
		assert.True(t, entity.IsNotFound(err))
	})

	t.Run("Remove", func(t *testing.T) {
		list, err := repo.Remove(ctx, "zeta")
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "mid"}, ids(list))

		_, err = repo.Remove(ctx, "zeta")
		assert.True(t, entity.IsNotFound(err))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.List(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBadgerLimitRepository(t *testing.T) {
	repo := NewBadgerLimitRepository(openTestDB(t))
	ctx := context.Background()

	limits, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, limits)

	require.NoError(t, repo.Set(ctx, "Alimentação", decimal.RequireFromString("650.00")))
	require.NoError(t, repo.Set(ctx, "Lazer", decimal.NewFromInt(200)))
	require.NoError(t, repo.Set(ctx, "Lazer", decimal.NewFromInt(250)))

	limits, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, limits, 2)
	assert.Equal(t, "650", limits["Alimentação"].String())
	assert.Equal(t, "250", limits["Lazer"].String())
}

func TestBadgerPreferencesRepository(t *testing.T) {
	repo := NewBadgerPreferencesRepository(openTestDB(t))
	ctx := context.Background()

	prefs, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.BRL, prefs.BaseCurrency)
	assert.False(t, prefs.ThemeDark)

	saved := entity.Preferences{ThemeDark: true, BaseCurrency: entity.EUR, MonthlyGoal: decimal.NewFromInt(1500)}
	require.NoError(t, repo.Save(ctx, saved))

	prefs, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, prefs.ThemeDark)
	assert.Equal(t, entity.EUR, prefs.BaseCurrency)
	assert.Equal(t, "1500", prefs.MonthlyGoal.String())

	err = repo.Save(ctx, entity.Preferences{BaseCurrency: "GBP"})
	assert.True(t, entity.IsValidation(err))
}

func TestBadgerRateStore(t *testing.T) {
	store := NewBadgerRateStore(openTestDB(t))
	ctx := context.Background()

	_, found, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	fetched := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, entity.RateSnapshot{
		USD:       decimal.RequireFromString("5.25"),
		EUR:       decimal.RequireFromString("5.69"),
		FetchedAt: fetched,
	}))

	snapshot, found, err := store.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "5.69", snapshot.EUR.String())
	assert.True(t, snapshot.FetchedAt.Equal(fetched))
}
