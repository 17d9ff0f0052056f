package aggregation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(id string, typ entity.TransactionType, category, amount string, date time.Time) entity.Transaction {
	return entity.Transaction{
		ID:       id,
		Type:     typ,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

func decimals(values ...int64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromInt(v)
	}
	return out
}

func TestRunningBalance(t *testing.T) {
	txs := []entity.Transaction{
		tx("3", entity.Debit, "Lazer", "30", day(2024, time.March, 5)),
		tx("1", entity.Credit, "Salário", "1000", day(2024, time.March, 1)),
		tx("2", entity.Debit, "Moradia", "400", day(2024, time.March, 1)),
	}

	var got []string
	for p := range RunningBalance(txs) {
		got = append(got, p.Date.Format("2006-01-02")+"="+p.Balance.String())
	}

	assert.Equal(t, []string{"2024-03-01=1000", "2024-03-01=600", "2024-03-05=570"}, got)

	t.Run("sequence is restartable", func(t *testing.T) {
		seq := RunningBalance(txs)
		count := 0
		for range seq {
			count++
		}
		for range seq {
			count++
		}
		assert.Equal(t, 6, count)
	})

	t.Run("input is not reordered", func(t *testing.T) {
		assert.Equal(t, "3", txs[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		for range RunningBalance(nil) {
			t.Fatal("no points expected")
		}
	})
}

func TestRunningBalanceLastEqualsTotals(t *testing.T) {
	txs := []entity.Transaction{
		tx("1", entity.Credit, "Salário", "2500.00", day(2024, time.January, 3)),
		tx("2", entity.Debit, "Contas", "120.35", day(2024, time.January, 9)),
		tx("3", entity.Debit, "Lazer", "80.10", day(2024, time.February, 2)),
		tx("4", entity.Credit, "Vendas", "45.00", day(2024, time.February, 2)),
	}

	var last decimal.Decimal
	for p := range RunningBalance(txs) {
		last = p.Balance
	}

	totals := Summarize(txs)
	assert.True(t, totals.Balance.Equal(last))
	assert.Equal(t, "2344.55", totals.Balance.StringFixed(2))
}

func TestDailyBalances(t *testing.T) {
	txs := []entity.Transaction{
		tx("1", entity.Credit, "Salário", "100", day(2024, time.March, 1)),
		tx("2", entity.Debit, "Lazer", "10", day(2024, time.March, 1)),
		tx("3", entity.Debit, "Lazer", "20", day(2024, time.March, 2)),
	}

	days := DailyBalances(txs)
	require.Len(t, days, 2)
	assert.Equal(t, "90", days[0].Balance.String())
	assert.Equal(t, "70", days[1].Balance.String())
	assert.NotNil(t, DailyBalances(nil))
}

func TestMovingAverage(t *testing.T) {
	avg := MovingAverage(decimals(10, 20, 30, 40), 3)
	require.Len(t, avg, 4)
	assert.False(t, avg[0].Valid)
	assert.False(t, avg[1].Valid)
	assert.True(t, avg[2].Valid)
	assert.Equal(t, "20", avg[2].Decimal.String())
	assert.Equal(t, "30", avg[3].Decimal.String())

	t.Run("shorter than window", func(t *testing.T) {
		for _, v := range MovingAverage(decimals(5, 7), 3) {
			assert.False(t, v.Valid)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, MovingAverage(nil, 3))
	})

	t.Run("window of one echoes input", func(t *testing.T) {
		avg := MovingAverage(decimals(3, -4), 1)
		assert.Equal(t, "3", avg[0].Decimal.String())
		assert.Equal(t, "-4", avg[1].Decimal.String())
	})

	t.Run("non-positive window falls back to default", func(t *testing.T) {
		avg := MovingAverage(decimals(1, 2, 3), 0)
		assert.False(t, avg[1].Valid)
		assert.Equal(t, "2", avg[2].Decimal.String())
	})
}

func TestPeriodAggregates(t *testing.T) {
	txs := []entity.Transaction{
		tx("1", entity.Credit, "Salário", "1000", day(2024, time.February, 5)),
		tx("2", entity.Debit, "Moradia", "600", day(2024, time.February, 6)),
		tx("3", entity.Credit, "Salário", "1000", day(2024, time.January, 5)),
		tx("4", entity.Debit, "Moradia", "800", day(2024, time.January, 6)),
		tx("5", entity.Credit, "Vendas", "50", day(2024, time.April, 1)),
	}

	buckets := PeriodAggregates(txs, Month)
	require.Len(t, buckets, 3)

	assert.Equal(t, "2024-01", buckets[0].Label)
	assert.Equal(t, "200", buckets[0].NetBalance.String())
	assert.False(t, buckets[0].Variance.Valid)

	assert.Equal(t, "2024-02", buckets[1].Label)
	assert.Equal(t, 2, buckets[1].Count)
	assert.Equal(t, "1000", buckets[1].TotalCredits.String())
	assert.Equal(t, "600", buckets[1].TotalDebits.String())
	require.True(t, buckets[1].Variance.Valid)
	assert.Equal(t, "100", buckets[1].Variance.Decimal.String())

	assert.Equal(t, "2024-04", buckets[2].Label, "empty months are omitted")
	assert.Equal(t, "-87.5", buckets[2].Variance.Decimal.String())

	t.Run("quarter and year labels", func(t *testing.T) {
		q := PeriodAggregates(txs, Quarter)
		require.Len(t, q, 2)
		assert.Equal(t, "2024-Q1", q[0].Label)
		assert.Equal(t, "2024-Q2", q[1].Label)
		assert.Equal(t, day(2024, time.April, 1), q[1].Start)

		y := PeriodAggregates(txs, Year)
		require.Len(t, y, 1)
		assert.Equal(t, "2024", y[0].Label)
		assert.Equal(t, 5, y[0].Count)
	})

	t.Run("no variance after a bucket that nets to zero", func(t *testing.T) {
		balanced := []entity.Transaction{
			tx("1", entity.Credit, "Salário", "500", day(2024, time.January, 5)),
			tx("2", entity.Debit, "Moradia", "500", day(2024, time.January, 6)),
			tx("3", entity.Credit, "Salário", "700", day(2024, time.February, 5)),
			tx("4", entity.Credit, "Freelance", "100", day(2024, time.March, 5)),
		}

		out := PeriodAggregates(balanced, Month)
		require.Len(t, out, 3)
		assert.True(t, out[0].NetBalance.IsZero())
		assert.False(t, out[1].Variance.Valid, "previous net is exactly zero")
		require.True(t, out[2].Variance.Valid)
		assert.Equal(t, "-85.71", out[2].Variance.Decimal.String())
	})

	t.Run("empty input yields empty list", func(t *testing.T) {
		out := PeriodAggregates(nil, Month)
		assert.NotNil(t, out)
		assert.Empty(t, out)
	})
}

func TestVariance(t *testing.T) {
	assert.False(t, Variance(decimal.Zero, decimal.NewFromInt(100)).Valid)

	v := Variance(decimal.NewFromInt(-200), decimal.NewFromInt(-100))
	require.True(t, v.Valid)
	assert.Equal(t, "50", v.Decimal.String())

	v = Variance(decimal.NewFromInt(3), decimal.NewFromInt(4))
	assert.Equal(t, "33.33", v.Decimal.String())
}

func TestInPeriod(t *testing.T) {
	now := time.Date(2024, time.May, 20, 15, 0, 0, 0, time.UTC)

	assert.True(t, InPeriod(day(2024, time.May, 1), CurrentMonth, now))
	assert.False(t, InPeriod(day(2024, time.April, 30), CurrentMonth, now))

	assert.True(t, InPeriod(day(2024, time.February, 20), LastThreeMonths, now), "window start is inclusive")
	assert.False(t, InPeriod(day(2024, time.February, 19), LastThreeMonths, now))
	assert.True(t, InPeriod(day(2024, time.May, 20), LastThreeMonths, now))
	assert.False(t, InPeriod(day(2024, time.May, 21), LastThreeMonths, now))

	assert.True(t, InPeriod(day(2024, time.January, 1), CurrentYear, now))
	assert.False(t, InPeriod(day(2023, time.December, 31), CurrentYear, now))

	assert.True(t, InPeriod(day(1999, time.January, 1), AllTime, now))
	assert.False(t, InPeriod(now, Period("decade"), now))
}

func TestInPeriodLastThreeMonthsAtMonthEnd(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		inside time.Time
		before time.Time
	}{
		{"May 31 in a leap year", day(2024, time.May, 31), day(2024, time.February, 29), day(2024, time.February, 28)},
		{"May 31", day(2023, time.May, 31), day(2023, time.February, 28), day(2023, time.February, 27)},
		{"March 31 crossing the year", day(2024, time.March, 31), day(2023, time.December, 31), day(2023, time.December, 30)},
		{"August 31", day(2024, time.August, 31), day(2024, time.May, 31), day(2024, time.May, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, InPeriod(tt.inside, LastThreeMonths, tt.now), "window start is inclusive")
			assert.False(t, InPeriod(tt.before, LastThreeMonths, tt.now))
		})
	}

	now := day(2024, time.May, 31)
	assert.True(t, InPeriod(day(2024, time.March, 1), LastThreeMonths, now))
	assert.True(t, InPeriod(day(2024, time.March, 2), LastThreeMonths, now))
}

func TestFilter(t *testing.T) {
	txs := []entity.Transaction{
		tx("1", entity.Credit, "Salário", "1000", day(2024, time.January, 5)),
		tx("2", entity.Debit, "Lazer", "50", day(2024, time.January, 10)),
		tx("3", entity.Debit, "Moradia", "700", day(2024, time.February, 1)),
	}

	out := Filter{Type: entity.Debit}.Apply(txs)
	require.Len(t, out, 2)
	assert.Equal(t, "2", out[0].ID)

	out = Filter{From: day(2024, time.January, 10), To: day(2024, time.January, 31)}.Apply(txs)
	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].ID)

	assert.Len(t, Filter{}.Apply(txs), 3)
	assert.Empty(t, Filter{Category: "Saúde"}.Apply(txs))
}

func TestParsers(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, CurrentMonth, p)

	_, err = ParsePeriod("week")
	assert.True(t, entity.IsValidation(err))

	g, err := ParseGranularity("Quarter")
	require.NoError(t, err)
	assert.Equal(t, Quarter, g)

	_, err = ParseGranularity("day")
	assert.True(t, entity.IsValidation(err))
}
