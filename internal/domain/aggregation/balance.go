// Package aggregation derives balances, period buckets and averages from a
// transaction list. Every function is pure and total over validated input.
package aggregation

import (
	"iter"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// DefaultWindow is the moving average window used when none is given
const DefaultWindow = 3

// BalancePoint is the cumulative balance right after a transaction
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Chronological returns a copy of txs ordered by calendar date.
// Transactions on the same date keep their insertion order.
func Chronological(txs []entity.Transaction) []entity.Transaction {
	ordered := slices.Clone(txs)
	slices.SortStableFunc(ordered, func(a, b entity.Transaction) int {
		return entity.DateOf(a.Date).Compare(entity.DateOf(b.Date))
	})
	return ordered
}

// RunningBalance yields one point per transaction in chronological order.
// The sequence is computed on iteration and can be ranged over any number of times.
func RunningBalance(txs []entity.Transaction) iter.Seq[BalancePoint] {
	snapshot := slices.Clone(txs)
	return func(yield func(BalancePoint) bool) {
		balance := decimal.Zero
		for _, tx := range Chronological(snapshot) {
			balance = balance.Add(tx.SignedAmount())
			if !yield(BalancePoint{Date: entity.DateOf(tx.Date), Balance: balance}) {
				return
			}
		}
	}
}

// DailyBalances collapses the running balance to its end-of-day value, one point per calendar day
func DailyBalances(txs []entity.Transaction) []BalancePoint {
	days := make([]BalancePoint, 0)
	for p := range RunningBalance(txs) {
		if n := len(days); n > 0 && days[n-1].Date.Equal(p.Date) {
			days[n-1].Balance = p.Balance
			continue
		}
		days = append(days, p)
	}
	return days
}

// MovingAverage averages the trailing window of cumulative balances.
// Indices before the window fills are reported as invalid (undefined).
func MovingAverage(balances []decimal.Decimal, window int) []decimal.NullDecimal {
	if window <= 0 {
		window = DefaultWindow
	}

	out := make([]decimal.NullDecimal, len(balances))
	size := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, b := range balances {
		sum = sum.Add(b)
		if i >= window {
			sum = sum.Sub(balances[i-window])
		}
		if i >= window-1 {
			out[i] = decimal.NewNullDecimal(sum.Div(size))
		}
	}
	return out
}

// Balances extracts the balance values of points
func Balances(points []BalancePoint) []decimal.Decimal {
	out := make([]decimal.Decimal, len(points))
	for i, p := range points {
		out[i] = p.Balance
	}
	return out
}
