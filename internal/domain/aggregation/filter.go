package aggregation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Period selects a window of transactions relative to a reference time
type Period string

const (
	CurrentMonth    Period = "month"
	LastThreeMonths Period = "last_three_months"
	CurrentYear     Period = "year"
	AllTime         Period = "all"
)

// ParsePeriod parses a period name; empty means CurrentMonth
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return CurrentMonth, nil
	case CurrentMonth, LastThreeMonths, CurrentYear, AllTime:
		return p, nil
	}
	return "", &entity.ValidationError{Field: "period", Message: "must be one of month, last_three_months, year, all"}
}

// InPeriod reports whether date falls inside period as seen from now.
// LastThreeMonths is the rolling window [today-3 months, today], both ends inclusive.
func InPeriod(date time.Time, period Period, now time.Time) bool {
	d := entity.DateOf(date)
	today := entity.DateOf(now)

	switch period {
	case CurrentMonth:
		return d.Year() == today.Year() && d.Month() == today.Month()
	case LastThreeMonths:
		from := monthsBefore(today, 3)
		return !d.Before(from) && !d.After(today)
	case CurrentYear:
		return d.Year() == today.Year()
	case AllTime:
		return true
	default:
		return false
	}
}

// monthsBefore steps back n calendar months, clamping the day to the end of the target month
func monthsBefore(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return time.Date(first.Year(), first.Month(), min(d, last), 0, 0, 0, 0, time.UTC)
}

// FilterByPeriod returns the transactions of txs inside period, preserving order
func FilterByPeriod(txs []entity.Transaction, period Period, now time.Time) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if InPeriod(tx.Date, period, now) {
			out = append(out, tx)
		}
	}
	return out
}

// Filter narrows a transaction list. Zero fields do not constrain.
type Filter struct {
	Type     entity.TransactionType
	Category string
	From     time.Time
	To       time.Time
}

// Match reports whether tx passes every constraint of f
func (f Filter) Match(tx entity.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Category != "" && tx.Category != f.Category {
		return false
	}
	d := entity.DateOf(tx.Date)
	if !f.From.IsZero() && d.Before(entity.DateOf(f.From)) {
		return false
	}
	if !f.To.IsZero() && d.After(entity.DateOf(f.To)) {
		return false
	}
	return true
}

// Apply returns the transactions matching f, preserving order
func (f Filter) Apply(txs []entity.Transaction) []entity.Transaction {
	out := make([]entity.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Totals summarises a transaction set
type Totals struct {
	Count        int             `json:"count"`
	TotalCredits decimal.Decimal `json:"total_credits"`
	TotalDebits  decimal.Decimal `json:"total_debits"`
	Balance      decimal.Decimal `json:"balance"`
}

// Summarize totals credits and debits of txs
func Summarize(txs []entity.Transaction) Totals {
	t := Totals{Count: len(txs), TotalCredits: decimal.Zero, TotalDebits: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case entity.Credit:
			t.TotalCredits = t.TotalCredits.Add(tx.Amount)
		case entity.Debit:
			t.TotalDebits = t.TotalDebits.Add(tx.Amount)
		}
	}
	t.Balance = t.TotalCredits.Sub(t.TotalDebits)
	return t
}
