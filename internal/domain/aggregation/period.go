package aggregation

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Granularity is the calendar unit transactions are bucketed by
type Granularity string

const (
	Month   Granularity = "month"
	Quarter Granularity = "quarter"
	Year    Granularity = "year"
)

// ParseGranularity parses a granularity name; empty means Month
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return Month, nil
	case Month, Quarter, Year:
		return g, nil
	}
	return "", &entity.ValidationError{Field: "granularity", Message: "must be one of month, quarter, year"}
}

// Bucket aggregates the transactions of one calendar period
type Bucket struct {
	Label        string              `json:"label"`
	Start        time.Time           `json:"start"`
	Count        int                 `json:"count"`
	TotalCredits decimal.Decimal     `json:"total_credits"`
	TotalDebits  decimal.Decimal     `json:"total_debits"`
	NetBalance   decimal.Decimal     `json:"net_balance"`
	Variance     decimal.NullDecimal `json:"variance_percent"`
}

var hundred = decimal.NewFromInt(100)

// bucketOf returns the label and first day of the period containing date
func bucketOf(date time.Time, g Granularity) (string, time.Time) {
	d := entity.DateOf(date)
	switch g {
	case Quarter:
		q := (int(d.Month())-1)/3 + 1
		return fmt.Sprintf("%d-Q%d", d.Year(), q), time.Date(d.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return fmt.Sprintf("%d", d.Year()), time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d.Format("2006-01"), time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// PeriodAggregates groups txs into chronologically sorted buckets.
// Periods without transactions are omitted. Each bucket after the first carries
// the percent variance of its net balance against the previous bucket; the
// variance is invalid when there is no previous bucket or its net balance is zero.
func PeriodAggregates(txs []entity.Transaction, g Granularity) []Bucket {
	byLabel := make(map[string]*Bucket)
	for _, tx := range txs {
		label, start := bucketOf(tx.Date, g)
		b, ok := byLabel[label]
		if !ok {
			b = &Bucket{Label: label, Start: start}
			byLabel[label] = b
		}

		b.Count++
		switch tx.Type {
		case entity.Credit:
			b.TotalCredits = b.TotalCredits.Add(tx.Amount)
		case entity.Debit:
			b.TotalDebits = b.TotalDebits.Add(tx.Amount)
		}
	}

	buckets := make([]Bucket, 0, len(byLabel))
	for _, b := range byLabel {
		b.NetBalance = b.TotalCredits.Sub(b.TotalDebits)
		buckets = append(buckets, *b)
	}
	slices.SortFunc(buckets, func(a, b Bucket) int {
		return a.Start.Compare(b.Start)
	})

	for i := 1; i < len(buckets); i++ {
		buckets[i].Variance = Variance(buckets[i-1].NetBalance, buckets[i].NetBalance)
	}
	return buckets
}

// Variance is the percent change from previous to current, rounded to two places.
// It is undefined when previous is zero.
func Variance(previous, current decimal.Decimal) decimal.NullDecimal {
	if previous.IsZero() {
		return decimal.NullDecimal{}
	}
	pct := current.Sub(previous).Div(previous.Abs()).Mul(hundred).Round(2)
	return decimal.NewNullDecimal(pct)
}
