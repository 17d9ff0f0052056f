// Package alerting evaluates per-category monthly limits against current spend.
package alerting

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Utilisation thresholds, in percent of the limit
var (
	MediumThreshold = decimal.NewFromInt(80)
	HighThreshold   = decimal.NewFromInt(90)
)

var hundred = decimal.NewFromInt(100)

// AlertKey identifies the alert of category for the month containing now
func AlertKey(category string, now time.Time) string {
	y, m, _ := now.Date()
	return fmt.Sprintf("%s@%04d-%02d", category, y, int(m))
}

// MonthlySpend sums the debits of the month containing now, by category
func MonthlySpend(txs []entity.Transaction, now time.Time) map[string]decimal.Decimal {
	spent := make(map[string]decimal.Decimal)
	for _, tx := range aggregation.FilterByPeriod(txs, aggregation.CurrentMonth, now) {
		if tx.Type != entity.Debit {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}
	return spent
}

// EvaluateAlerts returns one alert per limited category whose spend this month
// reached 80% of its limit, sorted by category. Categories without a positive
// limit are never evaluated.
func EvaluateAlerts(txs []entity.Transaction, limits entity.Limits, now time.Time) []entity.Alert {
	spent := MonthlySpend(txs, now)

	categories := make([]string, 0, len(spent))
	for c := range spent {
		categories = append(categories, c)
	}
	slices.Sort(categories)

	alerts := make([]entity.Alert, 0)
	for _, category := range categories {
		limit, ok := limits.Of(category)
		if !ok {
			continue
		}

		amount := spent[category]
		pct := amount.Mul(hundred).Div(limit)
		severity, ok := SeverityOf(pct)
		if !ok {
			continue
		}

		alerts = append(alerts, entity.Alert{
			Key:         AlertKey(category, now),
			Category:    category,
			AmountSpent: amount,
			Limit:       limit,
			Percentage:  pct.Round(2),
			Severity:    severity,
		})
	}
	return alerts
}

// SeverityOf maps a utilisation percentage to an alert tier.
// It reports false below the medium threshold.
func SeverityOf(pct decimal.Decimal) (entity.Severity, bool) {
	switch {
	case pct.GreaterThanOrEqual(HighThreshold):
		return entity.SeverityHigh, true
	case pct.GreaterThanOrEqual(MediumThreshold):
		return entity.SeverityMedium, true
	default:
		return "", false
	}
}
