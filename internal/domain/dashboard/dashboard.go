// Package dashboard bundles every derived view into one explicit recomputation.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/alerting"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Options selects what the dashboard shows
type Options struct {
	Period      aggregation.Period
	Granularity aggregation.Granularity
	Window      int
}

// DefaultOptions mirror the initial dashboard view
func DefaultOptions() Options {
	return Options{
		Period:      aggregation.CurrentMonth,
		Granularity: aggregation.Month,
		Window:      aggregation.DefaultWindow,
	}
}

// DailyPoint is an end-of-day balance with its trailing average
type DailyPoint struct {
	Date          time.Time           `json:"date"`
	Balance       decimal.Decimal     `json:"balance"`
	MovingAverage decimal.NullDecimal `json:"moving_average"`
}

// Dashboard is the full set of derived data for one set of inputs
type Dashboard struct {
	ReferenceDate time.Time                  `json:"reference_date"`
	Period        aggregation.Period         `json:"period"`
	Granularity   aggregation.Granularity    `json:"granularity"`
	Totals        aggregation.Totals         `json:"totals"`
	Balances      []aggregation.BalancePoint `json:"balances"`
	Daily         []DailyPoint               `json:"daily"`
	Aggregates    []aggregation.Bucket       `json:"aggregates"`
	Alerts        []entity.Alert             `json:"alerts"`
}

// Recompute derives every view from scratch. Balances, daily points and
// aggregates cover the selected period; alerts always cover the month of now.
func Recompute(txs []entity.Transaction, limits entity.Limits, now time.Time, opts Options) Dashboard {
	if opts.Period == "" {
		opts.Period = aggregation.CurrentMonth
	}
	if opts.Granularity == "" {
		opts.Granularity = aggregation.Month
	}
	if opts.Window <= 0 {
		opts.Window = aggregation.DefaultWindow
	}

	selected := aggregation.FilterByPeriod(txs, opts.Period, now)

	balances := make([]aggregation.BalancePoint, 0, len(selected))
	for p := range aggregation.RunningBalance(selected) {
		balances = append(balances, p)
	}

	days := aggregation.DailyBalances(selected)
	averages := aggregation.MovingAverage(aggregation.Balances(days), opts.Window)
	daily := make([]DailyPoint, len(days))
	for i, d := range days {
		daily[i] = DailyPoint{Date: d.Date, Balance: d.Balance, MovingAverage: averages[i]}
	}

	return Dashboard{
		ReferenceDate: entity.DateOf(now),
		Period:        opts.Period,
		Granularity:   opts.Granularity,
		Totals:        aggregation.Summarize(selected),
		Balances:      balances,
		Daily:         daily,
		Aggregates:    aggregation.PeriodAggregates(selected, opts.Granularity),
		Alerts:        alerting.EvaluateAlerts(txs, limits, now),
	}
}
