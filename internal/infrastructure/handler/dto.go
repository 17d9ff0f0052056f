package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcos-lima-dev/finance-app/internal/domain/aggregation"
	"github.com/marcos-lima-dev/finance-app/internal/domain/dashboard"
	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// TransactionRequest represents the request body for creating or replacing a transaction
type TransactionRequest struct {
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

// TransactionResponse represents the response for transaction endpoints
type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func toTransactionResponse(tx entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Amount:      tx.Amount,
		Date:        tx.Date.Format(DateLayout),
		Description: tx.Description,
	}
}

// TransactionListResponse lists transactions with their totals
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Totals       aggregation.Totals    `json:"totals"`
}

// LimitRequest is the body of a limit update
type LimitRequest struct {
	Limit decimal.Decimal `json:"limit"`
}

// LimitsResponse lists every configured limit
type LimitsResponse struct {
	Limits entity.Limits `json:"limits"`
}

// PreferencesRequest is the body of a preferences update
type PreferencesRequest struct {
	ThemeDark    bool            `json:"theme_dark"`
	BaseCurrency string          `json:"base_currency"`
	MonthlyGoal  decimal.Decimal `json:"monthly_goal"`
}

// RatesResponse carries the current exchange rates
type RatesResponse struct {
	USD       decimal.Decimal `json:"usd"`
	EUR       decimal.Decimal `json:"eur"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// FormattedTotals are the period totals rendered in the preferred currency
type FormattedTotals struct {
	Currency string `json:"currency"`
	Credits  string `json:"credits"`
	Debits   string `json:"debits"`
	Balance  string `json:"balance"`
	Goal     string `json:"monthly_goal"`
}

// DashboardResponse is the derived dashboard plus display strings
type DashboardResponse struct {
	dashboard.Dashboard
	Formatted FormattedTotals `json:"formatted"`
}

// AlertsResponse lists the visible alerts
type AlertsResponse struct {
	Alerts []entity.Alert `json:"alerts"`
}
