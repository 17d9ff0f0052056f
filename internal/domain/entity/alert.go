package entity

import "github.com/shopspring/decimal"

// Severity ranks how close a category is to its limit
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert warns that spend in a category reached a threshold fraction of its limit
type Alert struct {
	Key         string          `json:"key"`
	Category    string          `json:"category"`
	AmountSpent decimal.Decimal `json:"amount_spent"`
	Limit       decimal.Decimal `json:"limit"`
	Percentage  decimal.Decimal `json:"percentage"`
	Severity    Severity        `json:"severity"`
}
