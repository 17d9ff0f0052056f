package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code the amounts can be displayed in
type Currency string

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
	EUR Currency = "EUR"
)

// ParseCurrency parses a supported display currency
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case BRL, USD, EUR:
		return c, nil
	}
	return "", &ValidationError{Field: "base_currency", Message: "must be one of BRL, USD, EUR"}
}

// Preferences is the user's display configuration
type Preferences struct {
	ThemeDark    bool            `json:"theme_dark"`
	BaseCurrency Currency        `json:"base_currency"`
	MonthlyGoal  decimal.Decimal `json:"monthly_goal"`
}

// DefaultPreferences are used until the user saves their own
func DefaultPreferences() Preferences {
	return Preferences{BaseCurrency: BRL, MonthlyGoal: decimal.Zero}
}

// Validate checks the preferences before they are saved
func (p *Preferences) Validate() error {
	if _, err := ParseCurrency(string(p.BaseCurrency)); err != nil {
		return err
	}
	if p.MonthlyGoal.IsNegative() {
		return &ValidationError{Field: "monthly_goal", Message: "must not be negative"}
	}
	return nil
}
