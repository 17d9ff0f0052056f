package entity

import "github.com/shopspring/decimal"

// Limits maps a debit category to its monthly spending ceiling
type Limits map[string]decimal.Decimal

// UpdateLimit returns a copy of limits with category set to max(0, value).
// The input mapping is left untouched.
func UpdateLimit(limits Limits, category string, value decimal.Decimal) Limits {
	out := make(Limits, len(limits)+1)
	for k, v := range limits {
		out[k] = v
	}
	if value.IsNegative() {
		value = decimal.Zero
	}
	out[category] = value
	return out
}

// Of returns the positive limit configured for category, if any
func (l Limits) Of(category string) (decimal.Decimal, bool) {
	v, ok := l[category]
	if !ok || !v.IsPositive() {
		return decimal.Zero, false
	}
	return v, true
}
