package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether a transaction adds to or subtracts from the balance
type TransactionType string

const (
	// Credit adds its amount to the balance
	Credit TransactionType = "credit"
	// Debit subtracts its amount from the balance
	Debit TransactionType = "debit"
)

// Valid reports whether the type is one of the known transaction types
func (t TransactionType) Valid() bool {
	return t == Credit || t == Debit
}

// ParseTransactionType parses a case-insensitive transaction type
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", &ValidationError{Field: "type", Message: "must be 'credit' or 'debit'"}
	}
	return t, nil
}

// Transaction represents a single dated credit or debit entry.
// Records are never edited in place; an edit replaces the whole record.
type Transaction struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}

	if !t.Type.Valid() {
		return &ValidationError{Field: "type", Message: "must be 'credit' or 'debit'"}
	}

	if t.Category == "" {
		return &ValidationError{Field: "category", Message: "is required"}
	}

	if !IsValidCategory(t.Type, t.Category) {
		return &ValidationError{Field: "category", Message: "'" + t.Category + "' is not a " + string(t.Type) + " category"}
	}

	if t.Amount.IsNegative() {
		return &ValidationError{Field: "amount", Message: "must not be negative"}
	}

	if t.Date.IsZero() {
		return &ValidationError{Field: "date", Message: "is required"}
	}

	return nil
}

// SignedAmount returns the amount with the sign implied by the type
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DateOf truncates t to its calendar date, expressed as midnight UTC
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
