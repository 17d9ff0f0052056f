// Package money renders amounts in the user's preferred currency.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// PendingText is shown in place of foreign-currency amounts while rates are unavailable
const PendingText = "pending"

type layout struct {
	prefix  string
	suffix  string
	decimal string
	printer *message.Printer
}

// Thousands grouping follows the locale of each printer
var layouts = map[entity.Currency]layout{
	entity.BRL: {prefix: "R$ ", decimal: ",", printer: message.NewPrinter(language.BrazilianPortuguese)},
	entity.USD: {prefix: "$", decimal: ".", printer: message.NewPrinter(language.AmericanEnglish)},
	entity.EUR: {suffix: " €", decimal: ",", printer: message.NewPrinter(language.German)},
}

// Formatter formats base-currency (BRL) amounts for display
type Formatter struct {
	currency entity.Currency
	rates    *entity.RateSnapshot
}

// NewFormatter binds the display currency of prefs and the current rates.
// rates may be nil while no fresh snapshot is available.
func NewFormatter(prefs entity.Preferences, rates *entity.RateSnapshot) Formatter {
	currency := prefs.BaseCurrency
	if _, ok := layouts[currency]; !ok {
		currency = entity.BRL
	}
	return Formatter{currency: currency, rates: rates}
}

// Currency is the display currency
func (f Formatter) Currency() entity.Currency {
	return f.currency
}

// Convert turns a BRL amount into the display currency.
// It reports false when a conversion rate is needed but missing.
func (f Formatter) Convert(amount decimal.Decimal) (decimal.Decimal, bool) {
	if f.currency == entity.BRL {
		return amount, true
	}
	if f.rates == nil {
		return decimal.Zero, false
	}
	rate, ok := f.rates.RateFor(f.currency)
	if !ok || !rate.IsPositive() {
		return decimal.Zero, false
	}
	return amount.Div(rate), true
}

// Format renders amount, or PendingText when it cannot be converted yet
func (f Formatter) Format(amount decimal.Decimal) string {
	converted, ok := f.Convert(amount)
	if !ok {
		return PendingText
	}
	return Render(converted, f.currency)
}

// Render writes amount with two decimals in the conventions of currency
func Render(amount decimal.Decimal, currency entity.Currency) string {
	l, ok := layouts[currency]
	if !ok {
		l = layouts[entity.BRL]
	}

	rounded := amount.Round(2)
	abs := rounded.Abs()
	_, frac, _ := strings.Cut(abs.StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteString("-")
	}
	b.WriteString(l.prefix)
	b.WriteString(l.printer.Sprintf("%d", abs.IntPart()))
	b.WriteString(l.decimal)
	b.WriteString(frac)
	b.WriteString(l.suffix)
	return b.String()
}
