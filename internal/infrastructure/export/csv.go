// Package export renders transactions as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/money"
)

// DateLayout is the pt-BR day/month/year layout used in exported files
const DateLayout = "02/01/2006"

// DefaultDelimiter separates exported fields unless configured otherwise
const DefaultDelimiter = ','

// Row is one exported transaction
type Row struct {
	Date        string `csv:"Date"`
	Type        string `csv:"Type"`
	Category    string `csv:"Category"`
	Amount      string `csv:"Amount"`
	Description string `csv:"Description"`
}

// Rows formats txs with f, preserving order
func Rows(txs []entity.Transaction, f money.Formatter) []Row {
	rows := make([]Row, len(txs))
	for i, tx := range txs {
		rows[i] = Row{
			Date:        tx.Date.Format(DateLayout),
			Type:        titleCase(string(tx.Type)),
			Category:    tx.Category,
			Amount:      f.Format(tx.Amount),
			Description: tx.Description,
		}
	}
	return rows
}

// Write marshals rows with a header line to w
func Write(w io.Writer, rows []Row, delimiter rune) error {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// FileName is the suggested download name for an export made on day
func FileName(day string) string {
	return "transactions_" + day + ".csv"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
