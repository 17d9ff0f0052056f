package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/domain/money"
)

func sampleTransactions() []entity.Transaction {
	return []entity.Transaction{
		{
			ID:          "1",
			Type:        entity.Credit,
			Category:    "Salário",
			Amount:      decimal.RequireFromString("4500"),
			Date:        time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Description: "Pagamento, março",
		},
		{
			ID:       "2",
			Type:     entity.Debit,
			Category: "Alimentação",
			Amount:   decimal.RequireFromString("1234.5"),
			Date:     time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWrite(t *testing.T) {
	f := money.NewFormatter(entity.DefaultPreferences(), nil)
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, Rows(sampleTransactions(), f), 0))

	expected := "Date,Type,Category,Amount,Description\n" +
		"05/03/2024,Credit,Salário,\"R$ 4.500,00\",\"Pagamento, março\"\n" +
		"12/03/2024,Debit,Alimentação,\"R$ 1.234,50\",\n"
	assert.Equal(t, expected, buf.String())
}

func TestWriteCustomDelimiter(t *testing.T) {
	rates := &entity.RateSnapshot{USD: decimal.NewFromInt(5), EUR: decimal.NewFromInt(6), FetchedAt: time.Now()}
	f := money.NewFormatter(entity.Preferences{BaseCurrency: entity.USD}, rates)
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, Rows(sampleTransactions()[1:], f), ';'))

	expected := "Date;Type;Category;Amount;Description\n" +
		"12/03/2024;Debit;Alimentação;$246.90;\n"
	assert.Equal(t, expected, buf.String())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "transactions_2024-03-31.csv", FileName("2024-03-31"))
}
