package alerting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

var now = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func debit(id, category, amount string, date time.Time) entity.Transaction {
	return entity.Transaction{
		ID:       id,
		Type:     entity.Debit,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
	}
}

func TestEvaluateAlerts(t *testing.T) {
	limits := entity.Limits{"Alimentação": decimal.NewFromInt(100)}
	txs := []entity.Transaction{
		debit("1", "Alimentação", "50", now.AddDate(0, 0, -3)),
		debit("2", "Alimentação", "30", now.AddDate(0, 0, -1)),
	}

	alerts := EvaluateAlerts(txs, limits, now)

	require.Len(t, alerts, 1)
	a := alerts[0]
	assert.Equal(t, "Alimentação@2024-03", a.Key)
	assert.Equal(t, "Alimentação", a.Category)
	assert.Equal(t, entity.SeverityMedium, a.Severity)
	assert.Equal(t, "80", a.Percentage.String())
	assert.Equal(t, "80", a.AmountSpent.String())
	assert.Equal(t, "100", a.Limit.String())
}

func TestEvaluateAlertsThresholds(t *testing.T) {
	tests := []struct {
		spent    string
		severity entity.Severity
		alert    bool
	}{
		{spent: "79.99", alert: false},
		{spent: "80", severity: entity.SeverityMedium, alert: true},
		{spent: "89.99", severity: entity.SeverityMedium, alert: true},
		{spent: "90", severity: entity.SeverityHigh, alert: true},
		{spent: "250", severity: entity.SeverityHigh, alert: true},
	}

	limits := entity.Limits{"Lazer": decimal.NewFromInt(100)}
	for _, tt := range tests {
		t.Run(tt.spent, func(t *testing.T) {
			alerts := EvaluateAlerts([]entity.Transaction{debit("1", "Lazer", tt.spent, now)}, limits, now)
			if !tt.alert {
				assert.Empty(t, alerts)
				return
			}
			require.Len(t, alerts, 1)
			assert.Equal(t, tt.severity, alerts[0].Severity)
		})
	}
}

func TestEvaluateAlertsIgnores(t *testing.T) {
	limits := entity.Limits{
		"Lazer":      decimal.NewFromInt(100),
		"Transporte": decimal.Zero,
	}
	txs := []entity.Transaction{
		debit("1", "Lazer", "95", now.AddDate(0, -1, 0)),
		debit("2", "Transporte", "500", now),
		debit("3", "Moradia", "5000", now),
		{ID: "4", Type: entity.Credit, Category: "Salário", Amount: decimal.NewFromInt(999), Date: now},
	}

	alerts := EvaluateAlerts(txs, limits, now)
	assert.NotNil(t, alerts)
	assert.Empty(t, alerts, "previous month, zero limit, missing limit and credits never alert")
}

func TestEvaluateAlertsIsDeterministic(t *testing.T) {
	limits := entity.Limits{
		"Lazer":       decimal.NewFromInt(100),
		"Alimentação": decimal.NewFromInt(300),
		"Contas":      decimal.NewFromInt(3),
	}
	txs := []entity.Transaction{
		debit("1", "Lazer", "91", now),
		debit("2", "Alimentação", "250", now),
		debit("3", "Contas", "2.5", now),
	}

	first := EvaluateAlerts(txs, limits, now)
	second := EvaluateAlerts(txs, limits, now)
	assert.Equal(t, first, second)

	require.Len(t, first, 3)
	assert.Equal(t, "Alimentação", first[0].Category)
	assert.Equal(t, "Contas", first[1].Category)
	assert.Equal(t, "83.33", first[1].Percentage.String())
	assert.Equal(t, "Lazer", first[2].Category)
}

func TestAlertKey(t *testing.T) {
	assert.Equal(t, "Saúde@2025-01", AlertKey("Saúde", time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)))
}

func TestSeverityOf(t *testing.T) {
	_, ok := SeverityOf(decimal.RequireFromString("79.999"))
	assert.False(t, ok)

	s, ok := SeverityOf(decimal.NewFromInt(90))
	assert.True(t, ok)
	assert.Equal(t, entity.SeverityHigh, s)
}
