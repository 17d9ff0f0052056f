package alerting

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

func TestBoard(t *testing.T) {
	board := NewBoard()
	assert.Empty(t, board.Visible())
	assert.Equal(t, uint64(0), board.Epoch())

	alerts := []entity.Alert{
		{Key: "Lazer@2024-03", Category: "Lazer", Severity: entity.SeverityHigh},
		{Key: "Contas@2024-03", Category: "Contas", Severity: entity.SeverityMedium},
	}
	assert.Equal(t, uint64(1), board.Replace(alerts))
	assert.Len(t, board.Visible(), 2)

	assert.True(t, board.Dismiss("Lazer@2024-03"))
	assert.False(t, board.Dismiss("Moradia@2024-03"))

	visible := board.Visible()
	assert.Len(t, visible, 1)
	assert.Equal(t, "Contas@2024-03", visible[0].Key)

	t.Run("dismissals reset on recompute", func(t *testing.T) {
		assert.Equal(t, uint64(2), board.Replace(alerts))
		assert.Len(t, board.Visible(), 2)
	})

	t.Run("board keeps its own copy", func(t *testing.T) {
		alerts[0].Category = "changed"
		assert.Equal(t, "Lazer", board.Visible()[0].Category)
	})
}

func TestBoardConcurrentAccess(t *testing.T) {
	board := NewBoard()
	alerts := []entity.Alert{{Key: "a"}, {Key: "b"}}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(3)
		go func() { defer wg.Done(); board.Replace(alerts) }()
		go func() { defer wg.Done(); board.Dismiss("a") }()
		go func() { defer wg.Done(); _ = board.Visible() }()
	}
	wg.Wait()

	assert.Equal(t, uint64(20), board.Epoch())
}

func TestBoardHolds(t *testing.T) {
	board := NewBoard()
	alerts := []entity.Alert{{Key: "Lazer@2024-03", Severity: entity.SeverityMedium}}

	assert.True(t, board.Holds(nil))
	assert.False(t, board.Holds(alerts))

	board.Replace(alerts)
	assert.True(t, board.Holds(alerts))

	changed := []entity.Alert{{Key: "Lazer@2024-03", Severity: entity.SeverityHigh}}
	assert.False(t, board.Holds(changed))
}

func TestBoardReplaceAt(t *testing.T) {
	board := NewBoard()
	stale := []entity.Alert{{Key: "Lazer@2024-03", Severity: entity.SeverityMedium}}
	fresh := []entity.Alert{{Key: "Lazer@2024-03", Severity: entity.SeverityHigh}}

	epoch, ok := board.ReplaceAt(stale, 0)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), epoch)

	board.Replace(fresh)

	epoch, ok = board.ReplaceAt(stale, 1)
	assert.False(t, ok, "a set read before the last replace is rejected")
	assert.Equal(t, uint64(2), epoch)
	assert.Equal(t, entity.SeverityHigh, board.Visible()[0].Severity)

	assert.True(t, board.Dismiss("Lazer@2024-03"))
	_, ok = board.ReplaceAt(stale, 1)
	assert.False(t, ok)
	assert.Empty(t, board.Visible(), "rejected sets keep dismissals")
}
