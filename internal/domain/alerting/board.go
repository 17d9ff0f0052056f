package alerting

import (
	"slices"
	"sync"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
)

// Board keeps the latest alert set and the alerts dismissed since it was computed.
// Dismissals only last until the next Replace.
type Board struct {
	mu        sync.RWMutex
	epoch     uint64
	alerts    []entity.Alert
	dismissed map[string]struct{}
}

// NewBoard creates an empty alert board
func NewBoard() *Board {
	return &Board{dismissed: make(map[string]struct{})}
}

// Replace installs a freshly evaluated alert set and forgets all dismissals
func (b *Board) Replace(alerts []entity.Alert) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.epoch++
	b.alerts = slices.Clone(alerts)
	b.dismissed = make(map[string]struct{})
	return b.epoch
}

// ReplaceAt installs alerts only if no other set was installed since epoch was read.
// It returns the current epoch and whether alerts were installed.
func (b *Board) ReplaceAt(alerts []entity.Alert, epoch uint64) (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.epoch != epoch {
		return b.epoch, false
	}
	b.epoch++
	b.alerts = slices.Clone(alerts)
	b.dismissed = make(map[string]struct{})
	return b.epoch, true
}

// Dismiss hides the alert with key. It reports false if no such alert is on the board.
func (b *Board) Dismiss(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, a := range b.alerts {
		if a.Key == key {
			b.dismissed[key] = struct{}{}
			return true
		}
	}
	return false
}

// Visible returns the alerts that have not been dismissed
func (b *Board) Visible() []entity.Alert {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]entity.Alert, 0, len(b.alerts))
	for _, a := range b.alerts {
		if _, hidden := b.dismissed[a.Key]; !hidden {
			out = append(out, a)
		}
	}
	return out
}

// Epoch counts how many alert sets have been installed
func (b *Board) Epoch() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.epoch
}

// Holds reports whether the board already carries exactly alerts, comparing
// keys, severities and percentages in order
func (b *Board) Holds(alerts []entity.Alert) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return slices.EqualFunc(b.alerts, alerts, func(x, y entity.Alert) bool {
		return x.Key == y.Key && x.Severity == y.Severity && x.Percentage.Equal(y.Percentage)
	})
}
