package memory

import (
	"context"
	"errors"
	"sync"

	"khata/internal/core"
)

// Mirror is an in-process LedgerMirror used in tests and when no
// spreadsheet is configured.
type Mirror struct {
	mu       sync.Mutex
	snapshot []core.Purchase
	writes   int
	fail     bool
}

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) Mirror(_ context.Context, purchases []core.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("memory mirror: writes disabled")
	}
	m.snapshot = append([]core.Purchase(nil), purchases...)
	m.writes++
	return nil
}

// Snapshot returns the last mirrored ledger.
func (m *Mirror) Snapshot() []core.Purchase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.Purchase(nil), m.snapshot...)
}

// Writes returns how many times the mirror was rewritten.
func (m *Mirror) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// FailWrites toggles failures for error-path tests.
func (m *Mirror) FailWrites(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}
