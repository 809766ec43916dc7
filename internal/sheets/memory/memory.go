package memory

import (
	"context"
	"slices"
	"sync"

	"networth/internal/core"
	ports "networth/internal/sheets"
)

// Exporter keeps the last exported history in memory.
type Exporter struct {
	mu      sync.Mutex
	last    []core.DatedTotals
	exports int
}

var _ ports.TotalsExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportHistory(_ context.Context, rows []core.DatedTotals) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.last = slices.Clone(rows)
	e.exports++
	return nil
}

// Last returns a copy of the most recent export and how many exports ran.
func (e *Exporter) Last() ([]core.DatedTotals, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.last), e.exports
}
