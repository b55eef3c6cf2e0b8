// Package memory is an in-process SaleWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	ports "huku/internal/sheets"
)

type Writer struct {
	mu   sync.Mutex
	rows []ports.SaleRow
}

var _ ports.SaleWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) Append(ctx context.Context, row ports.SaleRow) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, row)
	return fmt.Sprintf("memory!A%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []ports.SaleRow {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]ports.SaleRow, len(w.rows))
	copy(out, w.rows)
	return out
}
