package core

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/JonMunkholm/kpiimport/internal/store"
)

// Writer persists snapshots through one store transaction.
// It issues exactly one insert per Write and never checks for existing rows.
type Writer struct {
	tx      store.Tx
	written int
}

// NewWriter returns a Writer bound to tx.
func NewWriter(tx store.Tx) *Writer {
	return &Writer{tx: tx}
}

// Write inserts snap. Any failure is returned as a *WriteError; the
// transaction stays usable unless the error is Fatal.
func (w *Writer) Write(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap.Payload)
	if err != nil {
		return &WriteError{Snapshot: snap, Err: fmt.Errorf("encode payload: %w", err)}
	}

	row := store.Row{
		EntityID:     snap.EntityID,
		SnapshotDate: snap.SnapshotDate,
		Category:     snap.Category,
		Source:       snap.Source,
		Data:         data,
	}
	if err := w.tx.Insert(ctx, row); err != nil {
		return &WriteError{Snapshot: snap, Err: err}
	}

	w.written++
	return nil
}

// Written returns the number of successful inserts.
func (w *Writer) Written() int {
	return w.written
}
