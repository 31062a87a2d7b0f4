package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/kpiimport/internal/store"
)

// ErrMissingDate is returned by ToDate for a blank cell. Parse treats it as
// a placeholder row and skips it without counting an error.
var ErrMissingDate = errors.New("missing date")

// ErrUnknownEntity is wrapped by UnknownEntityError.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrInvalidValue is wrapped by CoercionError.
var ErrInvalidValue = errors.New("invalid value")

// CoercionError reports a non-empty cell that cannot be converted.
type CoercionError struct {
	Field string
	Value string
	Type  FieldType
	Err   error
}

func (e *CoercionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s %q", e.Type, e.Value)
	}
	return fmt.Sprintf("invalid %s for %q: %q", e.Type, e.Field, e.Value)
}

func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidValue}
	}
	return []error{ErrInvalidValue, e.Err}
}

// UnknownEntityError reports an entity name missing from the resolver.
type UnknownEntityError struct {
	Name string
}

func (e *UnknownEntityError) Error() string {
	if e.Name == "" {
		return "unknown entity: empty name"
	}
	return fmt.Sprintf("unknown entity %q", e.Name)
}

func (e *UnknownEntityError) Unwrap() error {
	return ErrUnknownEntity
}

// RowError is a row-local failure. It never aborts the sheet.
type RowError struct {
	Sheet string
	Row   int    // 1-based spreadsheet row number
	Value string // Offending raw cell content
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Sheet, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed insert of one snapshot.
type WriteError struct {
	Snapshot Snapshot
	Err      error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write snapshot %s/%d/%s: %v",
		e.Snapshot.Category, e.Snapshot.EntityID, e.Snapshot.SnapshotDate.Format(DateLayout), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Fatal reports whether the whole run must stop and roll back: the connection
// is gone or the run was cancelled.
func (e *WriteError) Fatal() bool {
	return errors.Is(e.Err, store.ErrConnectionLost) ||
		errors.Is(e.Err, context.Canceled) ||
		errors.Is(e.Err, context.DeadlineExceeded)
}

// SourceOpenError reports that the workbook or the storage transaction could
// not be opened. Nothing has been written when it is returned.
type SourceOpenError struct {
	Path string
	Err  error
}

func (e *SourceOpenError) Error() string {
	return fmt.Sprintf("open source %s: %v", e.Path, e.Err)
}

func (e *SourceOpenError) Unwrap() error {
	return e.Err
}

// CommitError reports a failed final commit. The whole batch is rolled back.
type CommitError struct {
	Err error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed, import rolled back: %v", e.Err)
}

func (e *CommitError) Unwrap() error {
	return e.Err
}
