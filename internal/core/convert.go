package core

// convert.go turns raw spreadsheet cells into typed values.
//
// Policy:
//   - Blank numeric cells become zero, never an error.
//   - Blank date cells return ErrMissingDate so the caller can skip the row.
//   - Anything non-blank that does not parse is a *CoercionError.
//   - Dates accept exactly YYYY-MM-DD. No locale or fuzzy parsing.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted snapshot date format.
const DateLayout = "2006-01-02"

// numericRegex validates that a string is a plain number after cleanup.
// Matches integers, decimals, and scientific notation; rejects inf/nan and
// anything carrying currency symbols or thousands separators.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
//   - Trims whitespace, including non-breaking spaces
//   - Removes the Excel formula text wrapper (="...")
func CleanCell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}

	return s
}

// ToInteger converts a cell to int64. Blank cells yield 0.
// Integral decimals written by spreadsheets ("12.0") are accepted;
// fractional values are rejected rather than truncated.
func ToInteger(raw string) (int64, error) {
	s := CleanCell(raw)
	if s == "" {
		return 0, nil
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}

	if !numericRegex.MatchString(s) {
		return 0, &CoercionError{Value: raw, Type: FieldInteger}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &CoercionError{Value: raw, Type: FieldInteger, Err: err}
	}
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, &CoercionError{Value: raw, Type: FieldInteger}
	}
	return int64(f), nil
}

// ToDecimal converts a cell to float64. Blank cells yield 0.
func ToDecimal(raw string) (float64, error) {
	s := CleanCell(raw)
	if s == "" {
		return 0, nil
	}

	if !numericRegex.MatchString(s) {
		return 0, &CoercionError{Value: raw, Type: FieldDecimal}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &CoercionError{Value: raw, Type: FieldDecimal, Err: err}
	}
	return f, nil
}

// ToDate parses a strict YYYY-MM-DD cell into a UTC calendar date.
// Blank cells return ErrMissingDate.
func ToDate(raw string) (time.Time, error) {
	s := CleanCell(raw)
	if s == "" {
		return time.Time{}, ErrMissingDate
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &CoercionError{Value: raw, Type: FieldDate, Err: err}
	}
	return t, nil
}

// Coerce converts raw to the Go type matching t: int64, float64 or time.Time.
func Coerce(raw string, t FieldType) (any, error) {
	switch t {
	case FieldInteger:
		return ToInteger(raw)
	case FieldDecimal:
		return ToDecimal(raw)
	case FieldDate:
		return ToDate(raw)
	default:
		return nil, &CoercionError{Value: raw, Type: t}
	}
}


// cellAt returns the cell at col, or "" when the row is shorter.
// Spreadsheet readers drop trailing empty cells, so short rows are normal.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
