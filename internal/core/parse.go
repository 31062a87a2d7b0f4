package core

import (
	"errors"
	"iter"
)

// Parse turns the rows of one sheet into row outcomes according to def.
//
// Row 1 is the header and is never read. For every data row:
//   - a blank date cell yields OutcomeSkipped
//   - a malformed date, a bad numeric cell or an unresolved entity yields
//     OutcomeRejected with a *RowError
//   - anything else yields OutcomeRecord with the built Snapshot
//
// The returned sequence is lazy and can be ranged over any number of times;
// each pass re-scans rows from the start.
func Parse(def SheetDefinition, rows [][]string) iter.Seq[RowOutcome] {
	return func(yield func(RowOutcome) bool) {
		for i := 1; i < len(rows); i++ {
			if !yield(parseRow(def, rows[i], i+1)) {
				return
			}
		}
	}
}

// parseRow converts a single data row. rowNum is the 1-based sheet row.
func parseRow(def SheetDefinition, row []string, rowNum int) RowOutcome {
	reject := func(value string, err error) RowOutcome {
		return RowOutcome{
			Row:  rowNum,
			Kind: OutcomeRejected,
			Err:  &RowError{Sheet: def.Info.Name, Row: rowNum, Value: value, Err: err},
		}
	}

	rawDate := cellAt(row, def.DateColumn)
	date, err := ToDate(rawDate)
	if errors.Is(err, ErrMissingDate) {
		return RowOutcome{Row: rowNum, Kind: OutcomeSkipped}
	}
	if err != nil {
		return reject(rawDate, withField(err, "data"))
	}

	payload, raw, err := buildPayload(def.Fields, row)
	if err != nil {
		return reject(raw, err)
	}

	entityID, raw, err := def.Entity.EntityFor(row)
	if err != nil {
		return reject(raw, err)
	}

	return RowOutcome{
		Row:  rowNum,
		Kind: OutcomeRecord,
		Snapshot: Snapshot{
			EntityID:     entityID,
			SnapshotDate: date,
			Category:     def.Info.Category,
			Source:       def.Info.Source,
			Payload:      payload,
		},
	}
}

// buildPayload coerces every field of row. Grouped fields are collected into
// a nested Payload placed where the group first appears. On failure it
// returns the offending raw cell.
func buildPayload(fields []FieldSpec, row []string) (Payload, string, error) {
	payload := make(Payload, 0, len(fields))
	groups := make(map[string]int)

	for _, f := range fields {
		raw := cellAt(row, f.Column)
		v, err := Coerce(raw, f.Type)
		if err != nil {
			name := f.Name
			if f.Group != "" {
				name = f.Group + "." + f.Name
			}
			return nil, raw, withField(err, name)
		}

		if f.Group == "" {
			payload = append(payload, Metric{Key: f.Name, Value: v})
			continue
		}

		idx, ok := groups[f.Group]
		if !ok {
			idx = len(payload)
			groups[f.Group] = idx
			payload = append(payload, Metric{Key: f.Group, Value: Payload{}})
		}
		nested := payload[idx].Value.(Payload)
		payload[idx].Value = append(nested, Metric{Key: f.Name, Value: v})
	}

	return payload, "", nil
}

// withField records the field name on a coercion error.
func withField(err error, field string) error {
	var ce *CoercionError
	if errors.As(err, &ce) {
		ce.Field = field
	}
	return err
}
