package models

import "math"

// Record is one row of a provider table: column name to scalar
// (string, float64, bool or nil).
type Record map[string]any

// Table is the raw tabular payload returned by the market-data provider.
// Tables handed out by the repository may be shared through the cache and
// must not be modified.
type Table []Record

// Require returns a *DataShapeError naming every column in cols that the
// table lacks. An empty table has no shape to check and passes.
func (t Table) Require(source string, cols ...string) error {
	if len(t) == 0 {
		return nil
	}
	var missing []string
	for _, c := range cols {
		if _, ok := t[0][c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &DataShapeError{Source: source, Missing: missing}
	}
	return nil
}

// Repair returns a copy of t with blank and non-finite cells replaced by 0,
// the form raw pass-through tables are served in.
func (t Table) Repair() Table {
	out := make(Table, len(t))
	for i, rec := range t {
		row := make(Record, len(rec))
		for k, v := range rec {
			switch x := v.(type) {
			case nil:
				row[k] = 0.0
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					row[k] = 0.0
				} else {
					row[k] = x
				}
			default:
				row[k] = v
			}
		}
		out[i] = row
	}
	return out
}
