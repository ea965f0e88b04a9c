package calendar

import (
	"sort"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"
)

// Row is one dated observation. Fields holds numeric columns only; a field
// absent from the map has no value on that date.
type Row struct {
	Date   time.Time
	Fields map[string]float64
}

// Get returns the field value and whether it is present.
func (r Row) Get(name string) (float64, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// Clone returns a deep copy of r.
func (r Row) Clone() Row {
	fields := make(map[string]float64, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	return Row{Date: r.Date, Fields: fields}
}

// Series is a sequence of rows in ascending date order.
type Series []Row

// Clone returns a deep copy of s.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for i, r := range s {
		out[i] = r.Clone()
	}
	return out
}

// Last returns the final row; ok is false for an empty series.
func (s Series) Last() (Row, bool) {
	if len(s) == 0 {
		return Row{}, false
	}
	return s[len(s)-1], true
}

// Index maps each date to its row position.
func (s Series) Index() map[time.Time]int {
	idx := make(map[time.Time]int, len(s))
	for i, r := range s {
		idx[r.Date] = i
	}
	return idx
}

// Column extracts a field; missing values read as zero.
func (s Series) Column(name string) []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.Fields[name]
	}
	return out
}

// Dedup sorts s by date (stable) and keeps the last row of every date,
// matching source order. The input is not modified.
func Dedup(s Series) Series {
	sorted := make(Series, len(s))
	copy(sorted, s)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	out := make(Series, 0, len(sorted))
	for _, r := range sorted {
		if n := len(out); n > 0 && out[n-1].Date.Equal(r.Date) {
			out[n-1] = r.Clone()
			continue
		}
		out = append(out, r.Clone())
	}
	return out
}

// Columns maps provider column names to field names.
type Columns map[string]string

// FromTable converts a provider table into a deduplicated series.
// dateCol and every key of cols must exist or a *models.DataShapeError is
// returned. Rows with an unparseable date are skipped; non-numeric cells are
// left absent.
func FromTable(source string, t models.Table, dateCol string, cols Columns) (Series, error) {
	required := make([]string, 0, len(cols)+1)
	required = append(required, dateCol)
	for c := range cols {
		required = append(required, c)
	}
	sort.Strings(required[1:])
	if err := t.Require(source, required...); err != nil {
		return nil, err
	}

	s := make(Series, 0, len(t))
	for _, rec := range t {
		d, ok := util.ParseDateValue(rec[dateCol])
		if !ok {
			continue
		}
		fields := make(map[string]float64, len(cols))
		for col, name := range cols {
			if v, ok := util.ToFloat(rec[col]); ok {
				fields[name] = v
			}
		}
		s = append(s, Row{Date: d, Fields: fields})
	}
	return Dedup(s), nil
}
