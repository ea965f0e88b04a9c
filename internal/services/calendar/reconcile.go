package calendar

import (
	"sort"
	"time"
)

// Option configures Reconcile.
type Option func(*reconcileConfig)

type reconcileConfig struct {
	from, to time.Time
	hasRange bool
}

// WithRange replaces the base-date axis with every calendar day in [from, to].
func WithRange(from, to time.Time) Option {
	return func(c *reconcileConfig) {
		c.from, c.to, c.hasRange = from, to, true
	}
}

// DailyAxis returns every calendar day from from to to inclusive.
func DailyAxis(from, to time.Time) []time.Time {
	from, to = day(from), day(to)
	if to.Before(from) {
		return nil
	}
	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Reconcile aligns aux onto the axis of base with a backward as-of join:
// each axis date takes, for every auxiliary series, the fields of its latest
// row dated on or before that date. Fields never come from a later row.
//
// Auxiliary rows sharing a date collapse to the last one in source order.
// Base fields are never overwritten; among auxiliary series the later one
// wins on a name collision. Dates with no qualifying auxiliary row leave
// those fields absent. Inputs are not modified.
func Reconcile(base Series, aux []Series, opts ...Option) Series {
	cfg := &reconcileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	base = Dedup(base)
	baseNames := map[string]struct{}{}
	for _, r := range base {
		for k := range r.Fields {
			baseNames[k] = struct{}{}
		}
	}

	var axis []time.Time
	if cfg.hasRange {
		axis = DailyAxis(cfg.from, cfg.to)
	} else {
		axis = make([]time.Time, len(base))
		for i, r := range base {
			axis[i] = r.Date
		}
	}

	auxSorted := make([]Series, len(aux))
	for i, a := range aux {
		auxSorted[i] = Dedup(a)
	}
	cursors := make([]int, len(aux))

	baseIdx := base.Index()
	out := make(Series, 0, len(axis))
	for _, d := range axis {
		row := Row{Date: d, Fields: map[string]float64{}}
		if i, ok := baseIdx[d]; ok {
			for k, v := range base[i].Fields {
				row.Fields[k] = v
			}
		}
		for ai, a := range auxSorted {
			// cursors only move forward because the axis is ascending.
			for cursors[ai] < len(a) && !a[cursors[ai]].Date.After(d) {
				cursors[ai]++
			}
			if cursors[ai] == 0 {
				continue
			}
			for k, v := range a[cursors[ai]-1].Fields {
				if _, isBase := baseNames[k]; isBase {
					continue
				}
				row.Fields[k] = v
			}
		}
		out = append(out, row)
	}
	return out
}

// AsOf returns the latest row of s dated on or before d. s must be sorted.
func AsOf(s Series, d time.Time) (Row, bool) {
	i := sort.Search(len(s), func(i int) bool { return s[i].Date.After(d) })
	if i == 0 {
		return Row{}, false
	}
	return s[i-1], true
}

// FillForward copies the last known value of each field into later rows
// that lack it. With no fields named, every field present anywhere is filled.
func FillForward(s Series, fields ...string) Series {
	out := s.Clone()
	names := fieldNames(out, fields)
	for _, name := range names {
		var last float64
		seen := false
		for i := range out {
			if v, ok := out[i].Fields[name]; ok {
				last, seen = v, true
				continue
			}
			if seen {
				out[i].Fields[name] = last
			}
		}
	}
	return out
}

// FillBackward copies the next known value of each field into earlier rows
// that lack it.
func FillBackward(s Series, fields ...string) Series {
	out := s.Clone()
	names := fieldNames(out, fields)
	for _, name := range names {
		var next float64
		seen := false
		for i := len(out) - 1; i >= 0; i-- {
			if v, ok := out[i].Fields[name]; ok {
				next, seen = v, true
				continue
			}
			if seen {
				out[i].Fields[name] = next
			}
		}
	}
	return out
}

// Fill forward-fills then backward-fills, so leading gaps take the first
// known value and every other gap takes the latest earlier one.
func Fill(s Series, fields ...string) Series {
	return FillBackward(FillForward(s, fields...), fields...)
}

// InnerJoin keeps dates present in both series. On a field name collision
// the value from a wins.
func InnerJoin(a, b Series) Series {
	bIdx := b.Index()
	out := make(Series, 0, len(a))
	for _, r := range a {
		j, ok := bIdx[r.Date]
		if !ok {
			continue
		}
		row := b[j].Clone()
		row.Date = r.Date
		for k, v := range r.Fields {
			row.Fields[k] = v
		}
		out = append(out, row)
	}
	return out
}

// Trim drops rows dated before from.
func Trim(s Series, from time.Time) Series {
	i := sort.Search(len(s), func(i int) bool { return !s[i].Date.Before(from) })
	return s[i:].Clone()
}

func fieldNames(s Series, fields []string) []string {
	if len(fields) > 0 {
		return fields
	}
	set := map[string]struct{}{}
	for _, r := range s {
		for k := range r.Fields {
			set[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
