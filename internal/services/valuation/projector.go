package valuation

import (
	"time"

	"MarketLens/internal/services/calendar"
	"MarketLens/pkg/util"
)

// Projector extends a series whose authoritative fields stopped updating
// while a faster reference series kept going.
type Projector struct {
	// Reference is the reference-series field whose day-over-day change
	// drives the projection.
	Reference string
	// Compound fields are scaled by each day's reference ratio.
	Compound []string
	// Copy fields are taken verbatim from the reference row.
	Copy []string
	// Alias maps output field to reference field, for values the series
	// stores under a different name.
	Alias map[string]string
	// Derive recomputes dependent fields in place, exactly as for genuine rows.
	Derive func(fields map[string]float64)
	// Precision applied to compounded fields. Derive rounds its own output.
	Precision int32
}

// Project appends one synthesized row per calendar day after the last row
// of s, up to the last reference date. Each day compounds on the previous
// synthesized day using unrounded values. The run ends at the first day the
// reference has no row for, or when the previous reference value is zero.
// s is not modified.
func (p Projector) Project(s, ref calendar.Series) calendar.Series {
	out := s.Clone()
	last, ok := out.Last()
	if !ok {
		return out
	}
	refLast, ok := ref.Last()
	if !ok || !refLast.Date.After(last.Date) {
		return out
	}

	prevRef, ok := last.Get(p.Reference)
	if !ok {
		r, found := calendar.AsOf(ref, last.Date)
		if !found {
			return out
		}
		if prevRef, ok = r.Get(p.Reference); !ok {
			return out
		}
	}

	raw := make(map[string]float64, len(p.Compound))
	for _, f := range p.Compound {
		if v, ok := last.Get(f); ok {
			raw[f] = v
		}
	}

	refIdx := ref.Index()
	prev := last
	for day := last.Date.AddDate(0, 0, 1); !day.After(refLast.Date); day = day.AddDate(0, 0, 1) {
		i, ok := refIdx[day]
		if !ok {
			break
		}
		refVal, ok := ref[i].Get(p.Reference)
		if !ok || prevRef == 0 {
			break
		}
		ratio := 1 + (refVal-prevRef)/prevRef

		next := p.synthesize(day, prev, ref[i], raw, ratio)
		out = append(out, next)
		prev, prevRef = next, refVal
	}
	return out
}

func (p Projector) synthesize(day time.Time, prev, refRow calendar.Row, raw map[string]float64, ratio float64) calendar.Row {
	next := prev.Clone()
	next.Date = day

	for _, f := range p.Copy {
		if v, ok := refRow.Get(f); ok {
			next.Fields[f] = v
		}
	}
	for dst, src := range p.Alias {
		if v, ok := refRow.Get(src); ok {
			next.Fields[dst] = v
		}
	}
	for f, v := range raw {
		raw[f] = v * ratio
		next.Fields[f] = util.Round(raw[f], p.Precision)
	}
	if p.Derive != nil {
		p.Derive(next.Fields)
	}
	return next
}
