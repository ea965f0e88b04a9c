package flow

import (
	"sort"

	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/pkg/util"
)

// Entry is one entity's raw metric in a horizon table.
type Entry struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// HorizonTable holds one look-back window's metric for every entity.
type HorizonTable struct {
	Horizon domrepo.Horizon
	Entries []Entry
}

// SectorFlowRow is one entity after joining all horizons.
type SectorFlowRow struct {
	Name            string                      `json:"name"`
	Metrics         map[domrepo.Horizon]float64 `json:"metrics"`
	Score           float64                     `json:"score"`
	NormalizedScore float64                     `json:"normalized_score"`
}

// Weights gives each horizon's share of the composite score.
type Weights map[domrepo.Horizon]float64

// DefaultWeights favours same-day flow.
func DefaultWeights() Weights {
	return Weights{
		domrepo.HorizonToday: 0.8,
		domrepo.Horizon5d:    0.1,
		domrepo.Horizon10d:   0.1,
	}
}

// Ranking is the head and tail of a ranked slice.
type Ranking struct {
	Top    []SectorFlowRow `json:"top"`
	Bottom []SectorFlowRow `json:"bottom"`
}

// Join inner-joins tables on entity name, keeping the first table's order.
// An entity missing from any table is dropped, so the universe can only
// shrink. Within one table a repeated name keeps its last value.
func Join(tables []HorizonTable) []SectorFlowRow {
	if len(tables) == 0 {
		return []SectorFlowRow{}
	}

	lookups := make([]map[string]float64, len(tables))
	for i, t := range tables {
		m := make(map[string]float64, len(t.Entries))
		for _, e := range t.Entries {
			m[e.Name] = e.Value
		}
		lookups[i] = m
	}

	seen := make(map[string]struct{}, len(tables[0].Entries))
	rows := make([]SectorFlowRow, 0, len(tables[0].Entries))
	for _, e := range tables[0].Entries {
		if _, dup := seen[e.Name]; dup {
			continue
		}
		seen[e.Name] = struct{}{}

		metrics := make(map[domrepo.Horizon]float64, len(tables))
		complete := true
		for i, t := range tables {
			v, ok := lookups[i][e.Name]
			if !ok {
				complete = false
				break
			}
			metrics[t.Horizon] = v
		}
		if complete {
			rows = append(rows, SectorFlowRow{Name: e.Name, Metrics: metrics})
		}
	}
	return rows
}

// Score sets Score to the weighted sum of each row's metrics.
func Score(rows []SectorFlowRow, w Weights) []SectorFlowRow {
	horizons := make([]domrepo.Horizon, 0, len(w))
	for h := range w {
		horizons = append(horizons, h)
	}
	sort.Slice(horizons, func(i, j int) bool { return horizons[i] < horizons[j] })

	out := make([]SectorFlowRow, len(rows))
	for i, r := range rows {
		var s float64
		for _, h := range horizons {
			s += w[h] * r.Metrics[h]
		}
		r.Score = s
		out[i] = r
	}
	return out
}

// Normalize maps scores linearly onto [-10, 10], rounded to 2 decimals.
// When every score is equal each row gets 0.
func Normalize(rows []SectorFlowRow) []SectorFlowRow {
	out := make([]SectorFlowRow, len(rows))
	copy(out, rows)
	if len(out) == 0 {
		return out
	}

	lo, hi := out[0].Score, out[0].Score
	for _, r := range out[1:] {
		if r.Score < lo {
			lo = r.Score
		}
		if r.Score > hi {
			hi = r.Score
		}
	}

	for i := range out {
		if hi == lo {
			out[i].NormalizedScore = 0
			continue
		}
		out[i].NormalizedScore = util.Round(-10+20*(out[i].Score-lo)/(hi-lo), 2)
	}
	return out
}

// Rank sorts by normalized score, highest first. Ties keep input order.
func Rank(rows []SectorFlowRow) []SectorFlowRow {
	out := make([]SectorFlowRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].NormalizedScore > out[j].NormalizedScore })
	return out
}

// TopBottom returns the first and last k rows of a ranked slice.
func TopBottom(rows []SectorFlowRow, k int) Ranking {
	return Ranking{Top: head(rows, k), Bottom: tail(rows, k)}
}

// Evaluate joins, scores, normalizes and ranks in one step.
func Evaluate(tables []HorizonTable, w Weights) []SectorFlowRow {
	return Rank(Normalize(Score(Join(tables), w)))
}

// RealtimeSummary ranks same-day flow without normalization.
type RealtimeSummary struct {
	Top    []Entry `json:"top"`
	Bottom []Entry `json:"bottom"`
	// Total is the summed metric over the whole universe in units of 1e8.
	Total float64 `json:"total"`
}

// Realtime sorts entries by raw value, highest first, and sums them.
func Realtime(entries []Entry, k int) RealtimeSummary {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	var total float64
	for _, e := range sorted {
		total += e.Value
	}
	return RealtimeSummary{
		Top:    head(sorted, k),
		Bottom: tail(sorted, k),
		Total:  util.Round(total/1e8, 2),
	}
}

func head[T any](s []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if k > len(s) {
		k = len(s)
	}
	out := make([]T, k)
	copy(out, s[:k])
	return out
}

func tail[T any](s []T, k int) []T {
	if k < 0 {
		k = 0
	}
	if k > len(s) {
		k = len(s)
	}
	out := make([]T, k)
	copy(out, s[len(s)-k:])
	return out
}
