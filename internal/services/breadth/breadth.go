// Package breadth summarizes the whole-market spot snapshot: how changes
// are distributed, which names lead and lag, and which look range-bound.
package breadth

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Quote is one stock of the spot snapshot. Fields the provider left blank
// are NaN.
type Quote struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ChangePct    float64 `json:"change_pct"`
	Volume       float64 `json:"volume"`
	Amount       float64 `json:"amount"`
	TurnoverRate float64 `json:"turnover_rate"`
	Change60dPct float64 `json:"change_60d_pct"`
}

// Criteria bounds a sideways candidate.
type Criteria struct {
	MaxAbsChangePct   float64
	MinVolume         float64
	MinTurnoverRate   float64
	Max60DayChangePct float64
}

// Candidate is a stock that passed the sideways screen.
type Candidate struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	ChangePct float64 `json:"change_pct"`
}

// Sideways keeps quotes whose change sits inside ±MaxAbsChangePct, that trade
// at least MinVolume and MinTurnoverRate, that rose no more than
// Max60DayChangePct over 60 days, and that are not ST names. A quote missing
// any of those fields is dropped. Input order is preserved.
func Sideways(quotes []Quote, c Criteria) []Candidate {
	out := []Candidate{}
	for _, q := range quotes {
		if math.IsNaN(q.ChangePct) || math.IsNaN(q.Volume) || math.IsNaN(q.TurnoverRate) || math.IsNaN(q.Change60dPct) {
			continue
		}
		if q.ChangePct < -c.MaxAbsChangePct || q.ChangePct > c.MaxAbsChangePct {
			continue
		}
		if strings.Contains(q.Name, "ST") {
			continue
		}
		if q.Volume < c.MinVolume || q.TurnoverRate < c.MinTurnoverRate || q.Change60dPct > c.Max60DayChangePct {
			continue
		}
		out = append(out, Candidate{Code: q.Code, Name: q.Name, ChangePct: q.ChangePct})
	}
	return out
}

// Bucket counts changes in [Lower, Upper). The open-ended edge buckets omit
// the missing bound.
type Bucket struct {
	Label string   `json:"label"`
	Lower *float64 `json:"lower,omitempty"`
	Upper *float64 `json:"upper,omitempty"`
	Count int      `json:"count"`
}

// Statistic is the breadth summary of one snapshot.
type Statistic struct {
	Distribution []Bucket `json:"distribution"`
	Up           int      `json:"up"`
	Flat         int      `json:"flat"`
	Down         int      `json:"down"`
	Top          []Quote  `json:"top"`
	Middle       []Quote  `json:"middle"`
	Bottom       []Quote  `json:"bottom"`
}

const (
	edgePct = 10
	stepPct = 1
)

// Summarize buckets changes in one-percent steps from -10% to 10% with
// open buckets on either side, counts advancers and decliners, and returns
// the n best, n middle and n worst quotes by change. Quotes without a change
// are ignored throughout.
func Summarize(quotes []Quote, n int) Statistic {
	valid := make([]Quote, 0, len(quotes))
	for _, q := range quotes {
		if !math.IsNaN(q.ChangePct) {
			valid = append(valid, q)
		}
	}

	st := Statistic{Distribution: buckets()}
	for _, q := range valid {
		st.Distribution[bucketIndex(q.ChangePct)].Count++
		switch {
		case q.ChangePct > 0:
			st.Up++
		case q.ChangePct < 0:
			st.Down++
		default:
			st.Flat++
		}
	}

	sort.SliceStable(valid, func(i, j int) bool { return valid[i].ChangePct > valid[j].ChangePct })
	st.Top = window(valid, 0, n)
	st.Middle = window(valid, len(valid)/2-n/2, n)
	st.Bottom = window(valid, len(valid)-n, n)
	return st
}

func buckets() []Bucket {
	out := []Bucket{{Label: fmt.Sprintf("<%d%%", -edgePct), Upper: ptr(-edgePct)}}
	for lo := -edgePct; lo < edgePct; lo += stepPct {
		out = append(out, Bucket{
			Label: fmt.Sprintf("[%d%%,%d%%)", lo, lo+stepPct),
			Lower: ptr(lo),
			Upper: ptr(lo + stepPct),
		})
	}
	return append(out, Bucket{Label: fmt.Sprintf(">=%d%%", edgePct), Lower: ptr(edgePct)})
}

func bucketIndex(change float64) int {
	switch {
	case change < -edgePct:
		return 0
	case change >= edgePct:
		return 2*edgePct/stepPct + 1
	default:
		return int(math.Floor((change+edgePct)/stepPct)) + 1
	}
}

// window copies up to n quotes starting at from, clamped to the slice.
func window(s []Quote, from, n int) []Quote {
	if from < 0 {
		from = 0
	}
	to := from + n
	if to > len(s) {
		to = len(s)
	}
	if from >= to {
		return []Quote{}
	}
	out := make([]Quote, to-from)
	for i, q := range s[from:to] {
		out[i] = q.finite()
	}
	return out
}

// finite zeroes blank fields so the quote can be encoded as JSON.
func (q Quote) finite() Quote {
	for _, f := range []*float64{&q.Price, &q.ChangePct, &q.Volume, &q.Amount, &q.TurnoverRate, &q.Change60dPct} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return q
}

func ptr(v int) *float64 {
	f := float64(v)
	return &f
}
