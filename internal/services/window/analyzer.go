// Package window sweeps fixed-width sliding windows over a merged daily
// price and chip-distribution series.
package window

import (
	"fmt"
	"math"
	"time"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"

	"gonum.org/v1/gonum/stat"
)

// DefaultKeep is how many of the most recent windows are kept per size.
const DefaultKeep = 5

// ErrInvalidWindow is returned for a non-positive window size.
var ErrInvalidWindow = fmt.Errorf("%w: window size must be positive", models.ErrInvalidArgument)

// Observation is one trading day after price history and chip data are joined.
type Observation struct {
	Date     time.Time
	Close    float64
	Volume   float64
	Turnover float64
	// Chip70 and Chip90 are the concentration of holdings inside the 70%
	// and 90% cost bands. Lower means more concentrated.
	Chip70 float64
	Chip90 float64
}

// Config pairs a window size with its maximum relative price range.
type Config struct {
	Size           int
	MaxFluctuation float64
}

// Dispersion holds coefficients of variation over min-max normalized values.
type Dispersion struct {
	Volume   float64 `json:"volume"`
	Turnover float64 `json:"turnover"`
	Price    float64 `json:"price"`
}

// Result describes one window.
type Result struct {
	WindowSize      int        `json:"window_size"`
	StartDate       string     `json:"start_date"`
	EndDate         string     `json:"end_date"`
	IsStable        bool       `json:"is_stable"`
	IsConcentrating bool       `json:"is_concentrating"`
	Dispersion      Dispersion `json:"dispersion"`
}

// MinMax rescales values onto [0, 1]. A constant input maps to zeros.
func MinMax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// Analyze runs every config over obs, which must be in ascending date order.
// Results for each size are in window start order, trimmed to the last keep
// entries; keep <= 0 keeps them all. Normalization for dispersion spans the
// whole series, not a single window.
func Analyze(obs []Observation, configs []Config, keep int) (map[int][]Result, error) {
	for _, c := range configs {
		if c.Size <= 0 {
			return nil, fmt.Errorf("%w, got %d", ErrInvalidWindow, c.Size)
		}
	}

	closes := make([]float64, len(obs))
	volumes := make([]float64, len(obs))
	turnovers := make([]float64, len(obs))
	chip70 := make([]float64, len(obs))
	chip90 := make([]float64, len(obs))
	for i, o := range obs {
		closes[i] = o.Close
		volumes[i] = o.Volume
		turnovers[i] = o.Turnover
		chip70[i] = o.Chip70
		chip90[i] = o.Chip90
	}
	normVolume := MinMax(volumes)
	normTurnover := MinMax(turnovers)
	normPrice := MinMax(closes)

	out := make(map[int][]Result, len(configs))
	for _, c := range configs {
		results := []Result{}
		for i := 0; i+c.Size <= len(obs); i++ {
			j := i + c.Size
			results = append(results, Result{
				WindowSize:      c.Size,
				StartDate:       util.FormatDate(obs[i].Date),
				EndDate:         util.FormatDate(obs[j-1].Date),
				IsStable:        Stable(closes[i:j], c.MaxFluctuation),
				IsConcentrating: Concentrating(chip70[i:j]) && Concentrating(chip90[i:j]),
				Dispersion: Dispersion{
					Volume:   CV(normVolume[i:j]),
					Turnover: CV(normTurnover[i:j]),
					Price:    CV(normPrice[i:j]),
				},
			})
		}
		if keep > 0 && len(results) > keep {
			results = results[len(results)-keep:]
		}
		out[c.Size] = results
	}
	return out, nil
}

// Stable reports whether (max - min) / mean <= limit. A zero mean is not
// stable.
func Stable(prices []float64, limit float64) bool {
	if len(prices) == 0 {
		return false
	}
	lo, hi := prices[0], prices[0]
	for _, p := range prices[1:] {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}
	mean := stat.Mean(prices, nil)
	if mean == 0 {
		return false
	}
	return (hi-lo)/mean <= limit
}

// Concentrating splits values into three segments of len/3 rows, the
// remainder going to the last, and reports whether segment means never
// increase. Fewer than three values cannot be segmented.
func Concentrating(values []float64) bool {
	n := len(values)
	if n < 3 {
		return false
	}
	seg := n / 3
	first := stat.Mean(values[:seg], nil)
	middle := stat.Mean(values[seg:2*seg], nil)
	last := stat.Mean(values[2*seg:], nil)
	return first >= middle && middle >= last
}

// CV is the sample standard deviation over the mean. Undefined results
// (zero mean, a single value) are 0.
func CV(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return util.Finite(stat.StdDev(values, nil) / stat.Mean(values, nil))
}
