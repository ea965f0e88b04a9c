package valuation

import (
	"fmt"

	"MarketLens/internal/domain/models"
	"MarketLens/pkg/util"
)

// ErrInvalidPeriod is returned for a non-positive aggregation period.
var ErrInvalidPeriod = fmt.Errorf("%w: period must be positive", models.ErrInvalidArgument)

// PeriodPoint aggregates consecutive valuation points.
type PeriodPoint struct {
	Date      string  `json:"date"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Classic   float64 `json:"classic"`
	Optimized float64 `json:"optimized"`
}

// Periodic groups the most recent floor(n/period)*period points into
// blocks of period points. A block takes the last date and close, the
// first open, the extreme high and low, the summed volume and the mean of
// both indicators rounded to 3 decimals. Older points that do not fill a
// whole block are dropped.
func Periodic(points []Point, period int) ([]PeriodPoint, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidPeriod, period)
	}

	blocks := len(points) / period
	tail := points[len(points)-blocks*period:]

	out := make([]PeriodPoint, 0, blocks)
	for b := 0; b < blocks; b++ {
		block := tail[b*period : (b+1)*period]
		first, last := block[0], block[len(block)-1]
		pp := PeriodPoint{
			Date:  last.Date,
			Open:  first.Open,
			High:  first.High,
			Low:   first.Low,
			Close: last.Close,
		}
		var classic, optimized float64
		for _, p := range block {
			if p.High > pp.High {
				pp.High = p.High
			}
			if p.Low < pp.Low {
				pp.Low = p.Low
			}
			pp.Volume += p.Volume
			classic += p.Classic
			optimized += p.Optimized
		}
		n := float64(len(block))
		pp.Classic = util.Round(classic/n, precision)
		pp.Optimized = util.Round(optimized/n, precision)
		out = append(out, pp)
	}
	return out, nil
}
