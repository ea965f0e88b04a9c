package valuation

import (
	"MarketLens/internal/services/calendar"
	"MarketLens/pkg/util"
)

// Point is one row of the valuation output.
type Point struct {
	Date      string  `json:"date"`
	SHClose   float64 `json:"sh_close"`
	MarketCap float64 `json:"market_cap"`
	GDP       float64 `json:"gdp"`
	Classic   float64 `json:"classic"`
	Optimized float64 `json:"optimized"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// ToPoints renders a filled valuation series.
func ToPoints(s calendar.Series) []Point {
	out := make([]Point, len(s))
	for i, r := range s {
		f := r.Fields
		out[i] = Point{
			Date:      util.FormatDate(r.Date),
			SHClose:   f[FieldSHClose],
			MarketCap: f[FieldMarketCap],
			GDP:       f[FieldGDP],
			Classic:   f[FieldClassic],
			Optimized: f[FieldOptimized],
			Open:      f[FieldOpen],
			High:      f[FieldHigh],
			Low:       f[FieldLow],
			Close:     f[FieldClose],
			Volume:    f[FieldVolume],
		}
	}
	return out
}
