package flow

// MarketDay is one trading day of market-wide fund flow. Inflows are net
// amounts by order size; changes are index percent changes.
type MarketDay struct {
	Date       string  `json:"date"`
	SHClose    float64 `json:"sh_close"`
	SHChange   float64 `json:"sh_change"`
	SZClose    float64 `json:"sz_close"`
	SZChange   float64 `json:"sz_change"`
	MainNet    float64 `json:"main_net"`
	SuperLarge float64 `json:"super_large_net"`
	Large      float64 `json:"large_net"`
	Medium     float64 `json:"medium_net"`
	Small      float64 `json:"small_net"`
	Score      float64 `json:"bull_bear_score"`
}

// BullBearScore weighs each order size's share of total absolute flow
// (0.4, 0.3, 0.2, 0.1 from super-large to small), scales by the average
// index move and maps the result onto [0, 100] around 50. A day with no
// flow at all scores 50.
func BullBearScore(d MarketDay) float64 {
	total := abs(d.SuperLarge) + abs(d.Large) + abs(d.Medium) + abs(d.Small)
	if total == 0 {
		return 50
	}
	score := 0.4*d.SuperLarge/total + 0.3*d.Large/total + 0.2*d.Medium/total + 0.1*d.Small/total
	score *= 1 + (d.SHChange+d.SZChange)/200

	standardized := 50 + score*100
	if standardized < 0 {
		return 0
	}
	if standardized > 100 {
		return 100
	}
	return standardized
}

// ScoreDays keeps the last n days and sets each day's score.
func ScoreDays(days []MarketDay, n int) []MarketDay {
	recent := tail(days, n)
	for i := range recent {
		recent[i].Score = BullBearScore(recent[i])
	}
	return recent
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
