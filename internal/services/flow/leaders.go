package flow

import "sort"

// Stock is a constituent of a sector board.
type Stock struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ChangePct    float64 `json:"change_pct"`
	Amount       float64 `json:"amount"`
	TurnoverRate float64 `json:"turnover_rate"`
}

// Leaders orders constituents by change, then traded amount, then turnover
// rate, all descending, and returns the first and last k.
func Leaders(stocks []Stock, k int) (top, bottom []Stock) {
	sorted := make([]Stock, len(stocks))
	copy(sorted, stocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.ChangePct != b.ChangePct {
			return a.ChangePct > b.ChangePct
		}
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.TurnoverRate > b.TurnoverRate
	})
	return head(sorted, k), tail(sorted, k)
}
