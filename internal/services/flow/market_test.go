package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBullBearScore(t *testing.T) {
	allIn := MarketDay{SuperLarge: 10, Large: 10, Medium: 10, Small: 10}
	assert.InDelta(t, 75.0, BullBearScore(allIn), 1e-9)

	allOut := MarketDay{SuperLarge: -10, Large: -10, Medium: -10, Small: -10}
	assert.InDelta(t, 25.0, BullBearScore(allOut), 1e-9)

	boosted := MarketDay{SuperLarge: 10, Large: 10, Medium: 10, Small: 10, SHChange: 2, SZChange: 2}
	assert.InDelta(t, 50+25*1.02, BullBearScore(boosted), 1e-9)

	assert.Equal(t, 50.0, BullBearScore(MarketDay{}))
}

func TestBullBearScore_Clamped(t *testing.T) {
	crash := MarketDay{SuperLarge: -100, SHChange: -300, SZChange: -300}
	assert.Equal(t, 100.0, BullBearScore(crash), "negative flow times negative multiplier")

	huge := MarketDay{SuperLarge: 100, SHChange: 1000, SZChange: 1000}
	assert.Equal(t, 100.0, BullBearScore(huge))

	dump := MarketDay{SuperLarge: -100, SHChange: 1000, SZChange: 1000}
	assert.Equal(t, 0.0, BullBearScore(dump))
}

func TestScoreDays(t *testing.T) {
	days := []MarketDay{{Date: "1"}, {Date: "2", Small: 1}, {Date: "3", Small: -1}}
	out := ScoreDays(days, 2)
	assert.Len(t, out, 2)
	assert.Equal(t, "2", out[0].Date)
	assert.InDelta(t, 60.0, out[0].Score, 1e-9)
	assert.InDelta(t, 40.0, out[1].Score, 1e-9)
	assert.Zero(t, days[1].Score)
}

func TestLeaders(t *testing.T) {
	stocks := []Stock{
		{Code: "1", ChangePct: 5, Amount: 10},
		{Code: "2", ChangePct: 9.9, Amount: 1},
		{Code: "3", ChangePct: 5, Amount: 20},
		{Code: "4", ChangePct: -3},
		{Code: "5", ChangePct: 5, Amount: 20, TurnoverRate: 3},
	}
	top, bottom := Leaders(stocks, 2)
	assert.Equal(t, "2", top[0].Code)
	assert.Equal(t, "5", top[1].Code)
	assert.Equal(t, "1", bottom[0].Code)
	assert.Equal(t, "4", bottom[1].Code)
}
