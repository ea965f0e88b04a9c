package flow

import (
	"testing"

	domrepo "MarketLens/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsWithScores(scores ...float64) []SectorFlowRow {
	rows := make([]SectorFlowRow, len(scores))
	for i, s := range scores {
		rows[i] = SectorFlowRow{Name: string(rune('A' + i)), Score: s}
	}
	return rows
}

func normalized(rows []SectorFlowRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.NormalizedScore
	}
	return out
}

func TestNormalize_Endpoints(t *testing.T) {
	out := Normalize(rowsWithScores(1, 2, 3, 4, 5))
	assert.Equal(t, []float64{-10, -5, 0, 5, 10}, normalized(out))
}

func TestNormalize_ConstantColumn(t *testing.T) {
	out := Normalize(rowsWithScores(7, 7, 7))
	assert.Equal(t, []float64{0, 0, 0}, normalized(out))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestJoin_InnerOnName(t *testing.T) {
	tables := []HorizonTable{
		{Horizon: domrepo.HorizonToday, Entries: []Entry{{"银行", 10}, {"煤炭", 20}, {"半导体", 30}}},
		{Horizon: domrepo.Horizon5d, Entries: []Entry{{"半导体", 3}, {"银行", 1}}},
		{Horizon: domrepo.Horizon10d, Entries: []Entry{{"银行", 100}, {"半导体", 300}, {"医药", 5}}},
	}

	rows := Join(tables)
	require.Len(t, rows, 2)
	assert.Equal(t, "银行", rows[0].Name)
	assert.Equal(t, "半导体", rows[1].Name)
	assert.Equal(t, 1.0, rows[0].Metrics[domrepo.Horizon5d])
	assert.Equal(t, 300.0, rows[1].Metrics[domrepo.Horizon10d])
}

func TestJoin_NoOverlapIsEmpty(t *testing.T) {
	rows := Join([]HorizonTable{
		{Horizon: domrepo.HorizonToday, Entries: []Entry{{"a", 1}}},
		{Horizon: domrepo.Horizon5d, Entries: []Entry{{"b", 1}}},
	})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestScore_Weighted(t *testing.T) {
	rows := []SectorFlowRow{{Name: "x", Metrics: map[domrepo.Horizon]float64{
		domrepo.HorizonToday: 100, domrepo.Horizon5d: 50, domrepo.Horizon10d: -20,
	}}}
	out := Score(rows, DefaultWeights())
	assert.InDelta(t, 80+5-2, out[0].Score, 1e-9)
	assert.Zero(t, rows[0].Score, "input untouched")
}

func TestEvaluateAndTopBottom(t *testing.T) {
	var today, five, ten []Entry
	for i := 0; i < 12; i++ {
		name := string(rune('a' + i))
		today = append(today, Entry{name, float64(i)})
		five = append(five, Entry{name, 0})
		ten = append(ten, Entry{name, 0})
	}
	ranked := Evaluate([]HorizonTable{
		{Horizon: domrepo.HorizonToday, Entries: today},
		{Horizon: domrepo.Horizon5d, Entries: five},
		{Horizon: domrepo.Horizon10d, Entries: ten},
	}, DefaultWeights())

	require.Len(t, ranked, 12)
	assert.Equal(t, "l", ranked[0].Name)
	assert.Equal(t, 10.0, ranked[0].NormalizedScore)
	assert.Equal(t, -10.0, ranked[11].NormalizedScore)

	r := TopBottom(ranked, 5)
	require.Len(t, r.Top, 5)
	require.Len(t, r.Bottom, 5)
	assert.Equal(t, []string{"l", "k", "j", "i", "h"}, names(r.Top))
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, names(r.Bottom))

	small := TopBottom(ranked[:2], 5)
	assert.Len(t, small.Top, 2)
	assert.Len(t, small.Bottom, 2)
}

func TestRealtime(t *testing.T) {
	entries := []Entry{{"a", 3e8}, {"b", -1e8}, {"c", 5e8}, {"d", 0.25e8}, {"e", -2e8}}
	s := Realtime(entries, 3)

	assert.Equal(t, []Entry{{"c", 5e8}, {"a", 3e8}, {"d", 0.25e8}}, s.Top)
	assert.Equal(t, []Entry{{"d", 0.25e8}, {"b", -1e8}, {"e", -2e8}}, s.Bottom)
	assert.Equal(t, 5.25, s.Total)
	assert.Equal(t, "a", entries[0].Name, "input order untouched")
}

func names(rows []SectorFlowRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}
