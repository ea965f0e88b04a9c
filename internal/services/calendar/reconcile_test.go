package calendar

import (
	"testing"
	"time"

	"MarketLens/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func row(date time.Time, kv ...any) Row {
	fields := map[string]float64{}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[kv[i].(string)] = kv[i+1].(float64)
	}
	return Row{Date: date, Fields: fields}
}

func TestDailyAxis(t *testing.T) {
	axis := DailyAxis(d(2023, 2, 27), d(2023, 3, 2))
	require.Len(t, axis, 4)
	assert.Equal(t, d(2023, 2, 28), axis[1])
	assert.Equal(t, d(2023, 3, 1), axis[2])
	assert.Nil(t, DailyAxis(d(2023, 3, 2), d(2023, 3, 1)))
}

func TestReconcile_MixedFrequencies(t *testing.T) {
	var daily Series
	for i, day := range DailyAxis(d(2023, 1, 1), d(2023, 3, 31)) {
		daily = append(daily, row(day, "close", float64(3000+i)))
	}
	monthly := Series{
		row(d(2023, 1, 1), "cpi", 2.1),
		row(d(2023, 2, 1), "cpi", 1.0),
		row(d(2023, 3, 1), "cpi", 0.7),
	}
	yearly := Series{
		row(d(2023, 2, 10), "leverage", 270.0),
		row(d(2024, 1, 1), "leverage", 290.0),
	}

	out := Reconcile(daily, []Series{monthly, yearly})
	require.Len(t, out, len(daily))

	for _, r := range out {
		lev, ok := r.Get("leverage")
		if r.Date.Before(d(2023, 2, 10)) {
			assert.False(t, ok, "no yearly value before its first row: %s", r.Date)
			continue
		}
		require.True(t, ok, r.Date.String())
		assert.Equal(t, 270.0, lev, "never a value from a later row")
	}

	cpi, _ := out[0].Get("cpi")
	assert.Equal(t, 2.1, cpi)
	cpi, _ = out[45].Get("cpi") // 2023-02-15
	assert.Equal(t, 1.0, cpi)
	cpi, _ = out[len(out)-1].Get("cpi")
	assert.Equal(t, 0.7, cpi)

	filled := Fill(out)
	for _, r := range filled {
		_, ok := r.Get("leverage")
		assert.True(t, ok)
	}
	lev, _ := filled[0].Get("leverage")
	assert.Equal(t, 270.0, lev, "leading gap is seeded by backward fill")
}

func TestReconcile_AuxAfterRangeAndEmpty(t *testing.T) {
	base := Series{row(d(2023, 1, 2), "close", 1.0), row(d(2023, 1, 3), "close", 2.0)}
	late := Series{row(d(2024, 1, 1), "gdp", 9.0)}

	out := Reconcile(base, []Series{late, nil})
	require.Len(t, out, 2)
	for _, r := range out {
		_, ok := r.Get("gdp")
		assert.False(t, ok)
	}
}

func TestReconcile_DuplicateAuxDateLastWins(t *testing.T) {
	base := Series{row(d(2023, 5, 20), "close", 1.0)}
	lpr := Series{
		row(d(2023, 5, 1), "lpr", 3.65),
		row(d(2023, 5, 1), "lpr", 3.55),
	}

	out := Reconcile(base, []Series{lpr})
	v, _ := out[0].Get("lpr")
	assert.Equal(t, 3.55, v)
}

func TestReconcile_BaseFieldsWin(t *testing.T) {
	base := Series{row(d(2023, 5, 20), "close", 1.0)}
	aux := Series{row(d(2023, 5, 1), "close", 99.0, "pe", 12.0)}

	out := Reconcile(base, []Series{aux})
	c, _ := out[0].Get("close")
	pe, _ := out[0].Get("pe")
	assert.Equal(t, 1.0, c)
	assert.Equal(t, 12.0, pe)
}

func TestReconcile_WithRangeAndNoMutation(t *testing.T) {
	base := Series{row(d(2023, 1, 2), "close", 1.0)}
	aux := Series{row(d(2023, 1, 1), "cpi", 0.5)}
	before := aux.Clone()

	out := Reconcile(base, []Series{aux}, WithRange(d(2023, 1, 1), d(2023, 1, 4)))
	require.Len(t, out, 4)
	_, ok := out[0].Get("close")
	assert.False(t, ok)
	c, _ := out[1].Get("close")
	assert.Equal(t, 1.0, c)

	out[0].Fields["cpi"] = 42
	assert.Equal(t, before, aux)
}

func TestFillForwardBackward(t *testing.T) {
	s := Series{
		row(d(2023, 1, 1)),
		row(d(2023, 1, 2), "x", 1.0),
		row(d(2023, 1, 3)),
		row(d(2023, 1, 4), "x", 3.0),
		row(d(2023, 1, 5)),
	}

	ff := FillForward(s, "x")
	_, ok := ff[0].Get("x")
	assert.False(t, ok)
	v, _ := ff[2].Get("x")
	assert.Equal(t, 1.0, v)
	v, _ = ff[4].Get("x")
	assert.Equal(t, 3.0, v)

	bf := FillBackward(s, "x")
	v, _ = bf[0].Get("x")
	assert.Equal(t, 1.0, v)
	v, _ = bf[2].Get("x")
	assert.Equal(t, 3.0, v)
	_, ok = bf[4].Get("x")
	assert.False(t, ok)

	_, ok = s[0].Get("x")
	assert.False(t, ok, "input untouched")
}

func TestInnerJoinAndTrim(t *testing.T) {
	a := Series{row(d(2023, 1, 1), "close", 1.0), row(d(2023, 1, 2), "close", 2.0), row(d(2023, 1, 3), "close", 3.0)}
	b := Series{row(d(2023, 1, 2), "chip70", 0.2), row(d(2023, 1, 3), "chip70", 0.3), row(d(2023, 1, 4), "chip70", 0.4)}

	j := InnerJoin(a, b)
	require.Len(t, j, 2)
	c, _ := j[0].Get("close")
	ch, _ := j[0].Get("chip70")
	assert.Equal(t, 2.0, c)
	assert.Equal(t, 0.2, ch)

	assert.Len(t, Trim(a, d(2023, 1, 2)), 2)
	assert.Len(t, InnerJoin(a, nil), 0)
}

func TestAsOf(t *testing.T) {
	s := Series{row(d(2023, 1, 1), "x", 1.0), row(d(2023, 1, 5), "x", 5.0)}
	r, ok := AsOf(s, d(2023, 1, 4))
	require.True(t, ok)
	assert.Equal(t, d(2023, 1, 1), r.Date)
	_, ok = AsOf(s, d(2022, 12, 31))
	assert.False(t, ok)
}

func TestFromTable(t *testing.T) {
	tbl := models.Table{
		{"日期": "2023-01-03", "今值": 1.8, "name": "cpi"},
		{"日期": "2023-01-01", "今值": nil, "name": "cpi"},
		{"日期": "bad", "今值": 2.0, "name": "cpi"},
	}

	s, err := FromTable("cpi", tbl, "日期", Columns{"今值": "cpi"})
	require.NoError(t, err)
	require.Len(t, s, 2)
	assert.Equal(t, d(2023, 1, 1), s[0].Date)
	_, ok := s[0].Get("cpi")
	assert.False(t, ok)
	v, _ := s[1].Get("cpi")
	assert.Equal(t, 1.8, v)

	_, err = FromTable("cpi", tbl, "日期", Columns{"前值": "prev"})
	var shape *models.DataShapeError
	assert.ErrorAs(t, err, &shape)
}
