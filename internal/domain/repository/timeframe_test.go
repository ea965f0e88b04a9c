package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectorType(t *testing.T) {
	assert.True(t, IsValidSectorType(SectorConcept))
	assert.False(t, IsValidSectorType(""))
	assert.False(t, IsValidSectorType("fund"))
	assert.Equal(t, "地域资金流", SectorRegion.ProviderName())
	assert.Equal(t, "行业资金流", SectorIndustry.ProviderName())
}

func TestHorizonColumns(t *testing.T) {
	assert.Equal(t, "今日主力净流入-净额", HorizonToday.NetInflowColumn())
	assert.Equal(t, "5日主力净流入-净额", Horizon5d.NetInflowColumn())
	assert.Equal(t, "10日", Horizon10d.Indicator())
	assert.Len(t, Horizons(), 3)
}
