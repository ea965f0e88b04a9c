package repository

// Horizon is the look-back window of a sector fund-flow ranking.
type Horizon string

const (
	HorizonToday Horizon = "today"
	Horizon5d    Horizon = "5d"
	Horizon10d   Horizon = "10d"
)

// Horizons lists every ranking horizon in join order.
func Horizons() []Horizon { return []Horizon{HorizonToday, Horizon5d, Horizon10d} }

// Indicator returns the provider's name for h.
func (h Horizon) Indicator() string {
	switch h {
	case Horizon5d:
		return "5日"
	case Horizon10d:
		return "10日"
	default:
		return "今日"
	}
}

// NetInflowColumn is the ranking column carrying main-force net inflow for h.
func (h Horizon) NetInflowColumn() string {
	return h.Indicator() + "主力净流入-净额"
}

// SectorType selects which sector universe is ranked.
type SectorType string

const (
	SectorIndustry SectorType = "industry"
	SectorConcept  SectorType = "concept"
	SectorRegion   SectorType = "region"
)

// IsValidSectorType returns true if st is a supported sector type.
func IsValidSectorType(st SectorType) bool {
	switch st {
	case SectorIndustry, SectorConcept, SectorRegion:
		return true
	default:
		return false
	}
}

// ProviderName returns the provider's name for st.
func (st SectorType) ProviderName() string {
	switch st {
	case SectorConcept:
		return "概念资金流"
	case SectorRegion:
		return "地域资金流"
	default:
		return "行业资金流"
	}
}
