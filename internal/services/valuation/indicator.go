package valuation

import "MarketLens/pkg/util"

// Field names used across the valuation pipeline.
const (
	FieldDate      = "date"
	FieldSHClose   = "sh_close"
	FieldMarketCap = "market_cap"
	FieldGDP       = "gdp"
	FieldCPI       = "cpi"
	FieldLPR       = "lpr"
	FieldLeverage  = "leverage"
	FieldPE        = "pe"
	FieldOpen      = "open"
	FieldHigh      = "high"
	FieldLow       = "low"
	FieldClose     = "close"
	FieldVolume    = "volume"
	FieldClassic   = "classic"
	FieldOptimized = "optimized"
)

const (
	basePE       = 15
	baseRate     = 0.035
	baseCPI      = 0.02
	baseLeverage = 0.5

	alpha = 0.2
	beta  = 0.15
	gamma = 0.1
	delta = 0.1

	precision = 3
)

// Classic is market cap over GDP, rounded to 3 decimals. Zero GDP gives 0.
func Classic(marketCap, gdp float64) float64 {
	if gdp == 0 {
		return 0
	}
	return util.Round(marketCap/gdp, precision)
}

// Optimized adjusts the unrounded classic ratio for valuation, rates,
// leverage and inflation. Rates are given in percent.
func Optimized(marketCap, gdp, pe, lprPct, leveragePct, cpiPct float64) float64 {
	if gdp == 0 {
		return 0
	}
	ratio := marketCap / gdp
	peAdj := 1 + alpha*(pe/basePE)
	rateAdj := 1 - beta*((lprPct/100)/baseRate)
	levAdj := 1 + gamma*((leveragePct/100)/baseLeverage)
	cpiAdj := 1 + delta*((cpiPct/100)/baseCPI)
	return util.Round(ratio*peAdj*rateAdj*levAdj*cpiAdj, precision)
}

// Derive sets the classic and optimized indicators from the other fields.
// Missing inputs read as zero, as they do after a full fill.
func Derive(fields map[string]float64) {
	mc, gdp := fields[FieldMarketCap], fields[FieldGDP]
	fields[FieldClassic] = Classic(mc, gdp)
	fields[FieldOptimized] = Optimized(mc, gdp,
		fields[FieldPE], fields[FieldLPR], fields[FieldLeverage], fields[FieldCPI])
}

// NewProjector returns the projector used to extend valuation rows along
// the index close.
func NewProjector() Projector {
	return Projector{
		Reference: FieldClose,
		Compound:  []string{FieldMarketCap},
		Copy:      []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume},
		Alias:     map[string]string{FieldSHClose: FieldClose},
		Derive:    Derive,
		Precision: precision,
	}
}
