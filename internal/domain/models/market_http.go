package models

// Requests for market HTTP endpoints. Defined in domain for consistency and reuse.

type PeriodicValuationRequest struct {
	Periodic int `query:"periodic" json:"periodic" default:"5" validate:"gte=1,lte=250"`
}

type SectorFlowRequest struct {
	SectorType string `query:"sector_type" json:"sector_type" default:"industry" validate:"oneof=industry concept region"`
}

// SectorBoardRequest names one industry or concept board.
type SectorBoardRequest struct {
	SectorType string `query:"sector_type" json:"sector_type" default:"industry" validate:"oneof=industry concept"`
	Symbol     string `query:"symbol" json:"symbol" validate:"required"`
}

// StockRequest names one A-share by its six-digit code.
type StockRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,len=6,numeric"`
}

type StockHistoryRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required,len=6,numeric"`
	Period string `query:"period" json:"period" default:"daily" validate:"oneof=daily weekly monthly"`
	Adjust string `query:"adjust" json:"adjust" validate:"omitempty,oneof=qfq hfq"`
}
