package usecase

import (
	"context"
	"time"

	"MarketLens/internal/domain/models"
	domrepo "MarketLens/internal/domain/repository"
	"MarketLens/internal/services/flow"
	"MarketLens/pkg/logger"
)

const (
	opSectorRank       = "stock_sector_fund_flow_rank"
	opIndustryCons     = "stock_board_industry_cons_em"
	opConceptCons      = "stock_board_concept_cons_em"
	opIndustryHist     = "stock_sector_fund_flow_hist"
	opConceptHist      = "stock_concept_fund_flow_hist"
	sectorNameColumn   = "名称"
	defaultLeadersSize = 4
)

type SectorFlowConfig struct {
	TopK         int
	RealtimeTopK int
	Weights      flow.Weights
}

// SectorFlowUseCase ranks sectors by main-force net inflow.
type SectorFlowUseCase struct {
	data domrepo.MarketData
	cfg  SectorFlowConfig
	log  *logger.Logger
}

func NewSectorFlowUseCase(data domrepo.MarketData, cfg SectorFlowConfig, log *logger.Logger) *SectorFlowUseCase {
	if cfg.Weights == nil {
		cfg.Weights = flow.DefaultWeights()
	}
	return &SectorFlowUseCase{data: data, cfg: cfg, log: log.Component("sector_flow")}
}

// HeadStocks are the leading and lagging constituents of one sector board.
type HeadStocks struct {
	Top    []flow.Stock `json:"top_stocks"`
	Bottom []flow.Stock `json:"tail_stocks"`
}

// Ranking scores every sector over all horizons and returns the best and
// worst TopK.
func (uc *SectorFlowUseCase) Ranking(ctx context.Context, st domrepo.SectorType) (r flow.Ranking, err error) {
	defer observe(uc.log, "sector_ranking", time.Now(), &err)

	rows, err := uc.evaluate(ctx, st)
	if err != nil {
		return flow.Ranking{}, err
	}
	return flow.TopBottom(rows, uc.cfg.TopK), nil
}

// All returns every sector present in all horizons, ranked.
func (uc *SectorFlowUseCase) All(ctx context.Context, st domrepo.SectorType) (rows []flow.SectorFlowRow, err error) {
	defer observe(uc.log, "sector_all", time.Now(), &err)
	return uc.evaluate(ctx, st)
}

// Realtime ranks same-day inflow only.
func (uc *SectorFlowUseCase) Realtime(ctx context.Context, st domrepo.SectorType) (s flow.RealtimeSummary, err error) {
	defer observe(uc.log, "sector_realtime", time.Now(), &err)

	if err := checkSectorType(st); err != nil {
		return flow.RealtimeSummary{}, err
	}
	table, err := uc.horizon(ctx, st, domrepo.HorizonToday)
	if err != nil {
		return flow.RealtimeSummary{}, err
	}
	return flow.Realtime(table.Entries, uc.cfg.RealtimeTopK), nil
}

// HeadStocks ranks the constituents of an industry or concept board.
func (uc *SectorFlowUseCase) HeadStocks(ctx context.Context, st domrepo.SectorType, board string) (h HeadStocks, err error) {
	defer observe(uc.log, "sector_head_stocks", time.Now(), &err)

	var op string
	switch st {
	case domrepo.SectorIndustry:
		op = opIndustryCons
	case domrepo.SectorConcept:
		op = opConceptCons
	default:
		return HeadStocks{}, models.InvalidArgumentf("head stocks need an industry or concept board, got %q", st)
	}
	if board == "" {
		return HeadStocks{}, models.InvalidArgumentf("board name is required")
	}

	t, err := uc.data.Fetch(ctx, op, map[string]string{"symbol": board})
	if err != nil {
		return HeadStocks{}, err
	}
	if err := t.Require(op, "代码", "名称", "涨跌幅", "成交额", "换手率"); err != nil {
		return HeadStocks{}, err
	}

	stocks := make([]flow.Stock, len(t))
	for i, rec := range t {
		stocks[i] = flow.Stock{
			Code:         text(rec, "代码"),
			Name:         text(rec, "名称"),
			Price:        num(rec, "最新价"),
			ChangePct:    num(rec, "涨跌幅"),
			Amount:       num(rec, "成交额"),
			TurnoverRate: num(rec, "换手率"),
		}
	}
	h.Top, h.Bottom = flow.Leaders(stocks, defaultLeadersSize)
	return h, nil
}

// History returns the daily fund-flow history of one industry or concept
// board.
func (uc *SectorFlowUseCase) History(ctx context.Context, st domrepo.SectorType, board string) (t models.Table, err error) {
	defer observe(uc.log, "sector_history", time.Now(), &err)

	var op string
	switch st {
	case domrepo.SectorIndustry:
		op = opIndustryHist
	case domrepo.SectorConcept:
		op = opConceptHist
	default:
		return nil, models.InvalidArgumentf("fund-flow history needs an industry or concept board, got %q", st)
	}
	if board == "" {
		return nil, models.InvalidArgumentf("board name is required")
	}

	t, err = uc.data.Fetch(ctx, op, map[string]string{"symbol": board})
	if err != nil {
		return nil, err
	}
	return t.Repair(), nil
}

func (uc *SectorFlowUseCase) evaluate(ctx context.Context, st domrepo.SectorType) ([]flow.SectorFlowRow, error) {
	if err := checkSectorType(st); err != nil {
		return nil, err
	}

	horizons := domrepo.Horizons()
	reqs := make([]request, len(horizons))
	for i, h := range horizons {
		reqs[i] = rankRequest(st, h)
	}
	raw, err := fetchAll(ctx, uc.data, reqs...)
	if err != nil {
		return nil, err
	}

	tables := make([]flow.HorizonTable, len(horizons))
	for i, h := range horizons {
		if tables[i], err = horizonTable(raw[i], h); err != nil {
			return nil, err
		}
	}

	rows := flow.Evaluate(tables, uc.cfg.Weights)
	if dropped := len(tables[0].Entries) - len(rows); dropped > 0 {
		uc.log.Debug("sectors missing from a horizon",
			logger.String("sector_type", string(st)),
			logger.Int("dropped", dropped),
		)
	}
	return rows, nil
}

func (uc *SectorFlowUseCase) horizon(ctx context.Context, st domrepo.SectorType, h domrepo.Horizon) (flow.HorizonTable, error) {
	r := rankRequest(st, h)
	t, err := uc.data.Fetch(ctx, r.op, r.params)
	if err != nil {
		return flow.HorizonTable{}, err
	}
	return horizonTable(t, h)
}

func rankRequest(st domrepo.SectorType, h domrepo.Horizon) request {
	return request{op: opSectorRank, params: map[string]string{
		"indicator":   h.Indicator(),
		"sector_type": st.ProviderName(),
	}}
}

func horizonTable(t models.Table, h domrepo.Horizon) (flow.HorizonTable, error) {
	col := h.NetInflowColumn()
	if err := t.Require(opSectorRank, sectorNameColumn, col); err != nil {
		return flow.HorizonTable{}, err
	}
	entries := make([]flow.Entry, 0, len(t))
	for _, rec := range t {
		name := text(rec, sectorNameColumn)
		if name == "" {
			continue
		}
		entries = append(entries, flow.Entry{Name: name, Value: num(rec, col)})
	}
	return flow.HorizonTable{Horizon: h, Entries: entries}, nil
}

func checkSectorType(st domrepo.SectorType) error {
	if !domrepo.IsValidSectorType(st) {
		return models.InvalidArgumentf("unknown sector type %q", st)
	}
	return nil
}
