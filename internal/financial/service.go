package financial

import (
	"context"
	"time"

	"guvenlik-backend/internal/ledger"
	"guvenlik-backend/internal/log"
	"guvenlik-backend/internal/models"
	"guvenlik-backend/internal/subscription"

	"golang.org/x/sync/errgroup"
)

// TransactionQuerier is the read half of ledger.TransactionStore.
type TransactionQuerier interface {
	Query(ctx context.Context, f ledger.TransactionFilter) ([]models.FinancialTransaction, error)
}

// Service loads facts through the query layer and feeds the aggregators.
type Service struct {
	facts  ledger.FactReader
	txs    TransactionQuerier
	stats  subscription.StatsSource
	logger *log.Logger
}

func NewService(facts ledger.FactReader, txs TransactionQuerier, stats subscription.StatsSource, logger *log.Logger) *Service {
	return &Service{facts: facts, txs: txs, stats: stats, logger: logger.WithComponent("financial")}
}

func (s *Service) load(ctx context.Context, sel PeriodSelector, mode ledger.ViewMode) ([]models.ProfitAndLossFact, error) {
	return s.facts.Facts(ctx, ledger.FactFilter{Periods: sel.Months, ViewMode: mode})
}

// ProfitLoss returns totals for a month, a quarter or (empty selector) all time.
func (s *Service) ProfitLoss(ctx context.Context, sel PeriodSelector, mode ledger.ViewMode) (PLTotals, error) {
	facts, err := s.load(ctx, sel, mode)
	if err != nil {
		return PLTotals{}, err
	}
	return AggregatePL(facts), nil
}

func (s *Service) ProfitLossByPeriod(ctx context.Context, sel PeriodSelector, mode ledger.ViewMode) ([]PeriodPL, error) {
	facts, err := s.load(ctx, sel, mode)
	if err != nil {
		return nil, err
	}
	return AggregateByPeriod(facts), nil
}

// Categories groups the period's expense transactions by category.
func (s *Service) Categories(ctx context.Context, period string, mode ledger.ViewMode) ([]CategoryGroup, error) {
	txs, err := s.txs.Query(ctx, ledger.TransactionFilter{
		Direction: models.DirectionExpense,
		Period:    period,
		ViewMode:  mode,
	})
	if err != nil {
		return nil, err
	}
	return GroupByCategory(txs), nil
}

func (s *Service) VAT(ctx context.Context, q VATQuery) ([]VATRow, error) {
	facts, err := s.load(ctx, q.Period, q.ViewMode)
	if err != nil {
		return nil, err
	}
	return VATReport(facts, q), nil
}

// KPIs fetches subscription stats and the period's facts concurrently.
func (s *Service) KPIs(ctx context.Context, sel PeriodSelector, mode ledger.ViewMode) (KPIs, error) {
	var (
		stats subscription.Stats
		facts []models.ProfitAndLossFact
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.stats.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		facts, err = s.load(gctx, sel, mode)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "KPI verileri alınamadı", "error", err, "period", sel.Token)
		return KPIs{}, err
	}
	return ComputeKPIs(stats, facts), nil
}

// TrendResult carries one row per month plus the window total. Totals is
// aggregated from the facts themselves, not from the rounded rows.
type TrendResult struct {
	Periods []PeriodPL
	Totals  PLTotals
}

// Trend returns P&L for the last n months ending at end, with empty months as zero rows.
func (s *Service) Trend(ctx context.Context, end time.Time, months int, mode ledger.ViewMode) (TrendResult, error) {
	periods := ledger.LastPeriods(end, months)
	facts, err := s.facts.Facts(ctx, ledger.FactFilter{Periods: periods, ViewMode: mode})
	if err != nil {
		return TrendResult{}, err
	}
	return TrendResult{
		Periods: FillPeriods(AggregateByPeriod(facts), periods),
		Totals:  AggregatePL(facts),
	}, nil
}
