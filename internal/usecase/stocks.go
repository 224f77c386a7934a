package usecase

import (
	"context"
	"fmt"

	"StatPull/internal/domain/models"
	domrepo "StatPull/internal/domain/repository"
	"StatPull/internal/services/stats"
	"StatPull/pkg/logger"
	"StatPull/pkg/util"

	"golang.org/x/sync/errgroup"
)

const (
	averagePlaces     = 6
	correlationPlaces = 4
)

// StocksUseCase serves price averages and pairwise correlations.
type StocksUseCase struct {
	prices  domrepo.PriceProvider
	metrics domrepo.Metrics
	log     *logger.Logger
}

type StocksOption func(*StocksUseCase)

func WithStocksMetrics(m domrepo.Metrics) StocksOption {
	return func(uc *StocksUseCase) { uc.metrics = m }
}

func WithStocksLogger(l *logger.Logger) StocksOption {
	return func(uc *StocksUseCase) { uc.log = l }
}

func NewStocksUseCase(prices domrepo.PriceProvider, opts ...StocksOption) *StocksUseCase {
	uc := &StocksUseCase{prices: prices, log: logger.Nop()}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Average returns the mean price of ticker over the last minutes.
// Returns models.ErrNoPriceData when the window holds no prices.
func (uc *StocksUseCase) Average(ctx context.Context, ticker string, minutes int) (*models.StockAverage, error) {
	ticker = util.NormalizeTicker(ticker)

	series := uc.prices.GetSeries(ctx, ticker, minutes)
	if len(series) == 0 {
		return nil, fmt.Errorf("%s over %d minutes: %w", ticker, minutes, models.ErrNoPriceData)
	}

	return &models.StockAverage{
		AverageStockPrice: util.Round(stats.Mean(series.Prices()), averagePlaces),
		PriceHistory:      series,
	}, nil
}

// Correlation returns the Pearson correlation of two tickers' time-aligned prices.
// Too little data yields a correlation of 0 rather than an error.
func (uc *StocksUseCase) Correlation(ctx context.Context, minutes int, tickerA, tickerB string) (*models.CorrelationResult, error) {
	tickerA, tickerB = util.NormalizeTicker(tickerA), util.NormalizeTicker(tickerB)
	if tickerA == tickerB {
		return nil, fmt.Errorf("%s: %w", tickerA, models.ErrSameTicker)
	}

	var seriesA, seriesB models.PriceSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		seriesA = uc.prices.GetSeries(gctx, tickerA, minutes)
		return nil
	})
	g.Go(func() error {
		seriesB = uc.prices.GetSeries(gctx, tickerB, minutes)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load series: %w", err)
	}

	res := &models.CorrelationResult{
		Stocks: map[string]models.TickerSummary{
			tickerA: summarize(seriesA),
			tickerB: summarize(seriesB),
		},
	}

	if len(seriesA) < 2 || len(seriesB) < 2 {
		uc.log.Debug("not enough prices to correlate",
			logger.String("a", tickerA), logger.Int("a_points", len(seriesA)),
			logger.String("b", tickerB), logger.Int("b_points", len(seriesB)),
		)
		return res, nil
	}

	aligned := stats.Align(seriesA, seriesB)
	if aligned.Len() < 2 {
		uc.log.Debug("not enough aligned samples",
			logger.String("a", tickerA), logger.String("b", tickerB),
			logger.Int("samples", aligned.Len()),
		)
		return res, nil
	}

	res.Correlation = util.Round(stats.PearsonCorrelation(aligned.A, aligned.B), correlationPlaces)
	if uc.metrics != nil {
		uc.metrics.RecordCorrelation(tickerA+"/"+tickerB, res.Correlation)
	}
	return res, nil
}

func summarize(s models.PriceSeries) models.TickerSummary {
	if s == nil {
		s = models.PriceSeries{}
	}
	return models.TickerSummary{
		AveragePrice: stats.Mean(s.Prices()),
		PriceHistory: s,
	}
}
