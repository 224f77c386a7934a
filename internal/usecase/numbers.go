package usecase

import (
	"context"
	"fmt"

	"StatPull/internal/domain/models"
	domrepo "StatPull/internal/domain/repository"
	"StatPull/internal/service/window"
	"StatPull/pkg/logger"
)

// NumbersUseCase fetches a number batch and folds it into the shared window.
type NumbersUseCase struct {
	source   domrepo.NumberSource
	window   *window.Accumulator
	ids      map[string]struct{}
	notifier domrepo.WindowNotifier
	metrics  domrepo.Metrics
	log      *logger.Logger
}

type NumbersOption func(*NumbersUseCase)

func WithNotifier(n domrepo.WindowNotifier) NumbersOption {
	return func(uc *NumbersUseCase) { uc.notifier = n }
}

func WithNumbersMetrics(m domrepo.Metrics) NumbersOption {
	return func(uc *NumbersUseCase) { uc.metrics = m }
}

func WithNumbersLogger(l *logger.Logger) NumbersOption {
	return func(uc *NumbersUseCase) { uc.log = l }
}

// NewNumbersUseCase accepts the IDs that are keys of paths.
func NewNumbersUseCase(source domrepo.NumberSource, w *window.Accumulator, paths map[string]string, opts ...NumbersOption) *NumbersUseCase {
	ids := make(map[string]struct{}, len(paths))
	for id := range paths {
		ids[id] = struct{}{}
	}
	uc := &NumbersUseCase{
		source: source,
		window: w,
		ids:    ids,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Get absorbs the batch behind id. A failed fetch counts as an empty batch.
func (uc *NumbersUseCase) Get(ctx context.Context, id string) (models.NumbersResult, error) {
	if _, ok := uc.ids[id]; !ok {
		return models.NumbersResult{}, fmt.Errorf("%w: %q", models.ErrUnknownNumberID, id)
	}

	nums, err := uc.source.FetchNumbers(ctx, id)
	if err != nil {
		uc.log.Warn("number fetch failed", logger.String("id", id), logger.Error(err))
		nums = []float64{}
	}

	res := uc.window.Absorb(nums)

	if uc.metrics != nil {
		uc.metrics.RecordWindowSize(len(res.WindowCurrState))
	}
	if uc.notifier != nil {
		uc.notifier.Publish(models.WindowUpdate{ID: id, NumbersResult: res})
	}
	return res, nil
}
