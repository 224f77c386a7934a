package repository

import (
	"context"

	"StatPull/internal/domain/models"
)

// NumberSource fetches a batch of numbers for a number ID.
type NumberSource interface {
	FetchNumbers(ctx context.Context, id string) ([]float64, error)
}

// PriceSource fetches the raw price series of a ticker over the last minutes.
type PriceSource interface {
	FetchPrices(ctx context.Context, ticker string, minutes int) (models.PriceSeries, error)
}

// PriceProvider serves price series, never failing: no data is an empty series.
type PriceProvider interface {
	GetSeries(ctx context.Context, ticker string, minutes int) models.PriceSeries
}

// WindowNotifier receives every window update.
type WindowNotifier interface {
	Publish(update models.WindowUpdate)
}

// Metrics records service level measurements.
type Metrics interface {
	RecordUpstreamFetch(resource, outcome string, seconds float64)
	RecordCacheLookup(result string)
	RecordWindowSize(n int)
	RecordCorrelation(pair string, value float64)
}
