package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"StatPull/pkg/util"
)

// ErrNoPriceData means the upstream had no prices for the requested window.
var ErrNoPriceData = errors.New("no price data")

// PricePoint is one observed price.
type PricePoint struct {
	Price         float64
	LastUpdatedAt time.Time
	// RawUpdatedAt is the lastUpdatedAt token exactly as the upstream sent it.
	// When set it is echoed back instead of a re-formatted LastUpdatedAt.
	RawUpdatedAt json.RawMessage
}

type pricePointJSON struct {
	Price         float64         `json:"price"`
	LastUpdatedAt json.RawMessage `json:"lastUpdatedAt"`
}

func (p PricePoint) MarshalJSON() ([]byte, error) {
	raw := p.RawUpdatedAt
	if len(raw) == 0 {
		b, err := json.Marshal(p.LastUpdatedAt.Format(time.RFC3339Nano))
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(pricePointJSON{Price: p.Price, LastUpdatedAt: raw})
}

func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var v pricePointJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	// Strings are unquoted; numeric epochs are parsed from their literal.
	text := string(v.LastUpdatedAt)
	var s string
	if err := json.Unmarshal(v.LastUpdatedAt, &s); err == nil {
		text = s
	}
	ts, ok := util.ParseTime(text)
	if !ok {
		return fmt.Errorf("invalid lastUpdatedAt %s", v.LastUpdatedAt)
	}

	p.Price = v.Price
	p.LastUpdatedAt = ts
	p.RawUpdatedAt = v.LastUpdatedAt
	return nil
}

// PriceSeries is sorted ascending by LastUpdatedAt once it leaves the upstream client.
type PriceSeries []PricePoint

// Prices returns the price column.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

// CacheEntry is what the price cache stores per (symbol, minutes).
type CacheEntry struct {
	Series    PriceSeries `json:"series"`
	FetchedAt time.Time   `json:"fetchedAt"`
}

// AlignedSeries holds equal-length, timestamp-synchronised price pairs.
type AlignedSeries struct {
	A          []float64
	B          []float64
	Timestamps []time.Time
}

// Len returns the number of aligned samples.
func (a AlignedSeries) Len() int { return len(a.Timestamps) }

// StockAverage is the body of the average endpoint.
type StockAverage struct {
	AverageStockPrice float64     `json:"averageStockPrice"`
	PriceHistory      PriceSeries `json:"priceHistory"`
}

// TickerSummary describes one side of a correlation.
type TickerSummary struct {
	AveragePrice float64     `json:"averagePrice"`
	PriceHistory PriceSeries `json:"priceHistory"`
}

// CorrelationResult is the body of the correlation endpoint.
type CorrelationResult struct {
	Correlation float64                  `json:"correlation"`
	Stocks      map[string]TickerSummary `json:"stocks"`
}

// ErrSameTicker is returned when a correlation pairs a ticker with itself.
var ErrSameTicker = errors.New("cannot correlate a ticker with itself")
