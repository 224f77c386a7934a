package models

// Requests for the HTTP endpoints, bound from path and query parameters.

type NumbersRequest struct {
	ID string `param:"id" validate:"required,oneof=p f e r"`
}

type StockAverageRequest struct {
	Ticker      string `param:"ticker" validate:"required,max=16"`
	Minutes     int    `query:"minutes" validate:"required,gte=1"`
	Aggregation string `query:"aggregation" validate:"required,eq=average"`
}

type CorrelationRequest struct {
	Minutes int      `query:"minutes" validate:"required,gte=1"`
	Tickers []string `query:"ticker" validate:"len=2,dive,required,max=16"`
}
