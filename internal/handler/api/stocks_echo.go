package api

import (
	"errors"
	"fmt"

	"StatPull/internal/domain/models"
	"StatPull/internal/usecase"
	xhttp "StatPull/pkg/http"
	xlogger "StatPull/pkg/logger"
	"StatPull/pkg/util"

	"github.com/labstack/echo/v4"
)

const (
	msgInvalidMinutes     = "Invalid 'minutes' parameter. Must be a positive number."
	msgInvalidAggregation = "Invalid 'aggregation' parameter. Only 'average' is supported."
	msgInvalidTicker      = "Invalid 'ticker' parameter."
	msgTickerPair         = "Exactly two 'ticker' parameters are required for correlation (e.g., ?ticker=NVDA&ticker=PYPL)."
	msgSameTicker         = "Cannot correlate a stock with itself. Provide two different tickers."
)

// StocksEchoHandler serves price averages and correlations.
type StocksEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.StocksUseCase
}

func NewStocksEchoHandler(logger *xlogger.Logger, uc *usecase.StocksUseCase) *StocksEchoHandler {
	return &StocksEchoHandler{logger: logger, uc: uc}
}

func (h *StocksEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/stocks/:ticker", h.Average)
	g.GET("/stockcorrelation", h.Correlation)
}

func (h *StocksEchoHandler) Average(c echo.Context) error {
	req := &models.StockAverageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, averageMessage(verr), verr)
	}
	ticker := util.NormalizeTicker(req.Ticker)

	res, err := h.uc.Average(c.Request().Context(), ticker, req.Minutes)
	if err != nil {
		if errors.Is(err, models.ErrNoPriceData) {
			return xhttp.NotFoundResponse(c,
				fmt.Sprintf("No price data found for %s in the last %d minutes.", ticker, req.Minutes))
		}
		h.logger.Error("average usecase error", xlogger.String("ticker", ticker), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StocksEchoHandler) Correlation(c echo.Context) error {
	req := &models.CorrelationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, correlationMessage(verr), verr)
	}

	res, err := h.uc.Correlation(c.Request().Context(), req.Minutes, req.Tickers[0], req.Tickers[1])
	if err != nil {
		if errors.Is(err, models.ErrSameTicker) {
			return xhttp.BadRequestResponse(c, msgSameTicker, nil)
		}
		h.logger.Error("correlation usecase error", xlogger.Strings("tickers", req.Tickers), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, res)
}

// minutesInvalid treats bind failures that name no field as a bad minutes value,
// the only numeric parameter on these routes.
func minutesInvalid(errs []xhttp.ValidationError) bool {
	return xhttp.HasField(errs, "minutes") || xhttp.HasField(errs, "")
}

func averageMessage(errs []xhttp.ValidationError) string {
	switch {
	case minutesInvalid(errs):
		return msgInvalidMinutes
	case xhttp.HasField(errs, "aggregation"):
		return msgInvalidAggregation
	default:
		return msgInvalidTicker
	}
}

func correlationMessage(errs []xhttp.ValidationError) string {
	if minutesInvalid(errs) {
		return msgInvalidMinutes
	}
	return msgTickerPair
}
