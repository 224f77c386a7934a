package api

import (
	"errors"
	"net/http"

	"StatPull/internal/domain/models"
	"StatPull/internal/usecase"
	xhttp "StatPull/pkg/http"
	xlogger "StatPull/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgInvalidNumberID = "Invalid number ID. Must be 'p', 'f', 'e', or 'r'."
	msgNumbersInternal = "Internal server error while calculating average."
)

// NumbersEchoHandler serves the sliding window average.
type NumbersEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.NumbersUseCase
}

func NewNumbersEchoHandler(logger *xlogger.Logger, uc *usecase.NumbersUseCase) *NumbersEchoHandler {
	return &NumbersEchoHandler{logger: logger, uc: uc}
}

func (h *NumbersEchoHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/numbers/:id", h.Numbers)
}

func (h *NumbersEchoHandler) Numbers(c echo.Context) error {
	req := &models.NumbersRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, msgInvalidNumberID, verr)
	}

	res, err := h.uc.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, models.ErrUnknownNumberID) {
			return xhttp.BadRequestResponse(c, msgInvalidNumberID, nil)
		}
		h.logger.Error("numbers usecase error", xlogger.String("id", req.ID), xlogger.Error(err))
		return xhttp.ErrorResponse(c, http.StatusInternalServerError, msgNumbersInternal)
	}
	return xhttp.SuccessResponse(c, res)
}
