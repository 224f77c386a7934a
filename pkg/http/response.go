package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GenericInternalMessage is the body text of unexpected 500s.
const GenericInternalMessage = "Internal server error."

// SuccessResponse writes data as the whole JSON body with status 200.
func SuccessResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// ErrorResponse writes {"error": message} with the given status.
func ErrorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorBody{Error: message})
}

// BadRequestResponse writes a 400 with optional validation details.
func BadRequestResponse(c echo.Context, message string, details []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Error: message, Details: details})
}

// NotFoundResponse writes a 404.
func NotFoundResponse(c echo.Context, message string) error {
	return ErrorResponse(c, http.StatusNotFound, message)
}

// InternalServerErrorResponse writes a generic 500.
func InternalServerErrorResponse(c echo.Context) error {
	return ErrorResponse(c, http.StatusInternalServerError, GenericInternalMessage)
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, ErrorBody{Error: appErr.Message, Details: appErr.Details})
	}
	return InternalServerErrorResponse(c)
}

// HTTPErrorHandler renders errors escaping handlers (unknown routes, bind failures,
// middleware rejections) with the same body shape as handler errors.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *AppError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		_ = AppErrorResponse(c, appErr)
	case errors.As(err, &he):
		switch he.Code {
		case http.StatusNotFound:
			_ = NotFoundResponse(c, "Not Found. Please check the URL and parameters.")
		case http.StatusInternalServerError:
			_ = InternalServerErrorResponse(c)
		default:
			_ = ErrorResponse(c, he.Code, http.StatusText(he.Code))
		}
	default:
		_ = InternalServerErrorResponse(c)
	}
}
