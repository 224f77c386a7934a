package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes map[string]echo.HandlerFunc

func (r routes) RegisterRoutes(g *echo.Group) {
	for path, h := range r {
		g.GET(path, h)
	}
}

type allowN struct{ left int }

func (a *allowN) Allow(string) bool {
	if a.left <= 0 {
		return false
	}
	a.left--
	return true
}

type pageRequest struct {
	Kind  string `param:"kind" validate:"required,oneof=a b"`
	Limit int    `query:"limit" default:"10" validate:"gte=1,max=100"`
}

func serve(t *testing.T, srv *Server, target string) (*httptest.ResponseRecorder, ErrorBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body ErrorBody
	if rec.Code >= 400 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func testRoutes() routes {
	return routes{
		"/ok": func(c echo.Context) error {
			return SuccessResponse(c, map[string]int{"n": 1})
		},
		"/panic": func(c echo.Context) error {
			panic("boom")
		},
		"/app-error": func(c echo.Context) error {
			return BadRequestError("bad input").WithDetails([]ValidationError{{Field: "x"}})
		},
		"/plain-error": func(c echo.Context) error {
			return errors.New("hidden detail")
		},
		"/pages/:kind": func(c echo.Context) error {
			req := &pageRequest{}
			if verr := ReadAndValidateRequest(c, req); verr != nil {
				return BadRequestResponse(c, "invalid request", verr)
			}
			return SuccessResponse(c, req)
		},
	}
}

func TestServerRequestID(t *testing.T) {
	srv := NewServer([]Handler{testRoutes()})

	rec, _ := serve(t, srv, "/ok")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestServerRecoversPanics(t *testing.T) {
	srv := NewServer([]Handler{testRoutes()})

	rec, body := serve(t, srv, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, GenericInternalMessage, body.Error)
}

func TestServerRendersErrors(t *testing.T) {
	srv := NewServer([]Handler{testRoutes()})

	rec, body := serve(t, srv, "/app-error")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad input", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "x", body.Details[0].Field)

	rec, body = serve(t, srv, "/plain-error")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, GenericInternalMessage, body.Error)

	rec, body = serve(t, srv, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found. Please check the URL and parameters.", body.Error)
}

func TestServerRateLimitsAPIRoutes(t *testing.T) {
	srv := NewServer([]Handler{testRoutes()}, WithRateLimiter(&allowN{left: 2}))

	for i := 0; i < 2; i++ {
		rec, _ := serve(t, srv, "/ok")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	rec, body := serve(t, srv, "/ok")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests. Please slow down.", body.Error)

	// Liveness is outside the limited group.
	rec, _ = serve(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadAndValidateRequest(t *testing.T) {
	srv := NewServer([]Handler{testRoutes()})

	rec, _ := serve(t, srv, "/pages/a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"Kind":"a","Limit":10}`, rec.Body.String())

	rec, body := serve(t, srv, "/pages/c?limit=5")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "kind", body.Details[0].Field)
	assert.Equal(t, "ERR_ONEOF", body.Details[0].Code)
	assert.Equal(t, "kind must be one of: a, b", body.Details[0].Message)

	rec, body = serve(t, srv, "/pages/a?limit=500")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, HasField(body.Details, "limit"))
	assert.Equal(t, "limit must be at most 100", body.Details[0].Message)

	rec, body = serve(t, srv, "/pages/a?limit=many")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "ERR_INVALID", body.Details[0].Code)
}
