package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	applogger "ForecastDash/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routes func(e *echo.Echo)

func (r routes) RegisterRoutes(e *echo.Echo) { r(e) }

type pageQuery struct {
	Name string `param:"name" validate:"required"`
	Tab  string `query:"tab" default:"overview" validate:"oneof=overview tables"`
}

func newTestServer() *Server {
	return NewServer(routes(func(e *echo.Echo) {
		e.GET("/boom", func(c echo.Context) error { panic("boom") })
		e.GET("/schema", func(c echo.Context) error {
			return AppErrorResponse(c, SchemaError("history", "no year column").WithParam("kind", "no_year"))
		})
		e.GET("/plain", func(c echo.Context) error {
			return AppErrorResponse(c, errors.New("not an app error"))
		})
		e.GET("/p/:name", func(c echo.Context) error {
			req := &pageQuery{}
			if verr := ReadAndValidateRequest(c, req); verr != nil {
				return BadRequestResponse(c, verr)
			}
			return SuccessResponse(c, req)
		})
	}), WithLogger(applogger.Nop()))
}

func serve(s *Server, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer()

	rec := serve(s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = serve(s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestRecoverReturns500(t *testing.T) {
	rec := serve(newTestServer(), "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAppErrorResponseStatus(t *testing.T) {
	s := newTestServer()

	rec := serve(s, "/schema")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_SCHEMA")
	assert.Contains(t, rec.Body.String(), "no_year")

	rec = serve(s, "/plain")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "not an app error")
}

func TestReadAndValidateRequest(t *testing.T) {
	s := newTestServer()

	rec := serve(s, "/p/thai")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Tab":"overview"`)

	rec = serve(s, "/p/thai?tab=nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_ONEOF")
	assert.Contains(t, rec.Body.String(), "tab must be one of: overview, tables")
}

func TestMetricsDisabled(t *testing.T) {
	s := NewServer(nil, WithMetricsPath(""), WithLogger(applogger.Nop()))
	rec := serve(s, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
