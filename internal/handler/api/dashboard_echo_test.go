package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ForecastDash/internal/repository"
	"ForecastDash/internal/usecase"
	"ForecastDash/pkg/config"
	xhttp "ForecastDash/pkg/http"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerConfig = `
dashboards:
  - name: thai
    title: Thai Headline Inflation
    model: LSTM
    history_file: history.csv
    forecast_file: forecast.csv
    images:
      - {path: full.png, title: Full history + forecast}
  - name: core
    title: Thai Core Inflation
    history_file: core.csv
    forecast_file: core_fc.csv
`

func defaultFiles() map[string]string {
	return map[string]string{
		"history.csv":  "Date,Headline_Inflation\n2019-12-31,0.71\n2020-12-31,-0.85\n2021-12-31,1.23\n2022-12-31,6.08\n",
		"forecast.csv": "Year,Forecast\n2023,1.5\n2024,1.8\n",
	}
}

func newTestEcho(t *testing.T, files map[string]string) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	cfg, err := config.Parse([]byte(handlerConfig))
	require.NoError(t, err)

	uc := usecase.NewDashboardUseCase(cfg, repository.NewFileSource(dir, nil, 0, nil), nil)
	h := NewDashboardEchoHandler(nil, uc, nil, 1<<20)

	renderer, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	h.RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestIndexRedirectsToFirstDashboard(t *testing.T) {
	rec := do(newTestEcho(t, defaultFiles()), http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/d/thai", rec.Header().Get(echo.HeaderLocation))
}

func TestPageTabs(t *testing.T) {
	e := newTestEcho(t, defaultFiles())

	rec := do(e, http.MethodGet, "/d/thai")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Thai Headline Inflation")
	assert.Contains(t, body, "History 2019–2022 with LSTM forecast following years in forecast.csv")
	assert.Contains(t, body, "Recent history")
	assert.Contains(t, body, "Forecast preview")
	assert.Contains(t, body, "/d/thai/chart.png")
	assert.Contains(t, body, "history.csv")

	rec = do(e, http.MethodGet, "/d/thai?tab=tables")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Merged view")
	assert.Contains(t, rec.Body.String(), "/d/thai/download/merged/xlsx")

	rec = do(e, http.MethodGet, "/d/thai?tab=images")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No PNGs found")

	rec = do(e, http.MethodGet, "/d/thai?tab=bogus")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/d/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageImages(t *testing.T) {
	files := defaultFiles()
	files["full.png"] = "png bytes"
	e := newTestEcho(t, files)

	rec := do(e, http.MethodGet, "/d/thai?tab=images")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/d/thai/images/0")

	rec = do(e, http.MethodGet, "/d/thai?tab=images&images=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "/d/thai/images/0")

	rec = do(e, http.MethodGet, "/d/thai/images/0")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png bytes", rec.Body.String())

	rec = do(e, http.MethodGet, "/d/thai/images/3")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartPNG(t *testing.T) {
	rec := do(newTestEcho(t, defaultFiles()), http.MethodGet, "/d/thai/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestChartPNGAllMissingHistory(t *testing.T) {
	files := defaultFiles()
	files["history.csv"] = "Year,Inflation\n2020,NA\n2021,NA\n"
	e := newTestEcho(t, files)

	rec := do(e, http.MethodGet, "/d/thai")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/d/thai/chart.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestDownloads(t *testing.T) {
	e := newTestEcho(t, defaultFiles())

	rec := do(e, http.MethodGet, "/d/thai/download/history/csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "history_clean.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Year,Inflation_YoY\n2019,0.71\n"))

	rec = do(e, http.MethodGet, "/d/thai/download/forecast/csv")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "forecast_clean.csv")

	rec = do(e, http.MethodGet, "/d/thai/download/merged/excel")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "merged.xlsx")
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "spreadsheetml")

	rec = do(e, http.MethodGet, "/d/thai/download/history/xlsx")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/d/thai/download/everything/csv")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodGet, "/d/thai/download/merged/XLSX")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "merged.xlsx")

	rec = do(e, http.MethodGet, "/d/thai/download/history/pdf")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `cannot export history: unsupported format \"pdf\"`)
}

func TestAPI(t *testing.T) {
	e := newTestEcho(t, defaultFiles())

	rec := do(e, http.MethodGet, "/api/dashboards")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])

	rec = do(e, http.MethodGet, "/api/dashboards/thai")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "thai", view["meta"].(map[string]interface{})["name"])
	assert.Len(t, view["merged"].(map[string]interface{})["rows"], 6)

	rec = do(e, http.MethodGet, "/api/dashboards/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_NOT_FOUND")

	rec = do(e, http.MethodGet, "/api/dashboards/core")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_MISSING_INPUT")
}

func TestMissingInputShowsUploadPrompt(t *testing.T) {
	e := newTestEcho(t, defaultFiles())

	rec := do(e, http.MethodGet, "/d/core")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Input data is missing")
	assert.Contains(t, rec.Body.String(), `action="/d/core/upload"`)
}

func TestSchemaErrorBanner(t *testing.T) {
	files := defaultFiles()
	files["history.csv"] = "when,a,b\n2020,1,2\n"
	e := newTestEcho(t, files)

	rec := do(e, http.MethodGet, "/d/thai")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Data loading error")

	rec = do(e, http.MethodGet, "/api/dashboards/thai")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ERR_SCHEMA")
	assert.Contains(t, rec.Body.String(), "no_year")
}

func upload(e *echo.Echo, target, role, content string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("role", role)
	fw, _ := mw.CreateFormFile("file", "upload.csv")
	_, _ = fw.Write([]byte(content))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestUpload(t *testing.T) {
	files := defaultFiles()
	e := newTestEcho(t, files)

	rec := upload(e, "/d/core/upload", "history", "Year,inflation\n2020,1.0\n2021,2.0\n2022,3.0\n")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/d/core", rec.Header().Get(echo.HeaderLocation))

	rec = upload(e, "/d/core/upload", "forecast", "period,yhat\n2023,2.5\n")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = do(e, http.MethodGet, "/api/dashboards/core")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = upload(e, "/d/thai/upload", "forecast", "when,x,y\n1,2,3\n")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload rejected")
	assert.Contains(t, rec.Body.String(), "Recent history")

	rec = upload(e, "/d/thai/upload", "nonsense", "Year,Forecast\n2023,1\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRendererFormatsMissing(t *testing.T) {
	assert.Equal(t, "NA", formatValue(nil))
	v := 1.234
	assert.Equal(t, "1.23", formatValue(&v))
	var _ echo.Renderer = (*xhttp.TemplateRenderer)(nil)
}
