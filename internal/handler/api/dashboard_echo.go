package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	models "ForecastDash/internal/domain/models"
	domrepo "ForecastDash/internal/domain/repository"
	"ForecastDash/internal/service/ratelimit"
	"ForecastDash/internal/services/export"
	"ForecastDash/internal/services/normalize"
	"ForecastDash/internal/usecase"
	xhttp "ForecastDash/pkg/http"
	xlogger "ForecastDash/pkg/logger"
	xutil "ForecastDash/pkg/util"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves dashboard pages, downloads and the JSON API.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	uc        *usecase.DashboardUseCase
	limiter   *ratelimit.Limiter
	maxUpload int64
}

func NewDashboardEchoHandler(logger *xlogger.Logger, uc *usecase.DashboardUseCase, limiter *ratelimit.Limiter, maxUpload int64) *DashboardEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &DashboardEchoHandler{logger: logger, uc: uc, limiter: limiter, maxUpload: maxUpload}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)

	d := e.Group("/d/:name")
	d.GET("", h.Page)
	d.GET("/chart.png", h.Chart)
	d.GET("/download/:role/:format", h.Download)
	d.GET("/images/:index", h.Image)
	if h.limiter != nil {
		d.POST("/upload", h.Upload, h.limiter.Middleware())
	} else {
		d.POST("/upload", h.Upload)
	}

	g := e.Group("/api")
	g.GET("/dashboards", h.List)
	g.GET("/dashboards/:name", h.Dashboard)
}

// pageData is the model of the dashboard templates.
type pageData struct {
	Dashboards []models.DashboardMeta
	Meta       models.DashboardMeta
	View       *models.DashboardView
	Tab        string
	ShowImages bool
	Error      string
	Missing    bool
}

func (h *DashboardEchoHandler) Index(c echo.Context) error {
	list := h.uc.List()
	if len(list) == 0 {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no dashboards configured"))
	}
	return c.Redirect(http.StatusFound, "/d/"+list[0].Name)
}

func (h *DashboardEchoHandler) Page(c echo.Context) error {
	req := &models.PageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return h.renderPage(c, req.Name, req.Tab, xutil.ParseBoolDefault(req.ShowImages, true), nil)
}

// renderPage loads the dashboard and renders it. uploadErr is shown in place of a successful view.
func (h *DashboardEchoHandler) renderPage(c echo.Context, name, tab string, showImages bool, uploadErr error) error {
	meta, err := h.uc.Meta(name)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	data := pageData{
		Dashboards: h.uc.List(),
		Meta:       meta,
		Tab:        tab,
		ShowImages: showImages,
	}
	status := http.StatusOK

	view, err := h.uc.Load(c.Request().Context(), name)
	switch {
	case err == nil:
		data.View = view
	case errors.Is(err, domrepo.ErrMissingInput):
		data.Missing = true
		data.Error = err.Error()
	case normalize.IsSchemaError(err):
		data.Error = "Data loading error: " + err.Error()
		status = http.StatusUnprocessableEntity
	default:
		h.logger.Error("dashboard load error", xlogger.String("dashboard", name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("failed to load dashboard %s", name).WithError(err))
	}

	if uploadErr != nil {
		data.Error = "Upload rejected: " + uploadErr.Error()
		status = http.StatusUnprocessableEntity
	}
	return c.Render(status, "layout", data)
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var buf bytes.Buffer
	if err := h.uc.RenderChart(c.Request().Context(), req.Name, &buf); err != nil {
		h.logger.Warn("chart render error", xlogger.String("dashboard", req.Name), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

func (h *DashboardEchoHandler) Download(c echo.Context) error {
	req := &models.DownloadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	format, err := export.NormalizeFormat(req.Format)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("cannot export %s: %v", req.Role, err))
	}

	var buf bytes.Buffer
	filename, err := h.uc.Export(c.Request().Context(), req.Name, req.Role, format, &buf)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *DashboardEchoHandler) Image(c echo.Context) error {
	req := &models.ImageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	img, err := h.uc.Image(c.Request().Context(), req.Name, req.Index)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return c.File(img.Path)
}

func (h *DashboardEchoHandler) Upload(c echo.Context) error {
	req := &models.UploadRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_REQUIRED", "file", "file is required", http.StatusBadRequest).WithError(err))
	}
	f, err := fh.Open()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot open uploaded file").WithError(err))
	}
	defer f.Close()

	var r io.Reader = f
	if h.maxUpload > 0 {
		r = io.LimitReader(f, h.maxUpload+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("cannot read uploaded file").WithError(err))
	}
	if h.maxUpload > 0 && int64(len(content)) > h.maxUpload {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_TOO_LARGE", "file", "uploaded file is too large", http.StatusRequestEntityTooLarge).
			WithParam("max_bytes", h.maxUpload))
	}

	role := models.Role(req.Role)
	if _, err := h.uc.Upload(c.Request().Context(), req.Name, role, content); err != nil {
		if normalize.IsSchemaError(err) {
			return h.renderPage(c, req.Name, "overview", true, err)
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return c.Redirect(http.StatusSeeOther, "/d/"+req.Name)
}

func (h *DashboardEchoHandler) List(c echo.Context) error {
	rows := h.uc.List()
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *DashboardEchoHandler) Dashboard(c echo.Context) error {
	req := &models.DashboardRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	view, err := h.uc.Load(c.Request().Context(), req.Name)
	if err != nil {
		if appErr := toAppError(err); appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("dashboard usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, view)
}

// toAppError maps domain errors onto transport errors.
func toAppError(err error) *xhttp.AppError {
	var se *normalize.SchemaError
	switch {
	case errors.Is(err, domrepo.ErrUnknownDashboard):
		return xhttp.NotFoundError(err.Error())
	case errors.Is(err, domrepo.ErrMissingInput):
		return xhttp.MissingInputError(err.Error())
	case errors.As(err, &se):
		return xhttp.SchemaError(string(se.Role), se.Error()).WithParams(map[string]interface{}{
			"kind":    se.Kind(),
			"columns": se.Columns,
		})
	case errors.Is(err, usecase.ErrUnsupportedExport):
		return xhttp.BadRequestError(err.Error())
	case errors.Is(err, usecase.ErrImageNotFound):
		return xhttp.NotFoundError(err.Error())
	default:
		return xhttp.InternalError("internal error").WithError(err)
	}
}
