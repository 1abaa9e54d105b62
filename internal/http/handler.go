package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"rodent-dashboard/internal/model"
	"rodent-dashboard/internal/service"
	"rodent-dashboard/internal/socrata"
)

type Handler struct {
	dashboard *service.DashboardService
	log       zerolog.Logger
}

func NewHandler(dashboard *service.DashboardService, log zerolog.Logger) *Handler {
	return &Handler{dashboard: dashboard, log: log}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	protected := r.Group("/dashboard")
	protected.Use(authMiddleware)

	protected.GET("/filters", h.getFilterOptions)
	protected.GET("/summary", h.getSummary)
	protected.GET("/records", h.getRecords)
	protected.GET("/boroughs", h.getBoroughCounts)
	protected.GET("/results", h.getResultCounts)
	protected.GET("/seasonality", h.getSeasonality)
	protected.GET("/years", h.getYearCounts)
	protected.GET("/breakdown", h.getBreakdown)
	protected.GET("/map", h.getMapSample)
}

func (h *Handler) getFilterOptions(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(h.dashboard.GetFilterOptions()))
}

func (h *Handler) getSummary(c *gin.Context) {
	summary, err := h.dashboard.GetSummary(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(summary))
}

func (h *Handler) getRecords(c *gin.Context) {
	records, err := h.dashboard.GetRecords(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(records))
}

func (h *Handler) getBoroughCounts(c *gin.Context) {
	view, err := h.dashboard.GetBoroughCounts(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getResultCounts(c *gin.Context) {
	view, err := h.dashboard.GetResultCounts(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getSeasonality(c *gin.Context) {
	view, err := h.dashboard.GetSeasonality(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getYearCounts(c *gin.Context) {
	view, err := h.dashboard.GetYearCounts(c.Request.Context(), h.parseQuerySpec(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getBreakdown(c *gin.Context) {
	topK := parseIntQuery(c, "top_k")
	view, err := h.dashboard.GetBreakdown(c.Request.Context(), h.parseQuerySpec(c), topK)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(view))
}

func (h *Handler) getMapSample(c *gin.Context) {
	bound := parseIntQuery(c, "bound")
	seed := int64(parseIntQuery(c, "seed"))
	set, err := h.dashboard.GetMapSample(c.Request.Context(), h.parseQuerySpec(c), bound, seed)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(set))
}

// parseQuerySpec collects the shared filter parameters. Zero values are
// filled from configured defaults by the service; invalid combinations are
// rejected by the query builder, not here.
func (h *Handler) parseQuerySpec(c *gin.Context) model.QuerySpec {
	spec := model.QuerySpec{
		Limit:    parseIntQuery(c, "limit"),
		YearFrom: parseIntQuery(c, "year_from"),
		YearTo:   parseIntQuery(c, "year_to"),
	}

	for _, raw := range c.QueryArray("borough") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			spec.Boroughs = append(spec.Boroughs, model.ParseBorough(trimmed))
		}
	}
	for _, raw := range c.QueryArray("result") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			spec.Results = append(spec.Results, model.ParseResult(trimmed))
		}
	}

	return spec
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, socrata.ErrInvalidSpec):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, socrata.ErrHTTPStatus),
		errors.Is(err, socrata.ErrParse),
		errors.Is(err, socrata.ErrSchema):
		h.log.Error().Err(err).Msg("upstream dataset error")
		c.JSON(http.StatusBadGateway, errorResponse("upstream dataset error"))
	case errors.Is(err, socrata.ErrNetwork):
		h.log.Error().Err(err).Msg("upstream dataset unreachable")
		c.JSON(http.StatusGatewayTimeout, errorResponse("upstream dataset unreachable"))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseIntQuery(c *gin.Context, name string) int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func successResponse(data interface{}) gin.H {
	return gin.H{"data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"error": message}
}
