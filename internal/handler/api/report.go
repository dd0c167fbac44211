package api

import (
	"net/http"
	"strconv"

	resdto "kilnbook/internal/handler/dto/response"
	"kilnbook/internal/handler/httperr"
	"kilnbook/internal/handler/middleware"
	"kilnbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	q queries.ReportQueries
}

func NewReportHandler(q queries.ReportQueries) *ReportHandler {
	return &ReportHandler{q: q}
}

// @Summary My usage
// @Description Firings of the last six months with the caller's share; unsettled lines are provisional
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.UsageReportResponse
// @Failure 401 {object} httperr.Response
// @Router /me/usage [get]
func (h *ReportHandler) MyUsage(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	report, err := h.q.UsageReport(c.Request.Context(), actor)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromUsageReport(report)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary My balance
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.BalanceResponse
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /me/balance [get]
func (h *ReportHandler) MyBalance(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	view, err := h.q.MyBalance(c.Request.Context(), actor)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromMemberView(view)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Member balances
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.BalanceResponse
// @Failure 403 {object} httperr.Response
// @Router /admin/balances [get]
func (h *ReportHandler) Balances(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	views, err := h.q.BalanceOverview(c.Request.Context(), actor)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromMemberViews(views)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Settlement audit log
// @Description Most recent audit lines first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum lines (default 100, max 1000)"
// @Success 200 {array} resdto.AuditLineResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /admin/audit [get]
func (h *ReportHandler) Audit(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			httperr.BadRequest(c, err, "Invalid limit")
			return
		}
		limit = n
	}

	lines, err := h.q.AuditLog(c.Request.Context(), actor, limit)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromAuditLines(lines)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
