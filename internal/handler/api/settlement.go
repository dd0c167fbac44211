package api

import (
	"log/slog"
	"net/http"

	resdto "kilnbook/internal/handler/dto/response"
	"kilnbook/internal/handler/httperr"
	"kilnbook/internal/handler/middleware"
	"kilnbook/internal/usecase/settlement"

	"github.com/gin-gonic/gin"
)

type SettlementHandler struct {
	trigger settlement.Trigger
}

func NewSettlementHandler(trigger settlement.Trigger) *SettlementHandler {
	return &SettlementHandler{trigger: trigger}
}

// @Summary Run settlement now
// @Description Settle due reservations and queue reminders outside the nightly schedule
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.RunReportResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/settlement/run [post]
func (h *SettlementHandler) RunNow(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	report, err := h.trigger.RunNow(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	slog.Info("manual settlement run", "actor", actor.UserID(), "run_id", report.RunID.String())

	res, err := resdto.FromRunReport(report)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
