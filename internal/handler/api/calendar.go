package api

import (
	"net/http"
	"strconv"

	reqdto "kilnbook/internal/handler/dto/request"
	resdto "kilnbook/internal/handler/dto/response"
	"kilnbook/internal/handler/httperr"
	"kilnbook/internal/handler/middleware"
	"kilnbook/internal/usecase/commands"
	"kilnbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	q    queries.CalendarQueries
	cmds commands.ReservationCommands
}

func NewCalendarHandler(q queries.CalendarQueries, cmds commands.ReservationCommands) *CalendarHandler {
	return &CalendarHandler{q: q, cmds: cmds}
}

// @Summary Show month
// @Description Render the reservation calendar of one kiln for one month
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kiln ID"
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} resdto.MonthResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /kilns/{id}/months/{year}/{month} [get]
func (h *CalendarHandler) ShowMonth(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	resourceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, err, "Invalid kiln id")
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		httperr.BadRequest(c, err, "Invalid month")
		return
	}

	view, err := h.q.RenderMonth(c.Request.Context(), actor, resourceID, year, month)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	res, err := resdto.FromMonthView(view)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Mutate reservation
// @Description Create, update or (with a negative resource_id) cancel the reservation of a kiln on a date
// @Tags calendar
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.MutateReservationRequest true "Mutation request"
// @Success 200 {object} resdto.MutateResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} resdto.MutateResponse
// @Failure 404 {object} resdto.MutateResponse
// @Failure 409 {object} resdto.MutateResponse
// @Router /reservations [post]
func (h *CalendarHandler) Mutate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}

	var req reqdto.MutateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, httperr.MsgInvalidRequest)
		return
	}

	result, err := h.cmds.Mutate(c.Request.Context(), actor, req.ToCommand())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	res, err := resdto.FromMutateResult(result)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(outcomeStatus(result.Outcome), res)
}

func outcomeStatus(o commands.Outcome) int {
	switch o {
	case commands.OutcomeOK:
		return http.StatusOK
	case commands.OutcomeForbidden:
		return http.StatusForbidden
	case commands.OutcomeNotFound:
		return http.StatusNotFound
	case commands.OutcomeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
