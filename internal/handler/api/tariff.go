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

type TariffHandler struct {
	cmds commands.TariffCommands
	q    queries.ResourceQueries
}

func NewTariffHandler(cmds commands.TariffCommands, q queries.ResourceQueries) *TariffHandler {
	return &TariffHandler{cmds: cmds, q: q}
}

// @Summary List tariff overrides
// @Tags tariffs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.OverrideResponse
// @Failure 403 {object} httperr.Response
// @Router /tariffs [get]
func (h *TariffHandler) List(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	views, err := h.q.ListOverrides(c.Request.Context(), actor)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromOverrideViews(views)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Set tariff override
// @Description Set a member's rate for one kiln, replacing any previous override
// @Tags tariffs
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.SetOverrideRequest true "Override"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /tariffs [put]
func (h *TariffHandler) Set(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	var req reqdto.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, httperr.MsgInvalidRequest)
		return
	}
	if err := h.cmds.SetOverride(c.Request.Context(), actor, req.MemberID, req.ResourceID, *req.Rate); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Remove tariff override
// @Tags tariffs
// @Security BearerAuth
// @Param member path int true "Member ID"
// @Param kiln path int true "Kiln ID"
// @Success 204 "No Content"
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /tariffs/{member}/{kiln} [delete]
func (h *TariffHandler) Remove(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	memberID, err := strconv.ParseInt(c.Param("member"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, err, "Invalid member id")
		return
	}
	resourceID, err := strconv.ParseInt(c.Param("kiln"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, err, "Invalid kiln id")
		return
	}
	if err := h.cmds.RemoveOverride(c.Request.Context(), actor, memberID, resourceID); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
