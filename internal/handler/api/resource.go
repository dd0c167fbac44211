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

type ResourceHandler struct {
	cmds commands.ResourceCommands
	q    queries.ResourceQueries
}

func NewResourceHandler(cmds commands.ResourceCommands, q queries.ResourceQueries) *ResourceHandler {
	return &ResourceHandler{cmds: cmds, q: q}
}

// @Summary List kilns
// @Tags kilns
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ResourceResponse
// @Failure 401 {object} httperr.Response
// @Router /kilns [get]
func (h *ResourceHandler) List(c *gin.Context) {
	views, err := h.q.List(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromResourceViews(views)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Create kiln
// @Tags kilns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateResourceRequest true "Kiln"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /kilns [post]
func (h *ResourceHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, httperr.MsgInvalidRequest)
		return
	}

	view, err := h.cmds.Create(c.Request.Context(), actor, req.Name, *req.StandardRate)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromResourceView(view)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// @Summary Change kiln rate
// @Description Change the standard rate; unsettled reservations are priced at the new rate
// @Tags kilns
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Kiln ID"
// @Param request body reqdto.ChangeRateRequest true "Rate"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /kilns/{id}/rate [put]
func (h *ResourceHandler) ChangeRate(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		abortUnauthenticated(c)
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, err, "Invalid kiln id")
		return
	}
	var req reqdto.ChangeRateRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.BadRequest(c, bindErr, httperr.MsgInvalidRequest)
		return
	}

	view, err := h.cmds.ChangeRate(c.Request.Context(), actor, id, *req.StandardRate)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	res, err := resdto.FromResourceView(view)
	if err != nil {
		httperr.Internal(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
