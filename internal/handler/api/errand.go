package api

import (
	"context"
	"net/http"

	reqdto "campus-market/internal/handler/dto/request"
	resdto "campus-market/internal/handler/dto/response"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ErrandHandler struct {
	cmds commands.ErrandCommands
	q    queries.MarketQueries
}

func NewErrandHandler(cmds commands.ErrandCommands, q queries.MarketQueries) *ErrandHandler {
	return &ErrandHandler{cmds: cmds, q: q}
}

// @Summary Claim errand
// @Description Claim a listed service request as runner
// @Tags errands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Service request resource ID"
// @Success 201 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /resources/{id}/claim [post]
func (h *ErrandHandler) Claim(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.cmds.Claim(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromErrandView(view))
}

// @Summary Get errand
// @Tags errands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Errand ID"
// @Success 200 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /errands/{id} [get]
func (h *ErrandHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.q.GetErrand(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromErrandView(view))
}

// @Summary Confirm pickup
// @Tags errands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Errand ID"
// @Param request body reqdto.ProofRequest true "Pickup proof"
// @Success 200 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /errands/{id}/pickup [post]
func (h *ErrandHandler) Pickup(c *gin.Context) {
	h.withProof(c, h.cmds.Pickup)
}

// @Summary Confirm dropoff
// @Tags errands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Errand ID"
// @Param request body reqdto.ProofRequest true "Dropoff proof"
// @Success 200 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /errands/{id}/dropoff [post]
func (h *ErrandHandler) Dropoff(c *gin.Context) {
	h.withProof(c, h.cmds.Dropoff)
}

// @Summary Complete errand
// @Description Runner closes the delivered errand and is credited the earnings
// @Tags errands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Errand ID"
// @Success 200 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /errands/{id}/complete [post]
func (h *ErrandHandler) Complete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := h.cmds.Complete(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromErrandView(view))
}

// @Summary Apply coupon to errand
// @Tags errands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Errand ID"
// @Param request body reqdto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} resdto.ErrandResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /errands/{id}/coupon [post]
func (h *ErrandHandler) ApplyCoupon(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.ApplyCouponRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cmds.ApplyCoupon(c.Request.Context(), id, userID, req.Code)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromErrandView(view))
}

type proofStep func(ctx context.Context, errandID, actorID uuid.UUID, proofURL string) (*queries.ErrandView, error)

func (h *ErrandHandler) withProof(c *gin.Context, step proofStep) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.ProofRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := step(c.Request.Context(), id, userID, req.ProofURL)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromErrandView(view))
}
