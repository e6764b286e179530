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

type RefundHandler struct {
	cmds commands.RefundCommands
	q    queries.MarketQueries
}

func NewRefundHandler(cmds commands.RefundCommands, q queries.MarketQueries) *RefundHandler {
	return &RefundHandler{cmds: cmds, q: q}
}

// @Summary Request refund
// @Description Open a refund request for a resource, errand or match
// @Tags refunds
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRefundRequest true "Refund target"
// @Success 201 {object} resdto.RefundResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /refunds [post]
func (h *RefundHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.CreateRefundRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cmds.Request(c.Request.Context(), userID, req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromRefundView(view))
}

// @Summary Quote refund
// @Description Compute the refundable amount without opening a request
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param targetType query string true "resource, errand or match"
// @Param targetId query string true "Target ID"
// @Success 200 {object} resdto.RefundQuoteResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /refunds/quote [get]
func (h *RefundHandler) Quote(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q reqdto.RefundQuoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	view, err := h.cmds.Quote(c.Request.Context(), userID, q.TargetType, uuid.MustParse(q.TargetID))
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRefundQuoteView(view))
}

// @Summary Get refund
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /refunds/{id} [get]
func (h *RefundHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.q.GetRefund(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRefundView(view))
}

// @Summary Dispute refund
// @Description Reopen a rejected refund for another review
// @Tags refunds
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /refunds/{id}/dispute [post]
func (h *RefundHandler) Dispute(c *gin.Context) {
	h.act(c, h.cmds.Dispute)
}

// @Summary Approve refund
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /refunds/{id}/approve [post]
func (h *RefundHandler) Approve(c *gin.Context) {
	h.act(c, h.cmds.Approve)
}

// @Summary Reject refund
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /refunds/{id}/reject [post]
func (h *RefundHandler) Reject(c *gin.Context) {
	h.act(c, h.cmds.Reject)
}

// @Summary Process refund
// @Description Credit the approved amount to the requester's wallet
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Refund ID"
// @Success 200 {object} resdto.RefundResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /refunds/{id}/process [post]
func (h *RefundHandler) Process(c *gin.Context) {
	h.act(c, h.cmds.Process)
}

type refundAction func(ctx context.Context, refundID, actorID uuid.UUID) (*queries.RefundView, error)

func (h *RefundHandler) act(c *gin.Context, action refundAction) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := action(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRefundView(view))
}
