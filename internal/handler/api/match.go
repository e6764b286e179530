package api

import (
	"context"
	"net/http"

	"campus-market/internal/domain/match"
	reqdto "campus-market/internal/handler/dto/request"
	resdto "campus-market/internal/handler/dto/response"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errAcceptanceTimedOut = errs.Kind("acceptance window elapsed, match cancelled", errs.ErrInvalidState)

type MatchHandler struct {
	cmds commands.MatchCommands
	q    queries.MarketQueries
}

func NewMatchHandler(cmds commands.MatchCommands, q queries.MarketQueries) *MatchHandler {
	return &MatchHandler{cmds: cmds, q: q}
}

// @Summary Get match
// @Description Get a match the caller is party to
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} resdto.MatchResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /matches/{id} [get]
func (h *MatchHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	view, err := h.q.GetMatch(c.Request.Context(), id, actor)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}

// @Summary Accept match
// @Description Record the caller's acceptance. A late second acceptance cancels the match and answers 409 with the cancelled match as detail.
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} resdto.AcceptResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /matches/{id}/accept [post]
func (h *MatchHandler) Accept(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	result, err := h.cmds.Accept(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	resp := resdto.FromAcceptResult(result)
	if result.Outcome == match.OutcomeTimedOut {
		httperr.AbortWithError(c, http.StatusConflict, errAcceptanceTimedOut, errAcceptanceTimedOut.Error(), resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Reject match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} resdto.MatchResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /matches/{id}/reject [post]
func (h *MatchHandler) Reject(c *gin.Context) {
	h.transition(c, h.cmds.Reject)
}

// @Summary Cancel match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param request body reqdto.CancelMatchRequest true "Cancellation reason"
// @Success 200 {object} resdto.MatchResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /matches/{id}/cancel [post]
func (h *MatchHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.CancelMatchRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.cmds.Cancel(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}

// @Summary Confirm order
// @Description Price the delivery leg and spawn the service request for an accepted match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param request body reqdto.ConfirmOrderRequest true "Delivery details"
// @Success 200 {object} resdto.ConfirmOrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /matches/{id}/confirm-order [post]
func (h *MatchHandler) ConfirmOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req reqdto.ConfirmOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	cmd, err := req.ToCommand()
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	result, err := h.cmds.ConfirmOrder(c.Request.Context(), id, userID, cmd)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromConfirmOrderResult(result))
}

// @Summary Complete match
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Success 200 {object} resdto.MatchResponse
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /matches/{id}/complete [post]
func (h *MatchHandler) Complete(c *gin.Context) {
	h.transition(c, h.cmds.Complete)
}

// @Summary Apply coupon to match
// @Tags matches
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Match ID"
// @Param request body reqdto.ApplyCouponRequest true "Coupon code"
// @Success 200 {object} resdto.MatchResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /matches/{id}/coupon [post]
func (h *MatchHandler) ApplyCoupon(c *gin.Context) {
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
	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}

type matchTransition func(ctx context.Context, matchID, actorID uuid.UUID) (*queries.MatchView, error)

func (h *MatchHandler) transition(c *gin.Context, op matchTransition) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := op(c.Request.Context(), id, userID)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromMatchView(view))
}
