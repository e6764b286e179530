package api

import (
	"net/http"

	reqdto "campus-market/internal/handler/dto/request"
	resdto "campus-market/internal/handler/dto/response"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Payment gateway callback
// @Description Confirms a charge. Replays of a known charge id answer 200 without side effects.
// @Tags payments
// @Accept json
// @Produce json
// @Param X-Payment-Secret header string true "Shared gateway secret"
// @Param request body reqdto.PaymentCallbackRequest true "Charge confirmation"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.cmds.ConfirmPayment(c.Request.Context(), req.ToCommand())
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentResult(result))
}
