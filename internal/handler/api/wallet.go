package api

import (
	"net/http"

	reqdto "campus-market/internal/handler/dto/request"
	resdto "campus-market/internal/handler/dto/response"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	q queries.WalletQueries
}

func NewWalletHandler(q queries.WalletQueries) *WalletHandler {
	return &WalletHandler{q: q}
}

// @Summary Get own wallet
// @Description Balance plus one page of transactions, newest first
// @Tags wallet
// @Produce json
// @Security BearerAuth
// @Param after query string false "Cursor from a previous page"
// @Param limit query int false "Page size (1-200)"
// @Success 200 {object} resdto.WalletResponse
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /wallet [get]
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var q reqdto.WalletQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	var cursor *queries.Cursor
	if q.After != "" {
		cursor = &queries.Cursor{After: q.After}
	}
	view, err := h.q.GetWallet(c.Request.Context(), userID, cursor, q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromWalletView(view))
}
