//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/user"
	"campus-market/internal/domain/wallet"
	"campus-market/internal/handler/api"
	resdto "campus-market/internal/handler/dto/response"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"
	"campus-market/tests/common/httptest"
	"campus-market/tests/common/testutil"
	commandsmock "campus-market/tests/mock/commands"
	queriesmock "campus-market/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type LedgerHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockPayments *commandsmock.MockPaymentCommands
	mockWallet   *queriesmock.MockWalletQueries
	userID       uuid.UUID
	role         user.Role
}

func (s *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockPayments = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockWallet = queriesmock.NewMockWalletQueries(s.mockCtrl)
	s.userID = uuid.New()
	s.role = user.RoleMember

	s.router.POST("/payments/callback", api.NewPaymentHandler(s.mockPayments).Callback)
	s.router.GET("/wallet", fakeAuth(s.userID, &s.role), api.NewWalletHandler(s.mockWallet).Get)
}

func (s *LedgerHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestLedgerHandlerSuite(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}

func (s *LedgerHandlerTestSuite) TestPaymentCallback() {
	matchID := uuid.New()
	reqBody := map[string]any{"chargeId": "ch_123", "targetType": "match", "targetId": matchID.String(), "amount": "32.00"}

	s.Run("success: forwards the confirmation and reports replays", func() {
		want := commands.PaymentConfirmation{ChargeID: "ch_123", TargetType: "match", TargetID: matchID, Amount: money.FromInt(32)}
		s.mockPayments.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, got commands.PaymentConfirmation) (*commands.PaymentResult, error) {
				s.Equal(want.ChargeID, got.ChargeID)
				s.Equal(want.TargetType, got.TargetType)
				s.Equal(want.TargetID, got.TargetID)
				s.True(want.Amount.Equal(got.Amount))
				return &commands.PaymentResult{ChargeID: "ch_123", Replayed: true, Status: "paid"}, nil
			}).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/callback", reqBody, "")

		var body resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Replayed)
		s.False(body.Changed)
		s.Equal("paid", body.Status)
	})

	s.Run("error: 400 Bad Request on malformed callbacks", func() {
		testCases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "missing charge id", mutate: testutil.Field("chargeId", nil)},
			{name: "errands are not paid through the gateway", mutate: testutil.Field("targetType", "errand")},
			{name: "amount not a number", mutate: testutil.Field("amount", "a lot")},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/callback", body, "")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/callback", `{"chargeId":`, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: maps payment errors to statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "unknown match", err: match.ErrMatchNotFound, expectedStatus: http.StatusNotFound},
			{name: "cancelled match", err: match.ErrNotPayable, expectedStatus: http.StatusConflict},
			{name: "non-positive amount", err: commands.ErrInvalidPaymentAmount, expectedStatus: http.StatusUnprocessableEntity},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockPayments.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/callback", reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

func (s *LedgerHandlerTestSuite) TestWallet() {
	txID := uuid.New()
	view := &queries.WalletView{
		UserID:  s.userID,
		Balance: money.FromInt(40),
		Transactions: []*queries.TransactionView{{
			ID:            txID,
			Type:          string(wallet.TypeCredit),
			Amount:        money.FromInt(40),
			Description:   "match completed",
			ReferenceType: string(wallet.RefMatch),
			ReferenceID:   uuid.New(),
			Status:        string(wallet.StatusCompleted),
			CreatedAt:     time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC),
		}},
		NextCursor: &queries.Cursor{After: "djE6MTIz"},
	}

	s.Run("success: first page without a cursor", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.userID, (*queries.Cursor)(nil), 0).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet", nil, "bearer-token")

		var body resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("40.00", body.Balance.String())
		s.Require().Len(body.Transactions, 1)
		s.Equal(txID, body.Transactions[0].ID)
		s.Equal("djE6MTIz", body.NextCursor)
	})

	s.Run("success: forwards cursor and limit", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.userID, &queries.Cursor{After: "djE6MTIz"}, 5).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet?after=djE6MTIz&limit=5", nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 Bad Request for an out-of-range limit", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet?limit=500", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: 422 Unprocessable Entity for a malformed cursor", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.userID, gomock.Any(), 0).Return(nil, queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet?after=garbage", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/wallet", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
