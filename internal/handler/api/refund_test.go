//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/user"
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

type RefundHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockRefundCommands
	mockQueries  *queriesmock.MockMarketQueries
	handler      *api.RefundHandler
	userID       uuid.UUID
	role         user.Role
}

func (s *RefundHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockRefundCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockMarketQueries(s.mockCtrl)
	s.handler = api.NewRefundHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()
	s.role = user.RoleMember

	auth := fakeAuth(s.userID, &s.role)
	s.router.POST("/refunds", auth, s.handler.Create)
	s.router.GET("/refunds/quote", auth, s.handler.Quote)
	s.router.GET("/refunds/:id", auth, s.handler.Get)
	s.router.POST("/refunds/:id/dispute", auth, s.handler.Dispute)
	s.router.POST("/refunds/:id/approve", auth, s.handler.Approve)
	s.router.POST("/refunds/:id/reject", auth, s.handler.Reject)
	s.router.POST("/refunds/:id/process", auth, s.handler.Process)
}

func (s *RefundHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestRefundHandlerSuite(t *testing.T) {
	suite.Run(t, new(RefundHandlerTestSuite))
}

func (s *RefundHandlerTestSuite) newView(target refund.Target) *queries.RefundView {
	r, err := refund.NewRequest(s.userID, target, money.FromInt(32), "item never arrived", time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	return queries.NewRefundView(r)
}

func (s *RefundHandlerTestSuite) TestCreate() {
	matchID := uuid.New()
	view := s.newView(refund.Target{Kind: refund.TargetMatch, ID: matchID})
	reqBody := map[string]any{"targetType": "match", "targetId": matchID.String(), "reason": "item never arrived"}

	s.Run("success: returns 201 Created with the pending request", func() {
		want := commands.RefundRequest{TargetType: "match", TargetID: matchID, Reason: "item never arrived"}
		s.mockCommands.EXPECT().Request(gomock.Any(), s.userID, want).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/refunds", reqBody, "bearer-token")

		var body resdto.RefundResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal("pending", body.Status)
		s.Equal("32.00", body.Amount.String())
		s.Require().NotNil(body.MatchID)
		s.Equal(matchID, *body.MatchID)
	})

	s.Run("error: 400 Bad Request on malformed bodies", func() {
		testCases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{name: "unknown target type", mutate: testutil.Field("targetType", "wallet")},
			{name: "missing target id", mutate: testutil.Field("targetId", nil)},
			{name: "target id not a uuid", mutate: testutil.Field("targetId", "42")},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/refunds", body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
			})
		}
	})

	s.Run("error: maps request errors to statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
		}{
			{name: "open request exists", err: refund.ErrActiveRequestExists, expectedStatus: http.StatusConflict},
			{name: "already refunded", err: refund.ErrAlreadyRefunded, expectedStatus: http.StatusConflict},
			{name: "nothing paid", err: refund.ErrNothingToRefund, expectedStatus: http.StatusUnprocessableEntity},
			{name: "not entitled", err: refund.ErrNotEntitled, expectedStatus: http.StatusForbidden},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Request(gomock.Any(), s.userID, gomock.Any()).Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/refunds", reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.err.Error())
			})
		}
	})
}

func (s *RefundHandlerTestSuite) TestQuote() {
	errandID := uuid.New()

	s.Run("success: returns the refundable amount", func() {
		s.mockCommands.EXPECT().Quote(gomock.Any(), s.userID, "errand", errandID).
			Return(&queries.RefundQuoteView{TargetType: "errand", TargetID: errandID, Amount: money.FromInt(8)}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/refunds/quote?targetType=errand&targetId="+errandID.String(), nil, "bearer-token")

		var body resdto.RefundQuoteResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("8.00", body.Amount.String())
		s.Equal(errandID, body.TargetID)
	})

	s.Run("error: 400 Bad Request on an invalid query", func() {
		for _, query := range []string{"", "?targetType=errand", "?targetType=errand&targetId=abc", "?targetType=coupon&targetId=" + errandID.String()} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/refunds/quote"+query, nil, "bearer-token")
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
		}
	})
}

func (s *RefundHandlerTestSuite) TestActions() {
	view := s.newView(refund.Target{Kind: refund.TargetResource, ID: uuid.New()})
	base := "/refunds/" + view.ID.String()

	s.Run("success: each action passes the caller through", func() {
		s.mockCommands.EXPECT().Approve(gomock.Any(), view.ID, s.userID).Return(view, nil).Times(1)
		s.mockCommands.EXPECT().Reject(gomock.Any(), view.ID, s.userID).Return(view, nil).Times(1)
		s.mockCommands.EXPECT().Process(gomock.Any(), view.ID, s.userID).Return(view, nil).Times(1)
		s.mockCommands.EXPECT().Dispute(gomock.Any(), view.ID, s.userID).Return(view, nil).Times(1)

		for _, action := range []string{"/approve", "/reject", "/process", "/dispute"} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+action, nil, "bearer-token")
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
		}
	})

	s.Run("error: 409 Conflict when processing an unapproved request", func() {
		s.mockCommands.EXPECT().Process(gomock.Any(), view.ID, s.userID).Return(nil, refund.ErrNotApproved).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, base+"/process", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "not approved")
	})

	s.Run("success: get passes the caller as actor", func() {
		s.mockQueries.EXPECT().GetRefund(gomock.Any(), view.ID, queries.Actor{ID: s.userID, Role: user.RoleMember}).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 404 Not Found for a missing request", func() {
		s.mockQueries.EXPECT().GetRefund(gomock.Any(), view.ID, gomock.Any()).Return(nil, refund.ErrRefundNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "refund request not found")
	})
}
