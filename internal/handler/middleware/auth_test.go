//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"campus-market/internal/domain/user"
	"campus-market/internal/handler/middleware"
	"campus-market/internal/pkg/jwt"
	"campus-market/internal/usecase"
	"campus-market/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

const (
	testSecret = "middleware-test-secret"
	testIssuer = "campus-identity"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	tokens *jwt.Service
}

func (s *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.tokens = jwt.NewService(testSecret, time.Hour, jwt.WithIssuer(testIssuer))

	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(s.tokens))
	whoami := func(c *gin.Context) {
		actor, ok := middleware.GetActor(c)
		s.Require().True(ok)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID.String(), "role": string(actor.Role)})
	}
	s.router.GET("/me", auth.RequireAuth(), whoami)
	s.router.POST("/claim", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleRunner), whoami)
	s.router.POST("/review", auth.RequireAuth(), auth.RequireRoleAtLeast(user.RoleAdmin), whoami)
	s.router.POST("/orphan", auth.RequireRoleAtLeast(user.RoleMember), whoami)
	s.router.POST("/callback", middleware.RequirePaymentSecret("gateway-secret"), acknowledge)
	s.router.POST("/unconfigured", middleware.RequirePaymentSecret(""), acknowledge)
}

func acknowledge(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func (s *AuthMiddlewareTestSuite) token(id uuid.UUID, role user.Role) string {
	tok, err := s.tokens.GenerateToken(id, role)
	s.Require().NoError(err)
	return tok
}

func (s *AuthMiddlewareTestSuite) TestRequireAuth() {
	id := uuid.New()

	s.Run("success: exposes the caller to handlers", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/me", nil, s.token(id, user.RoleRunner))

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(id.String(), body["id"])
		s.Equal("runner", body["role"])
	})

	s.Run("error: 401 Unauthorized for bad credentials", func() {
		expired, err := jwt.NewService(testSecret, -time.Minute, jwt.WithIssuer(testIssuer)).GenerateToken(id, user.RoleMember)
		s.Require().NoError(err)
		foreign, err := jwt.NewService("someone-else", time.Hour, jwt.WithIssuer(testIssuer)).GenerateToken(id, user.RoleMember)
		s.Require().NoError(err)
		otherIssuer, err := jwt.NewService(testSecret, time.Hour, jwt.WithIssuer("elsewhere")).GenerateToken(id, user.RoleMember)
		s.Require().NoError(err)

		testCases := []struct {
			name        string
			headers     map[string]string
			expectedMsg string
		}{
			{name: "no header", headers: map[string]string{}, expectedMsg: "Access token required"},
			{name: "not a bearer", headers: map[string]string{"Authorization": "Basic dXNlcjpwdw=="}, expectedMsg: "Access token required"},
			{name: "garbage token", headers: map[string]string{"Authorization": "Bearer not.a.jwt"}, expectedMsg: "Invalid or expired token"},
			{name: "expired token", headers: map[string]string{"Authorization": "Bearer " + expired}, expectedMsg: "Invalid or expired token"},
			{name: "foreign signature", headers: map[string]string{"Authorization": "Bearer " + foreign}, expectedMsg: "Invalid or expired token"},
			{name: "foreign issuer", headers: map[string]string{"Authorization": "Bearer " + otherIssuer}, expectedMsg: "Invalid or expired token"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodGet, "/me", nil, tc.headers)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthMiddlewareTestSuite) TestRequireRoleAtLeast() {
	testCases := []struct {
		name           string
		path           string
		role           user.Role
		expectedStatus int
	}{
		{name: "runner claims", path: "/claim", role: user.RoleRunner, expectedStatus: http.StatusOK},
		{name: "admin outranks runner", path: "/claim", role: user.RoleAdmin, expectedStatus: http.StatusOK},
		{name: "member cannot claim", path: "/claim", role: user.RoleMember, expectedStatus: http.StatusForbidden},
		{name: "runner cannot review refunds", path: "/review", role: user.RoleRunner, expectedStatus: http.StatusForbidden},
		{name: "admin reviews refunds", path: "/review", role: user.RoleAdmin, expectedStatus: http.StatusOK},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, tc.path, nil, s.token(uuid.New(), tc.role))
			if tc.expectedStatus == http.StatusOK {
				httptest.AssertSuccessResponse(s.T(), rec, tc.expectedStatus, nil)
			} else {
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "Insufficient permissions")
			}
		})
	}

	s.Run("error: 500 when mounted without RequireAuth", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/orphan", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

func (s *AuthMiddlewareTestSuite) TestRequirePaymentSecret() {
	testCases := []struct {
		name           string
		path           string
		secret         string
		expectedStatus int
	}{
		{name: "matching secret", path: "/callback", secret: "gateway-secret", expectedStatus: http.StatusOK},
		{name: "wrong secret", path: "/callback", secret: "gateway-secreT", expectedStatus: http.StatusUnauthorized},
		{name: "missing header", path: "/callback", secret: "", expectedStatus: http.StatusUnauthorized},
		{name: "unconfigured secret rejects everything", path: "/unconfigured", secret: "", expectedStatus: http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		s.Run(tc.name, func() {
			headers := map[string]string{}
			if tc.secret != "" {
				headers[middleware.PaymentSecretHeader] = tc.secret
			}
			rec := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, tc.path, nil, headers)
			if tc.expectedStatus == http.StatusOK {
				httptest.AssertSuccessResponse(s.T(), rec, tc.expectedStatus, nil)
			} else {
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "Invalid payment secret")
			}
		})
	}
}
