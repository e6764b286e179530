package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"campus-market/internal/domain/user"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/usecase"
	"campus-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentSecretHeader carries the shared secret on gateway callbacks.
const PaymentSecretHeader = "X-Payment-Secret"

var (
	errMissingToken     = errs.New("access token required")
	errInvalidToken     = errs.New("invalid or expired token")
	errNoIdentity       = errs.New("authenticated identity missing from context")
	errInsufficient     = errs.New("insufficient permissions")
	errBadGatewaySecret = errs.New("invalid payment gateway secret")
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		principal, err := m.tokenValidator.Authenticate(token)
		if err != nil {
			slog.WarnContext(c.Request.Context(), "bearer token rejected",
				slog.String("request_id", GetRequestID(c)),
				slog.Any("error", err),
			)
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errInvalidToken), "Invalid or expired token", nil)
			return
		}

		c.Set(ctxUserIDKey, principal.UserID)
		c.Set(ctxUserRoleKey, principal.Role)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errNoIdentity, "Internal server error", nil)
			return
		}

		if !role.AtLeast(minRole) {
			httperr.AbortWithError(c, http.StatusForbidden, errInsufficient, "Insufficient permissions", nil)
			return
		}

		c.Next()
	}
}

// RequirePaymentSecret authenticates the payment gateway by a shared secret.
func RequirePaymentSecret(secret string) gin.HandlerFunc {
	want := []byte(secret)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(PaymentSecretHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			httperr.AbortWithError(c, http.StatusUnauthorized, errBadGatewaySecret, "Invalid payment secret", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(ctxUserIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	return id, ok
}

func GetUserRole(c *gin.Context) (user.Role, bool) {
	userRole, exists := c.Get(ctxUserRoleKey)
	if !exists {
		return "", false
	}

	role, ok := userRole.(user.Role)
	return role, ok
}

// GetActor returns the authenticated caller as a query actor.
func GetActor(c *gin.Context) (queries.Actor, bool) {
	id, ok := GetUserID(c)
	if !ok {
		return queries.Actor{}, false
	}
	role, ok := GetUserRole(c)
	if !ok {
		return queries.Actor{}, false
	}
	return queries.Actor{ID: id, Role: role}, true
}
