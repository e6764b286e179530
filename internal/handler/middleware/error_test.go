//go:build unit

package middleware_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	stdhttptest "net/http/httptest"
	"testing"

	"campus-market/internal/domain/refund"
	"campus-market/internal/handler/httperr"
	"campus-market/internal/handler/middleware"
	"campus-market/internal/pkg/config"
	"campus-market/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := discardLogger()

	router := gin.New()
	router.Use(middleware.CustomRecovery(log), middleware.ErrorHandler(log))
	router.GET("/panic", func(*gin.Context) { panic("ledger exploded") })
	router.GET("/public", func(c *gin.Context) {
		resp := httperr.Response{Status: http.StatusConflict}
		resp.Error.Message = refund.ErrActiveRequestExists.Error()
		_ = c.Error(gin.Error{Err: refund.ErrActiveRequestExists, Type: gin.ErrorTypePublic, Meta: resp})
	})
	router.GET("/private", func(c *gin.Context) {
		_ = c.Error(errors.New("connection reset"))
	})
	router.GET("/answered", func(c *gin.Context) {
		httperr.Abort(c, refund.ErrRefundNotFound)
	})

	testCases := []struct {
		name           string
		path           string
		expectedStatus int
		expectedMsg    string
	}{
		{name: "panics become 500", path: "/panic", expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		{name: "unwritten public error is rendered", path: "/public", expectedStatus: http.StatusConflict, expectedMsg: "active refund request"},
		{name: "unwritten private error is masked", path: "/private", expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		{name: "written response is left alone", path: "/answered", expectedStatus: http.StatusNotFound, expectedMsg: "refund request not found"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.PerformRequest(t, router, http.MethodGet, tc.path, nil, "")
			httptest.AssertErrorResponse(t, rec, tc.expectedStatus, tc.expectedMsg)
		})
	}
}

func TestLoggingMiddlewareRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := middleware.NewLogger(config.LogConfig{Level: "error", TimeZone: "UTC", TimeFormat: "2006-01-02T15:04:05Z07:00"})

	router := gin.New()
	router.Use(logger.LoggingMiddleware())
	router.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	t.Run("caller supplied id is kept", func(t *testing.T) {
		rec := httptest.PerformRequestWithHeaders(t, router, http.MethodGet, "/echo", nil, map[string]string{middleware.RequestIDHeader: "req-42"})
		assert.Equal(t, "req-42", rec.Body.String())
		assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("missing id is generated", func(t *testing.T) {
		rec := httptest.PerformRequest(t, router, http.MethodGet, "/echo", nil, "")
		require.NotEmpty(t, rec.Body.String())
		assert.Equal(t, rec.Body.String(), rec.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	preflight := func(router *gin.Engine) *stdhttptest.ResponseRecorder {
		req := stdhttptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "https://market.campus.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := stdhttptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	newRouter := func(cfg config.CORSConfig) *gin.Engine {
		router := gin.New()
		router.Use(middleware.NewCORSMiddleware(cfg, discardLogger()))
		router.POST("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return router
	}

	t.Run("configured origin is allowed with the auth header", func(t *testing.T) {
		rec := preflight(newRouter(config.CORSConfig{
			AllowOrigins: []string{"https://market.campus.example"},
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{"Origin"},
		}))
		assert.Equal(t, "https://market.campus.example", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	})

	t.Run("no origins means no CORS headers", func(t *testing.T) {
		rec := preflight(newRouter(config.CORSConfig{}))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
