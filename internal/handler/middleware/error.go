package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"campus-market/internal/handler/httperr"
	"campus-market/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

// ErrorHandler writes the envelope for handlers that recorded an error without
// responding, and logs unexpected errors with their stack.
func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			if !errs.IsExpected(ginErr.Err) {
				log.ErrorContext(c.Request.Context(), "unexpected handler error",
					slog.String("request_id", GetRequestID(c)),
					slog.String("route", c.FullPath()),
					slog.Any("error", ginErr.Err),
					slog.Any("stack", errs.ExtractStackLines(ginErr.Err, 12)),
				)
			}
		}

		if c.Writer.Written() {
			return
		}
		// latest public error wins
		for i := len(c.Errors) - 1; i >= 0; i-- {
			if resp, ok := c.Errors[i].Meta.(httperr.Response); ok && c.Errors[i].IsType(gin.ErrorTypePublic) {
				c.JSON(resp.Status, resp)
				return
			}
		}
		if len(c.Errors) == 0 {
			return
		}
		resp := httperr.Response{Status: http.StatusInternalServerError}
		resp.Error.Message = "Internal server error"
		c.JSON(resp.Status, resp)
	}
}

func CustomRecovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.ErrorContext(c.Request.Context(), "recovered from panic",
				slog.String("panic", fmt.Sprint(rec)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("stack", string(debug.Stack())),
			)

			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = "Internal server error"
			c.AbortWithStatusJSON(resp.Status, resp)
		}()
		c.Next()
	}
}
