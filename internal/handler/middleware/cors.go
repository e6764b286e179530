package middleware

import (
	"log/slog"
	"slices"

	"campus-market/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// headers the API depends on; kept even when the env list omits them
var requiredCORSHeaders = []string{"Authorization", "Content-Type"}

// NewCORSMiddleware is a pass-through when no origins are configured, which is
// the case for the gateway-facing deployment.
func NewCORSMiddleware(cfg config.CORSConfig, log *slog.Logger) gin.HandlerFunc {
	if len(cfg.AllowOrigins) == 0 {
		log.Info("CORS disabled, no origins configured")
		return func(c *gin.Context) { c.Next() }
	}

	allowHeaders := slices.Clone(cfg.AllowHeaders)
	for _, h := range requiredCORSHeaders {
		if !slices.Contains(allowHeaders, h) {
			allowHeaders = append(allowHeaders, h)
		}
	}
	exposeHeaders := slices.Clone(cfg.ExposeHeaders)
	if !slices.Contains(exposeHeaders, RequestIDHeader) {
		exposeHeaders = append(exposeHeaders, RequestIDHeader)
	}

	log.Info("CORS enabled", slog.Any("origins", cfg.AllowOrigins))
	return cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
