package bootstrap

import (
	"campus-market/internal/pkg/config"
	"campus-market/internal/pkg/jwt"
	"campus-market/internal/usecase"

	"go.uber.org/fx"
)

// JWTModule verifies bearer tokens minted by the campus identity service.
var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
		usecase.NewTokenValidator,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration, jwt.WithIssuer(cfg.JWT.Issuer))
}
