package usecase

import (
	"campus-market/internal/domain/user"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/pkg/jwt"

	"github.com/google/uuid"
)

var ErrUnknownRole = errs.Kind("token carries an unknown role", errs.ErrForbidden)

// Principal is the caller a bearer token speaks for.
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

// TokenValidator resolves a bearer token to its principal.
type TokenValidator interface {
	Authenticate(token string) (Principal, error)
}

type jwtTokenValidator struct {
	tokens *jwt.Service
}

func NewTokenValidator(tokens *jwt.Service) TokenValidator {
	return &jwtTokenValidator{tokens: tokens}
}

// Tokens without a known role are rejected rather than downgraded to member.
func (v *jwtTokenValidator) Authenticate(token string) (Principal, error) {
	claims, err := v.tokens.ValidateToken(token)
	if err != nil {
		return Principal{}, err
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return Principal{}, errs.Mark(errs.Wrapf(err, "role %q", claims.Role), ErrUnknownRole)
	}
	return Principal{UserID: claims.UserID, Role: role}, nil
}
