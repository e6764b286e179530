//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"campus-market/internal/domain/user"
	"campus-market/internal/pkg/errs"
	"campus-market/internal/pkg/jwt"
	"campus-market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator_Authenticate(t *testing.T) {
	tokens := jwt.NewService("validator-secret", time.Hour)
	validator := usecase.NewTokenValidator(tokens)
	id := uuid.New()

	t.Run("known role resolves to a principal", func(t *testing.T) {
		tok, err := tokens.GenerateToken(id, user.RoleAdmin)
		require.NoError(t, err)

		p, err := validator.Authenticate(tok)
		require.NoError(t, err)
		assert.Equal(t, usecase.Principal{UserID: id, Role: user.RoleAdmin}, p)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		tok, err := tokens.GenerateToken(id, user.Role("janitor"))
		require.NoError(t, err)

		_, err = validator.Authenticate(tok)
		require.Error(t, err)
		assert.True(t, errs.Is(err, usecase.ErrUnknownRole))
		assert.True(t, errs.Is(err, errs.ErrForbidden))
	})

	t.Run("invalid token passes the jwt error through", func(t *testing.T) {
		_, err := validator.Authenticate("garbage")
		assert.True(t, errs.Is(err, jwt.ErrInvalidToken))
	})
}
