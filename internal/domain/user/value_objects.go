package user

import (
	"regexp"
	"strings"

	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidEmail = errs.Kind("invalid email format", errs.ErrValidation)
	ErrInvalidRole  = errs.Kind("invalid role", errs.ErrValidation)
	ErrInvalidScore = errs.Kind("potential match score must be between 0 and 1", errs.ErrValidation)
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	s = strings.TrimSpace(s)
	if !emailRegex.MatchString(s) {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: s}, nil
}

func (e Email) Value() string {
	return e.value
}

// PotentialMatch is a runner-cache entry produced by the background matcher:
// the runner may claim ResourceID by offering OfferResourceID.
type PotentialMatch struct {
	ResourceID      uuid.UUID
	OfferResourceID uuid.UUID
	Score           float64
}

func NewPotentialMatch(resourceID, offerResourceID uuid.UUID, score float64) (PotentialMatch, error) {
	if score < 0 || score > 1 {
		return PotentialMatch{}, ErrInvalidScore
	}
	return PotentialMatch{ResourceID: resourceID, OfferResourceID: offerResourceID, Score: score}, nil
}
