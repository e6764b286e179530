package user

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxCreditScore     = 100
	DefaultCreditScore = 80
	// TimeoutPenalty is taken from the party that let an acceptance window lapse.
	TimeoutPenalty = 10
	// MinMatchScore is the lowest potential-match score a runner may claim with.
	MinMatchScore = 0.6
)

var (
	ErrUserNotFound = errs.Kind("user not found", errs.ErrNotFound)
	ErrNotRunner    = errs.Kind("user is not a registered runner", errs.ErrForbidden)
	ErrNotEligible  = errs.Kind("runner has no eligible potential match for this resource", errs.ErrForbidden)
)

// User is the marketplace profile of an authenticated account.
type User struct {
	id               uuid.UUID
	email            Email
	role             Role
	creditScore      int
	reputationPoints int64
	potentialMatches []PotentialMatch
	version          int
	createdAt        time.Time
	updatedAt        time.Time
}

func NewUser(email Email, role Role, now time.Time) *User {
	return &User{
		id:          uuid.New(),
		email:       email,
		role:        role,
		creditScore: DefaultCreditScore,
		createdAt:   now,
		updatedAt:   now,
	}
}

func ReconstructUser(
	id uuid.UUID,
	email Email,
	role Role,
	creditScore int,
	reputationPoints int64,
	potentialMatches []PotentialMatch,
	version int,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:               id,
		email:            email,
		role:             role,
		creditScore:      creditScore,
		reputationPoints: reputationPoints,
		potentialMatches: potentialMatches,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

func (u *User) IsRunner() bool {
	return u.role.AtLeast(RoleRunner)
}

func (u *User) ApplyTimeoutPenalty(now time.Time) {
	u.creditScore -= TimeoutPenalty
	if u.creditScore < 0 {
		u.creditScore = 0
	}
	u.updatedAt = now
}

// AwardCompletion credits floor(amount) reputation points and one credit-score
// point while the score is below the cap.
func (u *User) AwardCompletion(amount money.Money, now time.Time) {
	if points := amount.Floor(); points > 0 {
		u.reputationPoints += points
	}
	if u.creditScore < MaxCreditScore {
		u.creditScore++
	}
	u.updatedAt = now
}

// CachePotentialMatch replaces any entry for the same resource.
func (u *User) CachePotentialMatch(pm PotentialMatch, now time.Time) {
	for i, existing := range u.potentialMatches {
		if existing.ResourceID == pm.ResourceID {
			u.potentialMatches[i] = pm
			u.updatedAt = now
			return
		}
	}
	u.potentialMatches = append(u.potentialMatches, pm)
	u.updatedAt = now
}

func (u *User) PotentialMatchFor(resourceID uuid.UUID) (PotentialMatch, error) {
	for _, pm := range u.potentialMatches {
		if pm.ResourceID == resourceID && pm.Score >= MinMatchScore {
			return pm, nil
		}
	}
	return PotentialMatch{}, ErrNotEligible
}

func (u *User) ConsumePotentialMatch(resourceID uuid.UUID, now time.Time) (PotentialMatch, error) {
	pm, err := u.PotentialMatchFor(resourceID)
	if err != nil {
		return PotentialMatch{}, err
	}
	kept := make([]PotentialMatch, 0, len(u.potentialMatches))
	for _, existing := range u.potentialMatches {
		if existing.ResourceID != resourceID {
			kept = append(kept, existing)
		}
	}
	u.potentialMatches = kept
	u.updatedAt = now
	return pm, nil
}

func (u *User) ID() uuid.UUID           { return u.id }
func (u *User) Email() Email            { return u.email }
func (u *User) Role() Role              { return u.role }
func (u *User) CreditScore() int        { return u.creditScore }
func (u *User) ReputationPoints() int64 { return u.reputationPoints }
func (u *User) PotentialMatches() []PotentialMatch {
	return append([]PotentialMatch(nil), u.potentialMatches...)
}
func (u *User) Version() int         { return u.version }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
