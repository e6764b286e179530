//go:build unit || e2e

package builder

import (
	"time"

	"campus-market/internal/domain/user"

	"github.com/google/uuid"
)

type UserBuilder struct {
	ID               uuid.UUID
	Email            string
	Role             string
	CreditScore      int
	ReputationPoints int64
	PotentialMatches []user.PotentialMatch
	CreatedAt        time.Time
}

// NewUserBuilder starts from a member at the default credit score. The email
// is derived from the id so fixtures never collide on the unique index.
func NewUserBuilder() *UserBuilder {
	id := uuid.New()
	return &UserBuilder{
		ID:          id,
		Email:       "student-" + id.String()[:8] + "@campus.example.com",
		Role:        string(user.RoleMember),
		CreditScore: user.DefaultCreditScore,
		CreatedAt:   time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (u *UserBuilder) With(mutate func(*UserBuilder)) *UserBuilder {
	mutate(u)
	return u
}

// Build methods
func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}
	return user.ReconstructUser(u.ID, email, role, u.CreditScore, u.ReputationPoints, u.PotentialMatches, 0, u.CreatedAt, u.CreatedAt), nil
}

// MustBuild is for fixtures whose fields are known to be valid.
func (u *UserBuilder) MustBuild() *user.User {
	usr, err := u.BuildDomain()
	if err != nil {
		panic(err)
	}
	return usr
}

// Fluent builder methods
func (u *UserBuilder) WithID(id uuid.UUID) *UserBuilder {
	u.ID = id
	return u
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) WithCreditScore(score int) *UserBuilder {
	u.CreditScore = score
	return u
}

func (u *UserBuilder) WithPotentialMatch(resourceID, offerID uuid.UUID, score float64) *UserBuilder {
	u.PotentialMatches = append(u.PotentialMatches, user.PotentialMatch{
		ResourceID:      resourceID,
		OfferResourceID: offerID,
		Score:           score,
	})
	return u
}

func (u *UserBuilder) AsRunner() *UserBuilder {
	u.Role = string(user.RoleRunner)
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Role = string(user.RoleAdmin)
	return u
}
