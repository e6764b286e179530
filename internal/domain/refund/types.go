package refund

import "campus-market/internal/pkg/errs"

var ErrInvalidTargetKind = errs.Kind("refund target must be resource, errand or match", errs.ErrValidation)

type TargetKind string

const (
	TargetResource TargetKind = "resource"
	TargetErrand   TargetKind = "errand"
	TargetMatch    TargetKind = "match"
)

func (k TargetKind) IsValid() bool {
	switch k {
	case TargetResource, TargetErrand, TargetMatch:
		return true
	default:
		return false
	}
}

func NewTargetKind(s string) (TargetKind, error) {
	k := TargetKind(s)
	if !k.IsValid() {
		return "", ErrInvalidTargetKind
	}
	return k, nil
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusProcessed Status = "processed"
	StatusDisputed  Status = "disputed"
)

func (s Status) String() string {
	return string(s)
}

// IsActive reports whether the request still blocks another request on the same target.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}
