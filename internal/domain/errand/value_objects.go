package errand

import (
	"net/url"
	"strings"

	"campus-market/internal/pkg/errs"
)

var ErrInvalidProof = errs.Kind("proof reference must be an absolute http(s) url", errs.ErrValidation)

// ProofRef points at an attachment held by the proof storage service.
type ProofRef string

func NewProofRef(raw string) (ProofRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidProof
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", ErrInvalidProof
	}
	return ProofRef(raw), nil
}

func (p ProofRef) String() string {
	return string(p)
}
