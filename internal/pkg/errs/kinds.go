package errs

// Error categories shared by every layer. Domain sentinels carry exactly one of
// these as a mark, so callers can classify without knowing the concrete error.
var (
	ErrNotFound              = New("entity not found")
	ErrForbidden             = New("actor is not allowed to act on entity")
	ErrInvalidState          = New("operation not valid in current state")
	ErrConflict              = New("conflicting concurrent or duplicate request")
	ErrValidation            = New("validation error")
	ErrInternalInconsistency = New("internal inconsistency")
)

// Kind builds a domain sentinel with msg that is classified under category.
func Kind(msg string, category error) error {
	return Mark(New(msg), category)
}

func IsExpected(err error) bool {
	return Is(err, ErrNotFound) ||
		Is(err, ErrForbidden) ||
		Is(err, ErrInvalidState) ||
		Is(err, ErrConflict) ||
		Is(err, ErrValidation)
}
