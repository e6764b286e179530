package match

import "time"

// AcceptanceWindow is how long the second party has to accept after the first.
const AcceptanceWindow = 24 * time.Hour

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusPaid      Status = "paid"
	StatusErranding Status = "erranding"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusPaid, StatusErranding, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

const (
	ReasonNegotiationTimeout = "negotiation_timeout"
	ReasonRejected           = "rejected"
)

type AcceptOutcome string

const (
	OutcomeFirstAcceptance AcceptOutcome = "first_acceptance"
	OutcomeAccepted        AcceptOutcome = "accepted"
	OutcomeTimedOut        AcceptOutcome = "timed_out"
)

type Side int

const (
	SideRequester Side = iota + 1
	SideOwner
)
