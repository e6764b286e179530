package shared

import (
	"context"

	"github.com/google/uuid"
)

type Event string

const (
	EventMatchFirstAcceptance Event = "match.first_acceptance"
	EventMatchAccepted        Event = "match.accepted"
	EventMatchTimedOut        Event = "match.timed_out"
	EventMatchRejected        Event = "match.rejected"
	EventMatchCancelled       Event = "match.cancelled"
	EventMatchOrderConfirmed  Event = "match.order_confirmed"
	EventMatchPaid            Event = "match.paid"
	EventMatchCompleted       Event = "match.completed"
	EventErrandClaimed        Event = "errand.claimed"
	EventErrandPickedUp       Event = "errand.picked_up"
	EventErrandDroppedOff     Event = "errand.dropped_off"
	EventErrandCompleted      Event = "errand.completed"
	EventRefundRequested      Event = "refund.requested"
	EventRefundReviewed       Event = "refund.reviewed"
)

type Message struct {
	RecipientID uuid.UUID      `json:"recipient_id"`
	Event       Event          `json:"event"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// Notifier delivers fire-and-forget messages. It is only called after the
// triggering transaction committed.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}
