package queries

import (
	"time"

	"campus-market/internal/domain/coupon"
	"campus-market/internal/domain/errand"
	"campus-market/internal/domain/match"
	"campus-market/internal/domain/money"
	"campus-market/internal/domain/refund"
	"campus-market/internal/domain/resource"
	"campus-market/internal/domain/wallet"

	"github.com/google/uuid"
)

type AppliedCouponView struct {
	CouponID       uuid.UUID   `json:"coupon_id"`
	Code           string      `json:"code"`
	DiscountAmount money.Money `json:"discount_amount"`
	AppliedAt      time.Time   `json:"applied_at"`
}

func newAppliedCouponView(a *coupon.Applied) *AppliedCouponView {
	if a == nil {
		return nil
	}
	return &AppliedCouponView{
		CouponID:       a.CouponID,
		Code:           a.Code.String(),
		DiscountAmount: a.DiscountAmount,
		AppliedAt:      a.AppliedAt,
	}
}

type MatchView struct {
	ID                      uuid.UUID          `json:"id"`
	Resource1ID             uuid.UUID          `json:"resource1_id"`
	Resource2ID             uuid.UUID          `json:"resource2_id"`
	RequesterID             uuid.UUID          `json:"requester_id"`
	OwnerID                 uuid.UUID          `json:"owner_id"`
	Score                   float64            `json:"score"`
	Status                  string             `json:"status"`
	RequesterAccepted       bool               `json:"requester_accepted"`
	OwnerAccepted           bool               `json:"owner_accepted"`
	FirstAcceptanceTime     *time.Time         `json:"first_acceptance_time,omitempty"`
	AcceptanceDeadline      *time.Time         `json:"acceptance_deadline,omitempty"`
	Resource1Payment        money.Money        `json:"resource1_payment"`
	Resource2Receipt        money.Money        `json:"resource2_receipt"`
	AgreedPrice             money.Money        `json:"agreed_price"`
	DeliveryFee             money.Money        `json:"delivery_fee"`
	TotalAmount             money.Money        `json:"total_amount"`
	FinalAmount             money.Money        `json:"final_amount"`
	Coupon                  *AppliedCouponView `json:"coupon,omitempty"`
	CancellationReason      string             `json:"cancellation_reason,omitempty"`
	CancelledBy             *uuid.UUID         `json:"cancelled_by,omitempty"`
	TimeoutPenaltyAppliedTo *uuid.UUID         `json:"timeout_penalty_applied_to,omitempty"`
	ServiceRequestID        *uuid.UUID         `json:"service_request_id,omitempty"`
	RefundRequestID         *uuid.UUID         `json:"refund_request_id,omitempty"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

func NewMatchView(m *match.Match) *MatchView {
	v := &MatchView{
		ID:                      m.ID(),
		Resource1ID:             m.Resource1ID(),
		Resource2ID:             m.Resource2ID(),
		RequesterID:             m.RequesterID(),
		OwnerID:                 m.OwnerID(),
		Score:                   m.Score(),
		Status:                  m.Status().String(),
		RequesterAccepted:       m.RequesterAccepted(),
		OwnerAccepted:           m.OwnerAccepted(),
		FirstAcceptanceTime:     m.FirstAcceptanceTime(),
		Resource1Payment:        m.Resource1Payment(),
		Resource2Receipt:        m.Resource2Receipt(),
		AgreedPrice:             m.AgreedPrice(),
		DeliveryFee:             m.DeliveryFee(),
		TotalAmount:             m.TotalAmount(),
		FinalAmount:             m.FinalAmount(),
		Coupon:                  newAppliedCouponView(m.Coupon()),
		CancellationReason:      m.CancellationReason(),
		CancelledBy:             m.CancelledBy(),
		TimeoutPenaltyAppliedTo: m.TimeoutPenaltyAppliedTo(),
		ServiceRequestID:        m.ServiceRequestID(),
		RefundRequestID:         m.RefundRequestID(),
		CreatedAt:               m.CreatedAt(),
		UpdatedAt:               m.UpdatedAt(),
	}
	if m.Status() == match.StatusPending && m.FirstAcceptanceTime() != nil {
		deadline := m.AcceptanceDeadline()
		v.AcceptanceDeadline = &deadline
	}
	return v
}

type ErrandView struct {
	ID              uuid.UUID          `json:"id"`
	ResourceID      uuid.UUID          `json:"resource_id"`
	MatchID         *uuid.UUID         `json:"match_id,omitempty"`
	RequesterID     uuid.UUID          `json:"requester_id"`
	RunnerID        *uuid.UUID         `json:"runner_id,omitempty"`
	Status          string             `json:"status"`
	BaseFee         money.Money        `json:"base_fee"`
	DoorDeliveryFee money.Money        `json:"door_delivery_fee"`
	Tips            money.Money        `json:"tips"`
	DeliveryFee     money.Money        `json:"delivery_fee"`
	TotalAmount     money.Money        `json:"total_amount"`
	FinalAmount     money.Money        `json:"final_amount"`
	Coupon          *AppliedCouponView `json:"coupon,omitempty"`
	PickupAddress   resource.Address   `json:"pickup_address"`
	DropoffAddress  resource.Address   `json:"dropoff_address"`
	StartTime       time.Time          `json:"start_time"`
	ArrivalTime     *time.Time         `json:"arrival_time,omitempty"`
	DoorDelivery    bool               `json:"door_delivery"`
	PickupProofURL  *string            `json:"pickup_proof_url,omitempty"`
	DropoffProofURL *string            `json:"dropoff_proof_url,omitempty"`
	Earnings        money.Money        `json:"earnings"`
	RefundRequestID *uuid.UUID         `json:"refund_request_id,omitempty"`
	AssignedAt      *time.Time         `json:"assigned_at,omitempty"`
	PickedUpAt      *time.Time         `json:"picked_up_at,omitempty"`
	DroppedOffAt    *time.Time         `json:"dropped_off_at,omitempty"`
	CompletedAt     *time.Time         `json:"completed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func NewErrandView(e *errand.Errand) *ErrandView {
	a := e.Amounts()
	r := e.Route()
	ts := e.Timestamps()
	return &ErrandView{
		ID:              e.ID(),
		ResourceID:      e.ResourceID(),
		MatchID:         e.MatchID(),
		RequesterID:     e.RequesterID(),
		RunnerID:        e.RunnerID(),
		Status:          e.Status().String(),
		BaseFee:         a.BaseFee,
		DoorDeliveryFee: a.DoorDeliveryFee,
		Tips:            a.Tips,
		DeliveryFee:     a.DeliveryFee,
		TotalAmount:     a.TotalAmount,
		FinalAmount:     a.FinalAmount,
		Coupon:          newAppliedCouponView(e.Coupon()),
		PickupAddress:   r.Pickup,
		DropoffAddress:  r.Dropoff,
		StartTime:       r.StartTime,
		ArrivalTime:     r.ArrivalTime,
		DoorDelivery:    r.DoorDelivery,
		PickupProofURL:  proofString(e.Proofs().Pickup),
		DropoffProofURL: proofString(e.Proofs().Dropoff),
		Earnings:        e.Earnings(),
		RefundRequestID: e.RefundRequestID(),
		AssignedAt:      ts.AssignedAt,
		PickedUpAt:      ts.PickedUpAt,
		DroppedOffAt:    ts.DroppedOffAt,
		CompletedAt:     ts.CompletedAt,
		CreatedAt:       ts.CreatedAt,
		UpdatedAt:       ts.UpdatedAt,
	}
}

func proofString(p *errand.ProofRef) *string {
	if p == nil {
		return nil
	}
	s := p.String()
	return &s
}

type RefundView struct {
	ID          uuid.UUID   `json:"id"`
	RequesterID uuid.UUID   `json:"requester_id"`
	ResourceID  *uuid.UUID  `json:"resource_id,omitempty"`
	ErrandID    *uuid.UUID  `json:"errand_id,omitempty"`
	MatchID     *uuid.UUID  `json:"match_id,omitempty"`
	Amount      money.Money `json:"amount"`
	Reason      string      `json:"reason,omitempty"`
	Status      string      `json:"status"`
	ProcessorID *uuid.UUID  `json:"processor_id,omitempty"`
	ApprovedAt  *time.Time  `json:"approved_at,omitempty"`
	RejectedAt  *time.Time  `json:"rejected_at,omitempty"`
	ProcessedAt *time.Time  `json:"processed_at,omitempty"`
	DisputedAt  *time.Time  `json:"disputed_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func NewRefundView(r *refund.Request) *RefundView {
	t := r.Target()
	ts := r.Timestamps()
	return &RefundView{
		ID:          r.ID(),
		RequesterID: r.RequesterID(),
		ResourceID:  t.ResourceID(),
		ErrandID:    t.ErrandID(),
		MatchID:     t.MatchID(),
		Amount:      r.Amount(),
		Reason:      r.Reason(),
		Status:      r.Status().String(),
		ProcessorID: r.ProcessorID(),
		ApprovedAt:  ts.ApprovedAt,
		RejectedAt:  ts.RejectedAt,
		ProcessedAt: ts.ProcessedAt,
		DisputedAt:  ts.DisputedAt,
		CreatedAt:   ts.CreatedAt,
		UpdatedAt:   ts.UpdatedAt,
	}
}

type RefundQuoteView struct {
	TargetType string      `json:"target_type"`
	TargetID   uuid.UUID   `json:"target_id"`
	Amount     money.Money `json:"amount"`
	QuotedAt   time.Time   `json:"quoted_at"`
}

type TransactionView struct {
	ID            uuid.UUID   `json:"id"`
	Type          string      `json:"type"`
	Amount        money.Money `json:"amount"`
	Description   string      `json:"description"`
	ReferenceType string      `json:"reference_type"`
	ReferenceID   uuid.UUID   `json:"reference_id"`
	Status        string      `json:"status"`
	ReversesID    *uuid.UUID  `json:"reverses_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

func NewTransactionView(t wallet.Transaction) *TransactionView {
	return &TransactionView{
		ID:            t.ID,
		Type:          string(t.Type),
		Amount:        t.Amount,
		Description:   t.Description,
		ReferenceType: string(t.Reference.Kind),
		ReferenceID:   t.Reference.ID,
		Status:        string(t.Status),
		ReversesID:    t.ReversesID,
		CreatedAt:     t.CreatedAt,
	}
}

type WalletView struct {
	UserID       uuid.UUID          `json:"user_id"`
	Balance      money.Money        `json:"balance"`
	Transactions []*TransactionView `json:"transactions"`
	NextCursor   *Cursor            `json:"next_cursor,omitempty"`
}
