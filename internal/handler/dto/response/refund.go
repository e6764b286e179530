package response

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type RefundResponse struct {
	ID          uuid.UUID   `json:"id"`
	RequesterID uuid.UUID   `json:"requesterId"`
	ResourceID  *uuid.UUID  `json:"resourceId,omitempty"`
	ErrandID    *uuid.UUID  `json:"errandId,omitempty"`
	MatchID     *uuid.UUID  `json:"matchId,omitempty"`
	Amount      money.Money `json:"amount" swaggertype:"string"`
	Reason      string      `json:"reason,omitempty"`
	Status      string      `json:"status"`
	ProcessorID *uuid.UUID  `json:"processorId,omitempty"`
	ApprovedAt  *time.Time  `json:"approvedAt,omitempty"`
	RejectedAt  *time.Time  `json:"rejectedAt,omitempty"`
	ProcessedAt *time.Time  `json:"processedAt,omitempty"`
	DisputedAt  *time.Time  `json:"disputedAt,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func FromRefundView(v *queries.RefundView) *RefundResponse {
	return &RefundResponse{
		ID:          v.ID,
		RequesterID: v.RequesterID,
		ResourceID:  v.ResourceID,
		ErrandID:    v.ErrandID,
		MatchID:     v.MatchID,
		Amount:      v.Amount,
		Reason:      v.Reason,
		Status:      v.Status,
		ProcessorID: v.ProcessorID,
		ApprovedAt:  v.ApprovedAt,
		RejectedAt:  v.RejectedAt,
		ProcessedAt: v.ProcessedAt,
		DisputedAt:  v.DisputedAt,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

type RefundQuoteResponse struct {
	TargetType string      `json:"targetType"`
	TargetID   uuid.UUID   `json:"targetId"`
	Amount     money.Money `json:"amount" swaggertype:"string"`
	QuotedAt   time.Time   `json:"quotedAt"`
}

func FromRefundQuoteView(v *queries.RefundQuoteView) *RefundQuoteResponse {
	return &RefundQuoteResponse{
		TargetType: v.TargetType,
		TargetID:   v.TargetID,
		Amount:     v.Amount,
		QuotedAt:   v.QuotedAt,
	}
}
