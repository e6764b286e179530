package request

import (
	"campus-market/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateRefundRequest struct {
	TargetType string    `json:"targetType" binding:"required,oneof=resource errand match"`
	TargetID   uuid.UUID `json:"targetId" binding:"required"`
	Reason     string    `json:"reason"`
}

func (r CreateRefundRequest) ToCommand() commands.RefundRequest {
	return commands.RefundRequest{TargetType: r.TargetType, TargetID: r.TargetID, Reason: r.Reason}
}

type RefundQuoteQuery struct {
	TargetType string `form:"targetType" binding:"required,oneof=resource errand match"`
	TargetID   string `form:"targetId" binding:"required,uuid"`
}

type WalletQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
