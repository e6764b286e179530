package request

import (
	"campus-market/internal/domain/money"
	"campus-market/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentCallbackRequest struct {
	ChargeID   string      `json:"chargeId" binding:"required,max=255"`
	TargetType string      `json:"targetType" binding:"required,oneof=match resource"`
	TargetID   uuid.UUID   `json:"targetId" binding:"required"`
	Amount     money.Money `json:"amount"`
}

func (r PaymentCallbackRequest) ToCommand() commands.PaymentConfirmation {
	return commands.PaymentConfirmation{
		ChargeID:   r.ChargeID,
		TargetType: r.TargetType,
		TargetID:   r.TargetID,
		Amount:     r.Amount,
	}
}
