package response

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type TransactionResponse struct {
	ID            uuid.UUID   `json:"id"`
	Type          string      `json:"type"`
	Amount        money.Money `json:"amount" swaggertype:"string"`
	Description   string      `json:"description"`
	ReferenceType string      `json:"referenceType"`
	ReferenceID   uuid.UUID   `json:"referenceId"`
	Status        string      `json:"status"`
	ReversesID    *uuid.UUID  `json:"reversesId,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
}

type WalletResponse struct {
	UserID       uuid.UUID              `json:"userId"`
	Balance      money.Money            `json:"balance" swaggertype:"string"`
	Transactions []*TransactionResponse `json:"transactions"`
	NextCursor   string                 `json:"nextCursor,omitempty"`
}

func FromWalletView(v *queries.WalletView) *WalletResponse {
	resp := &WalletResponse{
		UserID:       v.UserID,
		Balance:      v.Balance,
		Transactions: make([]*TransactionResponse, 0, len(v.Transactions)),
	}
	for _, t := range v.Transactions {
		resp.Transactions = append(resp.Transactions, &TransactionResponse{
			ID:            t.ID,
			Type:          t.Type,
			Amount:        t.Amount,
			Description:   t.Description,
			ReferenceType: t.ReferenceType,
			ReferenceID:   t.ReferenceID,
			Status:        t.Status,
			ReversesID:    t.ReversesID,
			CreatedAt:     t.CreatedAt,
		})
	}
	if v.NextCursor != nil {
		resp.NextCursor = v.NextCursor.After
	}
	return resp
}

type PaymentResponse struct {
	ChargeID string `json:"chargeId"`
	Replayed bool   `json:"replayed"`
	Changed  bool   `json:"changed"`
	Status   string `json:"status"`
}

func FromPaymentResult(r *commands.PaymentResult) *PaymentResponse {
	return &PaymentResponse{ChargeID: r.ChargeID, Replayed: r.Replayed, Changed: r.Changed, Status: r.Status}
}
