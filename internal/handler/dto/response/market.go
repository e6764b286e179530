package response

import (
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"

	"github.com/google/uuid"
)

type AppliedCouponResponse struct {
	CouponID       uuid.UUID   `json:"couponId"`
	Code           string      `json:"code"`
	DiscountAmount money.Money `json:"discountAmount" swaggertype:"string"`
	AppliedAt      time.Time   `json:"appliedAt"`
}

func fromAppliedCouponView(v *queries.AppliedCouponView) *AppliedCouponResponse {
	if v == nil {
		return nil
	}
	return &AppliedCouponResponse{
		CouponID:       v.CouponID,
		Code:           v.Code,
		DiscountAmount: v.DiscountAmount,
		AppliedAt:      v.AppliedAt,
	}
}

type MatchResponse struct {
	ID                      uuid.UUID              `json:"id"`
	Resource1ID             uuid.UUID              `json:"resource1Id"`
	Resource2ID             uuid.UUID              `json:"resource2Id"`
	RequesterID             uuid.UUID              `json:"requesterId"`
	OwnerID                 uuid.UUID              `json:"ownerId"`
	Score                   float64                `json:"score"`
	Status                  string                 `json:"status"`
	RequesterAccepted       bool                   `json:"requesterAccepted"`
	OwnerAccepted           bool                   `json:"ownerAccepted"`
	FirstAcceptanceTime     *time.Time             `json:"firstAcceptanceTime,omitempty"`
	AcceptanceDeadline      *time.Time             `json:"acceptanceDeadline,omitempty"`
	Resource1Payment        money.Money            `json:"resource1Payment" swaggertype:"string"`
	Resource2Receipt        money.Money            `json:"resource2Receipt" swaggertype:"string"`
	AgreedPrice             money.Money            `json:"agreedPrice" swaggertype:"string"`
	DeliveryFee             money.Money            `json:"deliveryFee" swaggertype:"string"`
	TotalAmount             money.Money            `json:"totalAmount" swaggertype:"string"`
	FinalAmount             money.Money            `json:"finalAmount" swaggertype:"string"`
	Coupon                  *AppliedCouponResponse `json:"coupon,omitempty"`
	CancellationReason      string                 `json:"cancellationReason,omitempty"`
	CancelledBy             *uuid.UUID             `json:"cancelledBy,omitempty"`
	TimeoutPenaltyAppliedTo *uuid.UUID             `json:"timeoutPenaltyAppliedTo,omitempty"`
	ServiceRequestID        *uuid.UUID             `json:"serviceRequestId,omitempty"`
	RefundRequestID         *uuid.UUID             `json:"refundRequestId,omitempty"`
	CreatedAt               time.Time              `json:"createdAt"`
	UpdatedAt               time.Time              `json:"updatedAt"`
}

func FromMatchView(v *queries.MatchView) *MatchResponse {
	return &MatchResponse{
		ID:                      v.ID,
		Resource1ID:             v.Resource1ID,
		Resource2ID:             v.Resource2ID,
		RequesterID:             v.RequesterID,
		OwnerID:                 v.OwnerID,
		Score:                   v.Score,
		Status:                  v.Status,
		RequesterAccepted:       v.RequesterAccepted,
		OwnerAccepted:           v.OwnerAccepted,
		FirstAcceptanceTime:     v.FirstAcceptanceTime,
		AcceptanceDeadline:      v.AcceptanceDeadline,
		Resource1Payment:        v.Resource1Payment,
		Resource2Receipt:        v.Resource2Receipt,
		AgreedPrice:             v.AgreedPrice,
		DeliveryFee:             v.DeliveryFee,
		TotalAmount:             v.TotalAmount,
		FinalAmount:             v.FinalAmount,
		Coupon:                  fromAppliedCouponView(v.Coupon),
		CancellationReason:      v.CancellationReason,
		CancelledBy:             v.CancelledBy,
		TimeoutPenaltyAppliedTo: v.TimeoutPenaltyAppliedTo,
		ServiceRequestID:        v.ServiceRequestID,
		RefundRequestID:         v.RefundRequestID,
		CreatedAt:               v.CreatedAt,
		UpdatedAt:               v.UpdatedAt,
	}
}

type AcceptResponse struct {
	Outcome string         `json:"outcome"`
	Match   *MatchResponse `json:"match"`
}

func FromAcceptResult(r *commands.AcceptResult) *AcceptResponse {
	return &AcceptResponse{Outcome: string(r.Outcome), Match: FromMatchView(r.Match)}
}

type ConfirmOrderResponse struct {
	Match            *MatchResponse `json:"match"`
	ServiceRequestID uuid.UUID      `json:"serviceRequestId"`
}

func FromConfirmOrderResult(r *commands.ConfirmOrderResult) *ConfirmOrderResponse {
	return &ConfirmOrderResponse{Match: FromMatchView(r.Match), ServiceRequestID: r.ServiceRequest}
}

type AddressResponse struct {
	Building string `json:"building"`
	District string `json:"district"`
	Detail   string `json:"detail,omitempty"`
}

func fromAddress(a resource.Address) AddressResponse {
	return AddressResponse{Building: a.Building, District: a.District, Detail: a.Detail}
}

type ErrandResponse struct {
	ID              uuid.UUID              `json:"id"`
	ResourceID      uuid.UUID              `json:"resourceId"`
	MatchID         *uuid.UUID             `json:"matchId,omitempty"`
	RequesterID     uuid.UUID              `json:"requesterId"`
	RunnerID        *uuid.UUID             `json:"runnerId,omitempty"`
	Status          string                 `json:"status"`
	BaseFee         money.Money            `json:"baseFee" swaggertype:"string"`
	DoorDeliveryFee money.Money            `json:"doorDeliveryFee" swaggertype:"string"`
	Tips            money.Money            `json:"tips" swaggertype:"string"`
	DeliveryFee     money.Money            `json:"deliveryFee" swaggertype:"string"`
	TotalAmount     money.Money            `json:"totalAmount" swaggertype:"string"`
	FinalAmount     money.Money            `json:"finalAmount" swaggertype:"string"`
	Coupon          *AppliedCouponResponse `json:"coupon,omitempty"`
	PickupAddress   AddressResponse        `json:"pickupAddress"`
	DropoffAddress  AddressResponse        `json:"dropoffAddress"`
	StartTime       time.Time              `json:"startTime"`
	ArrivalTime     *time.Time             `json:"arrivalTime,omitempty"`
	DoorDelivery    bool                   `json:"doorDelivery"`
	PickupProofURL  *string                `json:"pickupProofUrl,omitempty"`
	DropoffProofURL *string                `json:"dropoffProofUrl,omitempty"`
	Earnings        money.Money            `json:"earnings" swaggertype:"string"`
	RefundRequestID *uuid.UUID             `json:"refundRequestId,omitempty"`
	AssignedAt      *time.Time             `json:"assignedAt,omitempty"`
	PickedUpAt      *time.Time             `json:"pickedUpAt,omitempty"`
	DroppedOffAt    *time.Time             `json:"droppedOffAt,omitempty"`
	CompletedAt     *time.Time             `json:"completedAt,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func FromErrandView(v *queries.ErrandView) *ErrandResponse {
	return &ErrandResponse{
		ID:              v.ID,
		ResourceID:      v.ResourceID,
		MatchID:         v.MatchID,
		RequesterID:     v.RequesterID,
		RunnerID:        v.RunnerID,
		Status:          v.Status,
		BaseFee:         v.BaseFee,
		DoorDeliveryFee: v.DoorDeliveryFee,
		Tips:            v.Tips,
		DeliveryFee:     v.DeliveryFee,
		TotalAmount:     v.TotalAmount,
		FinalAmount:     v.FinalAmount,
		Coupon:          fromAppliedCouponView(v.Coupon),
		PickupAddress:   fromAddress(v.PickupAddress),
		DropoffAddress:  fromAddress(v.DropoffAddress),
		StartTime:       v.StartTime,
		ArrivalTime:     v.ArrivalTime,
		DoorDelivery:    v.DoorDelivery,
		PickupProofURL:  v.PickupProofURL,
		DropoffProofURL: v.DropoffProofURL,
		Earnings:        v.Earnings,
		RefundRequestID: v.RefundRequestID,
		AssignedAt:      v.AssignedAt,
		PickedUpAt:      v.PickedUpAt,
		DroppedOffAt:    v.DroppedOffAt,
		CompletedAt:     v.CompletedAt,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}
