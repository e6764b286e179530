package request

import (
	"strings"
	"time"

	"campus-market/internal/domain/money"
	"campus-market/internal/domain/resource"
	"campus-market/internal/usecase/commands"
)

type CancelMatchRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AddressRequest struct {
	Building string `json:"building" binding:"required,max=200"`
	District string `json:"district" binding:"required,max=100"`
	Detail   string `json:"detail" binding:"max=500"`
}

func (a AddressRequest) ToDomain() (resource.Address, error) {
	return resource.NewAddress(a.Building, a.District, a.Detail)
}

type ConfirmOrderRequest struct {
	PickupAddress  AddressRequest `json:"pickupAddress" binding:"required"`
	DropoffAddress AddressRequest `json:"dropoffAddress" binding:"required"`
	DeliveryTime   time.Time      `json:"deliveryTime" binding:"required"`
	DoorDelivery   bool           `json:"doorDelivery"`
	Tips           *string        `json:"tips,omitempty"`
}

func (r ConfirmOrderRequest) ToCommand() (commands.ConfirmOrderRequest, error) {
	pickup, err := r.PickupAddress.ToDomain()
	if err != nil {
		return commands.ConfirmOrderRequest{}, err
	}
	dropoff, err := r.DropoffAddress.ToDomain()
	if err != nil {
		return commands.ConfirmOrderRequest{}, err
	}
	tips := money.Zero
	if r.Tips != nil && strings.TrimSpace(*r.Tips) != "" {
		tips, err = money.Parse(strings.TrimSpace(*r.Tips))
		if err != nil {
			return commands.ConfirmOrderRequest{}, err
		}
	}
	return commands.ConfirmOrderRequest{
		PickupAddress:  pickup,
		DropoffAddress: dropoff,
		DeliveryTime:   r.DeliveryTime,
		DoorDelivery:   r.DoorDelivery,
		Tips:           tips,
	}, nil
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required,max=20"`
}
