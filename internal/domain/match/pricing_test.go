//go:build unit

package match_test

import (
	"testing"
	"time"

	"campus-market/internal/domain/match"
	"campus-market/internal/domain/resource"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDeliveryPricer_QuoteDelivery(t *testing.T) {
	north := resource.Address{Building: "Library", District: "north"}
	northGym := resource.Address{Building: "Gym", District: "North"}
	south := resource.Address{Building: "Dorm B", District: "south"}
	at := func(h, m int) time.Time { return time.Date(2025, 4, 1, h, m, 0, 0, time.UTC) }

	cases := []struct {
		name string
		req  match.DeliveryRequest
		want string
	}{
		{name: "same district at lunch peak", req: match.DeliveryRequest{Pickup: north, Dropoff: northGym, DeliveryTime: at(12, 0)}, want: "1.00"},
		{name: "same district off peak", req: match.DeliveryRequest{Pickup: north, Dropoff: northGym, DeliveryTime: at(15, 0)}, want: "2.00"},
		{name: "across districts at dinner peak", req: match.DeliveryRequest{Pickup: north, Dropoff: south, DeliveryTime: at(17, 30)}, want: "2.00"},
		{name: "across districts off peak", req: match.DeliveryRequest{Pickup: north, Dropoff: south, DeliveryTime: at(9, 0)}, want: "4.00"},
		{name: "peak end is exclusive", req: match.DeliveryRequest{Pickup: north, Dropoff: south, DeliveryTime: at(13, 0)}, want: "4.00"},
		{name: "door delivery adds the flat fee", req: match.DeliveryRequest{Pickup: north, Dropoff: south, DeliveryTime: at(11, 0), DoorDelivery: true}, want: "7.00"},
	}
	pricer := match.NewDefaultDeliveryPricer(time.UTC)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, pricer.QuoteDelivery(c.req).String())
		})
	}

	t.Run("peak windows follow the market time zone", func(t *testing.T) {
		tokyo, err := time.LoadLocation("Asia/Tokyo")
		require.NoError(t, err)
		pricer := match.NewDefaultDeliveryPricer(tokyo)

		// 03:00 UTC is noon in Tokyo
		got := pricer.QuoteDelivery(match.DeliveryRequest{Pickup: north, Dropoff: south, DeliveryTime: at(3, 0)})
		assert.Equal(t, "2.00", got.String())
	})
}
