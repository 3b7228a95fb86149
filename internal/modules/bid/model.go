// README: Bid records and synthesized quotes for transport needs.
package bid

import (
	"time"

	"skyhail/internal/types"
)

// Bid is a priced offer from a vehicle to fulfill a need. ExpiresAt is the
// business validity of the offer; the store-level TTL is tracked separately
// and refreshed on every read.
type Bid struct {
	ID               int64
	VehicleID        types.ID
	UserID           types.ID
	Price            float64
	PriceType        string
	PriceDescription string
	TimeToPickup     float64 // seconds
	TimeToDropoff    float64 // seconds
	ExpiresAt        time.Time
	NeedID           types.ID
}

// Quote is the output of the quote calculator: a bid minus identity, before
// persistence allocates an id.
type Quote struct {
	Price            float64
	PriceType        string
	PriceDescription string
	TimeToPickup     float64
	TimeToDropoff    float64
	ExpiresAt        time.Time
	TTL              time.Duration
}

func fromQuote(id int64, q Quote, vehicleID, needID, userID types.ID) Bid {
	return Bid{
		ID:               id,
		VehicleID:        vehicleID,
		UserID:           userID,
		Price:            q.Price,
		PriceType:        q.PriceType,
		PriceDescription: q.PriceDescription,
		TimeToPickup:     q.TimeToPickup,
		TimeToDropoff:    q.TimeToDropoff,
		ExpiresAt:        q.ExpiresAt,
		NeedID:           needID,
	}
}
