// README: Transport needs (pickup/dropoff requests) awaiting bids.
package need

import (
	"time"

	"skyhail/internal/types"
)

type Need struct {
	ID        types.ID
	Pickup    types.Point
	Dropoff   types.Point
	UserID    types.ID
	CreatedAt time.Time
}
