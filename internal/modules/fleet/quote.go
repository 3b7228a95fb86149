// README: Deterministic bid quotes from great-circle distance and fleet velocity.
package fleet

import (
	"math"
	"time"

	"skyhail/internal/modules/bid"
	"skyhail/internal/types"
)

const earthRadiusM = 6371000.0

type QuoteConfig struct {
	PriceRate      float64       // meters per currency unit
	AvgVelocity    float64       // m/s
	PickupOverhead float64       // seconds, models launch/landing latency
	Expiry         time.Duration // business validity of a quote
	TTL            time.Duration // store-level reclamation window
}

func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		PriceRate:      1e-17,
		AvgVelocity:    10.0,
		PickupOverhead: 1.0,
		Expiry:         time.Hour,
		TTL:            120 * time.Second,
	}
}

// Calculator synthesizes flat-fee quotes. Quote is pure apart from the
// caller-supplied clock: no I/O, no side effects.
type Calculator struct {
	cfg QuoteConfig
}

func NewCalculator(cfg QuoteConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Quote prices the legs origin→pickup and pickup→dropoff. Zero distance
// yields the fixed overhead only.
func (c *Calculator) Quote(origin, pickup, dropoff types.Point, now time.Time) bid.Quote {
	toPickup := haversineM(origin, pickup)
	toDropoff := haversineM(pickup, dropoff)

	return bid.Quote{
		Price:            (toPickup + toDropoff) / c.cfg.PriceRate,
		PriceType:        "flat",
		PriceDescription: "Flat fee",
		TimeToPickup:     toPickup/c.cfg.AvgVelocity + c.cfg.PickupOverhead,
		TimeToDropoff:    toDropoff/c.cfg.AvgVelocity + c.cfg.PickupOverhead,
		ExpiresAt:        now.Add(c.cfg.Expiry),
		TTL:              c.cfg.TTL,
	}
}

// haversineM returns the great-circle distance in meters between two points
// specified in decimal degrees.
func haversineM(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLong := degreesToRadians(b.Long - a.Long)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLong/2)*math.Sin(dLong/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
