// README: Bid aggregator: hydrates stored bids per need and synthesizes quotes to fill the quota.
package bid

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"skyhail/internal/metrics"
	"skyhail/internal/modules/need"
	"skyhail/internal/modules/vehicle"
	"skyhail/internal/types"
)

// Storage is the bid persistence contract the aggregator runs against.
type Storage interface {
	Save(ctx context.Context, q Quote, vehicleID, needID, userID types.ID) (int64, error)
	Get(ctx context.Context, id int64) (*Bid, error)
	IDsForNeed(ctx context.Context, needID types.ID) ([]int64, error)
	DeleteForNeed(ctx context.Context, needID types.ID) error
}

type NeedSource interface {
	Get(ctx context.Context, id types.ID) (*need.Need, error)
}

type VehicleSource interface {
	Get(ctx context.Context, id types.ID) (*vehicle.Vehicle, error)
	InRadius(ctx context.Context, center types.Point, radiusMeters float64) ([]types.ID, error)
}

// QuoteFunc computes a quote for a vehicle at origin serving pickup→dropoff.
type QuoteFunc func(origin, pickup, dropoff types.Point, now time.Time) Quote

// EventPublisher receives synthesized-bid notifications. Publish failures
// never fail the aggregation call.
type EventPublisher interface {
	BidCreated(ctx context.Context, b Bid) error
}

type Config struct {
	Quota        int
	RadiusMeters float64
}

type Service struct {
	store    Storage
	needs    NeedSource
	vehicles VehicleSource
	quote    QuoteFunc
	events   EventPublisher
	log      *zap.Logger
	cfg      Config
	now      func() time.Time
}

func NewService(store Storage, needs NeedSource, vehicles VehicleSource, quote QuoteFunc, events EventPublisher, log *zap.Logger, cfg Config) *Service {
	return &Service{
		store:    store,
		needs:    needs,
		vehicles: vehicles,
		quote:    quote,
		events:   events,
		log:      log,
		cfg:      cfg,
		now:      time.Now,
	}
}

// BidsForNeed returns the stored bids for a need, synthesizing at most one
// additional bid when the quota is unmet and a nearby vehicle is not yet
// represented. Repeated polling fills the quota over multiple calls.
//
// Two concurrent calls for the same need may each decide the quota is unmet
// and each synthesize a bid; that race is accepted, not serialized.
func (s *Service) BidsForNeed(ctx context.Context, needID types.ID) ([]Bid, error) {
	n, err := s.needs.Get(ctx, needID)
	if errors.Is(err, need.ErrNotFound) {
		// An unknown need has no bids by definition.
		return []Bid{}, nil
	}
	if err != nil {
		return nil, err
	}

	ids, err := s.store.IDsForNeed(ctx, needID)
	if err != nil {
		return nil, err
	}

	bids := make([]Bid, 0, len(ids)+1)
	bidding := make(map[types.ID]bool, len(ids))
	for _, id := range ids {
		b, err := s.store.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Reclaimed by TTL; the list entry is stale, not a fault.
			continue
		}
		if err != nil {
			return nil, err
		}
		bids = append(bids, *b)
		bidding[b.VehicleID] = true
	}

	if len(bids) >= s.cfg.Quota {
		return bids, nil
	}

	candidates, err := s.vehicles.InRadius(ctx, n.Pickup, s.cfg.RadiusMeters)
	if err != nil {
		s.log.Warn("radius lookup failed",
			zap.String("need_id", string(needID)), zap.Error(err))
		return bids, nil
	}

	for _, vid := range candidates {
		if bidding[vid] {
			continue
		}
		v, err := s.vehicles.Get(ctx, vid)
		if err != nil {
			// Drop the candidate; the bids gathered so far are still good.
			s.log.Warn("candidate vehicle lookup failed",
				zap.String("vehicle_id", string(vid)), zap.Error(err))
			return bids, nil
		}

		q := s.quote(v.Coords, n.Pickup, n.Dropoff, s.now())
		id, err := s.store.Save(ctx, q, v.ID, needID, n.UserID)
		if err != nil {
			// A bid that cannot be persisted cannot be trusted as valid.
			return nil, err
		}
		b := fromQuote(id, q, v.ID, needID, n.UserID)
		bids = append(bids, b)
		metrics.BidsSynthesized.Inc()

		if s.events != nil {
			if err := s.events.BidCreated(ctx, b); err != nil {
				s.log.Warn("publish bid event",
					zap.Int64("bid_id", id), zap.Error(err))
			}
		}
		// One synthesized bid per call.
		break
	}

	return bids, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Bid, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) DeleteForNeed(ctx context.Context, needID types.ID) error {
	return s.store.DeleteForNeed(ctx, needID)
}
