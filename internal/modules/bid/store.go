// README: Bid store backed by Redis: INCR id allocation, need→bid-id lists, TTL-bounded hashes.
package bid

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"skyhail/internal/types"
)

const (
	nextBidIDKey      = "next_bid_id"
	bidKeyPrefix      = "bids:%d"
	needBidsKeyPrefix = "need_bids:%s"
)

var ErrNotFound = errors.New("bid not found")

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redis *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: redis, ttl: ttl}
}

// Save allocates a new bid id and writes the need-list entry, the bid hash,
// and its TTL as one batch. The INCR stands alone because the id is needed
// to build the keys; the remaining writes go through a single TxPipeline.
// A dangling list entry after a partial failure is tolerated: Get reports
// ErrNotFound for ids whose hash is missing.
func (s *Store) Save(ctx context.Context, q Quote, vehicleID, needID, userID types.ID) (int64, error) {
	id, err := s.redis.Incr(ctx, nextBidIDKey).Result()
	if err != nil {
		return 0, fmt.Errorf("allocate bid id: %w", err)
	}

	ttl := q.TTL
	if ttl <= 0 {
		ttl = s.ttl
	}

	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, needBidsKey(needID), id)
	pipe.HSet(ctx, bidKey(id),
		"id", id,
		"vehicle_id", string(vehicleID),
		"user_id", string(userID),
		"price", strconv.FormatFloat(q.Price, 'f', -1, 64),
		"price_type", q.PriceType,
		"price_description", q.PriceDescription,
		"time_to_pickup", strconv.FormatFloat(q.TimeToPickup, 'f', -1, 64),
		"time_to_dropoff", strconv.FormatFloat(q.TimeToDropoff, 'f', -1, 64),
		"expires_at", strconv.FormatInt(q.ExpiresAt.UnixMilli(), 10),
		"need_id", string(needID),
	)
	pipe.Expire(ctx, bidKey(id), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("write bid %d: %w", id, err)
	}
	return id, nil
}

// Get refreshes the bid's TTL as a side effect of being read, then returns
// the stored fields. A missing or reclaimed hash is ErrNotFound, never a
// fault: the need list may still reference ids whose records expired.
func (s *Store) Get(ctx context.Context, id int64) (*Bid, error) {
	s.redis.Expire(ctx, bidKey(id), s.ttl)
	fields, err := s.redis.HGetAll(ctx, bidKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return fromHash(id, fields)
}

// IDsForNeed returns every bid id recorded for the need, including ids whose
// records may have been reclaimed by TTL.
func (s *Store) IDsForNeed(ctx context.Context, needID types.ID) ([]int64, error) {
	raw, err := s.redis.LRange(ctx, needBidsKey(needID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := strconv.ParseInt(r, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// DeleteForNeed removes every bid referenced by the need's id list, then the
// list itself. Deleting absent keys is a no-op, so a partially failed run is
// safe to retry.
func (s *Store) DeleteForNeed(ctx context.Context, needID types.ID) error {
	ids, err := s.IDsForNeed(ctx, needID)
	if err != nil {
		return err
	}
	pipe := s.redis.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, bidKey(id))
	}
	pipe.Del(ctx, needBidsKey(needID))
	_, err = pipe.Exec(ctx)
	return err
}

func bidKey(id int64) string {
	return fmt.Sprintf(bidKeyPrefix, id)
}

func needBidsKey(needID types.ID) string {
	return fmt.Sprintf(needBidsKeyPrefix, string(needID))
}

func fromHash(id int64, fields map[string]string) (*Bid, error) {
	price, err := strconv.ParseFloat(fields["price"], 64)
	if err != nil {
		return nil, fmt.Errorf("bid %d: bad price %q", id, fields["price"])
	}
	toPickup, _ := strconv.ParseFloat(fields["time_to_pickup"], 64)
	toDropoff, _ := strconv.ParseFloat(fields["time_to_dropoff"], 64)
	expiresMs, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bid %d: bad expires_at %q", id, fields["expires_at"])
	}
	return &Bid{
		ID:               id,
		VehicleID:        types.ID(fields["vehicle_id"]),
		UserID:           types.ID(fields["user_id"]),
		Price:            price,
		PriceType:        fields["price_type"],
		PriceDescription: fields["price_description"],
		TimeToPickup:     toPickup,
		TimeToDropoff:    toDropoff,
		ExpiresAt:        time.UnixMilli(expiresMs),
		NeedID:           types.ID(fields["need_id"]),
	}, nil
}
