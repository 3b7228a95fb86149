// README: Vehicle registry backed by Redis hashes and a GEO position index.
package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"skyhail/internal/types"
)

const (
	positionGeoKey   = "vehicle_positions"
	vehicleKeyPrefix = "vehicles:%s"
)

var ErrNotFound = errors.New("vehicle not found")

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	fields, err := s.redis.HGetAll(ctx, vehicleKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}
	return fromHash(id, fields)
}

// GetMany returns the vehicles that exist for the given ids; missing ids
// are skipped, not errors.
func (s *Store) GetMany(ctx context.Context, ids []types.ID) ([]Vehicle, error) {
	vehicles := make([]Vehicle, 0, len(ids))
	for _, id := range ids {
		v, err := s.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, nil
}

func (s *Store) Add(ctx context.Context, v Vehicle) error {
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, vehicleKey(v.ID),
		"model", v.Model,
		"icon", v.Icon,
		"lat", strconv.FormatFloat(v.Coords.Lat, 'f', -1, 64),
		"long", strconv.FormatFloat(v.Coords.Long, 'f', -1, 64),
		"missions_completed", v.MissionsCompleted,
		"missions_completed_7_days", v.MissionsCompleted7Days,
		"status", string(v.Status),
	)
	pipe.GeoAdd(ctx, positionGeoKey, &redis.GeoLocation{
		Name:      string(v.ID),
		Longitude: v.Coords.Long,
		Latitude:  v.Coords.Lat,
	})
	_, err := pipe.Exec(ctx)
	return err
}

// UpdatePosition rewrites the vehicle's coordinates in place and refreshes
// the GEO index entry.
func (s *Store) UpdatePosition(ctx context.Context, id types.ID, p types.Point) error {
	pipe := s.redis.TxPipeline()
	pipe.HSet(ctx, vehicleKey(id),
		"lat", strconv.FormatFloat(p.Lat, 'f', -1, 64),
		"long", strconv.FormatFloat(p.Long, 'f', -1, 64),
	)
	pipe.GeoAdd(ctx, positionGeoKey, &redis.GeoLocation{
		Name:      string(id),
		Longitude: p.Long,
		Latitude:  p.Lat,
	})
	_, err := pipe.Exec(ctx)
	return err
}

// InRadius returns the ids of vehicles within radiusMeters of center,
// nearest first.
func (s *Store) InRadius(ctx context.Context, center types.Point, radiusMeters float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, positionGeoKey, &redis.GeoSearchQuery{
		Longitude:  center.Long,
		Latitude:   center.Lat,
		Radius:     radiusMeters,
		RadiusUnit: "m",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}

func vehicleKey(id types.ID) string {
	return fmt.Sprintf(vehicleKeyPrefix, string(id))
}

func fromHash(id types.ID, fields map[string]string) (*Vehicle, error) {
	lat, err := strconv.ParseFloat(fields["lat"], 64)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: bad lat %q", id, fields["lat"])
	}
	long, err := strconv.ParseFloat(fields["long"], 64)
	if err != nil {
		return nil, fmt.Errorf("vehicle %s: bad long %q", id, fields["long"])
	}
	missions, _ := strconv.Atoi(fields["missions_completed"])
	missions7, _ := strconv.Atoi(fields["missions_completed_7_days"])
	return &Vehicle{
		ID:                     id,
		Model:                  fields["model"],
		Icon:                   fields["icon"],
		Coords:                 types.Point{Lat: lat, Long: long},
		MissionsCompleted:      missions,
		MissionsCompleted7Days: missions7,
		Status:                 Status(fields["status"]),
	}, nil
}
