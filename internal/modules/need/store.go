// README: Need store backed by PostgreSQL.
package need

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skyhail/internal/types"
)

var ErrNotFound = errors.New("need not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Need, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, pickup_lat, pickup_long, dropoff_lat, dropoff_long, user_id, created_at
        FROM needs
        WHERE id = $1`, string(id),
	)

	var n Need
	err := row.Scan(
		&n.ID,
		&n.Pickup.Lat, &n.Pickup.Long,
		&n.Dropoff.Lat, &n.Dropoff.Long,
		&n.UserID,
		&n.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) Create(ctx context.Context, n *Need) error {
	if n.ID == "" {
		n.ID = types.ID(uuid.NewString())
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(ctx, `
        INSERT INTO needs (id, pickup_lat, pickup_long, dropoff_lat, dropoff_long, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(n.ID),
		n.Pickup.Lat, n.Pickup.Long,
		n.Dropoff.Lat, n.Dropoff.Long,
		string(n.UserID),
		n.CreatedAt,
	)
	return err
}
