package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/repository"
)

var _ repository.SubscriptionStore = (*SubscriptionStore)(nil)

// SubscriptionStore persists subscription records in Postgres. Single-row
// statements keep each write atomic; the partial unique index on active
// rows (see EnsureSchema) enforces at-most-one-active-per-user at the
// storage layer as well.
type SubscriptionStore struct {
	pool *pgxpool.Pool
}

func NewSubscriptionStore(pool *pgxpool.Pool) *SubscriptionStore {
	return &SubscriptionStore{pool: pool}
}

func (s *SubscriptionStore) Save(ctx context.Context, sub *model.Subscription) error {
	const q = `
INSERT INTO subscriptions (id, user_id, tier_name, status, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET tier_name=$3, status=$4;`

	_, err := s.pool.Exec(ctx, q, sub.ID, sub.UserID, sub.TierName, sub.Status, sub.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateActiveSubscription
		}
		return err
	}
	return nil
}

func (s *SubscriptionStore) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	const q = `
SELECT id, user_id, tier_name, status, created_at
  FROM subscriptions
 WHERE id=$1;`
	return s.scanOne(s.pool.QueryRow(ctx, q, id))
}

func (s *SubscriptionStore) FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	const q = `
SELECT id, user_id, tier_name, status, created_at
  FROM subscriptions
 WHERE user_id=$1 AND status='active'
 LIMIT 1;`
	return s.scanOne(s.pool.QueryRow(ctx, q, userID))
}

func (s *SubscriptionStore) ListActive(ctx context.Context) ([]*model.Subscription, error) {
	const q = `
SELECT id, user_id, tier_name, status, created_at
  FROM subscriptions
 WHERE status='active'
 ORDER BY created_at ASC;`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		var sub model.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.TierName, &sub.Status, &sub.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SubscriptionStore) scanOne(row pgx.Row) (*model.Subscription, error) {
	var sub model.Subscription
	if err := row.Scan(&sub.ID, &sub.UserID, &sub.TierName, &sub.Status, &sub.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}
