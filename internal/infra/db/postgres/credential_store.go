package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

// CredentialStore reads login records from Postgres.
type CredentialStore struct {
	pool *pgxpool.Pool
}

func NewCredentialStore(pool *pgxpool.Pool) *CredentialStore {
	return &CredentialStore{pool: pool}
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*model.Credential, error) {
	const q = `
SELECT user_id, username, password_hash
  FROM credentials
 WHERE username=$1;`
	var cred model.Credential
	err := s.pool.QueryRow(ctx, q, username).Scan(&cred.UserID, &cred.Username, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &cred, nil
}

// SaveCredential inserts or replaces a login record. Used by the seed tool;
// the engine itself never writes credentials.
func (s *CredentialStore) SaveCredential(ctx context.Context, cred model.Credential) error {
	const q = `
INSERT INTO credentials (user_id, username, password_hash)
VALUES ($1,$2,$3)
ON CONFLICT (user_id) DO UPDATE SET username=$2, password_hash=$3;`
	_, err := s.pool.Exec(ctx, q, cred.UserID, cred.Username, cred.PasswordHash)
	return err
}
