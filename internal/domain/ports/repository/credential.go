package repository

import (
	"context"

	"tiered-subscription-service/internal/domain/model"
)

// CredentialStore resolves usernames to stored credential records.
// Pure read from this core's point of view; registration and hashing
// scheme belong to the surrounding service.
type CredentialStore interface {
	// FindByUsername returns the credential or domain.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*model.Credential, error)
}
