package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/adapter"
	"tiered-subscription-service/internal/domain/ports/repository"
	"tiered-subscription-service/internal/infra/metrics"
	"tiered-subscription-service/internal/infra/security"
)

// AuthUseCase authenticates credential pairs and issues bearer tokens.
// Verification is pure computation and safe for any number of concurrent
// callers.
type AuthUseCase struct {
	creds  repository.CredentialStore
	tokens adapter.TokenCodec
	log    *zerolog.Logger
}

func NewAuthUseCase(creds repository.CredentialStore, tokens adapter.TokenCodec, logger *zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{creds: creds, tokens: tokens, log: logger}
}

// Authenticate checks the credential pair and issues a signed, time-bounded
// token. Unknown user and wrong password both cost one bcrypt comparison
// and both surface as domain.ErrInvalidCredentials, so response timing does
// not reveal which one happened.
func (uc *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*model.AccessToken, error) {
	cred, err := uc.creds.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		security.BurnCompare(password)
		metrics.IncLogin("rejected")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := security.ComparePassword(cred.PasswordHash, password); err != nil {
		metrics.IncLogin("rejected")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := uc.tokens.Issue(cred.UserID)
	if err != nil {
		return nil, err
	}

	metrics.IncLogin("ok")
	uc.log.Info().Str("user_id", cred.UserID).Msg("token issued")
	return &model.AccessToken{
		Token:     token,
		Subject:   cred.UserID,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt,
	}, nil
}

// Verify checks signature and expiry and returns the stable user id.
// No side effects; fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
func (uc *AuthUseCase) Verify(_ context.Context, token string) (string, error) {
	return uc.tokens.Verify(token)
}
