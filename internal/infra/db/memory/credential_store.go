package memory

import (
	"context"
	"sync"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/repository"
)

var _ repository.CredentialStore = (*CredentialStore)(nil)

// CredentialStore is an in-process credential table, seeded at startup.
type CredentialStore struct {
	mu     sync.RWMutex
	byName map[string]*model.Credential // by username
}

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{byName: make(map[string]*model.Credential)}
}

// Add registers a credential record, replacing any with the same username.
func (s *CredentialStore) Add(cred model.Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cred
	s.byName[cred.Username] = &cp
}

func (s *CredentialStore) FindByUsername(_ context.Context, username string) (*model.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *cred
	return &cp, nil
}
