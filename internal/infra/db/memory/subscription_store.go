package memory

import (
	"context"
	"sync"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/repository"
)

var _ repository.SubscriptionStore = (*SubscriptionStore)(nil)

// SubscriptionStore is the default in-process store. A single RWMutex
// guards the maps, so every write is atomic from a reader's perspective
// and reads always see the latest committed record. Defensive copies in
// and out keep callers from mutating stored state.
type SubscriptionStore struct {
	mu           sync.RWMutex
	subs         map[string]*model.Subscription // by subscription id
	activeByUser map[string]string              // user id -> active subscription id
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{
		subs:         make(map[string]*model.Subscription),
		activeByUser: make(map[string]string),
	}
}

func (s *SubscriptionStore) Save(_ context.Context, sub *model.Subscription) error {
	if sub.IsZero() {
		return domain.ErrInvalidArgument
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sub
	s.subs[cp.ID] = &cp
	switch cp.Status {
	case model.SubscriptionStatusActive:
		s.activeByUser[cp.UserID] = cp.ID
	default:
		if s.activeByUser[cp.UserID] == cp.ID {
			delete(s.activeByUser, cp.UserID)
		}
	}
	return nil
}

func (s *SubscriptionStore) FindByID(_ context.Context, id string) (*model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (s *SubscriptionStore) FindActiveByUser(_ context.Context, userID string) (*model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.activeByUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s.subs[id]
	return &cp, nil
}

func (s *SubscriptionStore) ListActive(_ context.Context) ([]*model.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(s.activeByUser))
	for _, id := range s.activeByUser {
		cp := *s.subs[id]
		out = append(out, &cp)
	}
	return out, nil
}
