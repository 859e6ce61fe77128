//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/adapter"
	"tiered-subscription-service/internal/domain/ports/repository"
	"tiered-subscription-service/internal/usecase"
)

// =============================
// Stores
// =============================

// MockSubscriptionStore is an in-memory store for unit tests. Individual
// methods can be overridden per test via the *Func fields.
type MockSubscriptionStore struct {
	mu           sync.RWMutex
	subs         map[string]*model.Subscription
	activeByUser map[string]string

	SaveFunc             func(ctx context.Context, sub *model.Subscription) error
	FindByIDFunc         func(ctx context.Context, id string) (*model.Subscription, error)
	FindActiveByUserFunc func(ctx context.Context, userID string) (*model.Subscription, error)
	ListActiveFunc       func(ctx context.Context) ([]*model.Subscription, error)
}

var _ repository.SubscriptionStore = (*MockSubscriptionStore)(nil)

func NewMockSubscriptionStore() *MockSubscriptionStore {
	return &MockSubscriptionStore{
		subs:         make(map[string]*model.Subscription),
		activeByUser: make(map[string]string),
	}
}

func (m *MockSubscriptionStore) Save(ctx context.Context, sub *model.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sub)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	m.subs[cp.ID] = &cp
	if cp.Status == model.SubscriptionStatusActive {
		m.activeByUser[cp.UserID] = cp.ID
	} else if m.activeByUser[cp.UserID] == cp.ID {
		delete(m.activeByUser, cp.UserID)
	}
	return nil
}

func (m *MockSubscriptionStore) FindByID(ctx context.Context, id string) (*model.Subscription, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MockSubscriptionStore) FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.FindActiveByUserFunc != nil {
		return m.FindActiveByUserFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.activeByUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m.subs[id]
	return &cp, nil
}

func (m *MockSubscriptionStore) ListActive(ctx context.Context) ([]*model.Subscription, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Subscription, 0, len(m.activeByUser))
	for _, id := range m.activeByUser {
		cp := *m.subs[id]
		out = append(out, &cp)
	}
	return out, nil
}

// MockCredentialStore holds test credentials keyed by username.
type MockCredentialStore struct {
	mu    sync.RWMutex
	creds map[string]*model.Credential

	FindByUsernameFunc func(ctx context.Context, username string) (*model.Credential, error)
}

var _ repository.CredentialStore = (*MockCredentialStore)(nil)

func NewMockCredentialStore() *MockCredentialStore {
	return &MockCredentialStore{creds: make(map[string]*model.Credential)}
}

func (m *MockCredentialStore) Add(cred model.Credential) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cred
	m.creds[cred.Username] = &cp
}

func (m *MockCredentialStore) FindByUsername(ctx context.Context, username string) (*model.Credential, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.creds[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// =============================
// Adapters
// =============================

// MockBillingGateway records every call and succeeds unless a *Func field
// injects a failure.
type MockBillingGateway struct {
	mu       sync.Mutex
	Payments []string // "userID/tierName"
	Cancels  []string // subscription ids
	Upgrades []string // "id/newTier"

	ProcessPaymentFunc     func(ctx context.Context, userID, tierName string) error
	CancelSubscriptionFunc func(ctx context.Context, subscriptionID string) error
	UpgradePlanFunc        func(ctx context.Context, subscriptionID, newTierName string) error
}

var _ adapter.BillingGateway = (*MockBillingGateway)(nil)

func NewMockBillingGateway() *MockBillingGateway { return &MockBillingGateway{} }

func (m *MockBillingGateway) Name() string { return "mock" }

func (m *MockBillingGateway) ProcessPayment(ctx context.Context, userID, tierName string) error {
	if m.ProcessPaymentFunc != nil {
		if err := m.ProcessPaymentFunc(ctx, userID, tierName); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payments = append(m.Payments, userID+"/"+tierName)
	return nil
}

func (m *MockBillingGateway) CancelSubscription(ctx context.Context, subscriptionID string) error {
	if m.CancelSubscriptionFunc != nil {
		if err := m.CancelSubscriptionFunc(ctx, subscriptionID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancels = append(m.Cancels, subscriptionID)
	return nil
}

func (m *MockBillingGateway) UpgradePlan(ctx context.Context, subscriptionID, newTierName string) error {
	if m.UpgradePlanFunc != nil {
		if err := m.UpgradePlanFunc(ctx, subscriptionID, newTierName); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upgrades = append(m.Upgrades, subscriptionID+"/"+newTierName)
	return nil
}

func (m *MockBillingGateway) PaymentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Payments)
}

// MockTokenCodec issues predictable tokens of the form "tok:<subject>".
type MockTokenCodec struct {
	IssueFunc  func(subject string) (string, time.Time, error)
	VerifyFunc func(token string) (string, error)
}

var _ adapter.TokenCodec = (*MockTokenCodec)(nil)

func (m *MockTokenCodec) Issue(subject string) (string, time.Time, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(subject)
	}
	return "tok:" + subject, time.Now().Add(30 * time.Minute), nil
}

func (m *MockTokenCodec) Verify(token string) (string, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(token)
	}
	if len(token) > 4 && token[:4] == "tok:" {
		return token[4:], nil
	}
	return "", domain.ErrTokenInvalid
}

// MockStatsCache is a single-slot snapshot cache.
type MockStatsCache struct {
	mu      sync.Mutex
	stored  *usecase.UsageStats
	GetFunc func(ctx context.Context) (*usecase.UsageStats, error)
	SetFunc func(ctx context.Context, stats *usecase.UsageStats) error

	Gets int
	Sets int
}

var _ usecase.StatsCache = (*MockStatsCache)(nil)

func (m *MockStatsCache) Get(ctx context.Context) (*usecase.UsageStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return m.stored, nil
}

func (m *MockStatsCache) Set(ctx context.Context, stats *usecase.UsageStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	if m.SetFunc != nil {
		return m.SetFunc(ctx, stats)
	}
	m.stored = stats
	return nil
}

// =============================
// Helpers
// =============================

// newTestCatalog builds the three-tier catalog the unit tests share:
// basic < pro < enterprise.
func newTestCatalog() *model.TierCatalog {
	basic, _ := model.NewTier("basic", 1, []string{"chat"})
	pro, _ := model.NewTier("pro", 2, []string{"chat", "export"})
	ent, _ := model.NewTier("enterprise", 3, []string{"chat", "export", "audit"})
	catalog, err := model.NewTierCatalog([]model.Tier{basic, pro, ent})
	if err != nil {
		panic(err)
	}
	return catalog
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
