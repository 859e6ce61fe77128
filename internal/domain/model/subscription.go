package model

import (
	"time"

	"github.com/oklog/ulid/v2"

	"tiered-subscription-service/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a single user's subscription record. Records are never
// deleted; cancellation is a terminal status change and the record stays
// around for audit.
type Subscription struct {
	ID        string
	UserID    string
	TierName  string
	Status    SubscriptionStatus
	CreatedAt time.Time
}

// NewSubscription creates an active subscription with a fresh ULID.
// ULIDs are unique under concurrent creation and sort by creation time,
// which makes them a stable record id (a timestamp-suffixed user id is
// not collision-free).
func NewSubscription(userID, tierName string) (*Subscription, error) {
	if userID == "" || tierName == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:        ulid.Make().String(),
		UserID:    userID,
		TierName:  tierName,
		Status:    SubscriptionStatusActive,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (s *Subscription) IsZero() bool { return s == nil || s.ID == "" }

// IsActive reports whether the record is in the active state.
func (s *Subscription) IsActive() bool {
	return s != nil && s.Status == SubscriptionStatusActive
}
