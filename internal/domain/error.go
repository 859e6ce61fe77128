package domain

import "errors"

var (
	// Credential and token outcomes
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")

	// Tier catalog
	ErrTierNotFound = errors.New("tier not found")

	// Subscription state machine
	ErrDuplicateActiveSubscription = errors.New("user already has an active subscription")
	ErrSubscriptionNotFound        = errors.New("subscription not found")
	ErrAlreadyCancelled            = errors.New("subscription already cancelled")
	ErrInvalidUpgrade              = errors.New("upgrade must target a strictly higher tier")

	// Billing integration outcomes. These wrap the gateway error so callers
	// can unwrap the cause while still matching the kind with errors.Is.
	ErrSubscriptionCreationFailed = errors.New("subscription creation failed")
	ErrCancellationFailed         = errors.New("subscription cancellation failed")
	ErrUpgradeFailed              = errors.New("tier upgrade failed")

	// Entitlement outcomes
	ErrNotSubscribed      = errors.New("user has no active subscription")
	ErrFeatureUnavailable = errors.New("feature not available for tier")

	// Infrastructure
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
