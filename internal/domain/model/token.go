package model

import "time"

// AccessToken is an issued bearer token. Immutable once issued;
// verification is pure apart from the expiry check against the clock.
type AccessToken struct {
	Token     string
	Subject   string // stable user id
	IssuedAt  time.Time
	ExpiresAt time.Time
}
