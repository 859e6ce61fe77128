package adapter

import "time"

// TokenCodec signs and verifies bearer tokens. Claims carry at minimum
// the subject (stable user id) and an expiry.
type TokenCodec interface {
	// Issue signs a token for subject and returns it with its expiry.
	Issue(subject string) (token string, expiresAt time.Time, err error)
	// Verify checks signature and expiry and returns the subject.
	// Fails with domain.ErrTokenExpired or domain.ErrTokenInvalid.
	Verify(token string) (subject string, err error)
}
