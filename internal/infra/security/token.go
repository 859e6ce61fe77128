package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/ports/adapter"
)

var _ adapter.TokenCodec = (*TokenMaker)(nil)

// TokenMaker signs and verifies HMAC JWTs carrying `sub` and `exp`.
type TokenMaker struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenMaker builds a codec for the configured key and algorithm.
// Supported algorithms: HS256 (default), HS384, HS512. A zero ttl falls
// back to 30 minutes.
func NewTokenMaker(secret, algorithm string, ttl time.Duration) (*TokenMaker, error) {
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	var method jwt.SigningMethod
	switch strings.ToUpper(algorithm) {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl == 0 {
		ttl = 30 * time.Minute
	}
	return &TokenMaker{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// Issue signs a token for subject, expiring ttl from now.
func (m *TokenMaker) Issue(subject string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
func (m *TokenMaker) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.Subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return claims.Subject, nil
}
