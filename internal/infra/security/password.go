package security

import "golang.org/x/crypto/bcrypt"

// bcrypt hash of an arbitrary string. Compared against when a username
// does not resolve, so the rejection path costs one bcrypt comparison
// whether the user exists or not.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns the bcrypt hash of a raw password.
func HashPassword(raw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ComparePassword checks raw against a stored bcrypt hash.
func ComparePassword(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}

// BurnCompare performs a comparison against the dummy hash and discards
// the result.
func BurnCompare(raw string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(raw))
}
