package service

import "golang.org/x/crypto/bcrypt"

// dummyHash is a valid bcrypt hash compared against when login hits an
// unknown email, so that "no such account" and "wrong password" take the
// same time. The comparison result is always discarded.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns a salted bcrypt hash of plaintext. Each call produces
// a fresh hash even for identical input.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash. A
// malformed hash is treated as a mismatch, never an error.
func VerifyPassword(plaintext, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(plaintext)) == nil
}

// burnPasswordCheck performs a bcrypt comparison against dummyHash to keep
// the unknown-email path timing-equivalent to a real password check.
func burnPasswordCheck(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
