package service

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

const defaultTokenTTL = 24 * time.Hour

// TokenClaims is the validated content of a bearer token: the stable numeric
// id and email the token was issued to.
type TokenClaims struct {
	ID    int64
	Email string
}

// TokenService mints and validates signed, expiring bearer tokens. It is
// stateless and safe for concurrent use; the signing secret is fixed at
// construction and never rotated at runtime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints an HS256-signed token binding the identity's id and email.
func (s *TokenService) Issue(email string, id int64) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(id, 10),
		"email": email,
		"exp":   time.Now().Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Validate verifies signature and expiry and returns the embedded claims.
// It fails closed: any parse error, signature mismatch, expired token, or
// missing claim yields domain.ErrInvalidToken, never partial claims.
func (s *TokenService) Validate(raw string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, domain.ErrInvalidToken
	}

	return &TokenClaims{ID: id, Email: email}, nil
}
