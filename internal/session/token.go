package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "quizflash"

// ErrInvalidToken is returned by Signer.Parse for any token that fails verification.
var ErrInvalidToken = errors.New("invalid session token")

// Signer issues and verifies the HS256 token stored in the session cookie.
// The token carries only the session id; quiz state stays server-side.
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner creates a Signer using secret as the HMAC key.
func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// Issue signs a token naming sessionID.
func (s *Signer) Issue(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns the session id it names.
func (s *Signer) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		return "", fmt.Errorf("%w: malformed session id", ErrInvalidToken)
	}
	return claims.ID, nil
}
