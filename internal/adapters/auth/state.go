package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"wellnesscal/internal/domain"
)

// DefaultStateTTL bounds how long an authorization URL stays usable.
const DefaultStateTTL = 15 * time.Minute

type stateClaims struct {
	jwt.RegisteredClaims
	Provider string `json:"provider"`
}

type jwtStateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner returns a StateSigner that encodes the user and provider
// in an HS256 JWT used as the OAuth state parameter.
func NewStateSigner(secret string, ttl time.Duration) domain.StateSigner {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &jwtStateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *jwtStateSigner) Sign(userID, provider string) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("oauth state secret is not configured")
	}
	now := s.now()
	claims := stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Provider: provider,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	state, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return state, nil
}
