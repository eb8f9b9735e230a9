package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

const (
	// DefaultSessionTTL is the lifetime of a session token.
	DefaultSessionTTL = time.Hour

	tokenIssuer = "patrolpeak"
)

// SessionClaims is what a valid session token asserts.
type SessionClaims struct {
	UserID    string
	Version   int
	ExpiresAt time.Time
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Version int `json:"ver"`
}

// SessionTokens issues and validates HS256-signed session tokens.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL returns the lifetime given to new tokens.
func (s *SessionTokens) TTL() time.Duration { return s.ttl }

// Issue signs a token binding userID and the user's current session version.
func (s *SessionTokens) Issue(userID string, version int) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Version: version,
	})

	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

// Validate checks signature and expiry and returns the claims of token.
// A correctly signed but stale token yields domain.ErrExpiredToken; every other
// failure yields domain.ErrInvalidToken.
func (s *SessionTokens) Validate(token string) (SessionClaims, error) {
	if token == "" {
		return SessionClaims{}, domain.ErrMissingToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// Claims are only validated after the signature checks out, so an
		// expiry error implies an authentic token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return SessionClaims{}, domain.ErrExpiredToken
		}
		return SessionClaims{}, domain.ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return SessionClaims{}, domain.ErrInvalidToken
	}

	return SessionClaims{
		UserID:    claims.Subject,
		Version:   claims.Version,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
