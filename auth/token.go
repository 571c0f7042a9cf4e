package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL applies when neither the config nor the caller sets a lifetime.
const DefaultTokenTTL = 60 * time.Minute

var ErrInvalidToken = errors.New("invalid token")

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// TokenClaims is the identity carried by an access token.
type TokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and checks stateless HS256 access tokens. Tokens cannot
// be revoked; they stay valid until they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// Issue signs email and role with an expiry of now+ttl. A ttl of zero or less
// uses the configured lifetime.
func (s *TokenService) Issue(email, role string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	exp := s.now().Add(ttl)
	claims := TokenClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}

// Validate checks signature, algorithm and expiry. It does not look up the
// account the claims name.
func (s *TokenService) Validate(tokenStr string) (*TokenClaims, error) {
	// expiry is checked below against s.now so the clock stays injectable
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &TokenClaims{}
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
