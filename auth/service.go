package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rafacorp/recipes"
)

const defaultTTL = 24 * time.Hour

// Claims are the JWT claims minted into every token the service issues.
type Claims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// Service mints and verifies tokens with a single HMAC key.
type Service struct {
	key    []byte
	parser *jwt.Parser
	ttl    time.Duration
}

// NewService constructs a *Service signing with jwtKey.
// A non-positive ttl falls back to the default of 24 hours.
func NewService(jwtKey string, ttl time.Duration) (*Service, error) {
	if jwtKey == "" {
		return nil, fmt.Errorf(`%w: jwt key cannot be ""`, recipes.ErrBadConfig)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}

	return &Service{
		key:    []byte(jwtKey),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
		ttl:    ttl,
	}, nil
}

// IssueToken mints a signed token identifying userID.
func (s *Service) IssueToken(userID uint) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("%w: failed signing token: %s", recipes.ErrUnexpected, err)
	}

	return signed, nil
}

// VerifyToken decodes claims from the provided token string.
//
// An empty, malformed, forged or expired token fails with ErrNotValid;
// the reason is not differentiated for the caller.
func (s *Service) VerifyToken(token string) (*Claims, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no token set", recipes.ErrNotValid)
	}

	claims := new(Claims)
	parsed, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", recipes.ErrNotValid, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.UserID == 0 {
		return nil, fmt.Errorf("%w: token carries no user", recipes.ErrNotValid)
	}

	return claims, nil
}
