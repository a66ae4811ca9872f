package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, malformed tokens and expiry alike.
var ErrInvalidToken = errors.New("invalid token")

// Identity is the caller-supplied part of the claim set.
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

type Claims struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

type Manager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	clock  clock.Clock
}

func NewManager(secret string, algorithm string, ttl time.Duration, c clock.Clock) (*Manager, error) {
	method := jwt.GetSigningMethod(algorithm)

	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	if secret == "" {
		return nil, errors.New("signing secret is required")
	}

	if c == nil {
		c = clock.System()
	}

	return &Manager{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		clock:  c,
	}, nil
}

// Issue signs {user_id, email, role, iat, exp}. NumericDate has second
// precision, so now is truncated first to keep exp - iat == ttl exactly.
func (m *Manager) Issue(id Identity) (string, error) {
	now := m.clock.Now().UTC().Truncate(time.Second)

	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	return token.SignedString(m.secret)
}

// Verify accepts a token while now <= exp. Time checks are done here against
// the injected clock instead of inside the jwt parser.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, ErrInvalidToken
	}

	if claims.UserID == "" || claims.Role == "" {
		return nil, ErrInvalidToken
	}

	if m.clock.Now().After(claims.ExpiresAt.Time) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
