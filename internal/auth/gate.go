package auth

import (
	"errors"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("admin access required")
)

// TokenVerifier is kept small so tests can fake it.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate is the single entry point protected operations use to obtain identity.
type Gate struct {
	tokens TokenVerifier
}

func NewGate(tokens TokenVerifier) *Gate {
	return &Gate{tokens: tokens}
}

func (g *Gate) Authenticate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	return claims, nil
}

// RequireAuth rejects a missing identity.
func RequireAuth(claims *Claims) (*Claims, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// RequireAdmin checks authentication before authorization so an anonymous
// caller always sees ErrUnauthenticated, never ErrForbidden.
func RequireAdmin(claims *Claims) (*Claims, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}

	if !claims.Role.IsAdmin() {
		return nil, ErrForbidden
	}

	return claims, nil
}
