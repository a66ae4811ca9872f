package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/domain/user"
	"github.com/geocoder89/electionhub/internal/security"
	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, u user.User) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// LoginObserver receives one of "success", "invalid_credentials" or "error"
// per login attempt.
type LoginObserver func(result string)

type LoginResult struct {
	Token string
	Role  user.Role
}

type AuthService struct {
	users      UserStore
	tokens     TokenIssuer
	gate       *auth.Gate
	clock      clock.Clock
	log        *slog.Logger
	hashParams security.Params
	observe    LoginObserver

	dummyOnce sync.Once
	dummyHash string
}

type AuthOption func(*AuthService)

func WithHashParams(p security.Params) AuthOption {
	return func(s *AuthService) { s.hashParams = p }
}

func WithLoginObserver(fn LoginObserver) AuthOption {
	return func(s *AuthService) { s.observe = fn }
}

func NewAuthService(users UserStore, tokens TokenIssuer, gate *auth.Gate, c clock.Clock, log *slog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		gate:       gate,
		clock:      c,
		log:        log,
		hashParams: security.DefaultParams,
		observe:    func(string) {},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *AuthService) Register(ctx context.Context, email, password, role string) (user.User, error) {
	r, err := user.ParseRole(role)
	if err != nil {
		return user.User{}, err
	}

	hash, err := security.HashPasswordWithParams(password, s.hashParams)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := user.User{
		ID:           uuid.NewString(),
		Email:        user.NormalizeEmail(email),
		PasswordHash: hash,
		Role:         r,
		CreatedAt:    s.clock.Now().UTC(),
	}

	// uniqueness is enforced by the store, not by a prior lookup
	if err := s.users.Create(ctx, u); err != nil {
		return user.User{}, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)

	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same work as a real check so response time does not reveal
			// whether the email exists
			_, _ = security.VerifyPassword(password, s.dummy())
			s.observe("invalid_credentials")
			return LoginResult{}, ErrInvalidCredentials
		}

		s.observe("error")
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, u.PasswordHash)

	if err != nil {
		s.log.ErrorContext(ctx, "stored credential unreadable", "user_id", u.ID, "err", err)
		s.observe("error")
		return LoginResult{}, fmt.Errorf("verify credentials for user %s: %w", u.ID, err)
	}

	if !ok {
		s.observe("invalid_credentials")
		return LoginResult{}, ErrInvalidCredentials
	}

	s.upgradeHash(ctx, u, password)

	token, err := s.tokens.Issue(auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})

	if err != nil {
		s.observe("error")
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.observe("success")

	return LoginResult{Token: token, Role: u.Role}, nil
}

// upgradeHash re-encodes a verified password when the stored hash is bcrypt or
// uses other argon2id costs. Failures are logged and never block the login.
func (s *AuthService) upgradeHash(ctx context.Context, u user.User, password string) {
	if !security.NeedsRehash(u.PasswordHash, s.hashParams) {
		return
	}

	hash, err := security.HashPasswordWithParams(password, s.hashParams)
	if err != nil {
		s.log.WarnContext(ctx, "rehash password failed", "user_id", u.ID, "err", err)
		return
	}

	if err := s.users.UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		s.log.WarnContext(ctx, "store upgraded password hash failed", "user_id", u.ID, "err", err)
		return
	}

	s.log.InfoContext(ctx, "password hash upgraded", "user_id", u.ID)
}

func (s *AuthService) WhoAmI(token string) (*auth.Claims, error) {
	return s.gate.Authenticate(token)
}

// SeedAdmin creates an admin account when one with that email does not exist.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	_, err := s.users.GetByEmail(ctx, user.NormalizeEmail(email))

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	_, err = s.Register(ctx, email, password, string(user.RoleAdmin))

	if errors.Is(err, user.ErrEmailTaken) {
		return nil
	}

	return err
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := security.HashPasswordWithParams(uuid.NewString(), s.hashParams)
		if err == nil {
			s.dummyHash = h
		}
	})

	return s.dummyHash
}
