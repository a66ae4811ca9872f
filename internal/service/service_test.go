package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/repo/memory"
	"github.com/geocoder89/electionhub/internal/security"
	"github.com/stretchr/testify/require"
)

var cheapHash = security.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

type settableClock struct {
	now time.Time
}

func (c *settableClock) Now() time.Time { return c.now }

type fixture struct {
	clock      *settableClock
	tokens     *auth.Manager
	users      *memory.UsersRepo
	elections  *memory.ElectionsRepo
	candidates *memory.CandidatesRepo
	people     *memory.PoliticiansRepo

	auth      *AuthService
	election  *ElectionService
	directory *DirectoryService
}

func newFixture(t *testing.T, opts ...AuthOption) *fixture {
	t.Helper()

	c := &settableClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewManager("test-secret-key", "HS256", time.Hour, c)
	require.NoError(t, err)

	f := &fixture{
		clock:      c,
		tokens:     tokens,
		users:      memory.NewUsersRepo(),
		elections:  memory.NewElectionsRepo(),
		candidates: memory.NewCandidatesRepo(),
		people:     memory.NewPoliticiansRepo(),
	}

	opts = append([]AuthOption{WithHashParams(cheapHash)}, opts...)

	f.auth = NewAuthService(f.users, tokens, auth.NewGate(tokens), c, log, opts...)
	f.directory = NewDirectoryService(f.candidates, f.people, c, log)
	f.election = NewElectionService(f.elections, f.candidates, f.directory, c)

	return f
}

// claimsFor logs an existing account in and returns its verified claims.
func (f *fixture) claimsFor(t *testing.T, email, password string) *auth.Claims {
	t.Helper()

	res, err := f.auth.Login(context.Background(), email, password)
	require.NoError(t, err)

	claims, err := f.auth.WhoAmI(res.Token)
	require.NoError(t, err)
	return claims
}

func (f *fixture) admin(t *testing.T) *auth.Claims {
	t.Helper()

	_, err := f.auth.Register(context.Background(), "admin@x.com", "adminpw", "admin")
	require.NoError(t, err)
	return f.claimsFor(t, "admin@x.com", "adminpw")
}

func (f *fixture) voter(t *testing.T) *auth.Claims {
	t.Helper()

	_, err := f.auth.Register(context.Background(), "voter@x.com", "voterpw", "voter")
	require.NoError(t, err)
	return f.claimsFor(t, "voter@x.com", "voterpw")
}

func (f *fixture) nowSeconds() float64 {
	return clock.Seconds(f.clock.now)
}
