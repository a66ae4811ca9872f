// Package app wires configuration, stores and services into the HTTP router.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/geocoder89/electionhub/internal/auth"
	"github.com/geocoder89/electionhub/internal/clock"
	"github.com/geocoder89/electionhub/internal/config"
	httpx "github.com/geocoder89/electionhub/internal/http"
	"github.com/geocoder89/electionhub/internal/http/handlers"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/geocoder89/electionhub/internal/ratelimit"
	"github.com/geocoder89/electionhub/internal/security"
	"github.com/geocoder89/electionhub/internal/service"
	"github.com/gin-gonic/gin"
)

const serviceName = "electionhub-api"

type Stores struct {
	Users       service.UserStore
	Elections   service.ElectionStore
	Candidates  service.CandidateStore
	Politicians service.PoliticianStore
}

// Options carries the collaborators that differ between main and tests.
// Zero values fall back to the system clock, the default logger, an in-memory
// login counter and production hash parameters.
type Options struct {
	Clock        clock.Clock
	Log          *slog.Logger
	Prom         *observability.Prom
	Metrics      http.Handler
	LoginCounter ratelimit.Counter
	Pings        map[string]handlers.PingFunc
	HashParams   *security.Params
	Tracing      bool
}

type App struct {
	Tokens    *auth.Manager
	Auth      *service.AuthService
	Elections *service.ElectionService
	Directory *service.DirectoryService
	Router    *gin.Engine
}

func New(cfg config.Config, stores Stores, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}
	if opts.LoginCounter == nil {
		opts.LoginCounter = ratelimit.NewMemoryCounter(opts.Clock)
	}

	tokens, err := auth.NewManager(cfg.SigningSecret(), cfg.JWTAlgorithm, cfg.AccessTTL(), opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	gate := auth.NewGate(tokens)

	authOpts := []service.AuthOption{}
	if opts.HashParams != nil {
		authOpts = append(authOpts, service.WithHashParams(*opts.HashParams))
	}
	if opts.Prom != nil {
		authOpts = append(authOpts, service.WithLoginObserver(opts.Prom.ObserveLogin))
	}

	authSvc := service.NewAuthService(stores.Users, tokens, gate, opts.Clock, opts.Log, authOpts...)
	directory := service.NewDirectoryService(stores.Candidates, stores.Politicians, opts.Clock, opts.Log)
	elections := service.NewElectionService(stores.Elections, stores.Candidates, directory, opts.Clock)

	deps := httpx.Deps{
		Env:             cfg.Env,
		CORSOrigins:     cfg.CORSOrigins,
		Gate:            gate,
		Auth:            authSvc,
		Elections:       elections,
		Directory:       directory,
		LoginCounter:    opts.LoginCounter,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow(),
		Prom:            opts.Prom,
		Metrics:         opts.Metrics,
		Pings:           opts.Pings,
	}
	if opts.Tracing {
		deps.ServiceName = serviceName
	}

	return &App{
		Tokens:    tokens,
		Auth:      authSvc,
		Elections: elections,
		Directory: directory,
		Router:    httpx.NewRouter(deps),
	}, nil
}

// SeedAdmin creates the configured admin account if it is missing.
func (a *App) SeedAdmin(ctx context.Context, cfg config.Config) error {
	return a.Auth.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
}
