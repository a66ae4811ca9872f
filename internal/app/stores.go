package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/electionhub/internal/config"
	"github.com/geocoder89/electionhub/internal/db"
	"github.com/geocoder89/electionhub/internal/http/handlers"
	"github.com/geocoder89/electionhub/internal/observability"
	"github.com/geocoder89/electionhub/internal/repo/memory"
	mongorepo "github.com/geocoder89/electionhub/internal/repo/mongo"
	"github.com/geocoder89/electionhub/internal/repo/postgres"
)

// OpenedStores is a set of stores plus what is needed to health-check and close them.
type OpenedStores struct {
	Stores
	Ping  handlers.PingFunc
	Close func()
}

func MemoryStores() Stores {
	return Stores{
		Users:       memory.NewUsersRepo(),
		Elections:   memory.NewElectionsRepo(),
		Candidates:  memory.NewCandidatesRepo(),
		Politicians: memory.NewPoliticiansRepo(),
	}
}

// OpenStores connects to the configured backend and, when AutoSchema is set,
// creates its tables or indexes.
func OpenStores(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (OpenedStores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg, prom, log)
	case config.StorePostgres, "":
		return openPostgres(ctx, cfg, prom, log)
	default:
		return OpenedStores{}, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (OpenedStores, error) {
	pool, err := db.NewPool(cfg.DBURL)
	if err != nil {
		return OpenedStores{}, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.AutoSchema {
		if err := db.CreateSchema(ctx, pool); err != nil {
			pool.Close()
			return OpenedStores{}, fmt.Errorf("create schema: %w", err)
		}
		log.Info("postgres schema ensured")
	}

	return OpenedStores{
		Stores: Stores{
			Users:       postgres.NewUsersRepo(pool, prom),
			Elections:   postgres.NewElectionsRepo(pool, prom),
			Candidates:  postgres.NewCandidatesRepo(pool, prom),
			Politicians: postgres.NewPoliticiansRepo(pool, prom),
		},
		Ping: func() error {
			pctx, cancel := config.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return pool.Ping(pctx)
		},
		Close: pool.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (OpenedStores, error) {
	client, err := db.NewMongo(cfg.MongoURI)
	if err != nil {
		return OpenedStores{}, fmt.Errorf("connect mongo: %w", err)
	}

	database := client.Database(cfg.MongoDB)

	if cfg.AutoSchema {
		if err := db.EnsureIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return OpenedStores{}, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Info("mongo indexes ensured", "database", cfg.MongoDB)
	}

	return OpenedStores{
		Stores: Stores{
			Users:       mongorepo.NewUsersRepo(database, prom),
			Elections:   mongorepo.NewElectionsRepo(database, prom),
			Candidates:  mongorepo.NewCandidatesRepo(database, prom),
			Politicians: mongorepo.NewPoliticiansRepo(database, prom),
		},
		Ping: func() error {
			pctx, cancel := config.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return client.Ping(pctx, nil)
		},
		Close: func() {
			cctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(cctx)
		},
	}, nil
}
