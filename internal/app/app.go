// Package app wires configuration, storage, usecases and transport into a
// running server. Both command line entry points share it.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"match-backend/config"
	v1 "match-backend/internal/delivery/http/v1"
	"match-backend/internal/domain"
	"match-backend/internal/repository/memory"
	"match-backend/internal/repository/postgres"
	"match-backend/internal/usecase"
	"match-backend/internal/worker"
	"match-backend/pkg/auth"
	"match-backend/pkg/database"
	"match-backend/pkg/logger"
	redispkg "match-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// Repositories is the storage selected by STORE_BACKEND.
type Repositories struct {
	Profiles domain.ProfileRepository
	Accounts domain.AccountRepository
	// Ping is nil for stores without a connection to check.
	Ping     usecase.HealthCheck
	close    func()
}

func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects the configured store backend, running
// migrations first for postgres when enabled.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Log.Warn("Using in-memory store; data is lost on restart")
		return &Repositories{
			Profiles: memory.NewProfileStore(),
			Accounts: memory.NewAccountStore(),
		}, nil
	case config.StoreBackendPostgres:
		if cfg.RunMigrations {
			if err := database.MigrateUp(cfg.DBUrl); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Profiles: postgres.NewProfileRepository(pool),
			Accounts: postgres.NewAccountRepository(pool),
			Ping:     pool.Ping,
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// connectRedis returns nil when Redis is not configured or unreachable;
// rate limiting then stays in-process.
func connectRedis(ctx context.Context, cfg *config.Config) *goredis.Client {
	client, err := redispkg.Connect(ctx, redispkg.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	if err != nil {
		if !errors.Is(err, redispkg.ErrNotConfigured) {
			logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		}
		return nil
	}
	logger.Log.Info("Connected to Redis")
	return client
}

// Run serves HTTP and runs the tombstone sweeper until ctx is cancelled,
// then shuts both down.
func Run(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(cfg.GinMode)

	repos, err := OpenRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.Close()

	redisClient := connectRedis(ctx, cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	validate := validator.New()

	authUC := usecase.NewAuthUsecase(repos.Accounts, repos.Profiles, tokens)
	profileUC := usecase.NewProfileUsecase(repos.Profiles, validate)
	reactionUC := usecase.NewReactionUsecase(repos.Profiles)
	matchUC := usecase.NewMatchUsecase(repos.Profiles)
	sweepUC := usecase.NewSweepUsecase(repos.Profiles)

	checks := map[string]usecase.HealthCheck{}
	if repos.Ping != nil {
		checks["database"] = repos.Ping
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:     authUC,
		ProfileUC:  profileUC,
		ReactionUC: reactionUC,
		MatchUC:    matchUC,
		HealthUC:   usecase.NewHealthUsecase(checks),
		Tokens:     tokens,
		Config:     cfg,
		Redis:      redisClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweeper := worker.NewSweeper(sweepUC, worker.SweeperConfig{
		Interval:  cfg.SweepInterval,
		BatchSize: cfg.SweepBatchSize,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sweeper.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Log.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Server forced to shutdown", "error", err)
			return err
		}
		return nil
	})

	err = g.Wait()
	logger.Log.Info("Server exiting")
	return err
}

// SweepOnce drains the tombstone queue once without starting the server.
func SweepOnce(ctx context.Context, cfg *config.Config) (int, error) {
	repos, err := OpenRepositories(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer repos.Close()

	sweepUC := usecase.NewSweepUsecase(repos.Profiles)
	total := 0
	for {
		n, err := sweepUC.SweepOnce(ctx, cfg.SweepBatchSize)
		total += n
		if err != nil || n < cfg.SweepBatchSize {
			return total, err
		}
	}
}
