package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/api"
	"github.com/lalith-99/deskchat/internal/auth"
	"github.com/lalith-99/deskchat/internal/config"
	"github.com/lalith-99/deskchat/internal/db"
	"github.com/lalith-99/deskchat/internal/observ"
	"github.com/lalith-99/deskchat/internal/ratelimit"
	"github.com/lalith-99/deskchat/internal/repository"
	"github.com/lalith-99/deskchat/internal/repository/memory"
	"github.com/lalith-99/deskchat/internal/repository/postgres"
	"github.com/lalith-99/deskchat/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context())
		},
	}
}

// stores groups the three repositories with whatever backs them: the
// backend answers the health check and is closed on shutdown.
type stores struct {
	users    repository.UserRepository
	messages repository.MessageRepository
	requests repository.RequestRepository

	backend string
	pinger  repository.Pinger
	close   func()
}

func run(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("create password hasher: %w", err)
	}

	checks := []api.HealthCheck{{Name: st.backend, Check: st.pinger.Health}}

	limiter, limiterCheck, closeLimiter, err := openLimiter(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()
	if limiterCheck != nil {
		checks = append(checks, *limiterCheck)
	}

	router := api.NewRouter(api.Deps{
		Auth:         service.NewAuthService(st.users, hasher, logger),
		Messages:     service.NewMessageService(st.messages, logger),
		Requests:     service.NewRequestService(st.requests, logger),
		Limiter:      limiter,
		CORSOrigins:  cfg.CORSAllowedOrigins,
		HealthChecks: checks,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting DeskChat",
			zap.String("port", cfg.Port),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.Store),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// Why context.Background() for the shutdown deadline?
	//   - ctx is already cancelled at this point (that is how we got here).
	//     Deriving from it would give Shutdown zero time to drain.
	//   - Shutdown stops accepting connections and waits for in-flight
	//     requests, up to SHUTDOWN_TIMEOUT. The deferred st.close() then
	//     closes the pool once no handler can still be using it.
	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on restart")
		mem := memory.New()
		return &stores{
			users:    mem,
			messages: mem.Messages(),
			requests: mem.Requests(),
			backend:  "store",
			pinger:   mem,
			close:    func() {},
		}, nil
	}

	database, err := db.New(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.MigrateOnStart {
		migrator, err := db.NewMigrator(database, logger)
		if err != nil {
			database.Close()
			return nil, err
		}
		if err := migrator.Up(ctx); err != nil {
			database.Close()
			return nil, err
		}
	}

	pool := database.Pool()
	return &stores{
		users:    postgres.NewUserStore(pool),
		messages: postgres.NewMessageStore(pool),
		requests: postgres.NewRequestStore(pool),
		backend:  "database",
		pinger:   database,
		close:    database.Close,
	}, nil
}

// openLimiter returns a nil Limiter when rate limiting is switched off.
func openLimiter(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ratelimit.Limiter, *api.HealthCheck, func(), error) {
	opts := ratelimit.Options{RPS: cfg.AuthRateLimitRPS, Burst: cfg.AuthRateLimitBurst}
	if !opts.Enabled() {
		return nil, nil, func() {}, nil
	}

	if cfg.AuthRateLimitBackend == config.RateLimitMemory {
		logger.Info("auth rate limiting enabled", zap.String("backend", "memory"), zap.Float64("rps", opts.RPS))
		return ratelimit.NewMemoryLimiter(ctx, opts), nil, func() {}, nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	limiter := ratelimit.NewRedisLimiter(client, opts)
	logger.Info("auth rate limiting enabled", zap.String("backend", "redis"), zap.Float64("rps", opts.RPS))
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.Warn("close redis client", zap.Error(err))
		}
	}
	return limiter, &api.HealthCheck{Name: "redis", Check: limiter.Health}, closeFn, nil
}
