package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	grpcserver "github.com/iho/sharefund/internal/adapter/grpc/server"
	httpAdapter "github.com/iho/sharefund/internal/adapter/http"
	"github.com/iho/sharefund/internal/adapter/http/handler"
	"github.com/iho/sharefund/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/sharefund/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/sharefund/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/sharefund/internal/adapter/repository/sqlite"
	"github.com/iho/sharefund/internal/infrastructure/auth"
	"github.com/iho/sharefund/internal/infrastructure/config"
	"github.com/iho/sharefund/internal/infrastructure/idgen"
	"github.com/iho/sharefund/internal/infrastructure/logger"
	"github.com/iho/sharefund/internal/infrastructure/metrics"
	"github.com/iho/sharefund/internal/infrastructure/notify"
	"github.com/iho/sharefund/internal/infrastructure/postgres"
	"github.com/iho/sharefund/internal/infrastructure/redis"
	"github.com/iho/sharefund/internal/infrastructure/retry"
	"github.com/iho/sharefund/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = time.Hour
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}
	log := logger.New(logCfg)
	slogger := logger.NewSlog(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, slogger); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, slogger *slog.Logger) error {
	a, err := newApp(ctx, cfg, log, slogger)
	if err != nil {
		return err
	}
	defer a.close()

	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	dispatcherDone := make(chan struct{})
	go func() {
		defer close(dispatcherDone)
		_ = a.dispatcher.Start(workers)
	}()
	go a.rateLimiter.RunCleanup(limiterCleanupInterval, limiterMaxIdle, workers.Done())

	httpServer := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	var grpcListener net.Listener
	if a.grpcServer != nil {
		grpcListener, err = net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if grpcListener != nil {
		go func() {
			log.Info().Str("port", cfg.GRPCPort).Msg("starting grpc server")
			if err := a.grpcServer.Serve(grpcListener); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down server...")
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("server stopped unexpectedly")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if a.grpcHealth != nil {
		a.grpcHealth.Shutdown()
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server forced to shutdown")
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	// In-flight purchases are done; deliver what they queued.
	cancelWorkers()
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		log.Warn().Int("pending", a.dispatcher.Pending()).Msg("notifications not delivered before shutdown")
	}

	log.Info().Msg("server stopped")
	return runErr
}

// app is the wired service graph.
type app struct {
	router      http.Handler
	grpcServer  *grpc.Server
	grpcHealth  *health.Server
	dispatcher  *notify.Dispatcher
	rateLimiter *middleware.RateLimiter
	closers     []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage is the repository set of one storage driver.
type storage struct {
	txManager   usecase.TransactionManager
	projects    usecase.ProjectRepository
	investments usecase.InvestmentRepository
	audit       usecase.AuditRepository
	ping        handler.Pinger
	close       func()
}

func openStorage(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		store, err := sqliteRepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &storage{
			txManager:   sqliteRepo.NewTxManager(store),
			projects:    sqliteRepo.NewProjectRepository(store),
			investments: sqliteRepo.NewInvestmentRepository(store),
			audit:       sqliteRepo.NewAuditRepository(store),
			ping:        store,
			close:       func() { _ = store.Close() },
		}, nil

	default:
		if cfg.RunMigrations {
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, slogger); err != nil {
				return nil, err
			}
		}

		connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
		defer cancel()

		pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &storage{
			txManager:   postgresRepo.NewTxManager(pool),
			projects:    postgresRepo.NewProjectRepository(pool),
			investments: postgresRepo.NewInvestmentRepository(pool),
			audit:       postgresRepo.NewAuditRepository(pool),
			ping:        pool,
			close:       pool.Close,
		}, nil
	}
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, slogger *slog.Logger) (*app, error) {
	a := &app{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	store, err := openStorage(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store.close)
	log.Info().Str("driver", cfg.StorageDriver).Msg("storage ready")

	// Optional Redis. Interfaces stay untyped nil when it is disabled.
	var (
		cache       usecase.ProjectCache
		idempotency usecase.IdempotencyStore
		inbox       handler.NotificationInbox
		redisPing   handler.Pinger
		sender      notify.Sender = notify.NewLogSender(slogger)
	)
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })

		publisher := redisRepo.NewNotificationPublisher(client)
		cache = redisRepo.NewProjectCache(client, cfg.ProjectCacheTTL)
		idempotency = redisRepo.NewIdempotencyStore(client)
		inbox = publisher
		sender = publisher
		redisPing = redisPinger(client)
		log.Info().Msg("connected to redis")
	}

	a.dispatcher = notify.NewDispatcher(notify.Config{
		Sender:    sender,
		Logger:    slogger,
		Metrics:   m,
		QueueSize: cfg.NotifyQueueSize,
	})

	retrier := retry.New(retry.Config{
		MaxRetries:      cfg.ReserveMaxRetries,
		InitialInterval: cfg.ReserveRetryInitial,
		MaxInterval:     cfg.ReserveRetryMax,
		MaxElapsedTime:  retry.DefaultConfig().MaxElapsedTime,
	}, slogger, m)
	ids := idgen.NewULIDGenerator()
	ledger := usecase.NewShareLedger(store.projects, m)

	projectUC := usecase.NewProjectUseCase(store.txManager, store.projects, store.audit, cache, ids, log, m)
	investmentUC := usecase.NewInvestmentUseCase(
		store.txManager, store.projects, store.investments, store.audit,
		ledger, retrier, cache, a.dispatcher, ids, log, m,
	)
	reconciliationUC := usecase.NewReconciliationUseCase(store.projects, store.investments)

	var verifier middleware.TokenVerifier
	if cfg.AuthEnabled {
		verifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	a.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	routerCfg := httpAdapter.RouterConfig{
		ProjectHandler:        handler.NewProjectHandler(projectUC, investmentUC),
		InvestmentHandler:     handler.NewInvestmentHandler(investmentUC, projectUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": store.ping,
			"redis":    redisPing,
		}),
		TokenVerifier:    verifier,
		RateLimiter:      a.rateLimiter,
		IdempotencyStore: idempotency,
		Logger:           log,
		Metrics:          m,
		Gatherer:         reg,
	}
	if inbox != nil {
		routerCfg.NotificationHandler = handler.NewNotificationHandler(inbox)
	}
	a.router = httpAdapter.NewRouter(routerCfg)

	if cfg.GRPCEnabled {
		grpcCfg := grpcserver.Config{
			Service:          grpcserver.NewShareFundServer(projectUC, investmentUC, reconciliationUC),
			IdempotencyStore: idempotency,
			Logger:           log,
		}
		if verifier != nil {
			grpcCfg.TokenVerifier = verifier
		}
		a.grpcServer, a.grpcHealth = grpcserver.New(grpcCfg)
	}

	return a, nil
}

func redisPinger(client *goredis.Client) handler.Pinger {
	return handler.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
