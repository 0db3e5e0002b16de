package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hilthontt/signals/internal/application/rpc"
	"github.com/hilthontt/signals/internal/application/signals"
	"github.com/hilthontt/signals/internal/domain"
	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	"github.com/hilthontt/signals/internal/infrastructure/messaging"
	"github.com/hilthontt/signals/internal/infrastructure/metrics"
	"github.com/hilthontt/signals/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/signals/internal/infrastructure/tracing"
	"github.com/hilthontt/signals/internal/persistence/db"
	"github.com/hilthontt/signals/internal/persistence/memstore"
	"github.com/hilthontt/signals/internal/persistence/repository"
	"github.com/hilthontt/signals/internal/presentation/api"
	"github.com/hilthontt/signals/internal/presentation/handler/health"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Consume broker requests and serve the ops endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configs.Load(configs.DetermineConfigPath(opts.configPath))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg)
		},
	}
}

func newLogger(cfg configs.LoggerConfig) (logging.Logger, error) {
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.FilePath,
		Encoding: cfg.Encoding,
		Level:    cfg.Level,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return logger, nil
}

func serve(ctx context.Context, cfg *configs.Config) (err error) {
	logger, err := newLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracer := tracing.Noop()
	if cfg.Tracing.Enabled {
		shutdownTracer, err = tracing.InitTracer(ctx, tracing.NewConfig(serviceName, version, cfg.Tracing))
		if err != nil {
			return fmt.Errorf("failed to initialize the tracer: %w", err)
		}
	}
	defer func() {
		err = multierr.Append(err, shutdownTracer(context.WithoutCancel(ctx)))
	}()
	tracer := tracing.GetTracer()

	store, err := openStore(ctx, cfg.Database, tracer, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, store.Close()) }()

	audit, auditDB, err := openAudit(ctx, cfg.MongoDB, logger)
	if err != nil {
		return err
	}
	if auditDB != nil {
		defer func() { err = multierr.Append(err, auditDB.Close(context.WithoutCancel(ctx))) }()
	}

	broker, err := messaging.NewRabbitMQ(ctx, cfg.Broker, logger)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, broker.Close()) }()

	collector := metrics.NewCollector()

	var limiter ratelimiter.Limiter
	if cfg.Pipeline.RateLimit > 0 {
		fw := ratelimiter.NewFixedWindow(cfg.Pipeline.RateLimit, cfg.Pipeline.RateWindow)
		defer fw.Close()
		limiter = fw
	}

	server := rpc.NewServer(store, domain.RoomLimits{
		MaxCapacity:     cfg.Room.MaxCapacity,
		MaxAvailability: cfg.Room.MaxAvailability,
	}, logger, tracer)

	svc := signals.NewService(signals.Config{
		InboundBuffer:      cfg.Pipeline.InboundBuffer,
		NotificationBuffer: cfg.Pipeline.NotificationBuffer,
		Limiter:            limiter,
	}, server, broker, audit, collector, logger)

	checks := map[string]health.Check{
		"store":  store.Ping,
		"broker": broker.Ping,
	}
	if auditDB != nil {
		checks["audit"] = auditDB.Ping
	}
	healthHandler := health.NewHandler(checks)
	app := api.NewApplication(cfg.HTTP, healthHandler, collector, logger)

	logger.Info(logging.General, logging.Startup, "signals is starting", map[logging.ExtraKey]any{
		"version":    version,
		"driver":     cfg.Database.Driver,
		"audit":      audit != nil,
		"rate_limit": cfg.Pipeline.RateLimit,
		"methods":    len(rpc.Methods()),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svc.Run(gctx)
	})

	g.Go(func() error {
		err := broker.Subscribe(gctx, signals.Subscriptions(), svc.Enqueue)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return app.Run(gctx, app.Mount())
	})

	err = g.Wait()

	logger.Info(logging.General, logging.Shutdown, "signals has stopped", nil)
	return err
}

func openStore(ctx context.Context, cfg configs.DatabaseConfig, tracer trace.Tracer, logger logging.Logger) (domain.Store, error) {
	if cfg.Driver == configs.DriverMemory {
		logger.Warn(logging.General, logging.Startup, "using the in-memory store, state is lost on restart", nil)
		return memstore.New(), nil
	}

	gormDB, err := db.NewPostgres(ctx, &db.PostgresConfig{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	store := repository.NewStore(gormDB, tracer)
	if err := db.Migrate(gormDB); err != nil {
		return nil, multierr.Append(err, store.Close())
	}

	logger.Info(logging.Postgres, logging.Migration, "schema is up to date", nil)
	return store, nil
}

// openAudit connects the event audit log. Both results are nil when it is
// disabled.
func openAudit(ctx context.Context, cfg configs.MongoDBConfig, logger logging.Logger) (domain.EventAuditRepository, *db.Mongo, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	conn, err := db.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	audit := repository.NewEventAuditLogRepository(conn.Database)
	if err := audit.EnsureIndexes(ctx); err != nil {
		return nil, nil, multierr.Append(err, conn.Close(ctx))
	}

	logger.Info(logging.MongoDB, logging.Connect, "event audit log enabled", map[logging.ExtraKey]any{
		"database": cfg.Database,
	})

	return audit, conn, nil
}
