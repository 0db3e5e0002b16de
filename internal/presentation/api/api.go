package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hilthontt/signals/internal/infrastructure/configs"
	"github.com/hilthontt/signals/internal/infrastructure/json"
	"github.com/hilthontt/signals/internal/infrastructure/logging"
	"github.com/hilthontt/signals/internal/infrastructure/metrics"
	healthHandler "github.com/hilthontt/signals/internal/presentation/handler/health"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Application is the operations surface of the service: probes and metrics.
type Application struct {
	config        configs.HTTPConfig
	healthHandler *healthHandler.Handler
	metrics       *metrics.Collector
	logger        logging.Logger
}

func NewApplication(
	config configs.HTTPConfig,
	healthHandler *healthHandler.Handler,
	collector *metrics.Collector,
	logger logging.Logger,
) *Application {
	return &Application{
		config:        config,
		healthHandler: healthHandler,
		metrics:       collector,
		logger:        logger,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", app.healthHandler.GetHealth)
	r.Get("/healthz", app.healthHandler.GetHealth)
	r.Get("/live", app.healthHandler.GetHealth)
	r.Get("/ready", app.healthHandler.GetReady)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		json.WriteError(w, http.StatusNotFound, "no such endpoint: "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		json.WriteError(w, http.StatusMethodNotAllowed, r.Method+" is not allowed on "+r.URL.Path)
	})

	return otelhttp.NewHandler(r, "signals-ops")
}

// Run serves mux until ctx is done, then shuts the server down gracefully.
func (app *Application) Run(ctx context.Context, mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.Addr(),
		Handler:      mux,
		WriteTimeout: app.config.WriteTimeout,
		ReadTimeout:  app.config.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error, 1)
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		shutdown <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(logging.HTTP, logging.Startup, "ops server has started", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdown; err != nil {
		return err
	}

	app.logger.Info(logging.HTTP, logging.Shutdown, "ops server has stopped", map[logging.ExtraKey]any{
		"addr": srv.Addr,
	})

	return nil
}
