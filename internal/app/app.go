package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/proposalflow-backend/internal/auth"
	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/metrics"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/dataloader"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/middleware"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, opens the
// configured store, starts the HTTP server and blocks until ctx is cancelled
// or the server fails. Shutdown drains in-flight requests within
// server.shutdown_timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
	)

	st, err := OpenStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	svc := workflow.NewService(logger, st.Proposals, st.Users, st.History, st.Tx, m, cfg.Workflow)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewHandler(cfg, logger, svc, st, m, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

// NewHandler builds the HTTP handler: REST routes and /metrics behind the
// middleware chain. Metrics is innermost so it sees the matched pattern.
func NewHandler(
	cfg *config.Config,
	logger *slog.Logger,
	svc *workflow.Service,
	st *Storage,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
) http.Handler {
	mux := rest.NewRouter(
		rest.NewHealthHandler(BuildVersion(), rest.PingProbe("storage", st.Pinger)),
		rest.NewProposalHandler(svc, logger),
		rest.NewUserHandler(svc, logger),
	)
	mux.Handle("GET /metrics", m.Handler())

	jwt := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	return middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
		middleware.Auth(jwt),
		middleware.When(cfg.RateLimit.RequestsPerMinute > 0, limiter.Limit(cfg.RateLimit.RequestsPerMinute)),
		dataloader.Middleware(&dataloader.Repos{Users: st.Users}),
		middleware.Metrics(m),
	)(mux)
}
