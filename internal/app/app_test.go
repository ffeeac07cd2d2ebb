package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/metrics"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/middleware"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverMemory},
		Auth: config.AuthConfig{
			JWTSecret:      "this-is-a-very-long-jwt-secret-for-testing-32+",
			JWTIssuer:      "test",
			AccessTokenTTL: time.Minute,
		},
		CORS:      config.CORSConfig{AllowedOrigins: "*", AllowedMethods: "GET,POST,PATCH", AllowedHeaders: "Authorization"},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 100, CleanupInterval: time.Minute},
		Workflow:  config.WorkflowConfig{MaxApprovers: 5},
	}
}

func newTestHandler(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := OpenStorage(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	t.Cleanup(st.Close)

	m := metrics.New()
	svc := workflow.NewService(logger, st.Proposals, st.Users, st.History, st.Tx, m, cfg.Workflow)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	t.Cleanup(limiter.Stop)

	return NewHandler(cfg, logger, svc, st, m, limiter)
}

func TestNewHandler_Probes(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, memoryConfig())

	for _, path := range []string{"/live", "/ready", "/health"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, rec.Code)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: missing X-Request-Id", path)
		}
	}
}

func TestNewHandler_MetricsUseRoutePattern(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, memoryConfig())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/proposals/not-a-uuid", nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `route="GET /proposals/{id}"`) {
		t.Errorf("expected request histogram labelled by pattern, got:\n%s", body)
	}
}

func TestNewHandler_AnonymousProposalRequest(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t, memoryConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/proposals", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestOpenStorage_MemoryWithSeedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "users.yaml")
	doc := "users:\n  - name: Ada Admin\n    role: ADMIN\n  - name: Abe Approver\n    role: APPROVER\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := memoryConfig()
	cfg.Storage.SeedFile = path

	st, err := OpenStorage(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	defer st.Close()

	users, err := st.Users.Search(context.Background(), "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.Storage.Driver = "sqlite"
	if _, err := OpenStorage(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected error")
	}
}
