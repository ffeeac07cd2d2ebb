//go:build e2e

package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/audit"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/proposal"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/proposalflow-backend/internal/app"
	"github.com/heartmarshall/proposalflow-backend/internal/auth"
	"github.com/heartmarshall/proposalflow-backend/internal/config"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
	"github.com/heartmarshall/proposalflow-backend/internal/metrics"
	"github.com/heartmarshall/proposalflow-backend/internal/service/workflow"
	"github.com/heartmarshall/proposalflow-backend/internal/transport/middleware"
)

const (
	testJWTSecret = "e2e-test-secret-key-that-is-at-least-32-chars"
	testJWTIssuer = "proposalflow-e2e"
)

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *auth.JWTManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer wires the production handler against a migrated
// PostgreSQL from testhelper and serves it over httptest.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))

	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.StorageDriverPostgres},
		Auth: config.AuthConfig{
			JWTSecret:      testJWTSecret,
			JWTIssuer:      testJWTIssuer,
			AccessTokenTTL: 15 * time.Minute,
		},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PATCH,OPTIONS",
			AllowedHeaders: "Authorization,Content-Type",
		},
		Workflow: config.WorkflowConfig{MaxApprovers: 5},
	}

	st := &app.Storage{
		Proposals: proposal.New(pool),
		Users:     user.New(pool),
		History:   audit.New(pool),
		Tx:        postgres.NewTxManager(pool),
		Pinger:    pool,
	}

	m := metrics.New()
	svc := workflow.NewService(logger, st.Proposals, st.Users, st.History, st.Tx, m, cfg.Workflow)
	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)

	srv := httptest.NewServer(app.NewHandler(cfg, logger, svc, st, m, limiter))
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    auth.NewJWTManager(testJWTSecret, testJWTIssuer, 15*time.Minute),
	}
}

// seedUser inserts a directory user with the given role.
func (ts *testServer) seedUser(t *testing.T, role domain.UserRole) domain.User {
	t.Helper()
	return testhelper.SeedUser(t, ts.Pool, role)
}

func (ts *testServer) token(t *testing.T, u domain.User) string {
	t.Helper()
	token, err := ts.jwt.GenerateAccessToken(domain.Actor{ID: u.ID, Role: u.Role})
	require.NoError(t, err)
	return token
}

// do sends a JSON request as u (anonymous when u is nil), decodes the
// response body into out when out is non-nil and returns the status code.
func (ts *testServer) do(t *testing.T, u *domain.User, method, path string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if u != nil {
		req.Header.Set("Authorization", "Bearer "+ts.token(t, *u))
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	}
	return resp.StatusCode
}

// ---------------------------------------------------------------------------
// Response shapes
// ---------------------------------------------------------------------------

type refJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type stepJSON struct {
	Round    int    `json:"round"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	Status   string `json:"status"`
	Comment  string `json:"comment"`
}

type proposalJSON struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title"`
	Status              string     `json:"status"`
	Version             int64      `json:"version"`
	RejectionReason     string     `json:"rejectionReason"`
	RejectedByRegistrar bool       `json:"rejectedByRegistrar"`
	ApproversAssigned   bool       `json:"approversAssigned"`
	NeedsReassignment   bool       `json:"needsReassignment"`
	ApprovalRound       int        `json:"approvalRound"`
	AssignedTo          refJSON    `json:"assignedTo"`
	Approvers           []refJSON  `json:"approvers"`
	PendingApprovers    []refJSON  `json:"pendingApprovers"`
	ApprovalSteps       []stepJSON `json:"approvalSteps"`
}

type errorJSON struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// createProposal creates a BUDGET proposal owned by creator and assigned to
// superior.
func (ts *testServer) createProposal(t *testing.T, creator, superior domain.User) proposalJSON {
	t.Helper()

	var p proposalJSON
	status := ts.do(t, &creator, http.MethodPost, "/proposals", map[string]any{
		"title":       "Replace cluster storage",
		"description": "Current array is out of support",
		"type":        "BUDGET",
		"budget":      "48000 EUR",
		"assignedTo":  superior.ID,
	}, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

// act posts an action to the proposal and requires it to succeed.
func (ts *testServer) act(t *testing.T, u domain.User, id, action string, body any) proposalJSON {
	t.Helper()

	var p proposalJSON
	status := ts.do(t, &u, http.MethodPost, "/proposals/"+id+action, body, &p)
	require.Equal(t, http.StatusOK, status, "action %s", action)
	return p
}
