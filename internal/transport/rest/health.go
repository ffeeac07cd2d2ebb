package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const probeTimeout = 3 * time.Second

// Probe is one named dependency check reported by /ready and /health.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// PingProbe adapts anything with a Ping method, such as the PostgreSQL
// pool or the in-memory store.
func PingProbe(name string, p interface{ Ping(context.Context) error }) Probe {
	return Probe{Name: name, Check: p.Ping}
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	probes  []Probe
	version string
}

func NewHealthHandler(version string, probes ...Probe) *HealthHandler {
	return &HealthHandler{probes: probes, version: version}
}

// HealthResponse is the JSON body of every probe endpoint.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /live", h.Live)
	mux.HandleFunc("GET /ready", h.Ready)
	mux.HandleFunc("GET /health", h.Health)
}

// Live never touches dependencies.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Timestamp: time.Now()})
}

// Ready answers 503 when any probe fails, without details.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, ok := h.run(r.Context())
	writeJSON(w, statusCode(ok), HealthResponse{Status: statusText(ok), Timestamp: time.Now()})
}

// Health reports every probe with its latency, plus the build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.run(r.Context())
	writeJSON(w, statusCode(ok), HealthResponse{
		Status:     statusText(ok),
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

// run executes all probes concurrently. A failing probe does not cancel
// the others so the report stays complete.
func (h *HealthHandler) run(ctx context.Context) (map[string]CompStatus, bool) {
	var (
		mu         sync.Mutex
		components = make(map[string]CompStatus, len(h.probes))
		healthy    = true
	)

	var g errgroup.Group
	for _, p := range h.probes {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			start := time.Now()
			err := p.Check(pctx)
			comp := CompStatus{Status: "ok", Latency: time.Since(start).String()}
			if err != nil {
				comp = CompStatus{Status: "down", Error: err.Error()}
			}

			mu.Lock()
			components[p.Name] = comp
			if err != nil {
				healthy = false
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return components, healthy
}

func statusCode(ok bool) int {
	if ok {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func statusText(ok bool) string {
	if ok {
		return "ok"
	}
	return "down"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
