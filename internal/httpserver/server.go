// Package httpserver exposes liveness/readiness probes and the Prometheus
// metrics endpoint for a long-running contentstore process: a cached
// health-status checker and request-ID-tagged logging middleware, wired to
// this engine's two components, the SQLite catalog and the content store's
// Storage backend.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/contentstore/internal/metrics"
)

// Status values for HealthStatus/ComponentStatus.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// CatalogPinger is satisfied by *catalog.Catalog; kept as a narrow
// interface so this package never imports database/sql directly.
type CatalogPinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker reports whether the content store backing this process is
// reachable; satisfied by internal/adapter/fsstorage.Storage.
type StoreChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthStatus is the /readyz JSON response body; /healthz replies with a
// bare {"status": ...} object.
type HealthStatus struct {
	Status     string                      `json:"status"`
	Timestamp  time.Time                   `json:"timestamp"`
	Uptime     string                      `json:"uptime,omitempty"`
	Components map[string]*ComponentStatus `json:"components"`
}

// ComponentStatus is one dependency's health.
type ComponentStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

var startTime = time.Now()

// HealthChecker serves liveness/readiness probes, caching the last result
// for cacheTTL so a readiness probe hitting every few seconds doesn't
// re-ping the catalog and store on every request.
type HealthChecker struct {
	catalog CatalogPinger
	store   StoreChecker
	logger  zerolog.Logger

	mu           sync.RWMutex
	cachedStatus *HealthStatus
	cacheExpiry  time.Time
	cacheTTL     time.Duration
}

// Config configures a HealthChecker.
type Config struct {
	Catalog  CatalogPinger
	Store    StoreChecker
	Logger   zerolog.Logger
	CacheTTL time.Duration
}

// NewHealthChecker returns a HealthChecker; a zero CacheTTL defaults to 5s.
func NewHealthChecker(cfg Config) *HealthChecker {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = 5 * time.Second
	}
	return &HealthChecker{
		catalog:  cfg.Catalog,
		store:    cfg.Store,
		logger:   cfg.Logger.With().Str("component", "health").Logger(),
		cacheTTL: ttl,
	}
}

// HandleLiveness always reports healthy: reaching this handler at all means
// the process is up.
func (h *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": StatusHealthy})
}

// HandleReadiness reports whether the catalog and store are both reachable.
func (h *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	status := h.status(r.Context())
	code := http.StatusOK
	if status.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *HealthChecker) status(ctx context.Context) *HealthStatus {
	h.mu.RLock()
	if h.cachedStatus != nil && time.Now().Before(h.cacheExpiry) {
		status := h.cachedStatus
		h.mu.RUnlock()
		return status
	}
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var catalogPing, storePing func(context.Context) error
	if h.catalog != nil {
		catalogPing = h.catalog.Ping
	}
	if h.store != nil {
		storePing = h.store.HealthCheck
	}

	status := &HealthStatus{
		Status:     StatusHealthy,
		Timestamp:  time.Now().UTC(),
		Uptime:     time.Since(startTime).Round(time.Second).String(),
		Components: map[string]*ComponentStatus{
			"catalog": h.check(ctx, "catalog", catalogPing),
			"store":   h.check(ctx, "store", storePing),
		},
	}
	for _, c := range status.Components {
		if c.Status == StatusUnhealthy {
			status.Status = StatusUnhealthy
		}
	}

	h.mu.Lock()
	h.cachedStatus = status
	h.cacheExpiry = time.Now().Add(h.cacheTTL)
	h.mu.Unlock()

	return status
}

func (h *HealthChecker) check(ctx context.Context, name string, ping func(context.Context) error) *ComponentStatus {
	if ping == nil {
		return &ComponentStatus{Status: StatusUnhealthy, Error: name + " not configured"}
	}
	start := time.Now()
	err := ping(ctx)
	latency := time.Since(start)
	if err != nil {
		h.logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
		return &ComponentStatus{Status: StatusUnhealthy, Latency: latency.String(), Error: err.Error()}
	}
	return &ComponentStatus{Status: StatusHealthy, Latency: latency.String()}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// requestIDKey tags each request's context with a correlation ID so every
// log line the request's handler emits can be grepped together.
type requestIDKey struct{}

// WithRequestLogging wraps next so each request is logged at Debug with a
// generated (or passed-through X-Request-ID) correlation ID.
func WithRequestLogging(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)

		next.ServeHTTP(w, r.WithContext(ctx))

		logger.Debug().Str("request_id", reqID).Str("method", r.Method).Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).Msg("http request")
	})
}

// NewMux builds the HTTP mux for liveness, readiness, and Prometheus
// metrics, wrapped in request logging.
func NewMux(checker *HealthChecker, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", checker.HandleLiveness)
	mux.HandleFunc("/readyz", checker.HandleReadiness)
	mux.Handle("/metrics", metrics.Handler())
	return WithRequestLogging(logger, mux)
}
