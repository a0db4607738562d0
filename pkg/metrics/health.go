package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/store"
)

// Status is the payload served on /health, /ready, and /live.
type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
}

// checker tracks the two things Agent Docs' liveness actually depends
// on: the bbolt store responding, and the API server having finished
// its startup sequence. There is no third component to generalize for.
var checker = &healthChecker{startTime: time.Now()}

type healthChecker struct {
	mu        sync.RWMutex
	store     store.Store
	bus       *events.EventBus
	apiReady  bool
	version   string
	startTime time.Time
}

// SetVersion records the build version reported in health responses.
func SetVersion(version string) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.version = version
}

// Bind wires the checker to the live Store and EventBus so health and
// readiness reflect their actual state rather than a caller-maintained
// flag.
func Bind(s store.Store, bus *events.EventBus) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.store = s
	checker.bus = bus
}

// MarkAPIReady records that the HTTP server has started accepting
// connections. Readiness waits on this the same way it waits on the
// store responding.
func MarkAPIReady(ready bool) {
	checker.mu.Lock()
	defer checker.mu.Unlock()
	checker.apiReady = ready
}

func storeErr(s store.Store) error {
	if s == nil {
		return nil
	}
	_, err := s.ListPublicWorkspaces()
	return err
}

// GetHealth reports whether the store is reachable. Unlike readiness,
// it doesn't factor in whether the API has finished starting — a
// still-starting process is healthy, just not yet ready for traffic.
func GetHealth() Status {
	checker.mu.RLock()
	s, version := checker.store, checker.version
	checker.mu.RUnlock()

	now := time.Now()
	if err := storeErr(s); err != nil {
		return Status{Status: "unhealthy", Timestamp: now, Message: "store: " + err.Error(), Version: version}
	}
	return Status{Status: "healthy", Timestamp: now, Version: version, Uptime: time.Since(checker.startTime).String()}
}

// GetReadiness reports whether the service can take traffic: the store
// must be reachable and the API server must have completed startup.
func GetReadiness() Status {
	checker.mu.RLock()
	s, apiReady, version := checker.store, checker.apiReady, checker.version
	checker.mu.RUnlock()

	now := time.Now()
	if s == nil {
		return Status{Status: "not_ready", Timestamp: now, Message: "store not bound", Version: version}
	}
	if err := storeErr(s); err != nil {
		return Status{Status: "not_ready", Timestamp: now, Message: "store: " + err.Error(), Version: version}
	}
	if !apiReady {
		return Status{Status: "not_ready", Timestamp: now, Message: "api starting", Version: version}
	}
	return Status{Status: "ready", Timestamp: now, Version: version, Uptime: time.Since(checker.startTime).String()}
}

// HealthHandler serves liveness-with-dependency-check at /health.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()
		w.Header().Set("Content-Type", "application/json")
		if health.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(health)
	}
}

// ReadyHandler serves traffic-readiness at /ready.
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()
		w.Header().Set("Content-Type", "application/json")
		if readiness.Status != "ready" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(readiness)
	}
}

// LivenessHandler always reports 200 while the process is up; it exists
// so an orchestrator can distinguish "hung" from "not ready yet".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Status{
			Status:    "alive",
			Timestamp: time.Now(),
			Uptime:    time.Since(checker.startTime).String(),
		})
	}
}
