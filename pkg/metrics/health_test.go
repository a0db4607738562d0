package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/store"
)

func resetChecker(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	checker = &healthChecker{startTime: time.Now()}
	return s
}

func TestGetHealth_StoreNotBound(t *testing.T) {
	resetChecker(t)

	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy with no store bound, got %q", health.Status)
	}
}

func TestGetHealth_StoreReachable(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	SetVersion("1.0.0")

	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %q", health.Status)
	}
	if health.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", health.Version)
	}
}

func TestGetHealth_StoreClosed(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	s.Close()

	health := GetHealth()
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy once the store handle is closed, got %q", health.Status)
	}
	if health.Message == "" {
		t.Error("expected a message explaining the failure")
	}
}

func TestGetReadiness_WaitsForStoreBind(t *testing.T) {
	resetChecker(t)

	readiness := GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready before Bind, got %q", readiness.Status)
	}
}

func TestGetReadiness_WaitsForAPIReady(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())

	readiness := GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready before MarkAPIReady, got %q", readiness.Status)
	}
	if readiness.Message == "" {
		t.Error("expected a message explaining why readiness is pending")
	}
}

func TestGetReadiness_ReadyOnceBoundAndMarked(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	MarkAPIReady(true)

	readiness := GetReadiness()
	if readiness.Status != "ready" {
		t.Errorf("expected ready, got %q", readiness.Status)
	}
}

func TestHealthHandler(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	SetVersion("test")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var health Status
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Status != "healthy" || health.Version != "test" {
		t.Errorf("unexpected body: %+v", health)
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	s.Close()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	HealthHandler()(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestReadyHandler(t *testing.T) {
	s := resetChecker(t)
	Bind(s, events.NewEventBus())
	MarkAPIReady(true)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	ReadyHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var readiness Status
	if err := json.NewDecoder(w.Body).Decode(&readiness); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if readiness.Status != "ready" {
		t.Errorf("expected ready status, got %q", readiness.Status)
	}
}

func TestReadyHandler_NotReady(t *testing.T) {
	resetChecker(t)

	req := httptest.NewRequest("GET", "/ready", nil)
	w := httptest.NewRecorder()
	ReadyHandler()(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	resetChecker(t)

	req := httptest.NewRequest("GET", "/live", nil)
	w := httptest.NewRecorder()
	LivenessHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response Status
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "alive" {
		t.Errorf("expected status 'alive', got %q", response.Status)
	}
	if response.Uptime == "" {
		t.Error("uptime should not be empty")
	}
}
