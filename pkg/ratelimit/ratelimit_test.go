package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestAllowRejectsAfterLimit(t *testing.T) {
	l := New(3, time.Hour)
	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("4th request should be rejected")
	}
}

func TestAllowIsPerIP(t *testing.T) {
	l := New(1, time.Hour)
	if !l.Allow("1.1.1.1") {
		t.Fatal("first IP's first request should be allowed")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("second IP's first request should be allowed independently")
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := httptest.NewRequest("POST", "/workspaces", nil)
	r.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	r.Header.Set("X-Real-IP", "8.8.8.8")
	r.RemoteAddr = "127.0.0.1:5000"

	if got := ClientIP(r); got != "9.9.9.9" {
		t.Fatalf("expected 9.9.9.9, got %q", got)
	}
}

func TestClientIPFallsBackToRealIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/workspaces", nil)
	r.Header.Set("X-Real-IP", "8.8.8.8")
	r.RemoteAddr = "127.0.0.1:5000"

	if got := ClientIP(r); got != "8.8.8.8" {
		t.Fatalf("expected 8.8.8.8, got %q", got)
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest("POST", "/workspaces", nil)
	r.RemoteAddr = "127.0.0.1:5000"

	if got := ClientIP(r); got != "127.0.0.1" {
		t.Fatalf("expected 127.0.0.1, got %q", got)
	}
}
