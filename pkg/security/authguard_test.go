package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateManageKeyLength(t *testing.T) {
	key, err := GenerateManageKey()
	if err != nil {
		t.Fatalf("GenerateManageKey: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("expected 32-char key, got %d", len(key))
	}
}

func TestGenerateManageKeyUnique(t *testing.T) {
	a, _ := GenerateManageKey()
	b, _ := GenerateManageKey()
	if a == b {
		t.Fatal("expected distinct keys across calls")
	}
}

func TestHashAndVerifyManageKey(t *testing.T) {
	key, _ := GenerateManageKey()
	hash, err := HashManageKey(key)
	if err != nil {
		t.Fatalf("HashManageKey: %v", err)
	}
	if err := VerifyManageKey(hash, key); err != nil {
		t.Fatalf("expected verify to succeed: %v", err)
	}
	if err := VerifyManageKey(hash, "wrong-key"); err == nil {
		t.Fatal("expected verify to fail for wrong key")
	}
}

func TestExtractKeyPriority(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?key=query-key", nil)
	req.Header.Set("X-API-Key", "header-key")
	req.Header.Set("Authorization", "Bearer bearer-key")

	if got := ExtractKey(req); got != "bearer-key" {
		t.Fatalf("expected bearer key to win, got %q", got)
	}

	req.Header.Del("Authorization")
	if got := ExtractKey(req); got != "header-key" {
		t.Fatalf("expected X-API-Key to win, got %q", got)
	}

	req.Header.Del("X-API-Key")
	if got := ExtractKey(req); got != "query-key" {
		t.Fatalf("expected query key to win, got %q", got)
	}

	req, _ = http.NewRequest(http.MethodGet, "/", nil)
	if got := ExtractKey(req); got != "" {
		t.Fatalf("expected empty key, got %q", got)
	}
}
