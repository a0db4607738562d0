package security

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ManageKeyCost is the bcrypt cost factor for manage-key hashes. 10 is the
// same balance of security vs. latency evalgo-org-eve's DefaultBcryptCost
// uses.
const ManageKeyCost = 10

const manageKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateManageKey returns a fresh 32-character random secret. It is
// returned to the caller once, at workspace creation, and never again.
func GenerateManageKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate manage key: %w", err)
	}
	for i := range b {
		b[i] = manageKeyAlphabet[int(b[i])%len(manageKeyAlphabet)]
	}
	return string(b), nil
}

// HashManageKey returns the bcrypt hash of a plaintext manage key for
// storage. Only the hash is persisted.
func HashManageKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), ManageKeyCost)
	if err != nil {
		return "", fmt.Errorf("hash manage key: %w", err)
	}
	return string(hash), nil
}

// VerifyManageKey does a constant-time comparison of key against hash. It
// returns nil on match and a non-nil error otherwise; callers should
// collapse any error into a uniform unauthorized response rather than
// branching on its text.
func VerifyManageKey(hash, key string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
}

// ExtractKey pulls the workspace secret from a request, in priority
// order: Authorization: Bearer, X-API-Key, then the ?key= query
// parameter. It returns "" if none are present.
func ExtractKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
	}
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}
