// Package lock applies default-TTL policy in front of the store's atomic
// lock operations. It holds no state of its own: Store carries the lock
// triple on the Document row and performs the actual compare-and-swap.
package lock

import (
	"time"

	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/agentdocs/agentdocs/pkg/types"
)

// DefaultTTL is the lease duration applied when a caller requests a zero
// or negative TTL.
const DefaultTTL = 60 * time.Second

// Manager mediates edit-lock acquisition against a Store, applying
// default TTL policy before delegating.
type Manager struct {
	store      store.Store
	defaultTTL time.Duration
}

// NewManager returns a Manager backed by s. defaultTTL is applied to any
// Acquire/Renew call that requests a zero or negative TTL; callers that
// don't care about the knob can pass lock.DefaultTTL.
func NewManager(s store.Store, defaultTTL time.Duration) *Manager {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &Manager{store: s, defaultTTL: defaultTTL}
}

func (m *Manager) withDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return m.defaultTTL
	}
	return ttl
}

// Acquire takes out a new lease for editor on docID, failing with a
// conflict if a live lease held by a different editor already exists.
func (m *Manager) Acquire(workspaceID, docID, editor string, ttl time.Duration) (*types.Document, error) {
	return m.store.AcquireLock(workspaceID, docID, editor, m.withDefault(ttl), time.Now())
}

// Renew extends editor's existing lease, failing if no live lease exists
// or it is held by a different editor.
func (m *Manager) Renew(workspaceID, docID, editor string, ttl time.Duration) (*types.Document, error) {
	return m.store.RenewLock(workspaceID, docID, editor, m.withDefault(ttl), time.Now())
}

// Release drops editor's lease. Releasing an already-unlocked document is
// a no-op; releasing someone else's live lease is a conflict.
func (m *Manager) Release(workspaceID, docID, editor string) (*types.Document, error) {
	return m.store.ReleaseLock(workspaceID, docID, editor, time.Now())
}
