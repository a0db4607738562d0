package store

import (
	"time"

	"github.com/agentdocs/agentdocs/pkg/types"
)

// Store defines the persistence interface for Agent Docs. This is the
// sole owner of persistent state; every other component reads or mutates
// through it. Every method writes in at most one atomic transaction: it
// fully succeeds or leaves state unchanged.
type Store interface {
	// Workspaces
	CreateWorkspace(name, description string, isPublic bool) (*types.Workspace, string, error)
	GetWorkspace(id string) (*types.Workspace, error)
	ListPublicWorkspaces() ([]*types.Workspace, error)
	UpdateWorkspace(id string, patch types.WorkspacePatch) (*types.Workspace, error)
	VerifyManageKey(workspaceID, key string) error

	// Documents
	CreateDocument(workspaceID, title, content, summary string, tags []string, status types.DocumentStatus, author string) (*types.Document, error)
	UpdateDocument(workspaceID, docID string, patch types.DocumentPatch, author, changeDescription string) (*types.Document, error)
	DeleteDocument(workspaceID, docID string) error
	ListDocuments(workspaceID string, includeDrafts bool) ([]*types.Document, error)
	GetDocumentBySlug(workspaceID, slug string) (*types.Document, error)
	GetDocumentByID(workspaceID, docID string) (*types.Document, error)

	// Versions
	ListVersions(workspaceID, docID string) ([]*types.DocumentVersion, error)
	GetVersion(workspaceID, docID string, number int) (*types.DocumentVersion, error)
	RestoreVersion(workspaceID, docID string, number int, author string) (*types.Document, error)
	DiffVersions(workspaceID, docID string, from, to int) (string, error)

	// Search
	Search(workspaceID, query string) ([]*types.Document, error)

	// Comments
	CreateComment(workspaceID, docID string, parentID *string, author, content string) (*types.Comment, error)
	ListComments(workspaceID, docID string) ([]*types.Comment, error)
	UpdateComment(workspaceID, docID, commentID string, patch types.CommentPatch) (*types.Comment, error)
	DeleteComment(workspaceID, docID, commentID string) error

	// Locks — the Document row carries the lock triple. Each of these
	// runs as one transaction so the read-check-write is atomic; pkg/lock
	// is a thin policy wrapper over them.
	AcquireLock(workspaceID, docID, editor string, ttl time.Duration, now time.Time) (*types.Document, error)
	RenewLock(workspaceID, docID, editor string, ttl time.Duration, now time.Time) (*types.Document, error)
	ReleaseLock(workspaceID, docID, editor string, now time.Time) (*types.Document, error)

	// Close releases the underlying database handle.
	Close() error
}
