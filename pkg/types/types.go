package types

import "time"

// DocumentStatus is the closed set of lifecycle states a Document can be in.
type DocumentStatus string

const (
	DocumentStatusDraft     DocumentStatus = "draft"
	DocumentStatusPublished DocumentStatus = "published"
	DocumentStatusArchived  DocumentStatus = "archived"
)

// Valid reports whether s is one of the known DocumentStatus values.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusPublished, DocumentStatusArchived:
		return true
	}
	return false
}

// Workspace is a tenant boundary containing documents and comments. It has
// no user accounts: a single manage key, issued once at creation, guards
// every write.
type Workspace struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ManageKeyHash  string    `json:"-"`
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// WorkspacePatch carries the mutable subset of Workspace fields. Nil means
// "leave unchanged".
type WorkspacePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// Document belongs to exactly one Workspace and carries both source
// Markdown and its cached HTML rendering.
type Document struct {
	ID             string         `json:"id"`
	WorkspaceID    string         `json:"workspace_id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Content        string         `json:"content"`
	ContentHTML    string         `json:"content_html"`
	Summary        string         `json:"summary"`
	Tags           []string       `json:"tags"`
	Status         DocumentStatus `json:"status"`
	AuthorName     string         `json:"author_name"`
	WordCount      int            `json:"word_count"`
	LockedBy       *string        `json:"locked_by,omitempty"`
	LockedAt       *time.Time     `json:"locked_at,omitempty"`
	LockExpiresAt  *time.Time     `json:"lock_expires_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Locked reports whether the document carries a live (non-expired) lease
// as of now. Implicit expiry (spec §4.2): an expired lease reads as unset.
func (d *Document) Locked(now time.Time) bool {
	return d.LockedBy != nil && d.LockExpiresAt != nil && d.LockExpiresAt.After(now)
}

// Visible clears an expired lock triple for read paths, without persisting
// the clear (expired leases are only overwritten lazily on the next
// acquire, per spec §4.2).
func (d Document) Visible(now time.Time) Document {
	if d.LockedBy != nil && !d.Locked(now) {
		d.LockedBy = nil
		d.LockedAt = nil
		d.LockExpiresAt = nil
	}
	return d
}

// DocumentPatch carries the mutable subset of Document fields used by
// update_document. Nil means "leave unchanged".
type DocumentPatch struct {
	Title   *string         `json:"title,omitempty"`
	Content *string         `json:"content,omitempty"`
	Summary *string         `json:"summary,omitempty"`
	Tags    []string        `json:"tags,omitempty"`
	Status  *DocumentStatus `json:"status,omitempty"`
}

// DocumentVersion is an immutable historical snapshot of a Document,
// capturing the state the document moved *to*, not the state it moved
// from (spec §9: versioning policy).
type DocumentVersion struct {
	ID                string    `json:"id"`
	DocumentID        string    `json:"document_id"`
	VersionNumber     int       `json:"version_number"`
	Content           string    `json:"content"`
	ContentHTML       string    `json:"content_html"`
	Summary           string    `json:"summary"`
	AuthorName        string    `json:"author_name"`
	ChangeDescription string    `json:"change_description"`
	WordCount         int       `json:"word_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// Comment belongs to a Document and may reply to another Comment, forming
// a tree the client assembles from the flat list via ParentID.
type Comment struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ParentID   *string   `json:"parent_id,omitempty"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Resolved   bool      `json:"resolved"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentPatch carries the mutable subset of Comment fields.
type CommentPatch struct {
	Content  *string `json:"content,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
}
