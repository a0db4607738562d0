package store

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/diff"
	"github.com/agentdocs/agentdocs/pkg/render"
	"github.com/agentdocs/agentdocs/pkg/security"
	"github.com/agentdocs/agentdocs/pkg/types"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketWorkspaces = []byte("workspaces")
	bucketDocuments  = []byte("documents")
	bucketVersions   = []byte("versions")
	bucketComments   = []byte("comments")
)

// BoltStore implements Store on top of an embedded BoltDB file. All writes
// additionally serialize on mu — redundant with bbolt's own single-writer
// guarantee for a single db.Update call, but required for the compound
// check-then-write operations (lock acquire/renew, slug collision checks)
// that span a read and a write inside one transaction.
type BoltStore struct {
	db *bolt.DB
	mu sync.Mutex
}

// NewBoltStore opens (creating if absent) the database file at
// <dataDir>/agentdocs.db and ensures all buckets exist.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "agentdocs.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketWorkspaces, bucketDocuments, bucketVersions, bucketComments} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) update(fn func(tx *bolt.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(fn)
}

// wrapErr normalizes a transaction's returned error: apierr errors pass
// through unchanged, anything else (json, bbolt internals) becomes an
// Internal error tagged with the failing operation.
func wrapErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if ae, ok := apierr.As(err); ok {
		return ae
	}
	return apierr.Internal(err, "%s", op)
}

func newID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugNonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "doc-" + newID()[:8]
	}
	return s
}

// wordCount counts whitespace-delimited tokens that contain at least one
// letter or digit, so bare Markdown markers such as "#" or "-" are not
// counted as words.
func wordCount(content string) int {
	n := 0
	for _, tok := range strings.Fields(content) {
		if strings.IndexFunc(tok, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
			n++
		}
	}
	return n
}

func versionKey(docID string, number int) []byte {
	return []byte(fmt.Sprintf("%s/%08d", docID, number))
}

func versionPrefix(docID string) []byte {
	return []byte(docID + "/")
}

// uniqueSlug appends -2, -3, … to base until it is free within workspaceID.
func uniqueSlug(b *bolt.Bucket, workspaceID, base string) (string, error) {
	existing := make(map[string]bool)
	err := b.ForEach(func(_, v []byte) error {
		var d types.Document
		if err := json.Unmarshal(v, &d); err != nil {
			return err
		}
		if d.WorkspaceID == workspaceID {
			existing[d.Slug] = true
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if !existing[base] {
		return base, nil
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !existing[candidate] {
			return candidate, nil
		}
	}
}

func nextVersionNumber(tx *bolt.Tx, docID string) (int, error) {
	b := tx.Bucket(bucketVersions)
	c := b.Cursor()
	prefix := versionPrefix(docID)
	count := 0
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		count++
	}
	return count + 1, nil
}

func putVersion(tx *bolt.Tx, v *types.DocumentVersion) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketVersions).Put(versionKey(v.DocumentID, v.VersionNumber), data)
}

// --- Workspaces ---

func (s *BoltStore) CreateWorkspace(name, description string, isPublic bool) (*types.Workspace, string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, "", apierr.BadRequest("workspace name is required")
	}

	key, err := security.GenerateManageKey()
	if err != nil {
		return nil, "", apierr.Internal(err, "generate manage key")
	}
	hash, err := security.HashManageKey(key)
	if err != nil {
		return nil, "", apierr.Internal(err, "hash manage key")
	}

	now := time.Now().UTC()
	ws := types.Workspace{
		ID:            newID(),
		Name:          name,
		Description:   description,
		ManageKeyHash: hash,
		IsPublic:      isPublic,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(&ws)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketWorkspaces).Put([]byte(ws.ID), data)
	})
	if err != nil {
		return nil, "", wrapErr(err, "create workspace")
	}
	return &ws, key, nil
}

func (s *BoltStore) GetWorkspace(id string) (*types.Workspace, error) {
	var ws types.Workspace
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketWorkspaces).Get([]byte(id))
		if data == nil {
			return apierr.NotFound("workspace %s not found", id)
		}
		return json.Unmarshal(data, &ws)
	})
	if err != nil {
		return nil, wrapErr(err, "get workspace")
	}
	return &ws, nil
}

func (s *BoltStore) ListPublicWorkspaces() ([]*types.Workspace, error) {
	var out []*types.Workspace
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketWorkspaces).ForEach(func(_, v []byte) error {
			var ws types.Workspace
			if err := json.Unmarshal(v, &ws); err != nil {
				return err
			}
			if ws.IsPublic {
				out = append(out, &ws)
			}
			return nil
		})
	})
	if err != nil {
		return nil, wrapErr(err, "list public workspaces")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *BoltStore) UpdateWorkspace(id string, patch types.WorkspacePatch) (*types.Workspace, error) {
	var ws types.Workspace
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketWorkspaces)
		data := b.Get([]byte(id))
		if data == nil {
			return apierr.NotFound("workspace %s not found", id)
		}
		if err := json.Unmarshal(data, &ws); err != nil {
			return err
		}
		if patch.Name != nil {
			ws.Name = *patch.Name
		}
		if patch.Description != nil {
			ws.Description = *patch.Description
		}
		if patch.IsPublic != nil {
			ws.IsPublic = *patch.IsPublic
		}
		ws.UpdatedAt = time.Now().UTC()
		out, err := json.Marshal(&ws)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), out)
	})
	if err != nil {
		return nil, wrapErr(err, "update workspace")
	}
	return &ws, nil
}

func (s *BoltStore) VerifyManageKey(workspaceID, key string) error {
	ws, err := s.GetWorkspace(workspaceID)
	if err != nil {
		return err
	}
	if err := security.VerifyManageKey(ws.ManageKeyHash, key); err != nil {
		return apierr.Unauthorized("invalid manage key")
	}
	return nil
}

// --- Documents ---

func (s *BoltStore) CreateDocument(workspaceID, title, content, summary string, tags []string, status types.DocumentStatus, author string) (*types.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apierr.BadRequest("document title is required")
	}
	if status == "" {
		status = types.DocumentStatusDraft
	}
	if !status.Valid() {
		return nil, apierr.BadRequest("invalid status %q", status)
	}

	var doc types.Document
	err := s.update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketWorkspaces).Get([]byte(workspaceID)) == nil {
			return apierr.NotFound("workspace %s not found", workspaceID)
		}

		docsBucket := tx.Bucket(bucketDocuments)
		slug, err := uniqueSlug(docsBucket, workspaceID, slugify(title))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		html := render.Render(content)
		doc = types.Document{
			ID:          newID(),
			WorkspaceID: workspaceID,
			Title:       title,
			Slug:        slug,
			Content:     content,
			ContentHTML: html,
			Summary:     summary,
			Tags:        tags,
			Status:      status,
			AuthorName:  author,
			WordCount:   wordCount(content),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		data, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		if err := docsBucket.Put([]byte(doc.ID), data); err != nil {
			return err
		}

		version := types.DocumentVersion{
			ID:                newID(),
			DocumentID:        doc.ID,
			VersionNumber:     1,
			Content:           content,
			ContentHTML:       html,
			Summary:           summary,
			AuthorName:        author,
			ChangeDescription: "Initial version",
			WordCount:         doc.WordCount,
			CreatedAt:         now,
		}
		return putVersion(tx, &version)
	})
	if err != nil {
		return nil, wrapErr(err, "create document")
	}
	return &doc, nil
}

// UpdateDocument applies patch to the document. A version snapshot is
// created whenever patch.Content is supplied — including when its value
// happens to equal the current content — so that RestoreVersion's
// "post-state version count is N+1" guarantee holds unconditionally.
func (s *BoltStore) UpdateDocument(workspaceID, docID string, patch types.DocumentPatch, author, changeDescription string) (*types.Document, error) {
	var doc types.Document
	err := s.update(func(tx *bolt.Tx) error {
		docsBucket := tx.Bucket(bucketDocuments)
		data := docsBucket.Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}

		if patch.Title != nil {
			doc.Title = *patch.Title
		}
		contentChanged := patch.Content != nil
		if contentChanged {
			doc.Content = *patch.Content
			doc.ContentHTML = render.Render(doc.Content)
			doc.WordCount = wordCount(doc.Content)
		}
		if patch.Summary != nil {
			doc.Summary = *patch.Summary
		}
		if patch.Tags != nil {
			doc.Tags = patch.Tags
		}
		if patch.Status != nil {
			if !patch.Status.Valid() {
				return apierr.BadRequest("invalid status %q", *patch.Status)
			}
			doc.Status = *patch.Status
		}
		doc.UpdatedAt = time.Now().UTC()

		out, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		if err := docsBucket.Put([]byte(doc.ID), out); err != nil {
			return err
		}

		if contentChanged {
			next, err := nextVersionNumber(tx, doc.ID)
			if err != nil {
				return err
			}
			version := types.DocumentVersion{
				ID:                newID(),
				DocumentID:        doc.ID,
				VersionNumber:     next,
				Content:           doc.Content,
				ContentHTML:       doc.ContentHTML,
				Summary:           doc.Summary,
				AuthorName:        author,
				ChangeDescription: changeDescription,
				WordCount:         doc.WordCount,
				CreatedAt:         doc.UpdatedAt,
			}
			if err := putVersion(tx, &version); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "update document")
	}
	return &doc, nil
}

func (s *BoltStore) DeleteDocument(workspaceID, docID string) error {
	return wrapErr(s.update(func(tx *bolt.Tx) error {
		docsBucket := tx.Bucket(bucketDocuments)
		data := docsBucket.Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		var doc types.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}
		if err := docsBucket.Delete([]byte(docID)); err != nil {
			return err
		}

		vb := tx.Bucket(bucketVersions)
		vc := vb.Cursor()
		prefix := versionPrefix(docID)
		for k, _ := vc.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = vc.Next() {
			if err := vc.Delete(); err != nil {
				return err
			}
		}

		cb := tx.Bucket(bucketComments)
		var staleIDs [][]byte
		if err := cb.ForEach(func(k, v []byte) error {
			var c types.Comment
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			if c.DocumentID == docID {
				staleIDs = append(staleIDs, append([]byte{}, k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, id := range staleIDs {
			if err := cb.Delete(id); err != nil {
				return err
			}
		}
		return nil
	}), "delete document")
}

func (s *BoltStore) ListDocuments(workspaceID string, includeDrafts bool) ([]*types.Document, error) {
	now := time.Now()
	var out []*types.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(_, v []byte) error {
			var d types.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			if d.WorkspaceID != workspaceID {
				return nil
			}
			if !includeDrafts && d.Status != types.DocumentStatusPublished {
				return nil
			}
			d = d.Visible(now)
			out = append(out, &d)
			return nil
		})
	})
	if err != nil {
		return nil, wrapErr(err, "list documents")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *BoltStore) GetDocumentBySlug(workspaceID, slug string) (*types.Document, error) {
	now := time.Now()
	var found *types.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(_, v []byte) error {
			var d types.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			if d.WorkspaceID == workspaceID && d.Slug == slug {
				doc := d.Visible(now)
				found = &doc
			}
			return nil
		})
	})
	if err != nil {
		return nil, wrapErr(err, "get document by slug")
	}
	if found == nil {
		return nil, apierr.NotFound("document with slug %q not found", slug)
	}
	return found, nil
}

func (s *BoltStore) GetDocumentByID(workspaceID, docID string) (*types.Document, error) {
	var doc types.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDocuments).Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		return json.Unmarshal(data, &doc)
	})
	if err != nil {
		return nil, wrapErr(err, "get document")
	}
	if doc.WorkspaceID != workspaceID {
		return nil, apierr.NotFound("document %s not found", docID)
	}
	doc = doc.Visible(time.Now())
	return &doc, nil
}

// --- Versions ---

func (s *BoltStore) ListVersions(workspaceID, docID string) ([]*types.DocumentVersion, error) {
	if _, err := s.GetDocumentByID(workspaceID, docID); err != nil {
		return nil, err
	}
	var out []*types.DocumentVersion
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		c := b.Cursor()
		prefix := versionPrefix(docID)
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var ver types.DocumentVersion
			if err := json.Unmarshal(v, &ver); err != nil {
				return err
			}
			out = append(out, &ver)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr(err, "list versions")
	}
	return out, nil
}

func (s *BoltStore) GetVersion(workspaceID, docID string, number int) (*types.DocumentVersion, error) {
	if _, err := s.GetDocumentByID(workspaceID, docID); err != nil {
		return nil, err
	}
	var ver types.DocumentVersion
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketVersions).Get(versionKey(docID, number))
		if data == nil {
			return apierr.NotFound("version %d not found", number)
		}
		return json.Unmarshal(data, &ver)
	})
	if err != nil {
		return nil, wrapErr(err, "get version")
	}
	return &ver, nil
}

func (s *BoltStore) RestoreVersion(workspaceID, docID string, number int, author string) (*types.Document, error) {
	ver, err := s.GetVersion(workspaceID, docID, number)
	if err != nil {
		return nil, err
	}
	patch := types.DocumentPatch{Content: &ver.Content, Summary: &ver.Summary}
	return s.UpdateDocument(workspaceID, docID, patch, author, fmt.Sprintf("Restored from version %d", number))
}

func (s *BoltStore) DiffVersions(workspaceID, docID string, from, to int) (string, error) {
	a, err := s.GetVersion(workspaceID, docID, from)
	if err != nil {
		return "", err
	}
	b, err := s.GetVersion(workspaceID, docID, to)
	if err != nil {
		return "", err
	}
	return diff.Unified(
		fmt.Sprintf("version %d", from), a.Content,
		fmt.Sprintf("version %d", to), b.Content,
	), nil
}

// --- Search ---

func (s *BoltStore) Search(workspaceID, query string) ([]*types.Document, error) {
	if strings.TrimSpace(query) == "" {
		return []*types.Document{}, nil
	}
	q := strings.ToLower(query)
	now := time.Now()
	var out []*types.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDocuments).ForEach(func(_, v []byte) error {
			var d types.Document
			if err := json.Unmarshal(v, &d); err != nil {
				return err
			}
			if d.WorkspaceID != workspaceID {
				return nil
			}
			haystack := strings.ToLower(d.Title + " " + d.Content + " " + d.Summary + " " + strings.Join(d.Tags, ","))
			if strings.Contains(haystack, q) {
				doc := d.Visible(now)
				out = append(out, &doc)
			}
			return nil
		})
	})
	if err != nil {
		return nil, wrapErr(err, "search")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// --- Comments ---

func (s *BoltStore) CreateComment(workspaceID, docID string, parentID *string, author, content string) (*types.Comment, error) {
	if strings.TrimSpace(author) == "" {
		return nil, apierr.BadRequest("author_name is required")
	}
	var c types.Comment
	err := s.update(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDocuments).Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		var doc types.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}

		cb := tx.Bucket(bucketComments)
		if parentID != nil {
			pdata := cb.Get([]byte(*parentID))
			if pdata == nil {
				return apierr.NotFound("parent comment %s not found", *parentID)
			}
			var parent types.Comment
			if err := json.Unmarshal(pdata, &parent); err != nil {
				return err
			}
			if parent.DocumentID != docID {
				return apierr.BadRequest("parent comment belongs to a different document")
			}
		}

		now := time.Now().UTC()
		c = types.Comment{
			ID:         newID(),
			DocumentID: docID,
			ParentID:   parentID,
			AuthorName: author,
			Content:    content,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		out, err := json.Marshal(&c)
		if err != nil {
			return err
		}
		return cb.Put([]byte(c.ID), out)
	})
	if err != nil {
		return nil, wrapErr(err, "create comment")
	}
	return &c, nil
}

func (s *BoltStore) ListComments(workspaceID, docID string) ([]*types.Comment, error) {
	if _, err := s.GetDocumentByID(workspaceID, docID); err != nil {
		return nil, err
	}
	var out []*types.Comment
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketComments).ForEach(func(_, v []byte) error {
			var c types.Comment
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			if c.DocumentID == docID {
				out = append(out, &c)
			}
			return nil
		})
	})
	if err != nil {
		return nil, wrapErr(err, "list comments")
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *BoltStore) UpdateComment(workspaceID, docID, commentID string, patch types.CommentPatch) (*types.Comment, error) {
	if _, err := s.GetDocumentByID(workspaceID, docID); err != nil {
		return nil, err
	}
	var c types.Comment
	err := s.update(func(tx *bolt.Tx) error {
		cb := tx.Bucket(bucketComments)
		data := cb.Get([]byte(commentID))
		if data == nil {
			return apierr.NotFound("comment %s not found", commentID)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if c.DocumentID != docID {
			return apierr.NotFound("comment %s not found", commentID)
		}
		if patch.Content != nil {
			c.Content = *patch.Content
		}
		if patch.Resolved != nil {
			c.Resolved = *patch.Resolved
		}
		// Resolved-only patches bump updated_at too (see DESIGN.md).
		c.UpdatedAt = time.Now().UTC()
		out, err := json.Marshal(&c)
		if err != nil {
			return err
		}
		return cb.Put([]byte(commentID), out)
	})
	if err != nil {
		return nil, wrapErr(err, "update comment")
	}
	return &c, nil
}

func (s *BoltStore) DeleteComment(workspaceID, docID, commentID string) error {
	if _, err := s.GetDocumentByID(workspaceID, docID); err != nil {
		return err
	}
	return wrapErr(s.update(func(tx *bolt.Tx) error {
		cb := tx.Bucket(bucketComments)
		data := cb.Get([]byte(commentID))
		if data == nil {
			return apierr.NotFound("comment %s not found", commentID)
		}
		var root types.Comment
		if err := json.Unmarshal(data, &root); err != nil {
			return err
		}
		if root.DocumentID != docID {
			return apierr.NotFound("comment %s not found", commentID)
		}

		all := make(map[string]types.Comment)
		if err := cb.ForEach(func(k, v []byte) error {
			var c types.Comment
			if err := json.Unmarshal(v, &c); err != nil {
				return err
			}
			all[string(k)] = c
			return nil
		}); err != nil {
			return err
		}

		toDelete := map[string]bool{commentID: true}
		for changed := true; changed; {
			changed = false
			for id, c := range all {
				if toDelete[id] || c.ParentID == nil {
					continue
				}
				if toDelete[*c.ParentID] {
					toDelete[id] = true
					changed = true
				}
			}
		}
		for id := range toDelete {
			if err := cb.Delete([]byte(id)); err != nil {
				return err
			}
		}
		return nil
	}), "delete comment")
}

// --- Locks ---
//
// The lock triple lives on the Document row; these three methods are the
// only place it is read-modify-written, inside a single bbolt
// transaction so the check and the write are atomic (spec's "under the
// Store's write lock").

func (s *BoltStore) AcquireLock(workspaceID, docID, editor string, ttl time.Duration, now time.Time) (*types.Document, error) {
	var doc types.Document
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		data := b.Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}

		live := doc.Locked(now)
		if live && *doc.LockedBy != editor {
			return apierr.Conflict("document is locked by %s", *doc.LockedBy).WithDetails(map[string]any{
				"holder":     *doc.LockedBy,
				"expires_at": doc.LockExpiresAt.Format(time.RFC3339),
			})
		}

		lockedBy := editor
		lockedAt := now
		expiresAt := now.Add(ttl)
		doc.LockedBy = &lockedBy
		doc.LockedAt = &lockedAt
		doc.LockExpiresAt = &expiresAt

		out, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		return b.Put([]byte(docID), out)
	})
	if err != nil {
		return nil, wrapErr(err, "acquire lock")
	}
	return &doc, nil
}

func (s *BoltStore) RenewLock(workspaceID, docID, editor string, ttl time.Duration, now time.Time) (*types.Document, error) {
	var doc types.Document
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		data := b.Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}

		if !doc.Locked(now) {
			return apierr.Conflict("no lease to renew").WithDetails(map[string]any{"reason": "no_lease"})
		}
		if *doc.LockedBy != editor {
			return apierr.Conflict("document is locked by %s", *doc.LockedBy).WithDetails(map[string]any{
				"holder":     *doc.LockedBy,
				"expires_at": doc.LockExpiresAt.Format(time.RFC3339),
			})
		}

		expiresAt := now.Add(ttl)
		doc.LockExpiresAt = &expiresAt

		out, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		return b.Put([]byte(docID), out)
	})
	if err != nil {
		return nil, wrapErr(err, "renew lock")
	}
	return &doc, nil
}

func (s *BoltStore) ReleaseLock(workspaceID, docID, editor string, now time.Time) (*types.Document, error) {
	var doc types.Document
	err := s.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		data := b.Get([]byte(docID))
		if data == nil {
			return apierr.NotFound("document %s not found", docID)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.WorkspaceID != workspaceID {
			return apierr.NotFound("document %s not found", docID)
		}

		if doc.LockedBy == nil {
			return nil // already unset: idempotent
		}
		if *doc.LockedBy != editor && doc.Locked(now) {
			return apierr.Conflict("document is locked by %s", *doc.LockedBy).WithDetails(map[string]any{
				"holder":     *doc.LockedBy,
				"expires_at": doc.LockExpiresAt.Format(time.RFC3339),
			})
		}

		doc.LockedBy = nil
		doc.LockedAt = nil
		doc.LockExpiresAt = nil

		out, err := json.Marshal(&doc)
		if err != nil {
			return err
		}
		return b.Put([]byte(docID), out)
	})
	if err != nil {
		return nil, wrapErr(err, "release lock")
	}
	return &doc, nil
}
