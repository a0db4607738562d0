package store

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateWorkspaceReturnsManageKeyOnce(t *testing.T) {
	s := newTestStore(t)

	ws, key, err := s.CreateWorkspace("Docs Team", "internal notes", true)
	require.NoError(t, err)
	assert.NotEmpty(t, ws.ID)
	assert.NotEmpty(t, key)
	assert.NotEqual(t, key, ws.ManageKeyHash)

	err = s.VerifyManageKey(ws.ID, key)
	assert.NoError(t, err)

	err = s.VerifyManageKey(ws.ID, "wrong-key")
	assert.Error(t, err)
}

func TestSlugUniquePerWorkspace(t *testing.T) {
	s := newTestStore(t)
	ws, _, err := s.CreateWorkspace("W", "", true)
	require.NoError(t, err)

	d1, err := s.CreateDocument(ws.ID, "Getting Started", "# Hi\n", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)
	d2, err := s.CreateDocument(ws.ID, "Getting Started", "# Hi again\n", "", nil, types.DocumentStatusDraft, "bob")
	require.NoError(t, err)

	assert.Equal(t, "getting-started", d1.Slug)
	assert.NotEqual(t, d1.Slug, d2.Slug)
	assert.Contains(t, d2.Slug, "getting-started")
}

func TestVersionNumbersMonotonic(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "v1 content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	content2 := "v2 content"
	_, err = s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &content2}, "alice", "second pass")
	require.NoError(t, err)

	content3 := "v3 content"
	_, err = s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &content3}, "alice", "third pass")
	require.NoError(t, err)

	versions, err := s.ListVersions(ws.ID, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i, v := range versions {
		assert.Equal(t, i+1, v.VersionNumber)
	}
	assert.Equal(t, "v3 content", versions[2].Content)
}

func TestUpdateDocumentRecomputesHTMLAndWordCount(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "# Heading", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.WordCount)

	newContent := "one two three four"
	updated, err := s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &newContent}, "alice", "rewrote")
	require.NoError(t, err)
	assert.Equal(t, 4, updated.WordCount)
	assert.NotEqual(t, doc.ContentHTML, updated.ContentHTML)
}

func TestRestoreVersionCreatesNewHeadVersion(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "original content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	changed := "changed content"
	_, err = s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &changed}, "alice", "change")
	require.NoError(t, err)

	restored, err := s.RestoreVersion(ws.ID, doc.ID, 1, "alice")
	require.NoError(t, err)
	assert.Equal(t, "original content", restored.Content)

	versions, err := s.ListVersions(ws.ID, doc.ID)
	require.NoError(t, err)
	require.Len(t, versions, 3)

	v1, err := s.GetVersion(ws.ID, doc.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "original content", v1.Content, "restoring must not mutate the original snapshot")
}

func TestDiffVersionsEmptyWhenIdentical(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "same content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	same := "same content"
	_, err = s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &same}, "alice", "no-op edit")
	require.NoError(t, err)

	diffText, err := s.DiffVersions(ws.ID, doc.ID, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, diffText)

	changed := "different content"
	_, err = s.UpdateDocument(ws.ID, doc.ID, types.DocumentPatch{Content: &changed}, "alice", "real edit")
	require.NoError(t, err)

	diffText, err = s.DiffVersions(ws.ID, doc.ID, 1, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, diffText)
}

func TestGetDocumentCrossWorkspaceNotFound(t *testing.T) {
	s := newTestStore(t)
	wsA, _, _ := s.CreateWorkspace("A", "", true)
	wsB, _, _ := s.CreateWorkspace("B", "", true)
	doc, err := s.CreateDocument(wsA.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	_, err = s.GetDocumentByID(wsB.ID, doc.ID)
	assert.Error(t, err)
}

func TestCommentCascadeDeleteRemovesDescendants(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	root, err := s.CreateComment(ws.ID, doc.ID, nil, "alice", "root comment")
	require.NoError(t, err)
	child, err := s.CreateComment(ws.ID, doc.ID, &root.ID, "bob", "reply")
	require.NoError(t, err)
	_, err = s.CreateComment(ws.ID, doc.ID, &child.ID, "carol", "reply to reply")
	require.NoError(t, err)

	err = s.DeleteComment(ws.ID, doc.ID, root.ID)
	require.NoError(t, err)

	remaining, err := s.ListComments(ws.ID, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestUpdateCommentResolvedBumpsUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)
	c, err := s.CreateComment(ws.ID, doc.ID, nil, "alice", "needs fixing")
	require.NoError(t, err)

	resolved := true
	updated, err := s.UpdateComment(ws.ID, doc.ID, c.ID, types.CommentPatch{Resolved: &resolved})
	require.NoError(t, err)
	assert.True(t, updated.Resolved)
	assert.True(t, updated.UpdatedAt.After(c.UpdatedAt) || updated.UpdatedAt.Equal(c.UpdatedAt))
}

func TestAcquireLockConflict(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	now := time.Now()
	locked, err := s.AcquireLock(ws.ID, doc.ID, "alice", 60*time.Second, now)
	require.NoError(t, err)
	require.NotNil(t, locked.LockedBy)
	assert.Equal(t, "alice", *locked.LockedBy)

	_, err = s.AcquireLock(ws.ID, doc.ID, "bob", 60*time.Second, now)
	assert.Error(t, err)
}

func TestAcquireLockAfterExpiry(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	now := time.Now()
	_, err = s.AcquireLock(ws.ID, doc.ID, "alice", 1*time.Second, now)
	require.NoError(t, err)

	later := now.Add(2 * time.Second)
	locked, err := s.AcquireLock(ws.ID, doc.ID, "bob", 60*time.Second, later)
	require.NoError(t, err)
	assert.Equal(t, "bob", *locked.LockedBy)
}

func TestRenewLockExtendsExpiry(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	now := time.Now()
	first, err := s.AcquireLock(ws.ID, doc.ID, "alice", 30*time.Second, now)
	require.NoError(t, err)

	later := now.Add(5 * time.Second)
	renewed, err := s.RenewLock(ws.ID, doc.ID, "alice", 30*time.Second, later)
	require.NoError(t, err)
	assert.True(t, renewed.LockExpiresAt.After(*first.LockExpiresAt))
}

func TestRenewLockWithoutLeaseConflicts(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	_, err = s.RenewLock(ws.ID, doc.ID, "alice", 30*time.Second, time.Now())
	assert.Error(t, err)
}

func TestReleaseLockByNonHolderConflicts(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)

	now := time.Now()
	_, err = s.AcquireLock(ws.ID, doc.ID, "alice", 30*time.Second, now)
	require.NoError(t, err)

	_, err = s.ReleaseLock(ws.ID, doc.ID, "bob", now)
	assert.Error(t, err)

	released, err := s.ReleaseLock(ws.ID, doc.ID, "alice", now)
	require.NoError(t, err)
	assert.Nil(t, released.LockedBy)
}

func TestSearchMatchesTitleContentAndTags(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	_, err := s.CreateDocument(ws.ID, "Deployment Guide", "how to deploy", "", []string{"ops", "infra"}, types.DocumentStatusPublished, "alice")
	require.NoError(t, err)
	_, err = s.CreateDocument(ws.ID, "Onboarding", "welcome aboard", "", nil, types.DocumentStatusPublished, "alice")
	require.NoError(t, err)

	results, err := s.Search(ws.ID, "deploy")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Deployment Guide", results[0].Title)

	results, err = s.Search(ws.ID, "infra")
	require.NoError(t, err)
	require.Len(t, results, 1)

	results, err = s.Search(ws.ID, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestListDocumentsExcludesDraftsByDefault(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	_, err := s.CreateDocument(ws.ID, "Draft Doc", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)
	_, err = s.CreateDocument(ws.ID, "Published Doc", "content", "", nil, types.DocumentStatusPublished, "alice")
	require.NoError(t, err)

	withoutDrafts, err := s.ListDocuments(ws.ID, false)
	require.NoError(t, err)
	require.Len(t, withoutDrafts, 1)
	assert.Equal(t, "Published Doc", withoutDrafts[0].Title)

	withDrafts, err := s.ListDocuments(ws.ID, true)
	require.NoError(t, err)
	assert.Len(t, withDrafts, 2)
}

func TestDeleteDocumentCascadesVersionsAndComments(t *testing.T) {
	s := newTestStore(t)
	ws, _, _ := s.CreateWorkspace("W", "", true)
	doc, err := s.CreateDocument(ws.ID, "Title", "content", "", nil, types.DocumentStatusDraft, "alice")
	require.NoError(t, err)
	_, err = s.CreateComment(ws.ID, doc.ID, nil, "alice", "a comment")
	require.NoError(t, err)

	err = s.DeleteDocument(ws.ID, doc.ID)
	require.NoError(t, err)

	_, err = s.GetDocumentByID(ws.ID, doc.ID)
	assert.Error(t, err)

	// The version and comment reads 404 once their document is gone, so
	// the buckets are inspected directly to confirm nothing was left.
	_, err = s.ListVersions(ws.ID, doc.ID)
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))
	_, err = s.ListComments(ws.ID, doc.ID)
	assert.Equal(t, apierr.CodeNotFound, apierr.CodeOf(err))

	var versions, comments int
	require.NoError(t, s.db.View(func(tx *bolt.Tx) error {
		prefix := versionPrefix(doc.ID)
		c := tx.Bucket(bucketVersions).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			versions++
		}
		return tx.Bucket(bucketComments).ForEach(func(_, v []byte) error {
			var cm types.Comment
			if err := json.Unmarshal(v, &cm); err != nil {
				return err
			}
			if cm.DocumentID == doc.ID {
				comments++
			}
			return nil
		})
	}))
	assert.Zero(t, versions)
	assert.Zero(t, comments)
}
