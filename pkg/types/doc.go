/*
Package types defines the core data structures shared across Agent Docs.

This package contains the domain model that every other package reads or
mutates through: workspaces, documents, document versions, and comments.
These types are serialized to JSON for the HTTP API and to JSON-in-bbolt
for persistence, so field names and tags are the single source of truth
for both wire and storage formats.

# Core Types

Tenancy:
  - Workspace: a tenant boundary guarded by a single manage key

Documents:
  - Document: a Markdown document with cached HTML, tags, and an
    advisory edit lease
  - DocumentStatus: draft, published, or archived
  - DocumentVersion: an immutable content snapshot

Collaboration:
  - Comment: a threaded comment on a document

Real-time:
  - Event: a structured record published on state changes

# Invariants

  - (workspace_id, slug) is unique per Document.
  - A Document's version numbers are exactly 1..N, strictly increasing.
  - Document.LockedBy, LockedAt, and LockExpiresAt are either all set or
    all nil.
  - DocumentStatus is a closed enum; unknown values are rejected at the
    edge, not persisted.

# Thread Safety

Types in this package carry no synchronization of their own. All
concurrency control lives in pkg/store, which guards every mutation with
a process-wide writer lock.
*/
package types
