/*
Package store is the sole owner of Agent Docs' persistent state:
workspaces, documents, document versions, comments, and the advisory
lock triple carried on each document.

BoltStore backs it with an embedded BoltDB file, one bucket per entity
family, JSON-marshaled values. Every exported method writes in at most
one bbolt transaction — either it fully commits or the caller sees no
change. Writes additionally serialize on the BoltStore's mutex so compound
check-then-write operations (slug collision resolution, lock
acquire/renew) stay atomic even though bbolt itself already serializes
writers.

# Versioning

A content-changing UpdateDocument allocates the next version number and
stores a snapshot of the document's new state, never the old one —
version 1 is the document at creation, version N is the current head.
Restoring version k re-applies its content as a patch, producing version
N+1; history is append-only and is never rewritten.

# Locks

AcquireLock, RenewLock, and ReleaseLock read-modify-write the lock
triple on the Document row in one transaction. An update_document call
does not consult the lock at all — it is advisory, enforced only by
cooperating clients, not the Store.
*/
package store
