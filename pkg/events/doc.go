/*
Package events implements the per-workspace event bus: real-time fan-out
of state-change notifications to long-lived SSE subscribers.

Each workspace gets its own broker, created lazily on first Subscribe and
torn down once its last subscriber disconnects. Publish is always
non-blocking: a workspace nobody is watching costs nothing, and a slow
subscriber has its oldest undelivered event dropped rather than stalling
the publisher.

Subscriptions are lazy and carry no replay — a caller only sees events
published after it subscribed — and emit a synthetic heartbeat every 15
seconds of idle time so SSE intermediaries don't time the connection out.
*/
package events
