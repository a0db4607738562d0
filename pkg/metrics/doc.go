/*
Package metrics defines and registers the Prometheus metrics exposed on
/metrics, plus the health checks served on /health, /ready and /live.

# Metrics

Gauges: agentdocs_documents_total (by workspace/status), agentdocs_workspaces_total,
agentdocs_active_locks, agentdocs_eventbus_subscribers. Counters:
agentdocs_rate_limit_rejections_total, agentdocs_api_requests_total.
Histogram: agentdocs_api_request_duration_seconds,
agentdocs_document_create_duration_seconds,
agentdocs_document_update_duration_seconds. All are registered at package
init and exposed via Handler().

Collector samples the gauges from Store and EventBus state every 15
seconds; the counters are incremented inline by the code paths that
cause them (API middleware, the rate limiter).

# Health

Bind attaches the live Store and EventBus; MarkAPIReady records that the
HTTP server has started. HealthHandler returns 200 unless a bound store
fails to answer a query; ReadyHandler additionally requires a bound,
reachable store and MarkAPIReady(true) before returning 200;
LivenessHandler always returns 200 once the process is running.
*/
package metrics
