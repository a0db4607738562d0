package api

import (
	"time"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/log"
	"github.com/agentdocs/agentdocs/pkg/metrics"
	"github.com/agentdocs/agentdocs/pkg/ratelimit"
	"github.com/agentdocs/agentdocs/pkg/security"
	"github.com/gin-gonic/gin"
)

// requestLogger logs method, path, status, and latency through the
// shared zerolog logger, warning on 4xx/5xx the way the teacher's request
// logging promotes error responses.
func requestLogger() gin.HandlerFunc {
	logger := log.WithComponent("api")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		event := logger.Info()
		if status >= 400 {
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", ratelimit.ClientIP(c.Request)).
			Msg("request")
	}
}

// metricsMiddleware records request counts and latency per method/status.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := metrics.NewTimer()
		c.Next()
		timer.ObserveDurationVec(metrics.APIRequestDuration, c.Request.Method)
		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, statusBucket(c.Writer.Status())).Inc()
	}
}

func statusBucket(status int) string {
	switch {
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// requireAuth validates the workspace secret presented on the request
// against the workspace named by the "id" path parameter. An absent key
// and a wrong key are both surfaced as Unauthorized, per spec §4.5/§7 —
// the handler never learns which case occurred.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID := c.Param("id")
		key := security.ExtractKey(c.Request)
		if key == "" {
			writeError(c, apierr.Unauthorized("manage key required"))
			return
		}
		if err := s.store.VerifyManageKey(workspaceID, key); err != nil {
			writeError(c, apierr.Unauthorized("invalid manage key"))
			return
		}
		c.Next()
	}
}

// workspaceRateLimit throttles POST /workspaces by client IP, per spec §4.4.
func (s *Server) workspaceRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ratelimit.ClientIP(c.Request)
		if !s.limiter.Allow(ip) {
			metrics.RateLimitRejections.WithLabelValues(ip).Inc()
			writeError(c, apierr.RateLimited("too many workspaces created from %s; try again later", ip))
			return
		}
		c.Next()
	}
}
