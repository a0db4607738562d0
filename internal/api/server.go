// Package api is the HTTP façade: it maps the external operations of
// spec §6 onto pkg/store, pkg/lock, pkg/events, pkg/ratelimit, and
// pkg/security, translating between JSON and the domain types.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/agentdocs/agentdocs/pkg/config"
	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/lock"
	"github.com/agentdocs/agentdocs/pkg/metrics"
	"github.com/agentdocs/agentdocs/pkg/ratelimit"
	"github.com/agentdocs/agentdocs/pkg/store"
	"github.com/gin-gonic/gin"
)

// Server wires the domain components to a gin router and an http.Server.
type Server struct {
	cfg     config.Config
	store   store.Store
	bus     *events.EventBus
	locks   *lock.Manager
	limiter *ratelimit.Limiter

	router *gin.Engine
	http   *http.Server
}

// NewServer builds the router and registers every route named in spec §6.
func NewServer(cfg config.Config, st store.Store, bus *events.EventBus, locks *lock.Manager) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Use(metricsMiddleware())

	s := &Server{
		cfg:     cfg,
		store:   st,
		bus:     bus,
		locks:   locks,
		limiter: ratelimit.New(cfg.WorkspaceRateLimit, time.Hour),
		router:  router,
	}

	s.registerRoutes()

	s.http = &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams are long-lived; no blanket write deadline.
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Router exposes the underlying gin engine, primarily for tests.
func (s *Server) Router() *gin.Engine { return s.router }

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully drains in-flight requests, including open SSE
// streams, until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.router.GET("/api/v1/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))
	s.router.GET("/api/v1/openapi.json", s.handleOpenAPI)
	s.router.GET("/llms.txt", s.handleLLMsTxt)

	v1 := s.router.Group("/api/v1")

	workspaces := v1.Group("/workspaces")
	workspaces.POST("", s.workspaceRateLimit(), s.handleCreateWorkspace)
	workspaces.GET("", s.handleListWorkspaces)
	workspaces.GET("/:id", s.handleGetWorkspace)
	workspaces.PATCH("/:id", s.requireAuth(), s.handleUpdateWorkspace)
	workspaces.POST("/:id/export", s.requireAuth(), s.handleExportWorkspace)

	// GET routes under /docs address a document by either slug or ID
	// depending on endpoint; gin's per-method radix tree requires a single
	// wildcard name at each position, so they all bind as :doc_ref — the
	// handlers interpret it as a slug or a document ID per spec §6.
	docs := workspaces.Group("/:id/docs")
	docs.POST("", s.requireAuth(), s.handleCreateDocument)
	docs.GET("", s.handleListDocuments)
	docs.GET("/:doc_ref", s.handleGetDocumentBySlug)
	docs.PATCH("/:doc_id", s.requireAuth(), s.handleUpdateDocument)
	docs.DELETE("/:doc_id", s.requireAuth(), s.handleDeleteDocument)

	docs.GET("/:doc_ref/versions", s.handleListVersions)
	docs.GET("/:doc_ref/versions/:n", s.handleGetVersion)
	docs.POST("/:doc_id/versions/:n/restore", s.requireAuth(), s.handleRestoreVersion)
	docs.GET("/:doc_ref/diff", s.handleDiffVersions)

	docs.POST("/:doc_id/lock", s.requireAuth(), s.handleAcquireLock)
	docs.POST("/:doc_id/lock/renew", s.requireAuth(), s.handleRenewLock)
	docs.DELETE("/:doc_id/lock", s.requireAuth(), s.handleReleaseLock)

	docs.POST("/:doc_id/comments", s.handleCreateComment)
	docs.GET("/:doc_ref/comments", s.handleListComments)
	docs.PATCH("/:doc_id/comments/:cid", s.requireAuth(), s.handleUpdateComment)
	docs.DELETE("/:doc_id/comments/:cid", s.requireAuth(), s.handleDeleteComment)

	workspaces.GET("/:id/search", s.handleSearch)
	workspaces.GET("/:id/events/stream", s.handleEventStream)

	if s.cfg.StaticDir != "" {
		s.router.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.cfg.StaticDir))))
	}
}
