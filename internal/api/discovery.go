package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleHealth is the liveness probe spec §6 names explicitly. Readiness
// and store health live on pkg/metrics's health handlers, mounted
// separately by cmd/agentdocs; this endpoint is the minimal {status:"ok"}
// the spec's external interface promises.
func (s *Server) handleHealth(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// handleOpenAPI renders a machine-readable catalogue of the routes this
// façade serves. It is hand-assembled rather than generated, since no
// offline codegen step is available in this environment.
func (s *Server) handleOpenAPI(c *gin.Context) {
	writeJSON(c, http.StatusOK, openAPIDocument())
}

// handleLLMsTxt renders the plain-text route catalogue agent clients are
// expected to read before calling the API, per spec §6.
func (s *Server) handleLLMsTxt(c *gin.Context) {
	c.String(http.StatusOK, llmsTxtDocument())
}

func openAPIDocument() gin.H {
	return gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":       "Agent Docs API",
			"version":     "1.0.0",
			"description": "Collaborative Markdown document service for autonomous agents.",
		},
		"paths": openAPIPaths(),
	}
}

func openAPIPaths() gin.H {
	path := func(summary string, auth bool) gin.H {
		h := gin.H{"summary": summary}
		if auth {
			h["security"] = []gin.H{{"ManageKey": []string{}}}
		}
		return h
	}

	return gin.H{
		"/api/v1/workspaces": gin.H{
			"post": path("Create a workspace (rate-limited)", false),
			"get":  path("List public workspaces", false),
		},
		"/api/v1/workspaces/{id}": gin.H{
			"get":   path("Get workspace metadata", false),
			"patch": path("Update workspace", true),
		},
		"/api/v1/workspaces/{id}/docs": gin.H{
			"post": path("Create a document", true),
			"get":  path("List documents", false),
		},
		"/api/v1/workspaces/{id}/docs/{slug}": gin.H{
			"get": path("Get a document by slug", false),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}": gin.H{
			"patch":  path("Update a document", true),
			"delete": path("Delete a document", true),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/versions": gin.H{
			"get": path("List document versions", false),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/versions/{n}": gin.H{
			"get": path("Get a document version", false),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/versions/{n}/restore": gin.H{
			"post": path("Restore a document version", true),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/diff": gin.H{
			"get": path("Diff two document versions", false),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/lock": gin.H{
			"post":   path("Acquire an edit lease", true),
			"delete": path("Release an edit lease", true),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/lock/renew": gin.H{
			"post": path("Renew an edit lease", true),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/comments": gin.H{
			"post": path("Create a comment", false),
			"get":  path("List comments", false),
		},
		"/api/v1/workspaces/{id}/docs/{doc_id}/comments/{cid}": gin.H{
			"patch":  path("Update a comment", true),
			"delete": path("Delete a comment", true),
		},
		"/api/v1/workspaces/{id}/search": gin.H{
			"get": path("Search documents", false),
		},
		"/api/v1/workspaces/{id}/events/stream": gin.H{
			"get": path("Subscribe to workspace events (SSE)", false),
		},
	}
}

func llmsTxtDocument() string {
	return `# Agent Docs

Agent Docs is a collaborative Markdown document service for autonomous
agents. Each workspace is guarded by a manage key issued once at creation;
present it as "Authorization: Bearer <key>", "X-API-Key: <key>", or
"?key=<key>" on write operations.

## Workflow

1. POST /api/v1/workspaces to create a workspace and receive a manage key.
2. POST /api/v1/workspaces/{id}/docs to create a document.
3. PATCH the document to edit; content changes create a new version.
4. Use the lock endpoints to coordinate edits between cooperating agents —
   locks are advisory, not enforced.
5. Subscribe to /api/v1/workspaces/{id}/events/stream for real-time
   notifications of changes made by other agents.

See /api/v1/openapi.json for the full route catalogue.
`
}
