package api

import (
	"net/http"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/metrics"
	"github.com/agentdocs/agentdocs/pkg/types"
	"github.com/gin-gonic/gin"
)

type createWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type workspaceResponse struct {
	*types.Workspace
	ManageKey string `json:"manage_key,omitempty"`
}

func (s *Server) handleCreateWorkspace(c *gin.Context) {
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}

	ws, key, err := s.store.CreateWorkspace(req.Name, req.Description, req.IsPublic)
	if err != nil {
		writeError(c, err)
		return
	}

	s.bus.Publish(ws.ID, &events.Event{Type: events.EventWorkspaceCreated, EntityID: ws.ID})
	metrics.WorkspacesTotal.Inc()

	writeJSON(c, http.StatusCreated, workspaceResponse{Workspace: ws, ManageKey: key})
}

func (s *Server) handleListWorkspaces(c *gin.Context) {
	workspaces, err := s.store.ListPublicWorkspaces()
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, workspaces)
}

func (s *Server) handleGetWorkspace(c *gin.Context) {
	ws, err := s.store.GetWorkspace(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ws)
}

type updateWorkspaceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (s *Server) handleUpdateWorkspace(c *gin.Context) {
	var req updateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}

	ws, err := s.store.UpdateWorkspace(c.Param("id"), types.WorkspacePatch{
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, ws)
}
