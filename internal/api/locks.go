package api

import (
	"net/http"
	"time"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/gin-gonic/gin"
)

type lockRequest struct {
	Editor     string `json:"editor"`
	TTLSeconds int    `json:"ttl_seconds"`
}

func (s *Server) handleAcquireLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}
	if req.Editor == "" {
		writeError(c, apierr.BadRequest("editor is required"))
		return
	}

	workspaceID := c.Param("id")
	docID := c.Param("doc_id")

	doc, err := s.locks.Acquire(workspaceID, docID, req.Editor, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		writeError(c, err)
		return
	}

	s.bus.Publish(workspaceID, &events.Event{Type: events.EventLockAcquired, EntityID: doc.ID, Payload: map[string]any{"editor": req.Editor}})
	writeJSON(c, http.StatusOK, doc)
}

func (s *Server) handleRenewLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}
	if req.Editor == "" {
		writeError(c, apierr.BadRequest("editor is required"))
		return
	}

	doc, err := s.locks.Renew(c.Param("id"), c.Param("doc_id"), req.Editor, time.Duration(req.TTLSeconds)*time.Second)
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, doc)
}

func (s *Server) handleReleaseLock(c *gin.Context) {
	var req lockRequest
	_ = c.ShouldBindJSON(&req)
	if req.Editor == "" {
		req.Editor = c.Query("editor")
	}
	if req.Editor == "" {
		writeError(c, apierr.BadRequest("editor is required"))
		return
	}

	workspaceID := c.Param("id")
	docID := c.Param("doc_id")

	doc, err := s.locks.Release(workspaceID, docID, req.Editor)
	if err != nil {
		writeError(c, err)
		return
	}

	s.bus.Publish(workspaceID, &events.Event{Type: events.EventLockReleased, EntityID: doc.ID, Payload: map[string]any{"editor": req.Editor}})
	noContent(c)
}
