package api

import (
	"net/http"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/agentdocs/agentdocs/pkg/events"
	"github.com/agentdocs/agentdocs/pkg/types"
	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	AuthorName string  `json:"author_name"`
	Content    string  `json:"content"`
	ParentID   *string `json:"parent_id"`
}

func (s *Server) handleCreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}
	if req.AuthorName == "" {
		writeError(c, apierr.BadRequest("author_name is required"))
		return
	}

	workspaceID := c.Param("id")
	docID := c.Param("doc_id")

	comment, err := s.store.CreateComment(workspaceID, docID, req.ParentID, req.AuthorName, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	s.bus.Publish(workspaceID, &events.Event{Type: events.EventCommentCreated, EntityID: comment.ID})
	writeJSON(c, http.StatusCreated, comment)
}

func (s *Server) handleListComments(c *gin.Context) {
	comments, err := s.store.ListComments(c.Param("id"), c.Param("doc_ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, comments)
}

type updateCommentRequest struct {
	Content  *string `json:"content"`
	Resolved *bool   `json:"resolved"`
}

func (s *Server) handleUpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apierr.BadRequest("invalid request body: %v", err))
		return
	}

	comment, err := s.store.UpdateComment(c.Param("id"), c.Param("doc_id"), c.Param("cid"), types.CommentPatch{
		Content:  req.Content,
		Resolved: req.Resolved,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, comment)
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	if err := s.store.DeleteComment(c.Param("id"), c.Param("doc_id"), c.Param("cid")); err != nil {
		writeError(c, err)
		return
	}
	noContent(c)
}
