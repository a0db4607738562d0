package api

import (
	"net/http"

	"github.com/agentdocs/agentdocs/pkg/apierr"
	"github.com/gin-gonic/gin"
)

// errorBody is the {error: {code, message}} envelope spec §7 requires,
// with lock-conflict details flattened alongside.
type errorBody struct {
	Code    apierr.Code    `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// writeError renders err as the standard error envelope and aborts the
// chain. Any error not already an *apierr.Error is collapsed to Internal
// rather than leaking its text to the client.
func writeError(c *gin.Context, err error) {
	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.Internal(err, "internal error")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(ae.Status(), gin.H{
		"error": errorBody{Code: ae.Code, Message: ae.Message, Details: ae.Details},
	})
}

func writeJSON(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
