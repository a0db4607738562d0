package api

import (
	"net/http"

	"github.com/agentdocs/agentdocs/pkg/bundle"
	"gopkg.in/yaml.v3"

	"github.com/gin-gonic/gin"
)

// handleExportWorkspace renders the workspace's full content as a YAML
// bundle, the supplemental feature mirroring the teacher's
// apiVersion/kind resource shape.
func (s *Server) handleExportWorkspace(c *gin.Context) {
	b, err := bundle.Export(s.store, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := yaml.Marshal(b)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/x-yaml", out)
}
