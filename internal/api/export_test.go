package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"

	"github.com/agentdocs/agentdocs/pkg/bundle"
)

func TestExportWorkspaceRequiresAuthAndReturnsYAML(t *testing.T) {
	s := newTestServer(t)
	ws, _ := createWorkspaceAndDoc(t, s)

	unauth := doJSON(t, s.Router(), http.MethodPost, "/api/v1/workspaces/"+ws.ID+"/export", nil, "")
	assert.Equal(t, http.StatusUnauthorized, unauth.Code)

	w := doJSON(t, s.Router(), http.MethodPost, "/api/v1/workspaces/"+ws.ID+"/export", nil, ws.ManageKey)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-yaml", w.Header().Get("Content-Type"))

	var b bundle.Bundle
	assert.NoError(t, yaml.Unmarshal(w.Body.Bytes(), &b))
	assert.Equal(t, bundle.Kind, b.Kind)
	assert.Len(t, b.Documents, 1)
}
