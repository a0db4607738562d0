package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIAndLLMsTxt(t *testing.T) {
	s := newTestServer(t)

	openapiW := doJSON(t, s.Router(), http.MethodGet, "/api/v1/openapi.json", nil, "")
	assert.Equal(t, http.StatusOK, openapiW.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(openapiW.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc, "paths")

	llmsW := doJSON(t, s.Router(), http.MethodGet, "/llms.txt", nil, "")
	assert.Equal(t, http.StatusOK, llmsW.Code)
	assert.Contains(t, llmsW.Body.String(), "Agent Docs")
}

func TestMetricsEndpointServesPrometheusFormat(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s.Router(), http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# HELP")
}
