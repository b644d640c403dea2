package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querif/nl2rdf/internal/config"
	"github.com/querif/nl2rdf/internal/core"
	"github.com/querif/nl2rdf/internal/nl2sparql"
	"github.com/querif/nl2rdf/internal/sparql"
)

type scriptedLLM struct {
	responses []string
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string) (string, error) {
	if len(s.responses) == 0 {
		return "", fmt.Errorf("no scripted response left")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

type stubExecutor struct {
	rows []sparql.Row
}

func (s *stubExecutor) Query(ctx context.Context, query string) ([]sparql.Row, error) {
	return s.rows, nil
}

func newTestServer(t *testing.T, llmResponses []string, rows []sparql.Row) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	generator := nl2sparql.NewGenerator(&scriptedLLM{responses: llmResponses}, "", "")
	converter := core.NewConverter(generator, &stubExecutor{rows: rows}, nil, config.Default())
	return &Server{Converter: converter, OutDir: t.TempDir()}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	w := doJSON(t, srv.SetupRouter(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Build(t *testing.T) {
	rows := []sparql.Row{
		{"capital": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Paris"}},
	}
	srv := newTestServer(t, nil, nil)

	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/build", gin.H{
		"query": "SELECT ?capital WHERE { dbr:France dbo:capital ?capital . }",
		"rows":  rows,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID       string `json:"id"`
		Turtle   string `json:"turtle"`
		Entities []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"entities"`
		Edges []struct {
			Subject string `json:"subject"`
		} `json:"edges"`
		Files map[string]string `json:"files"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.ID)
	assert.Contains(t, resp.Turtle, "dbo:capital")
	assert.Len(t, resp.Entities, 2)
	assert.Equal(t, "resource", resp.Entities[0].Kind)
	require.Len(t, resp.Edges, 1)

	// Centrality annotation rides along.
	var annotated map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &annotated))
	assert.Contains(t, annotated, "top_nodes")

	// Artifacts written under the output directory.
	require.Contains(t, resp.Files, "turtle")
	data, err := os.ReadFile(resp.Files["turtle"])
	require.NoError(t, err)
	assert.Equal(t, resp.Turtle, string(data))
	assert.Equal(t, srv.OutDir, filepath.Dir(resp.Files["turtle"]))
}

func TestServer_BuildMalformedQuery(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/build", gin.H{
		"query": "not a query",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_BuildMissingQuery(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/build", gin.H{"rows": []sparql.Row{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Convert(t *testing.T) {
	rows := []sparql.Row{
		{"capital": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Paris"}},
	}
	srv := newTestServer(t, []string{
		`{"category": "FACT_LOOKUP"}`,
		"SELECT ?capital WHERE { dbr:France dbo:capital ?capital . } LIMIT 10",
	}, rows)

	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/convert", gin.H{
		"question": "What is the capital of France?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Question  string `json:"question"`
		QueryType string `json:"query_type"`
		Query     string `json:"query"`
		Turtle    string `json:"turtle"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "What is the capital of France?", resp.Question)
	assert.Equal(t, "FACT_LOOKUP", resp.QueryType)
	assert.Contains(t, resp.Query, "PREFIX dbr:")
	assert.Contains(t, resp.Turtle, "dbo:capital")
}

func TestServer_ConvertMissingQuestion(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/convert", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_ConvertGeneratorFailure(t *testing.T) {
	srv := newTestServer(t, []string{`{"category": "NOT_A_TYPE"}`}, nil)
	w := doJSON(t, srv.SetupRouter(), http.MethodPost, "/convert", gin.H{
		"question": "question",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
