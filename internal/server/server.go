package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/querif/nl2rdf/internal/analyze"
	"github.com/querif/nl2rdf/internal/config"
	"github.com/querif/nl2rdf/internal/core"
	"github.com/querif/nl2rdf/internal/core/common"
	"github.com/querif/nl2rdf/internal/llm"
	"github.com/querif/nl2rdf/internal/nl2sparql"
	"github.com/querif/nl2rdf/internal/rdf"
	"github.com/querif/nl2rdf/internal/sparql"
)

type Server struct {
	Converter *core.Converter
	OutDir    string
}

// NewServer wires the full pipeline from configuration: TOML file (path
// from CONFIG_PATH, default config/config.toml), environment overrides,
// LLM client factory and SPARQL endpoint client.
func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s: %v. Using defaults", cfgPath, err)
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
	}

	llmClient, embedder, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	executor := sparql.NewClient(cfg.Endpoint.URL, time.Duration(cfg.Endpoint.TimeoutSeconds)*time.Second)
	generator := nl2sparql.NewGenerator(llmClient, cfg.Prompts.Detection, cfg.Prompts.Generation)

	return &Server{
		Converter: core.NewConverter(generator, executor, embedder, cfg),
		OutDir:    cfg.OutDir,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/convert", s.Convert)
	r.POST("/build", s.Build)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type ConvertRequest struct {
	Question string `json:"question" binding:"required"`
}

func (s *Server) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.Converter.Convert(c.Request.Context(), req.Question)
	if err != nil {
		log.Printf("Failed to convert %q: %v", req.Question, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert question"})
		return
	}

	c.JSON(http.StatusOK, s.buildResponse(result))
}

type BuildRequest struct {
	Query string       `json:"query" binding:"required"`
	Rows  []sparql.Row `json:"rows"`
}

// Build assembles a graph from a caller-supplied query and result rows,
// without involving the LLM or the endpoint.
func (s *Server) Build(c *gin.Context) {
	var req BuildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := s.Converter.Build(req.Query, req.Rows)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, sparql.ErrMalformedQuery) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, s.buildResponse(result))
}

type entityResponse struct {
	ID    string `json:"id"`
	Kind  string `json:"kind"`
	Label string `json:"label"`
	IRI   string `json:"iri,omitempty"`
}

func (s *Server) buildResponse(result *core.Result) gin.H {
	entities := make([]entityResponse, 0, result.Graph.Len())
	for _, e := range result.Graph.Entities() {
		entities = append(entities, entityResponse{
			ID:    e.ID,
			Kind:  e.Kind.String(),
			Label: e.Label,
			IRI:   e.IRI,
		})
	}

	resp := gin.H{
		"id":       result.ID,
		"query":    result.Query,
		"entities": entities,
		"edges":    result.Graph.Edges(),
		"turtle":   result.Turtle,
	}
	if result.Question != "" {
		resp["question"] = result.Question
		resp["query_type"] = result.QueryType
	}

	if communities, err := analyze.NewLabelPropagationDetector().Detect(result.Graph); err == nil && len(communities) > 0 {
		groups := make([][]string, len(communities))
		for i, community := range communities {
			for _, e := range community {
				groups[i] = append(groups[i], e.ID)
			}
		}
		resp["communities"] = groups
	}

	if top := topNodes(result.Graph, 5); len(top) > 0 {
		resp["top_nodes"] = top
	}

	if len(result.Clusters) > 0 {
		resp["row_clusters"] = result.Clusters
	}

	if files := s.writeArtifacts(result); files != nil {
		resp["files"] = files
	}

	return resp
}

type rankedNode struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Degree   int     `json:"degree"`
	PageRank float64 `json:"pagerank"`
}

// topNodes ranks entities by PageRank and returns the first limit of them.
func topNodes(g *rdf.Graph, limit int) []rankedNode {
	entities := g.Entities()
	if len(entities) == 0 {
		return nil
	}

	m := analyze.ComputeMetrics(g)
	out := make([]rankedNode, 0, len(entities))
	for _, e := range entities {
		out = append(out, rankedNode{
			ID:       e.ID,
			Label:    e.Label,
			Degree:   m.Degree[e.ID],
			PageRank: m.PageRank[e.ID],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PageRank > out[j].PageRank
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// writeArtifacts persists the Turtle document and PNG under the output
// directory. Failures are logged, never surfaced: the response already
// carries the serialized graph.
func (s *Server) writeArtifacts(result *core.Result) gin.H {
	if s.OutDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.OutDir, 0o755); err != nil {
		log.Printf("Failed to create output dir %s: %v", s.OutDir, err)
		return nil
	}

	stem := common.Slug(result.Question, 40)
	if result.Question == "" {
		stem = result.ID
	}

	files := gin.H{}
	ttlPath := filepath.Join(s.OutDir, stem+"_rdf.ttl")
	if err := os.WriteFile(ttlPath, []byte(result.Turtle), 0o644); err != nil {
		log.Printf("Failed to write %s: %v", ttlPath, err)
	} else {
		files["turtle"] = ttlPath
	}

	if len(result.PNG) > 0 {
		pngPath := filepath.Join(s.OutDir, stem+"_rdf.png")
		if err := os.WriteFile(pngPath, result.PNG, 0o644); err != nil {
			log.Printf("Failed to write %s: %v", pngPath, err)
		} else {
			files["png"] = pngPath
		}
	}

	if len(files) == 0 {
		return nil
	}
	return files
}
