package core

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/querif/nl2rdf/internal/analyze"
	"github.com/querif/nl2rdf/internal/config"
	"github.com/querif/nl2rdf/internal/llm"
	"github.com/querif/nl2rdf/internal/nl2sparql"
	"github.com/querif/nl2rdf/internal/rdf"
	"github.com/querif/nl2rdf/internal/render"
	"github.com/querif/nl2rdf/internal/sparql"
)

// QueryExecutor runs a SPARQL query and returns its result rows. Satisfied
// by sparql.Client; mocked in tests.
type QueryExecutor interface {
	Query(ctx context.Context, query string) ([]sparql.Row, error)
}

// Converter drives the full pipeline: question to query, query to rows,
// rows to graph, graph to Turtle and PNG. Each Convert/Build call owns its
// own graph state, so converters are safe for concurrent use.
type Converter struct {
	Generator *nl2sparql.Generator
	Executor  QueryExecutor
	Embedder  llm.EmbedderClient
	Limits    config.LimitsConfig
	Render    config.RenderConfig
}

// Result is one completed build. Clusters is only populated by Convert,
// and only when an embedder is configured.
type Result struct {
	ID        string
	Question  string
	QueryType nl2sparql.QueryType
	Query     string
	Graph     *rdf.Graph
	Turtle    string
	PNG       []byte
	Clusters  []analyze.RowCluster
}

func NewConverter(generator *nl2sparql.Generator, executor QueryExecutor, embedder llm.EmbedderClient, cfg *config.Config) *Converter {
	return &Converter{
		Generator: generator,
		Executor:  executor,
		Embedder:  embedder,
		Limits:    cfg.Limits,
		Render:    cfg.Render,
	}
}

// Convert answers a natural-language question: generates a query, executes
// it, and assembles the result graph. Query generation or execution
// failures abort the build; resolution gaps inside the build do not.
func (c *Converter) Convert(ctx context.Context, question string) (*Result, error) {
	if c.Generator == nil {
		return nil, fmt.Errorf("no query generator configured")
	}
	if c.Executor == nil {
		return nil, fmt.Errorf("no query executor configured")
	}

	query, queryType, err := c.Generator.Generate(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query: %w", err)
	}
	log.Printf("Generated %s query for %q", queryType, question)

	rows, err := c.Executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	log.Printf("Query returned %d rows", len(rows))

	result, err := c.Build(query, rows)
	if err != nil {
		return nil, err
	}
	result.Question = question
	result.QueryType = queryType

	if c.Embedder != nil && len(rows) >= 2 {
		clusters, err := analyze.ClusterRows(ctx, c.Embedder, rows, 2, 4)
		if err != nil {
			// Clustering is a best-effort annotation on top of the build.
			log.Printf("Failed to cluster rows: %v", err)
		} else {
			result.Clusters = clusters
		}
	}

	return result, nil
}

// Build assembles a graph from an already-executed query and its rows.
// No LLM or network access happens here; the step is deterministic.
func (c *Converter) Build(query string, rows []sparql.Row) (*Result, error) {
	shape, err := sparql.ExtractPatterns(query)
	if err != nil {
		return nil, err
	}

	g := rdf.Assemble(shape, rows, rdf.AssembleOptions{
		MaxRows:       c.Limits.MaxRows,
		MaxLiteralLen: c.Limits.MaxLiteralLen,
		MaxLabelLen:   c.Limits.MaxLabelLen,
	})

	result := &Result{
		ID:     uuid.New().String(),
		Query:  query,
		Graph:  g,
		Turtle: g.Turtle(),
	}

	if g.Len() > 0 {
		png, err := render.PNG(g, render.Options{
			Width:       c.Render.Width,
			Height:      c.Render.Height,
			Iterations:  c.Render.Iterations,
			Seed:        c.Render.Seed,
			FontPath:    c.Render.FontPath,
			MaxLabelLen: c.Limits.MaxLabelLen,
		})
		if err != nil {
			// Rendering is best-effort; the graph and Turtle stand alone.
			log.Printf("Failed to render graph %s: %v", result.ID, err)
		} else {
			result.PNG = png
		}
	}

	return result, nil
}
