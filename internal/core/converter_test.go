package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querif/nl2rdf/internal/config"
	"github.com/querif/nl2rdf/internal/nl2sparql"
	"github.com/querif/nl2rdf/internal/sparql"
)

// scriptedLLM feeds canned responses to the generator in call order.
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
	rows    []sparql.Row
	queries []string
	err     error
}

func (s *stubExecutor) Query(ctx context.Context, query string) ([]sparql.Row, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func newTestConverter(llmResponses []string, executor QueryExecutor) *Converter {
	var generator *nl2sparql.Generator
	if llmResponses != nil {
		generator = nl2sparql.NewGenerator(&scriptedLLM{responses: llmResponses}, "", "")
	}
	return NewConverter(generator, executor, nil, config.Default())
}

func TestConverter_Convert(t *testing.T) {
	executor := &stubExecutor{rows: []sparql.Row{
		{"capital": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Paris"}},
	}}
	c := newTestConverter([]string{
		`{"category": "FACT_LOOKUP"}`,
		"SELECT ?capital WHERE { dbr:France dbo:capital ?capital . } LIMIT 10",
	}, executor)

	result, err := c.Convert(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, "What is the capital of France?", result.Question)
	assert.Equal(t, nl2sparql.FactLookup, result.QueryType)
	assert.NotEmpty(t, result.ID)

	// The executed query carries the prefix preamble.
	require.Len(t, executor.queries, 1)
	assert.True(t, strings.HasPrefix(executor.queries[0], "PREFIX "))

	assert.Equal(t, 2, result.Graph.Len())
	require.Len(t, result.Graph.Edges(), 1)
	assert.Contains(t, result.Turtle, "<http://dbpedia.org/resource/France> dbo:capital <http://dbpedia.org/resource/Paris> .")
	assert.NotEmpty(t, result.PNG)
}

func TestConverter_ConvertClassQueryHasNoPhantomResource(t *testing.T) {
	// A generated query that names no resource must not pick one up from
	// the PREFIX preamble the generator prepends.
	executor := &stubExecutor{rows: []sparql.Row{
		{"city": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Lyon"}},
	}}
	c := newTestConverter([]string{
		`{"category": "CLASS_QUERY"}`,
		"SELECT ?city WHERE { ?city a dbo:City . } LIMIT 10",
	}, executor)

	result, err := c.Convert(context.Background(), "List some cities")
	require.NoError(t, err)

	_, ok := result.Graph.Entity("dbr:Category:")
	assert.False(t, ok)
	assert.Equal(t, 2, result.Graph.Len()) // dbo:City + dbr:Lyon only
}

func TestConverter_ConvertExecutorFailure(t *testing.T) {
	executor := &stubExecutor{err: fmt.Errorf("endpoint down")}
	c := newTestConverter([]string{
		`{"category": "FACT_LOOKUP"}`,
		"SELECT ?x WHERE { dbr:France dbo:capital ?x . }",
	}, executor)

	_, err := c.Convert(context.Background(), "question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoint down")
}

func TestConverter_ConvertRequiresWiring(t *testing.T) {
	c := newTestConverter(nil, &stubExecutor{})
	_, err := c.Convert(context.Background(), "question")
	assert.Error(t, err)

	c = newTestConverter([]string{}, nil)
	_, err = c.Convert(context.Background(), "question")
	assert.Error(t, err)
}

type unitEmbedder struct{}

func (unitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	// Spread inputs out by length so clustering has something to separate.
	return []float32{float32(len(text)), float32(len(text) % 3)}, nil
}

func TestConverter_ConvertClustersRows(t *testing.T) {
	executor := &stubExecutor{rows: []sparql.Row{
		{"city": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Paris"}},
		{"city": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Marseille"}},
		{"city": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Lyon"}},
	}}
	c := newTestConverter([]string{
		`{"category": "CLASS_QUERY"}`,
		"SELECT ?city WHERE { ?city dbo:country dbr:France . }",
	}, executor)
	c.Embedder = unitEmbedder{}

	result, err := c.Convert(context.Background(), "cities in France")
	require.NoError(t, err)

	require.NotEmpty(t, result.Clusters)
	var covered int
	for _, cluster := range result.Clusters {
		covered += len(cluster.Rows)
	}
	assert.Equal(t, 3, covered)
}

func TestConverter_Build(t *testing.T) {
	c := newTestConverter(nil, &stubExecutor{})
	c.Executor = nil // Build must not touch the network

	rows := []sparql.Row{
		{"capital": {Type: sparql.ValueURI, Value: "http://dbpedia.org/resource/Paris"}},
	}
	result, err := c.Build("SELECT ?capital WHERE { dbr:France dbo:capital ?capital . }", rows)
	require.NoError(t, err)

	assert.Empty(t, result.Question)
	assert.Equal(t, 2, result.Graph.Len())
	assert.NotEmpty(t, result.Turtle)
}

func TestConverter_BuildMalformedQuery(t *testing.T) {
	c := newTestConverter(nil, &stubExecutor{})
	_, err := c.Build("not a query", nil)
	assert.ErrorIs(t, err, sparql.ErrMalformedQuery)
}

func TestConverter_BuildEmptyRows(t *testing.T) {
	c := newTestConverter(nil, &stubExecutor{})
	result, err := c.Build("SELECT ?x WHERE { ?x a dbo:City . }", nil)
	require.NoError(t, err)

	// The class hint still seeds a node; no edges exist.
	assert.Equal(t, 1, result.Graph.Len())
	assert.Empty(t, result.Graph.Edges())
	assert.NotEmpty(t, result.PNG)
}
