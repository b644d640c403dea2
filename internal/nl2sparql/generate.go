package nl2sparql

import (
	"context"
	"fmt"
	"strings"

	"github.com/querif/nl2rdf/internal/core/common"
	"github.com/querif/nl2rdf/internal/llm"
	"github.com/querif/nl2rdf/internal/rdf"
)

const defaultGenerationPrompt = `You are a SPARQL expert for DBpedia.

Generate a single SELECT query that answers the user's question.

Rules:
- Use the dbr:, dbo:, dbp: and rdfs: prefixes (they are already declared)
- Use FILTER with language tags for string values (usually @en)
- Keep the query to plain triple patterns where possible
- Always include a LIMIT clause (20 or less)
- Return ONLY the SPARQL query, no explanations or markdown

%s

Question: %s

Generate the SPARQL query:`

// guidance tunes the generation prompt per query type, condensed from the
// per-type generators of the upstream pipeline.
var guidance = map[QueryType]string{
	FactLookup:   "The question asks for a specific property of a named entity. Select that property's value from the entity.",
	ClassQuery:   "The question asks for instances of a class. Assert the class with rdf:type and constrain with the mentioned properties.",
	Aggregation:  "The question asks for a count or statistic. Use COUNT/SUM/AVG with GROUP BY as needed.",
	Comparison:   "The question compares entities. Select the compared property for each named entity.",
	Definition:   "The question asks what something is. Select the dbo:abstract or rdfs:comment of the entity, filtered to @en.",
	Relationship: "The question asks how entities are connected. Select properties linking the two named entities in either direction.",
	Superlative:  "The question asks for an extreme. ORDER BY the relevant property and LIMIT 1.",
	Boolean:      "The question is yes/no. Use an ASK-style pattern expressed as a SELECT over the asserted triple.",
}

// Generator turns natural-language questions into executable SPARQL. The
// prompt templates come from configuration, with compiled-in defaults.
type Generator struct {
	LLM              llm.LLMClient
	DetectionPrompt  string
	GenerationPrompt string
}

func NewGenerator(client llm.LLMClient, detectionPrompt, generationPrompt string) *Generator {
	return &Generator{
		LLM:              client,
		DetectionPrompt:  detectionPrompt,
		GenerationPrompt: generationPrompt,
	}
}

// Generate classifies the question, prompts for a query, cleans the
// response and prepends the PREFIX preamble. The returned query is ready
// to execute.
func (g *Generator) Generate(ctx context.Context, question string) (string, QueryType, error) {
	queryType, err := DetectType(ctx, g.LLM, g.DetectionPrompt, question)
	if err != nil {
		return "", "", err
	}

	prompt := g.GenerationPrompt
	if prompt == "" {
		prompt = defaultGenerationPrompt
	}

	response, err := g.LLM.Generate(ctx, fmt.Sprintf(prompt, guidance[queryType], question))
	if err != nil {
		return "", queryType, fmt.Errorf("failed to generate query: %w", err)
	}

	query := common.CleanSPARQL(response)
	if query == "" {
		return "", queryType, fmt.Errorf("empty query in response")
	}
	if !strings.Contains(strings.ToUpper(query), "SELECT") {
		return "", queryType, fmt.Errorf("response is not a SELECT query: %q", query)
	}

	return rdf.SPARQLPrefixes() + "\n" + query, queryType, nil
}
