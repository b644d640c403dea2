package nl2sparql

import (
	"context"
	"fmt"
	"strings"

	"github.com/querif/nl2rdf/internal/core/common"
	"github.com/querif/nl2rdf/internal/llm"
)

// QueryType is the category a natural-language question falls into. Each
// category has its own generation guidance.
type QueryType string

const (
	FactLookup   QueryType = "FACT_LOOKUP"
	ClassQuery   QueryType = "CLASS_QUERY"
	Aggregation  QueryType = "AGGREGATION"
	Comparison   QueryType = "COMPARISON"
	Definition   QueryType = "DEFINITION"
	Relationship QueryType = "RELATIONSHIP"
	Superlative  QueryType = "SUPERLATIVE"
	Boolean      QueryType = "BOOLEAN"
)

var allTypes = []QueryType{
	FactLookup, ClassQuery, Aggregation, Comparison,
	Definition, Relationship, Superlative, Boolean,
}

const defaultDetectionPrompt = `Classify the user's question into exactly ONE category:

- FACT_LOOKUP: Asking for a specific property of a named entity
  Examples: "When was Obama born?", "What is the capital of France?"

- CLASS_QUERY: Asking for a list of things matching criteria
  Examples: "Cities in France with population > 1M", "Movies directed by Spielberg"

- AGGREGATION: Asking for counts, sums, or statistics
  Examples: "How many albums did Adele release?", "Total population of EU countries"

- COMPARISON: Comparing two or more entities
  Examples: "Who is older, Obama or Trump?", "Which city is larger, Paris or London?"

- DEFINITION: Asking what something or someone is
  Examples: "What is DBpedia?", "Who is Albert Einstein?"

- RELATIONSHIP: Finding how entities are connected
  Examples: "How are Obama and Biden related?", "What connects Apple and Steve Jobs?"

- SUPERLATIVE: Asking for extremes (largest, oldest, most, etc.)
  Examples: "Largest city in Germany", "Oldest university in the world"

- BOOLEAN: Yes/no questions
  Examples: "Is Paris the capital of France?", "Did Einstein win a Nobel Prize?"

Reply with a JSON object: {"category": "<CATEGORY_NAME>"}

Question: %s`

type detectionResult struct {
	Category string `json:"category"`
}

// DetectType classifies a question into one of the eight query types.
func DetectType(ctx context.Context, client llm.LLMClient, prompt, question string) (QueryType, error) {
	if prompt == "" {
		prompt = defaultDetectionPrompt
	}

	response, err := client.Generate(ctx, fmt.Sprintf(prompt, question))
	if err != nil {
		return "", fmt.Errorf("failed to classify question: %w", err)
	}

	result, err := common.ParseJSON[detectionResult](response)
	if err != nil {
		return "", fmt.Errorf("failed to parse classification: %w", err)
	}

	category := QueryType(strings.ToUpper(strings.TrimSpace(result.Category)))
	for _, t := range allTypes {
		if category == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown query category %q", result.Category)
}
