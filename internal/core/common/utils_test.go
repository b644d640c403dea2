package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type category struct {
	Category string `json:"category"`
}

func TestParseJSON_Clean(t *testing.T) {
	out, err := ParseJSON[category](`{"category": "FACT_LOOKUP"}`)
	require.NoError(t, err)
	assert.Equal(t, "FACT_LOOKUP", out.Category)
}

func TestParseJSON_SurroundingChatter(t *testing.T) {
	out, err := ParseJSON[category]("Sure, here you go:\n```json\n{\"category\": \"BOOLEAN\"}\n```\nLet me know!")
	require.NoError(t, err)
	assert.Equal(t, "BOOLEAN", out.Category)
}

func TestParseJSON_NoObject(t *testing.T) {
	_, err := ParseJSON[category]("no braces at all")
	assert.Error(t, err)
}

func TestCleanSPARQL_Fenced(t *testing.T) {
	q := CleanSPARQL("```sparql\nSELECT ?x WHERE { ?x a dbo:City . }\n```")
	assert.Equal(t, "SELECT ?x WHERE { ?x a dbo:City . }", q)
}

func TestCleanSPARQL_PlainFence(t *testing.T) {
	q := CleanSPARQL("```\nSELECT ?x WHERE { ?x a dbo:City . }\n```")
	assert.Equal(t, "SELECT ?x WHERE { ?x a dbo:City . }", q)
}

func TestCleanSPARQL_Bare(t *testing.T) {
	q := CleanSPARQL("  SELECT ?x WHERE { ?x a dbo:City . }  ")
	assert.Equal(t, "SELECT ?x WHERE { ?x a dbo:City . }", q)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "what_is_the_capital_of_france", Slug("What is the capital of France?", 0))
	assert.Equal(t, "what_is", Slug("What is the capital of France?", 7))
	assert.Equal(t, "query", Slug("???", 10))
}
