package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/querif/nl2rdf/internal/sparql"
)

// mapEmbedder returns a fixed vector per input text.
type mapEmbedder struct {
	vectors map[string][]float32
}

func (m *mapEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, ok := m.vectors[text]
	if !ok {
		return []float32{0, 0}, nil
	}
	return v, nil
}

func literalRow(name, value string) sparql.Row {
	return sparql.Row{name: {Type: sparql.ValueLiteral, Value: value}}
}

func TestClusterRows_TwoGroups(t *testing.T) {
	rows := []sparql.Row{
		literalRow("city", "Paris"),
		literalRow("city", "Lyon"),
		literalRow("city", "Tokyo"),
		literalRow("city", "Osaka"),
	}
	embedder := &mapEmbedder{vectors: map[string][]float32{
		"Paris": {1, 0},
		"Lyon":  {0.9, 0.1},
		"Tokyo": {0, 1},
		"Osaka": {0.1, 0.9},
	}}

	clusters, err := ClusterRows(context.Background(), embedder, rows, 2, 3)
	require.NoError(t, err)
	require.Len(t, clusters, 2)

	// Each cluster holds one city pair.
	var sizes []int
	for _, c := range clusters {
		sizes = append(sizes, len(c.Rows))
	}
	assert.ElementsMatch(t, []int{2, 2}, sizes)

	// Paris and Lyon land together.
	for _, c := range clusters {
		for _, i := range c.Rows {
			if i == 0 {
				assert.Contains(t, c.Rows, 1)
			}
			if i == 2 {
				assert.Contains(t, c.Rows, 3)
			}
		}
	}
}

func TestClusterRows_NoEmbedder(t *testing.T) {
	_, err := ClusterRows(context.Background(), nil, []sparql.Row{literalRow("x", "v")}, 2, 5)
	assert.Error(t, err)
}

func TestClusterRows_NoRows(t *testing.T) {
	_, err := ClusterRows(context.Background(), &mapEmbedder{}, nil, 2, 5)
	assert.Error(t, err)
}

func TestClusterRows_SingleRow(t *testing.T) {
	clusters, err := ClusterRows(context.Background(), &mapEmbedder{}, []sparql.Row{literalRow("x", "v")}, 2, 5)
	require.NoError(t, err)
	require.Len(t, clusters, 1)
	assert.Equal(t, []int{0}, clusters[0].Rows)
}

func TestRowText_DeterministicVariableOrder(t *testing.T) {
	row := sparql.Row{
		"b": {Type: sparql.ValueLiteral, Value: "second"},
		"a": {Type: sparql.ValueLiteral, Value: "first"},
	}
	assert.Equal(t, "first second", rowText(row))
}
