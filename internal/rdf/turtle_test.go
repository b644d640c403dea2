package rdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurtle_EmptyGraph(t *testing.T) {
	doc := NewGraph().Turtle()

	lines := strings.Split(doc, "\n")
	// Header, blank separator, nothing else.
	require.Len(t, lines, len(Namespaces)+2)
	assert.Equal(t, "@prefix dbc: <http://dbpedia.org/resource/Category:> .", lines[0])
	assert.Equal(t, "", lines[len(Namespaces)])
	assert.Equal(t, "", lines[len(Namespaces)+1])
}

func TestTurtle_SingleTriple(t *testing.T) {
	g := NewGraph()
	g.Add(Entity{ID: "dbr:France", Kind: KindResource, IRI: "http://dbpedia.org/resource/France"})
	g.Add(Entity{ID: "dbr:Paris", Kind: KindResource, IRI: "http://dbpedia.org/resource/Paris"})
	g.AddEdge("dbr:France", "dbo:capital", "dbr:Paris")

	doc := g.Turtle()
	assert.Contains(t, doc, "<http://dbpedia.org/resource/France> dbo:capital <http://dbpedia.org/resource/Paris> .\n")
}

func TestTurtle_FallsBackToShortForm(t *testing.T) {
	g := NewGraph()
	g.Add(Entity{ID: "dbr:France", Kind: KindResource})
	g.Add(Entity{ID: "dbr:Paris", Kind: KindResource})
	g.AddEdge("dbr:France", "dbo:capital", "dbr:Paris")

	assert.Contains(t, g.Turtle(), "dbr:France dbo:capital dbr:Paris .\n")
}

func TestTurtle_LiteralObject(t *testing.T) {
	g := NewGraph()
	g.Add(Entity{ID: "dbr:France", Kind: KindResource})
	g.Add(Entity{ID: "literal_0_motto", Kind: KindLiteral, Label: "Liberty...", Text: `Liberty, "Equality", Back\slash`})
	g.AddEdge("dbr:France", "dbo:motto", "literal_0_motto")

	// The untruncated text is serialized, with quotes and backslashes escaped.
	assert.Contains(t, g.Turtle(), `dbr:France dbo:motto "Liberty, \"Equality\", Back\\slash" .`)
}

func TestTurtle_EdgeOrderPreserved(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"a", "b", "c"} {
		g.Add(Entity{ID: id})
	}
	g.AddEdge("b", "dbo:p", "c")
	g.AddEdge("a", "dbo:p", "b")
	g.AddEdge("a", "dbo:p", "c")

	doc := g.Turtle()
	body := doc[strings.Index(doc, "\n\n")+2:]
	assert.Equal(t, "b dbo:p c .\na dbo:p b .\na dbo:p c .\n", body)
}

func TestTurtle_Deterministic(t *testing.T) {
	build := func() string {
		g := NewGraph()
		g.Add(Entity{ID: "dbr:France", Kind: KindResource, IRI: "http://dbpedia.org/resource/France"})
		g.Add(Entity{ID: "literal_0_name", Kind: KindLiteral, Text: "France"})
		g.AddEdge("dbr:France", "foaf:name", "literal_0_name")
		return g.Turtle()
	}

	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}
