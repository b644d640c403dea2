package rdf

import (
	"fmt"
	"io"
	"strings"
)

// WriteTurtle renders the graph as a Turtle document: one @prefix line per
// known namespace in fixed order, a blank separator, then one triple line
// per edge in insertion order. Output is byte-identical across builds from
// identical input.
func (g *Graph) WriteTurtle(w io.Writer) error {
	for _, prefix := range sortedPrefixes() {
		if _, err := fmt.Fprintf(w, "@prefix %s: <%s> .\n", prefix, Namespaces[prefix]); err != nil {
			return fmt.Errorf("write turtle header: %w", err)
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write turtle header: %w", err)
	}

	for _, e := range g.edges {
		line := fmt.Sprintf("%s %s %s .\n", g.subjectTerm(e.Subject), e.Predicate, g.objectTerm(e.Object))
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write turtle triple: %w", err)
		}
	}
	return nil
}

// Turtle returns the serialized document as a string. Serialization of
// well-formed graph state cannot fail; only the caller's I/O boundary can.
func (g *Graph) Turtle() string {
	var b strings.Builder
	_ = g.WriteTurtle(&b)
	return b.String()
}

// subjectTerm prefers the delimited absolute form whenever the entity
// records a full identifier, falling back to the short prefixed id.
func (g *Graph) subjectTerm(id string) string {
	if e, ok := g.entities[id]; ok && e.IRI != "" {
		return "<" + e.IRI + ">"
	}
	return id
}

func (g *Graph) objectTerm(id string) string {
	e, ok := g.entities[id]
	if !ok {
		return id
	}
	if e.Kind == KindLiteral {
		return `"` + escapeLiteral(e.Text) + `"`
	}
	if e.IRI != "" {
		return "<" + e.IRI + ">"
	}
	return id
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
