package rdf

import (
	"github.com/querif/nl2rdf/internal/sparql"
)

// Default data-shaping limits. They bound graph size and display text and
// are not correctness-critical.
const (
	DefaultMaxRows       = 10
	DefaultMaxLiteralLen = 50
	DefaultMaxLabelLen   = 20
)

// AssembleOptions carries the per-build limits. Zero values fall back to
// the defaults.
type AssembleOptions struct {
	MaxRows       int
	MaxLiteralLen int
	MaxLabelLen   int
}

func (o AssembleOptions) withDefaults() AssembleOptions {
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.MaxLiteralLen <= 0 {
		o.MaxLiteralLen = DefaultMaxLiteralLen
	}
	if o.MaxLabelLen <= 0 {
		o.MaxLabelLen = DefaultMaxLabelLen
	}
	return o
}

// Assemble builds a graph from the extracted query shape and the result
// rows. Rows are processed in input order and patterns in extraction order;
// a pattern whose subject or object does not resolve for a row contributes
// no edge for that row. Rows beyond MaxRows are ignored. Empty rows or
// patterns produce an empty, valid graph.
func Assemble(shape *sparql.QueryShape, rows []sparql.Row, opts AssembleOptions) *Graph {
	opts = opts.withDefaults()

	g := NewGraph()
	r := &resolver{
		graph:         g,
		maxLiteralLen: opts.MaxLiteralLen,
		maxLabelLen:   opts.MaxLabelLen,
	}

	seedHints(g, r, shape)

	if len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}

	for rowIndex, row := range rows {
		for _, p := range shape.Patterns {
			isType := p.Predicate == "rdf:type"

			subjID, ok := r.resolve(p.Subject, row, rowIndex, false)
			if !ok {
				continue
			}
			objID, ok := r.resolve(p.Object, row, rowIndex, isType)
			if !ok {
				continue
			}

			g.AddEdge(subjID, p.Predicate, objID)
		}
	}

	return g
}

// seedHints registers the primary-subject and primary-class entities before
// any row is processed, so that queries whose WHERE body never names the
// primary identifier still surface it.
func seedHints(g *Graph, r *resolver, shape *sparql.QueryShape) {
	if shape.PrimarySubject != "" {
		id := shortID(shape.PrimarySubject)
		g.Add(Entity{
			ID:    id,
			Kind:  KindResource,
			Label: truncate(labelFor(id), r.maxLabelLen),
			IRI:   fullIRI(id),
		})
	}
	if shape.PrimaryClass != "" {
		id := shortID(shape.PrimaryClass)
		g.Add(Entity{
			ID:    id,
			Kind:  KindClass,
			Label: truncate(labelFor(id), r.maxLabelLen),
			IRI:   fullIRI(id),
		})
	}
}

func fullIRI(id string) string {
	if iri := PrefixedToURI(id); iri != id {
		return iri
	}
	return ""
}
