package rdf

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/querif/nl2rdf/internal/sparql"
)

// resolver turns pattern tokens into entity ids, registering entities on
// first reference. It is owned by one Assemble call and shares the call's
// graph.
type resolver struct {
	graph         *Graph
	maxLiteralLen int
	maxLabelLen   int
}

var qualifierRe = regexp.MustCompile(`\s*\([^)]*\)$`)

// resolve maps a token to an entity id for the given row. ok=false means
// the token did not resolve (typically a variable absent from the row);
// that is a normal condition and the caller skips the containing edge.
// asClass promotes constant identifiers to class entities, used for the
// object of type assertions.
func (r *resolver) resolve(tok sparql.Token, row sparql.Row, rowIndex int, asClass bool) (string, bool) {
	switch tok.Kind {
	case sparql.TokenVariable:
		return r.resolveVariable(tok.Text, row, rowIndex)

	case sparql.TokenPrefixed:
		return r.addIdentifier(tok.Text, PrefixedToURI(tok.Text), asClass), true

	case sparql.TokenIRI:
		id := shortID(tok.Text)
		return r.addIdentifier(id, tok.Text, asClass), true

	case sparql.TokenLiteral:
		// A literal constant in the pattern itself; one node per row so its
		// id scheme lines up with literal-valued bindings.
		id := fmt.Sprintf("literal_%d_%s", rowIndex, slugLiteral(tok.Text))
		r.graph.Add(Entity{
			ID:    id,
			Kind:  KindLiteral,
			Label: truncate(tok.Text, r.maxLiteralLen),
			Text:  tok.Text,
		})
		return id, true
	}
	return "", false
}

func (r *resolver) resolveVariable(name string, row sparql.Row, rowIndex int) (string, bool) {
	v, bound := row[name]
	if !bound {
		return "", false
	}

	switch v.Type {
	case sparql.ValueURI:
		id := shortID(v.Value)
		r.graph.Add(Entity{
			ID:    id,
			Kind:  KindResource,
			Label: truncate(labelFor(id), r.maxLabelLen),
			IRI:   v.Value,
		})
		return id, true

	case sparql.ValueLiteral, sparql.ValueTypedLiteral:
		// Deterministic in (row, variable): the same pair resolved twice
		// yields the same node, identical text in different rows does not.
		id := fmt.Sprintf("literal_%d_%s", rowIndex, name)
		r.graph.Add(Entity{
			ID:    id,
			Kind:  KindLiteral,
			Label: truncate(v.Value, r.maxLiteralLen),
			Text:  v.Value,
		})
		return id, true
	}

	// Unknown value kind (e.g. bnode); skip the edge, never error.
	return "", false
}

// addIdentifier registers a constant identifier appearing directly in the
// pattern. Constants resolve identically for every row.
func (r *resolver) addIdentifier(id, iri string, asClass bool) string {
	kind := KindResource
	if asClass {
		kind = KindClass
	}
	if iri == id {
		iri = ""
	}
	r.graph.Add(Entity{
		ID:    id,
		Kind:  kind,
		Label: truncate(labelFor(id), r.maxLabelLen),
		IRI:   iri,
	})
	return id
}

// shortID normalizes a full URI to the prefixed short form, falling back to
// the last path segment for URIs outside every known namespace.
func shortID(uri string) string {
	id := URIToPrefixed(uri)
	if id != uri {
		return id
	}
	if i := strings.LastIndexAny(uri, "/#"); i >= 0 && i+1 < len(uri) {
		return uri[i+1:]
	}
	return uri
}

// labelFor derives display text from an identifier: local part only,
// separators replaced with spaces, trailing parenthesized qualifiers such
// as "(musician)" dropped.
func labelFor(id string) string {
	local := id
	if i := strings.LastIndex(local, ":"); i >= 0 {
		local = local[i+1:]
	}
	local = strings.ReplaceAll(local, "_", " ")
	local = qualifierRe.ReplaceAllString(local, "")
	return strings.TrimSpace(local)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

var slugRe = regexp.MustCompile(`\W+`)

func slugLiteral(text string) string {
	s := slugRe.ReplaceAllString(strings.ToLower(text), "_")
	s = strings.Trim(s, "_")
	if len(s) > 24 {
		s = s[:24]
	}
	return s
}
