package sparql

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMalformedQuery reports a query with no identifiable WHERE block.
// It aborts the whole build; there is no partial graph to salvage.
var ErrMalformedQuery = errors.New("query has no WHERE block")

// Pattern is one (subject, predicate, object) template extracted from the
// query body. The predicate is kept verbatim and never resolved as a token.
type Pattern struct {
	Subject   Token
	Predicate string
	Object    Token
}

// QueryShape is the result of scanning a query: its triple patterns in
// extraction order plus two optional hints. PrimarySubject is the first
// named resource mentioned anywhere in the query, PrimaryClass the class of
// the first type assertion. Both are prefixed names, empty when absent.
// Hint detection is a first-match heuristic carried over from the original
// extraction logic; for queries with several type assertions it may not
// agree with the pattern a human would call primary.
type QueryShape struct {
	Patterns       []Pattern
	PrimarySubject string
	PrimaryClass   string
}

const typePredicate = "rdf:type"

var (
	whereRe   = regexp.MustCompile(`(?is)WHERE\s*\{(.*?)\}`)
	filterRe  = regexp.MustCompile(`(?is)FILTER\s*\([^)]*\)`)
	prefixRe  = regexp.MustCompile(`(?im)^\s*PREFIX\s+[^\n]*`)
	subjectRe = regexp.MustCompile(`\bdbr:[\w.\-%]+`)
	iriSubjRe = regexp.MustCompile(`<(http://dbpedia\.org/resource/[^>]+)>`)

	// One scan token: variable, IRI, quoted literal with optional language
	// tag, prefixed name, the "a" type shorthand, or a separator.
	scanRe = regexp.MustCompile(`\?\w+|<[^>]+>|"(?:[^"\\]|\\.)*"(?:@[\w-]+|\^\^\S+)?|\ba\b|[A-Za-z][\w-]*:[\w.\-%]+|[.;]`)
)

// ExtractPatterns scans the query text for triple patterns inside the WHERE
// block. Duplicate patterns are kept and order is preserved; they may bind
// different values in practice. A query without a WHERE block fails with
// ErrMalformedQuery.
func ExtractPatterns(query string) (*QueryShape, error) {
	m := whereRe.FindStringSubmatch(query)
	if m == nil {
		return nil, fmt.Errorf("extract patterns: %w", ErrMalformedQuery)
	}

	body := filterRe.ReplaceAllString(m[1], " ")

	shape := &QueryShape{
		Patterns: scanTriples(body),
	}
	shape.PrimarySubject = detectPrimarySubject(query)
	shape.PrimaryClass = detectPrimaryClass(shape.Patterns)
	return shape, nil
}

// scanTriples walks the token stream of a pattern block. Each triple is
// subject, predicate, object followed by "." (end of subject) or ";"
// (same subject, next predicate). Tokens that fit no category reset the
// scan, silently dropping the partial triple.
func scanTriples(body string) []Pattern {
	raws := scanRe.FindAllString(body, -1)

	var patterns []Pattern
	var subject, object Token
	var predicate string
	state := 0 // 0 = want subject, 1 = want predicate, 2 = want object, 3 = want separator

	for _, raw := range raws {
		if raw == "." || raw == ";" {
			if state == 3 {
				patterns = append(patterns, Pattern{Subject: subject, Predicate: predicate, Object: object})
			}
			if raw == ";" && state >= 1 {
				state = 1
			} else {
				state = 0
			}
			continue
		}

		tok, ok := Classify(raw)

		switch state {
		case 0:
			if ok && tok.Kind != TokenLiteral {
				subject = tok
				state = 1
			}
		case 1:
			switch {
			case raw == "a":
				predicate = typePredicate
				state = 2
			case ok && (tok.Kind == TokenPrefixed || tok.Kind == TokenIRI):
				predicate = raw
				state = 2
			default:
				state = 0
			}
		case 2:
			if ok {
				object = tok
				state = 3
			} else {
				state = 0
			}
		case 3:
			// Missing separator; emit the pending triple and treat the
			// current token as the next subject.
			patterns = append(patterns, Pattern{Subject: subject, Predicate: predicate, Object: object})
			state = 0
			if ok && tok.Kind != TokenLiteral {
				subject = tok
				state = 1
			}
		}
	}

	if state == 3 {
		patterns = append(patterns, Pattern{Subject: subject, Predicate: predicate, Object: object})
	}

	return patterns
}

// detectPrimarySubject finds the first named resource mentioned anywhere in
// the query, independent of the pattern grammar: a dbr: prefixed name, or
// failing that a full resource IRI. PREFIX declaration lines are dropped
// first; the dbc:/dbt: declarations expand into the resource namespace and
// the IRI fallback would otherwise read them as a resource.
func detectPrimarySubject(query string) string {
	query = prefixRe.ReplaceAllString(query, "")
	if m := subjectRe.FindString(query); m != "" {
		return m
	}
	if m := iriSubjRe.FindStringSubmatch(query); m != nil {
		return "dbr:" + strings.TrimPrefix(m[1], "http://dbpedia.org/resource/")
	}
	return ""
}

// detectPrimaryClass returns the class of the first type assertion whose
// subject is a variable and whose class is a constant.
func detectPrimaryClass(patterns []Pattern) string {
	for _, p := range patterns {
		if p.Predicate != typePredicate || p.Subject.Kind != TokenVariable {
			continue
		}
		switch p.Object.Kind {
		case TokenPrefixed:
			return p.Object.Text
		case TokenIRI:
			return p.Object.Text
		}
	}
	return ""
}
