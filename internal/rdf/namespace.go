package rdf

import (
	"fmt"
	"sort"
	"strings"
)

// Namespaces maps short prefixes to the full namespace IRIs recognized by
// the converter. The set covers the core RDF/OWL vocabularies, the DBpedia
// namespaces the upstream endpoint serves, and the common external
// vocabularies that show up in DBpedia results.
var Namespaces = map[string]string{
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"owl":  "http://www.w3.org/2002/07/owl#",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",

	"dbr": "http://dbpedia.org/resource/",
	"dbo": "http://dbpedia.org/ontology/",
	"dbp": "http://dbpedia.org/property/",
	"dbc": "http://dbpedia.org/resource/Category:",
	"dbt": "http://dbpedia.org/resource/Template:",

	"foaf":     "http://xmlns.com/foaf/0.1/",
	"dc":       "http://purl.org/dc/elements/1.1/",
	"dcterms":  "http://purl.org/dc/terms/",
	"skos":     "http://www.w3.org/2004/02/skos/core#",
	"geo":      "http://www.w3.org/2003/01/geo/wgs84_pos#",
	"georss":   "http://www.georss.org/georss/",
	"prov":     "http://www.w3.org/ns/prov#",
	"wikidata": "http://www.wikidata.org/entity/",
	"schema":   "http://schema.org/",
}

// byNamespaceLength holds prefixes ordered so that the longest namespace is
// matched first. dbc and dbt extend the dbr namespace, so a plain map walk
// would nondeterministically swallow Category:/Template: URIs into dbr.
var byNamespaceLength = func() []string {
	prefixes := make([]string, 0, len(Namespaces))
	for p := range Namespaces {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		a, b := Namespaces[prefixes[i]], Namespaces[prefixes[j]]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return prefixes
}()

// URIToPrefixed converts a full URI to its short prefixed form,
// e.g. "http://dbpedia.org/ontology/birthDate" -> "dbo:birthDate".
// URIs outside every known namespace are returned unchanged.
func URIToPrefixed(uri string) string {
	for _, prefix := range byNamespaceLength {
		ns := Namespaces[prefix]
		if strings.HasPrefix(uri, ns) {
			return prefix + ":" + uri[len(ns):]
		}
	}
	return uri
}

// PrefixedToURI expands a prefixed name to its full URI,
// e.g. "dbo:birthDate" -> "http://dbpedia.org/ontology/birthDate".
// Names with an unknown prefix are returned unchanged.
func PrefixedToURI(prefixed string) string {
	prefix, local, ok := strings.Cut(prefixed, ":")
	if !ok {
		return prefixed
	}
	ns, known := Namespaces[prefix]
	if !known {
		return prefixed
	}
	return ns + local
}

// SPARQLPrefixes returns the PREFIX declaration preamble to prepend to
// generated queries, one declaration per known namespace in prefix order.
func SPARQLPrefixes() string {
	var b strings.Builder
	for _, prefix := range sortedPrefixes() {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", prefix, Namespaces[prefix])
	}
	return b.String()
}

func sortedPrefixes() []string {
	prefixes := make([]string, 0, len(Namespaces))
	for p := range Namespaces {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}
