package sparql

import (
	"regexp"
	"strings"
)

// TokenKind enumerates the token categories a triple pattern can hold.
// Keeping this a closed set means new token shapes are a deliberate
// extension rather than another string-prefix check in the resolver.
type TokenKind int

const (
	// TokenVariable is a SPARQL variable, e.g. "?capital".
	TokenVariable TokenKind = iota
	// TokenPrefixed is a prefixed name, e.g. "dbo:capital".
	TokenPrefixed
	// TokenIRI is an absolute IRI in angle brackets, e.g. "<http://...>".
	TokenIRI
	// TokenLiteral is a quoted literal constant, e.g. "Paris".
	TokenLiteral
)

func (k TokenKind) String() string {
	switch k {
	case TokenVariable:
		return "variable"
	case TokenPrefixed:
		return "prefixed"
	case TokenIRI:
		return "iri"
	case TokenLiteral:
		return "literal"
	}
	return "unknown"
}

// Token is one classified pattern token. Text carries the payload without
// its delimiters: the variable name without "?", the prefixed name as-is,
// the IRI without angle brackets, or the literal text without quotes and
// without any language tag.
type Token struct {
	Kind TokenKind
	Text string
}

var (
	variableRe = regexp.MustCompile(`^\?(\w+)$`)
	prefixedRe = regexp.MustCompile(`^[A-Za-z][\w-]*:[\w.\-%]+$`)
)

// Classify categorizes a raw token string. It is a pure function of the
// token text; malformed tokens report ok=false and are rejected by the
// extractor, not here.
func Classify(raw string) (Token, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Token{}, false
	}

	if m := variableRe.FindStringSubmatch(raw); m != nil {
		return Token{Kind: TokenVariable, Text: m[1]}, true
	}

	if strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") && len(raw) > 2 {
		return Token{Kind: TokenIRI, Text: raw[1 : len(raw)-1]}, true
	}

	if strings.HasPrefix(raw, `"`) {
		text, ok := unquoteLiteral(raw)
		if !ok {
			return Token{}, false
		}
		return Token{Kind: TokenLiteral, Text: text}, true
	}

	if prefixedRe.MatchString(raw) {
		return Token{Kind: TokenPrefixed, Text: raw}, true
	}

	return Token{}, false
}

// unquoteLiteral strips the surrounding quotes and an optional trailing
// language tag ("Paris"@en) or datatype suffix, unescaping \" and \\.
func unquoteLiteral(raw string) (string, bool) {
	end := -1
	for i := 1; i < len(raw); i++ {
		if raw[i] == '\\' {
			i++
			continue
		}
		if raw[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", false
	}

	tail := raw[end+1:]
	if tail != "" && !strings.HasPrefix(tail, "@") && !strings.HasPrefix(tail, "^^") {
		return "", false
	}

	body := raw[1:end]
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
		}
		b.WriteByte(body[i])
	}
	return b.String(), true
}
