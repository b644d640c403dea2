package common

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T
	jsonStr := response

	// Find first '{' and last '}'
	start := -1
	end := -1

	for i, c := range jsonStr {
		if c == '{' {
			start = i
			break
		}
	}
	for i := len(jsonStr) - 1; i >= 0; i-- {
		if c := jsonStr[i]; c == '}' {
			end = i + 1
			break
		}
	}

	if start != -1 && end != -1 && start < end {
		jsonStr = jsonStr[start:end]
	} else if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}

var fenceRe = regexp.MustCompile("(?s)```(?:sparql|SPARQL)?\\s*(.*?)```")

// CleanSPARQL strips markdown code fences and surrounding chatter from an
// LLM response so only the query text remains.
func CleanSPARQL(response string) string {
	if m := fenceRe.FindStringSubmatch(response); m != nil {
		response = m[1]
	}
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "sparql")
	return strings.TrimSpace(response)
}

var slugCleanRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns free text into a short file-name-safe stem.
func Slug(text string, max int) string {
	s := strings.ToLower(text)
	s = slugCleanRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if max > 0 && len(s) > max {
		s = strings.Trim(s[:max], "_")
	}
	if s == "" {
		s = "query"
	}
	return s
}
