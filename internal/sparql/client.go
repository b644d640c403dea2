package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Value kinds in the SPARQL 1.1 JSON results format.
const (
	ValueURI          = "uri"
	ValueLiteral      = "literal"
	ValueTypedLiteral = "typed-literal"
)

// Value is one bound result value: its declared kind plus the raw text.
type Value struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Lang  string `json:"xml:lang,omitempty"`
}

// Row maps variable names to bound values. Variables a row does not bind
// are simply absent, which is a normal condition for partial results.
type Row map[string]Value

// Client executes queries against a SPARQL HTTP endpoint and decodes the
// JSON results into rows.
type Client struct {
	endpoint string
	httpc    *http.Client
}

const DefaultEndpoint = "https://dbpedia.org/sparql"

func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

type resultsEnvelope struct {
	Results struct {
		Bindings []Row `json:"bindings"`
	} `json:"results"`
}

// Query runs one SELECT query and returns its rows in response order.
func (c *Client) Query(ctx context.Context, query string) ([]Row, error) {
	form := url.Values{}
	form.Set("query", query)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build endpoint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query endpoint %s: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope resultsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return envelope.Results.Bindings, nil
}
