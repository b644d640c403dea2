package analyze

import (
	"math"

	"github.com/querif/nl2rdf/internal/rdf"
)

// Metrics holds per-node centrality scores for a built graph.
type Metrics struct {
	Degree   map[string]int
	PageRank map[string]float64
}

// ComputeMetrics calculates degree and PageRank over the graph. Parallel
// edges contribute to degree individually.
func ComputeMetrics(g *rdf.Graph) Metrics {
	entities := g.Entities()
	degree := make(map[string]int, len(entities))
	for _, e := range entities {
		degree[e.ID] = 0
	}

	out := make(map[string][]string, len(entities))
	for _, edge := range g.Edges() {
		degree[edge.Subject]++
		degree[edge.Object]++
		out[edge.Subject] = append(out[edge.Subject], edge.Object)
	}

	return Metrics{
		Degree:   degree,
		PageRank: pagerank(entities, out),
	}
}

// pagerank runs the standard power iteration with damping 0.85 until the
// ranks stabilize.
func pagerank(entities []rdf.Entity, out map[string][]string) map[string]float64 {
	n := len(entities)
	ranks := make(map[string]float64, n)
	if n == 0 {
		return ranks
	}

	const (
		damping   = 0.85
		maxIter   = 100
		tolerance = 1e-6
	)

	for _, e := range entities {
		ranks[e.ID] = 1.0 / float64(n)
	}

	for iter := 0; iter < maxIter; iter++ {
		next := make(map[string]float64, n)
		base := (1 - damping) / float64(n)
		for _, e := range entities {
			next[e.ID] = base
		}

		var sinkMass float64
		for _, e := range entities {
			targets := out[e.ID]
			if len(targets) == 0 {
				sinkMass += ranks[e.ID]
				continue
			}
			share := damping * ranks[e.ID] / float64(len(targets))
			for _, t := range targets {
				next[t] += share
			}
		}

		// Redistribute rank trapped in sink nodes.
		if sinkMass > 0 {
			share := damping * sinkMass / float64(n)
			for _, e := range entities {
				next[e.ID] += share
			}
		}

		var delta float64
		for id, r := range next {
			delta += math.Abs(r - ranks[id])
		}
		ranks = next
		if delta < tolerance {
			break
		}
	}

	return ranks
}
