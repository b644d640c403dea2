package analyze

import (
	"sort"

	"github.com/querif/nl2rdf/internal/rdf"
)

// CommunityDetector groups related nodes of a built graph.
type CommunityDetector interface {
	Detect(g *rdf.Graph) ([][]rdf.Entity, error)
}

// LabelPropagationDetector implements community detection using the Label
// Propagation Algorithm over the undirected projection of the graph.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(g *rdf.Graph) ([][]rdf.Entity, error) {
	entities := g.Entities()
	if len(entities) == 0 {
		return nil, nil
	}

	// Adjacency weighted by edge multiplicity; parallel assertions between
	// the same pair count as a stronger connection.
	adj := make(map[string]map[string]int)
	nodeMap := make(map[string]rdf.Entity)

	for _, e := range entities {
		nodeMap[e.ID] = e
		adj[e.ID] = make(map[string]int)
	}

	for _, edge := range g.Edges() {
		if edge.Subject == edge.Object {
			continue
		}
		adj[edge.Subject][edge.Object]++
		adj[edge.Object][edge.Subject]++
	}

	// Each node starts with its own label.
	labels := make(map[string]string)
	ids := make([]string, len(entities))
	for i, e := range entities {
		ids[i] = e.ID
		labels[e.ID] = e.ID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range ids {
			neighbors := adj[u]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}

			// Deterministic tie-break: lexicographically largest.
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[string][]rdf.Entity)
	for _, id := range ids {
		clusters[labels[id]] = append(clusters[labels[id]], nodeMap[id])
	}

	// Stable output order: by community label.
	keys := make([]string, 0, len(clusters))
	for k := range clusters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var communities [][]rdf.Entity
	for _, k := range keys {
		if len(clusters[k]) >= 2 {
			communities = append(communities, clusters[k])
		}
	}

	return communities, nil
}
