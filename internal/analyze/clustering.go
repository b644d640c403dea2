package analyze

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/querif/nl2rdf/internal/llm"
	"github.com/querif/nl2rdf/internal/sparql"
)

// RowCluster is one group of result rows judged semantically close.
type RowCluster struct {
	Label int   `json:"label"`
	Rows  []int `json:"rows"` // indices into the input row slice
}

// ClusterRows embeds each result row's concatenated values and groups the
// rows with k-means, picking k by silhouette score. Callers without an
// embedder (provider doesn't support embeddings) should skip this analysis.
func ClusterRows(ctx context.Context, embedder llm.EmbedderClient, rows []sparql.Row, minK, maxK int) ([]RowCluster, error) {
	if embedder == nil {
		return nil, fmt.Errorf("no embedder available")
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to cluster")
	}
	if minK < 2 {
		minK = 2
	}
	if maxK < minK {
		maxK = minK
	}

	embeddings := make([][]float32, len(rows))
	for i, row := range rows {
		vec, err := embedder.Embed(ctx, rowText(row))
		if err != nil {
			return nil, fmt.Errorf("failed to embed row %d: %w", i, err)
		}
		embeddings[i] = vec
	}

	k := 1
	if len(rows) >= 2 {
		k = findK(embeddings, minK, maxK)
	}

	labels := kmeans(embeddings, k)

	clusters := make(map[int][]int)
	for i, label := range labels {
		clusters[label] = append(clusters[label], i)
	}

	keys := make([]int, 0, len(clusters))
	for label := range clusters {
		keys = append(keys, label)
	}
	sort.Ints(keys)

	out := make([]RowCluster, 0, len(keys))
	for _, label := range keys {
		out = append(out, RowCluster{Label: label, Rows: clusters[label]})
	}
	return out, nil
}

// rowText joins a row's values into the text used for embedding, with
// deterministic variable order.
func rowText(row sparql.Row) string {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, row[name].Value)
	}
	return strings.Join(parts, " ")
}

// findK picks the cluster count with the best silhouette score.
func findK(embeddings [][]float32, minK, maxK int) int {
	if maxK > len(embeddings)-1 {
		maxK = len(embeddings) - 1
	}
	if maxK < minK {
		return min(minK, len(embeddings))
	}

	bestK := minK
	bestScore := -1.0
	for k := minK; k <= maxK; k++ {
		labels := kmeans(embeddings, k)
		score := silhouette(embeddings, labels, k)
		if score > bestScore {
			bestScore = score
			bestK = k
		}
	}
	return bestK
}

// kmeans is a plain Lloyd iteration with deterministic spread-out
// initialization (farthest-point seeding from the first vector).
func kmeans(embeddings [][]float32, k int) []int {
	n := len(embeddings)
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}

	centers := make([][]float32, 0, k)
	centers = append(centers, embeddings[0])
	for len(centers) < k {
		far, farDist := 0, -1.0
		for i, v := range embeddings {
			d := math.MaxFloat64
			for _, c := range centers {
				if dd := sqDist(v, c); dd < d {
					d = dd
				}
			}
			if d > farDist {
				farDist = d
				far = i
			}
		}
		centers = append(centers, embeddings[far])
	}

	labels := make([]int, n)
	for iter := 0; iter < 50; iter++ {
		changed := false
		for i, v := range embeddings {
			best, bestDist := 0, math.MaxFloat64
			for c, center := range centers {
				if d := sqDist(v, center); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		dims := len(embeddings[0])
		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, v := range embeddings {
			counts[labels[i]]++
			for d, x := range v {
				sums[labels[i]][d] += float64(x)
			}
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			center := make([]float32, dims)
			for d := range center {
				center[d] = float32(sums[c][d] / float64(counts[c]))
			}
			centers[c] = center
		}
	}

	return labels
}

// silhouette computes the mean silhouette coefficient; higher is better,
// range [-1, 1].
func silhouette(embeddings [][]float32, labels []int, k int) float64 {
	n := len(embeddings)
	if k < 2 {
		return -1
	}

	var total float64
	var counted int
	for i := 0; i < n; i++ {
		var intra, intraCount float64
		interMean := make(map[int]*[2]float64) // label -> {sum, count}

		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			d := math.Sqrt(sqDist(embeddings[i], embeddings[j]))
			if labels[j] == labels[i] {
				intra += d
				intraCount++
			} else {
				m := interMean[labels[j]]
				if m == nil {
					m = &[2]float64{}
					interMean[labels[j]] = m
				}
				m[0] += d
				m[1]++
			}
		}

		if intraCount == 0 || len(interMean) == 0 {
			continue
		}

		a := intra / intraCount
		b := math.MaxFloat64
		for _, m := range interMean {
			if mean := m[0] / m[1]; mean < b {
				b = mean
			}
		}

		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
			counted++
		}
	}

	if counted == 0 {
		return -1
	}
	return total / float64(counted)
}

func sqDist(a, b []float32) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
