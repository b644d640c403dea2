package render

import (
	"math"
	"math/rand"

	"github.com/querif/nl2rdf/internal/rdf"
)

// Point is a node position in the unit square.
type Point struct {
	X, Y float64
}

// SpringLayout computes a force-directed (Fruchterman-Reingold) layout for
// the graph. The random generator is seeded explicitly so the same graph
// always lays out the same way.
func SpringLayout(g *rdf.Graph, iterations int, seed int64) map[string]Point {
	entities := g.Entities()
	n := len(entities)
	if n == 0 {
		return map[string]Point{}
	}
	if iterations <= 0 {
		iterations = 50
	}

	rng := rand.New(rand.NewSource(seed))

	ids := make([]string, n)
	index := make(map[string]int, n)
	for i, e := range entities {
		ids[i] = e.ID
		index[e.ID] = i
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range ids {
		xs[i] = rng.Float64()
		ys[i] = rng.Float64()
	}

	type pair struct{ a, b int }
	var springs []pair
	for _, edge := range g.Edges() {
		a, okA := index[edge.Subject]
		b, okB := index[edge.Object]
		if okA && okB && a != b {
			springs = append(springs, pair{a, b})
		}
	}

	// Ideal pairwise distance for a unit-square layout.
	k := math.Sqrt(1.0 / float64(n))
	temp := 0.1

	dispX := make([]float64, n)
	dispY := make([]float64, n)

	for iter := 0; iter < iterations; iter++ {
		for i := range dispX {
			dispX[i] = 0
			dispY[i] = 0
		}

		// Repulsion between every pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := xs[i] - xs[j]
				dy := ys[i] - ys[j]
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					dx, dy, dist = 1e-4, 1e-4, 1e-4
				}
				force := k * k / dist
				dispX[i] += dx / dist * force
				dispY[i] += dy / dist * force
				dispX[j] -= dx / dist * force
				dispY[j] -= dy / dist * force
			}
		}

		// Attraction along edges.
		for _, s := range springs {
			dx := xs[s.a] - xs[s.b]
			dy := ys[s.a] - ys[s.b]
			dist := math.Hypot(dx, dy)
			if dist < 1e-9 {
				continue
			}
			force := dist * dist / k
			dispX[s.a] -= dx / dist * force
			dispY[s.a] -= dy / dist * force
			dispX[s.b] += dx / dist * force
			dispY[s.b] += dy / dist * force
		}

		// Apply displacement, capped by the cooling temperature.
		for i := 0; i < n; i++ {
			d := math.Hypot(dispX[i], dispY[i])
			if d < 1e-9 {
				continue
			}
			step := math.Min(d, temp)
			xs[i] += dispX[i] / d * step
			ys[i] += dispY[i] / d * step
		}
		temp *= 0.95
	}

	normalize(xs)
	normalize(ys)

	out := make(map[string]Point, n)
	for i, id := range ids {
		out[id] = Point{X: xs[i], Y: ys[i]}
	}
	return out
}

// normalize rescales coordinates into [0,1].
func normalize(vs []float64) {
	min, max := vs[0], vs[0]
	for _, v := range vs {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	span := max - min
	if span < 1e-9 {
		for i := range vs {
			vs[i] = 0.5
		}
		return
	}
	for i := range vs {
		vs[i] = (vs[i] - min) / span
	}
}
