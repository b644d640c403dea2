package rdf

// Kind enumerates the three entity kinds a graph node can have. The
// renderer's color and size mapping depends on this set staying closed.
type Kind int

const (
	KindResource Kind = iota
	KindClass
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindClass:
		return "class"
	case KindLiteral:
		return "literal"
	}
	return "unknown"
}

// Entity is one graph node. ID is the stable key within a build: resources
// and classes dedup on their normalized identifier, literals never unify
// even when their text matches. IRI is set only for resources and classes
// that carry a full identifier; Text keeps the untruncated literal value
// (Label may be shortened for display).
type Entity struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"-"`
	Label string `json:"label"`
	IRI   string `json:"iri,omitempty"`
	Text  string `json:"text,omitempty"`
}

// Edge is one property assertion (subject, predicate, object). The
// predicate is an opaque label, not a node. Identical triples are kept;
// insertion order is significant for serialization.
type Edge struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// Graph is the entity table and edge list of one build. Each build owns
// its graph exclusively; there is no process-wide registry.
type Graph struct {
	entities map[string]*Entity
	order    []string
	edges    []Edge
}

func NewGraph() *Graph {
	return &Graph{
		entities: make(map[string]*Entity),
	}
}

// Add registers an entity. Registration is idempotent: if the id already
// exists the call is a no-op and the first-seen values win.
func (g *Graph) Add(e Entity) {
	if _, exists := g.entities[e.ID]; exists {
		return
	}
	stored := e
	g.entities[e.ID] = &stored
	g.order = append(g.order, e.ID)
}

// AddEdge appends a property assertion. Both endpoints must already be
// registered; an edge with a missing endpoint is dropped so that every
// edge in the graph always references entries of the entity table.
func (g *Graph) AddEdge(subject, predicate, object string) {
	if _, ok := g.entities[subject]; !ok {
		return
	}
	if _, ok := g.entities[object]; !ok {
		return
	}
	g.edges = append(g.edges, Edge{Subject: subject, Predicate: predicate, Object: object})
}

// Entity looks up a node by id.
func (g *Graph) Entity(id string) (Entity, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Entity{}, false
	}
	return *e, true
}

// Entities returns all nodes in insertion order.
func (g *Graph) Entities() []Entity {
	out := make([]Entity, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.entities[id])
	}
	return out
}

// Edges returns the edge list in insertion order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Len reports the number of entities.
func (g *Graph) Len() int {
	return len(g.order)
}
