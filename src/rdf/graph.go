package rdf

// Graph is an unordered set of triples scoped to one named-graph IRI. The
// order of the Triples slice is an artifact of insertion and carries no
// semantic meaning; canonicalization is required to be order-independent.
type Graph struct {
	ID      string
	Triples []Triple
}

// NewGraph ...
func NewGraph(id string, triples []Triple) *Graph {
	g := &Graph{
		ID:      id,
		Triples: make([]Triple, len(triples)),
	}
	copy(g.Triples, triples)
	return g
}

// Add appends a triple unless an equal statement is already present.
func (g *Graph) Add(t Triple) {
	for _, existing := range g.Triples {
		if existing.Equals(t) {
			return
		}
	}
	g.Triples = append(g.Triples, t)
}

// Len ...
func (g *Graph) Len() int {
	return len(g.Triples)
}

// BlankNodes returns the local identifiers of all blank nodes in the graph,
// in first-occurrence order.
func (g *Graph) BlankNodes() []string {
	seen := map[string]bool{}
	ids := []string{}
	for _, t := range g.Triples {
		if t.Subject.IsBlank() && !seen[t.Subject.Value] {
			seen[t.Subject.Value] = true
			ids = append(ids, t.Subject.Value)
		}
		if t.Object.IsBlank() && !seen[t.Object.Value] {
			seen[t.Object.Value] = true
			ids = append(ids, t.Object.Value)
		}
	}
	return ids
}

// HasBlankNodes ...
func (g *Graph) HasBlankNodes() bool {
	for _, t := range g.Triples {
		if t.Subject.IsBlank() || t.Object.IsBlank() {
			return true
		}
	}
	return false
}

// RelabelBlankNodes returns a copy of the graph with every blank node local
// id replaced according to the mapping. Ids absent from the mapping are kept.
func (g *Graph) RelabelBlankNodes(mapping map[string]string) *Graph {
	relabel := func(t Term) Term {
		if t.IsBlank() {
			if newID, ok := mapping[t.Value]; ok {
				return NewBlank(newID)
			}
		}
		return t
	}

	out := &Graph{ID: g.ID, Triples: make([]Triple, len(g.Triples))}
	for i, t := range g.Triples {
		out.Triples[i] = Triple{
			Subject:   relabel(t.Subject),
			Predicate: t.Predicate,
			Object:    relabel(t.Object),
		}
	}
	return out
}
