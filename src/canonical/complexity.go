package canonical

import (
	"sort"
	"strings"

	"github.com/provchain/graphchain/src/rdf"
)

// Complexity is the tier assigned to a graph by Classify. It is computed on
// demand from blank-node topology and never persisted.
type Complexity uint8

const (
	// Simple graphs contain no blank nodes.
	Simple Complexity = iota
	// Moderate graphs contain blank nodes but no blank-to-blank edges.
	Moderate
	// Complex graphs contain blank-to-blank chains or trees whose blank
	// nodes are all topologically distinguishable.
	Complex
	// Pathological graphs contain blank-node cycles, or two or more blank
	// nodes with structurally identical neighborhoods. Heuristic hashing
	// cannot break these symmetries.
	Pathological
)

// String ...
func (c Complexity) String() string {
	switch c {
	case Simple:
		return "simple"
	case Moderate:
		return "moderate"
	case Complex:
		return "complex"
	case Pathological:
		return "pathological"
	}
	return "unknown"
}

// Classify inspects the blank-node topology of a graph and assigns a
// complexity tier. It is a pure function: it only reads counts and local
// adjacency, always terminates, and has no error conditions.
func Classify(g *rdf.Graph) Complexity {
	blanks := g.BlankNodes()
	if len(blanks) == 0 {
		return Simple
	}

	//blank-to-blank edges, directed subject -> object
	edges := map[string][]string{}
	hasEdges := false
	for _, t := range g.Triples {
		if t.Subject.IsBlank() && t.Object.IsBlank() {
			edges[t.Subject.Value] = append(edges[t.Subject.Value], t.Object.Value)
			hasEdges = true
		}
	}

	if !hasEdges {
		return Moderate
	}

	if hasCycle(blanks, edges) {
		return Pathological
	}

	if hasIndistinguishableBlanks(g, blanks) {
		return Pathological
	}

	return Complex
}

// hasCycle runs an iterative three-color DFS over the blank-node-induced
// subgraph. A back edge, including a self loop, means a cycle.
func hasCycle(blanks []string, edges map[string][]string) bool {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[string]int{}

	for _, start := range blanks {
		if color[start] != white {
			continue
		}

		type visit struct {
			node string
			next int
		}
		stack := []visit{{node: start}}
		color[start] = grey

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succ := edges[top.node]

			if top.next == len(succ) {
				color[top.node] = black
				stack = stack[:len(stack)-1]
				continue
			}

			child := succ[top.next]
			top.next++

			switch color[child] {
			case grey:
				return true
			case white:
				color[child] = grey
				stack = append(stack, visit{node: child})
			}
		}
	}

	return false
}

// hasIndistinguishableBlanks reports whether two blank nodes share an
// identical one-hop neighborhood signature. Other blank nodes in the
// neighborhood are reduced to a fixed placeholder, so the signature captures
// local structure without depending on local ids.
func hasIndistinguishableBlanks(g *rdf.Graph, blanks []string) bool {
	signatures := map[string]string{}

	for _, id := range blanks {
		parts := []string{}
		for _, t := range g.Triples {
			pred, err := t.Predicate.Canonical()
			if err != nil {
				pred = t.Predicate.Value
			}
			if t.Subject.IsBlank() && t.Subject.Value == id {
				parts = append(parts, "s|"+pred+"|"+neighborKey(t.Object))
			}
			if t.Object.IsBlank() && t.Object.Value == id {
				parts = append(parts, "o|"+pred+"|"+neighborKey(t.Subject))
			}
		}
		sort.Strings(parts)
		sig := strings.Join(parts, "\n")

		if _, dup := signatures[sig]; dup {
			return true
		}
		signatures[sig] = id
	}

	return false
}

func neighborKey(t rdf.Term) string {
	if t.IsBlank() {
		return "_:*"
	}
	s, err := t.Canonical()
	if err != nil {
		return t.Value
	}
	return s
}
