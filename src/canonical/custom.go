package canonical

import (
	"github.com/provchain/graphchain/src/rdf"
)

// Placeholders substituted for blank nodes in the custom per-triple hash.
// Subject and object placeholders differ so that _:x <p> <o> and <o> <p> _:x
// produce different digests.
const (
	magicSubject = "Magic_S"
	magicObject  = "Magic_O"
)

// customHash is the fast heuristic canonicalization used for Simple and
// Moderate graphs. Each triple is hashed with fixed placeholders in place of
// blank nodes; triples whose blank node also appears in neighboring triples
// fold in those neighbors' hashes; the graph hash is the order-independent
// combination of all folded triple hashes.
//
// The result is deterministic and relabelling-invariant as long as no two
// blank nodes have structurally identical one-hop neighborhoods. It is not
// correct for Complex or Pathological graphs, which the selector routes to
// the standard algorithm instead.
func customHash(g *rdf.Graph) ([]byte, error) {
	n := len(g.Triples)
	base := make([][]byte, n)

	//incoming[id] holds indices of triples where blank node id is the
	//object; outgoing[id] where it is the subject
	incoming := map[string][]int{}
	outgoing := map[string][]int{}

	for i, t := range g.Triples {
		h, err := tripleHash(t)
		if err != nil {
			return nil, err
		}
		base[i] = h

		if t.Subject.IsBlank() {
			outgoing[t.Subject.Value] = append(outgoing[t.Subject.Value], i)
		}
		if t.Object.IsBlank() {
			incoming[t.Object.Value] = append(incoming[t.Object.Value], i)
		}
	}

	folded := make([][]byte, n)
	for i, t := range g.Triples {
		group := [][]byte{base[i]}

		if t.Subject.IsBlank() {
			for _, j := range incoming[t.Subject.Value] {
				if j != i {
					group = append(group, base[j])
				}
			}
		}
		if t.Object.IsBlank() {
			for _, j := range outgoing[t.Object.Value] {
				if j != i {
					group = append(group, base[j])
				}
			}
		}

		if len(group) == 1 {
			folded[i] = base[i]
		} else {
			folded[i] = combineHashes(group)
		}
	}

	return combineHashes(folded), nil
}

// tripleHash hashes one triple in subject-predicate-object order, replacing
// blank nodes with the magic placeholders.
func tripleHash(t rdf.Triple) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s, err := placeholderForm(t.Subject, magicSubject)
	if err != nil {
		return nil, err
	}
	p, err := t.Predicate.Canonical()
	if err != nil {
		return nil, err
	}
	o, err := placeholderForm(t.Object, magicObject)
	if err != nil {
		return nil, err
	}

	return hashStrings(s, p, o), nil
}

func placeholderForm(t rdf.Term, placeholder string) (string, error) {
	if t.IsBlank() {
		return placeholder, nil
	}
	return t.Canonical()
}
