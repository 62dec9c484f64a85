package canonical

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/provchain/graphchain/src/rdf"
)

func TestStandardHashCycleSwapInvariant(t *testing.T) {
	//Scenario C: a two-cycle of blank nodes and its blank-node-swapped copy
	g := rdf.NewGraph("http://example.org/g", []rdf.Triple{
		mustTriple(t, blank("x"), iri("knows"), blank("y")),
		mustTriple(t, blank("y"), iri("knows"), blank("x")),
	})
	swapped := g.RelabelBlankNodes(map[string]string{"x": "y", "y": "x"})

	h1, err := standardHash(g, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := standardHash(swapped, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("swapping blank node ids changed the hash")
	}
}

func TestStandardHashRelabellingInvariant(t *testing.T) {
	g := rdf.NewGraph("http://example.org/g", []rdf.Triple{
		mustTriple(t, blank("x"), iri("p"), blank("y")),
		mustTriple(t, blank("y"), iri("q"), literal("leaf")),
		mustTriple(t, iri("a"), iri("r"), blank("x")),
	})
	relabelled := g.RelabelBlankNodes(map[string]string{"x": "node1", "y": "node2"})

	h1, err := standardHash(g, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := standardHash(relabelled, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("relabelling changed the hash")
	}
}

func TestStandardHashOrderIndependent(t *testing.T) {
	t1 := mustTriple(t, blank("x"), iri("knows"), blank("y"))
	t2 := mustTriple(t, blank("y"), iri("knows"), blank("x"))
	t3 := mustTriple(t, blank("x"), iri("name"), literal("alice"))

	g1 := rdf.NewGraph("http://example.org/g", []rdf.Triple{t1, t2, t3})
	g2 := rdf.NewGraph("http://example.org/g", []rdf.Triple{t3, t2, t1})

	h1, err := standardHash(g1, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := standardHash(g2, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("triple insertion order changed the hash")
	}
}

func TestStandardHashDiscriminates(t *testing.T) {
	//a directed 3-cycle of blank nodes vs an acyclic triangle: same size,
	//same predicates, not isomorphic
	cycle := rdf.NewGraph("http://example.org/g1", []rdf.Triple{
		mustTriple(t, blank("x"), iri("knows"), blank("y")),
		mustTriple(t, blank("y"), iri("knows"), blank("z")),
		mustTriple(t, blank("z"), iri("knows"), blank("x")),
	})
	triangle := rdf.NewGraph("http://example.org/g2", []rdf.Triple{
		mustTriple(t, blank("x"), iri("knows"), blank("y")),
		mustTriple(t, blank("y"), iri("knows"), blank("z")),
		mustTriple(t, blank("x"), iri("knows"), blank("z")),
	})

	h1, err := standardHash(cycle, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := standardHash(triangle, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(h1, h2) {
		t.Fatal("non-isomorphic graphs produced the same hash")
	}
}

func TestStandardHashNoBlankNodes(t *testing.T) {
	g := rdf.NewGraph("http://example.org/g", []rdf.Triple{
		mustTriple(t, iri("a"), iri("p"), iri("b")),
	})

	h1, err := standardHash(g, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := standardHash(g, DefaultMaxIterations)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("hash not stable on a graph without blank nodes")
	}
}

func TestStandardHashTimeout(t *testing.T) {
	//complete digraph over six blank nodes: every blank node's neighborhood
	//is identical, so the exploration is factorial in the group size
	triples := []rdf.Triple{}
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			if i == j {
				continue
			}
			triples = append(triples, mustTriple(t,
				blank(fmt.Sprintf("b%d", i)),
				iri("knows"),
				blank(fmt.Sprintf("b%d", j)),
			))
		}
	}
	g := rdf.NewGraph("http://example.org/g", triples)

	if got := Classify(g); got != Pathological {
		t.Fatalf("expected Pathological, got %s", got)
	}

	_, err := standardHash(g, 50)
	if !IsTimeout(err) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}
