package canonical

import (
	"bytes"
	"testing"

	"github.com/provchain/graphchain/src/rdf"
)

func TestCustomHashDeterministic(t *testing.T) {
	g := rdf.NewGraph("http://example.org/g", []rdf.Triple{
		mustTriple(t, iri("a"), iri("p"), iri("b")),
		mustTriple(t, iri("a"), iri("q"), literal("v")),
	})

	h1, err := customHash(g)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := customHash(g)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("two runs on the same graph produced different hashes")
	}
	if len(h1) != 32 {
		t.Fatalf("expected 32-byte digest, got %d bytes", len(h1))
	}
}

func TestCustomHashOrderIndependent(t *testing.T) {
	t1 := mustTriple(t, iri("a"), iri("p"), iri("b"))
	t2 := mustTriple(t, blank("x"), iri("q"), literal("v"))
	t3 := mustTriple(t, iri("a"), iri("r"), blank("x"))

	g1 := rdf.NewGraph("http://example.org/g", []rdf.Triple{t1, t2, t3})
	g2 := rdf.NewGraph("http://example.org/g", []rdf.Triple{t3, t1, t2})

	h1, err := customHash(g1)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := customHash(g2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("triple insertion order changed the hash")
	}
}

func TestCustomHashRelabellingInvariant(t *testing.T) {
	//Scenario B: same structure, different blank node ids
	g1 := rdf.NewGraph("http://example.org/g1", []rdf.Triple{
		mustTriple(t, blank("x"), iri("p"), literal("v")),
	})
	g2 := rdf.NewGraph("http://example.org/g2", []rdf.Triple{
		mustTriple(t, blank("y"), iri("p"), literal("v")),
	})

	h1, err := customHash(g1)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := customHash(g2)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(h1, h2) {
		t.Fatal("blank node local ids leaked into the hash")
	}
}

func TestCustomHashNeighborFolding(t *testing.T) {
	//two graphs that agree triple-by-triple under the magic placeholders
	//but differ in how the blank nodes connect; folding must tell them apart
	g1 := rdf.NewGraph("http://example.org/g1", []rdf.Triple{
		mustTriple(t, iri("a"), iri("p"), blank("x")),
		mustTriple(t, blank("x"), iri("q"), literal("v")),
		mustTriple(t, iri("b"), iri("p"), blank("y")),
		mustTriple(t, blank("y"), iri("q"), literal("w")),
	})
	g2 := rdf.NewGraph("http://example.org/g2", []rdf.Triple{
		mustTriple(t, iri("a"), iri("p"), blank("x")),
		mustTriple(t, blank("x"), iri("q"), literal("w")),
		mustTriple(t, iri("b"), iri("p"), blank("y")),
		mustTriple(t, blank("y"), iri("q"), literal("v")),
	})

	h1, err := customHash(g1)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := customHash(g2)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(h1, h2) {
		t.Fatal("neighbor folding failed to separate differently-wired graphs")
	}
}

func TestCustomHashSerializationError(t *testing.T) {
	g := rdf.NewGraph("http://example.org/g", []rdf.Triple{
		{Subject: rdf.NewIRI("http://example.org/a"), Predicate: rdf.NewIRI(""), Object: rdf.NewLiteral("v")},
	})

	if _, err := customHash(g); !rdf.IsSerialization(err) {
		t.Fatalf("expected SerializationError, got %v", err)
	}
}
