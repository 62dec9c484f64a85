package chain

import (
	"fmt"
	"testing"

	"github.com/provchain/graphchain/src/canonical"
	cm "github.com/provchain/graphchain/src/common"
	"github.com/provchain/graphchain/src/rdf"
	"github.com/provchain/graphchain/src/store"
)

func initChain(t *testing.T) *Chain {
	t.Helper()

	c, err := NewChain(
		store.NewInmemStore(),
		canonical.New(0),
		cm.NewTestEntry(t, "chain"),
	)
	if err != nil {
		t.Fatal(err)
	}

	return c
}

func batchTriples(t *testing.T, batch string, origin string) []rdf.Triple {
	t.Helper()

	subject := rdf.NewIRI(fmt.Sprintf("http://example.org/batch/%s", batch))

	t1, err := rdf.NewTriple(subject, rdf.NewIRI("http://example.org/origin"), rdf.NewLiteral(origin))
	if err != nil {
		t.Fatal(err)
	}
	t2, err := rdf.NewTriple(subject, rdf.NewIRI("http://example.org/handledBy"), rdf.NewBlank("handler"))
	if err != nil {
		t.Fatal(err)
	}

	return []rdf.Triple{t1, t2}
}

func TestChainGenesis(t *testing.T) {
	c := initChain(t)

	if c.Len() != 1 {
		t.Fatalf("expected 1 block, got %d", c.Len())
	}

	genesis := c.LastBlock()
	if genesis.Index != 0 {
		t.Fatalf("expected genesis index 0, got %d", genesis.Index)
	}
	if genesis.PreviousHash != GenesisPreviousHash {
		t.Fatalf("unexpected genesis previous hash %s", genesis.PreviousHash)
	}
	if !genesis.VerifyHash() {
		t.Fatal("genesis block hash does not verify")
	}

	recomputed, err := c.recordedHash(genesis)
	if err != nil {
		t.Fatal(err)
	}
	if recomputed != genesis.CanonicalHash {
		t.Fatal("genesis canonical hash does not match its stored graph")
	}
}

func TestChainCanonicalHashOf(t *testing.T) {
	c := initChain(t)

	block, err := c.AddBlock(batchTriples(t, "1", "Farm A"))
	if err != nil {
		t.Fatal(err)
	}

	hash, alg, err := c.CanonicalHashOf(block.GraphID)
	if err != nil {
		t.Fatal(err)
	}
	if hash != block.CanonicalHash {
		t.Fatal("ad-hoc hash disagrees with the sealed canonical hash")
	}
	if alg != block.Algorithm {
		t.Fatal("ad-hoc hashing selected a different algorithm")
	}

	if _, _, err := c.CanonicalHashOf("http://graphchain.org/block/99"); !cm.IsStore(err, cm.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}
}

func TestChainAppendBlock(t *testing.T) {
	c := initChain(t)
	genesis := c.LastBlock()

	triples := batchTriples(t, "1", "Farm A")
	id := "http://graphchain.org/block/1"
	if err := c.store.StoreGraph(id, triples); err != nil {
		t.Fatal(err)
	}

	hash, alg, err := c.CanonicalHashOf(id)
	if err != nil {
		t.Fatal(err)
	}

	//a block that skips ahead
	skipped := NewBlock(5, id, hash, alg, genesis.Hash)
	if err := c.AppendBlock(skipped); !cm.IsStore(err, cm.SkippedIndex) {
		t.Fatalf("expected SkippedIndex, got %v", err)
	}

	//a block that does not link to the head
	unlinked := NewBlock(1, id, hash, alg, GenesisPreviousHash)
	if err := c.AppendBlock(unlinked); !IsChainLink(err) {
		t.Fatalf("expected ChainLinkError, got %v", err)
	}

	//a tampered block
	tampered := NewBlock(1, id, hash, alg, genesis.Hash)
	tampered.CanonicalHash = "0000"
	if err := c.AppendBlock(tampered); !IsIntegrity(err) {
		t.Fatalf("expected IntegrityError, got %v", err)
	}

	//a block whose graph was never stored
	orphan := NewBlock(1, "http://graphchain.org/block/77", hash, alg, genesis.Hash)
	if err := c.AppendBlock(orphan); !cm.IsStore(err, cm.NoGraph) {
		t.Fatalf("expected NoGraph, got %v", err)
	}

	good := NewBlock(1, id, hash, alg, genesis.Hash)
	if err := c.AppendBlock(good); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", c.Len())
	}

	//a replay of an old index
	if err := c.AppendBlock(good); !cm.IsStore(err, cm.PassedIndex) {
		t.Fatalf("expected PassedIndex, got %v", err)
	}

	if report := c.Validate(); !report.Valid {
		t.Fatalf("chain does not validate after AppendBlock: %v", report.Findings)
	}
}

func TestChainAddBlock(t *testing.T) {
	c := initChain(t)

	genesis := c.LastBlock()

	block, err := c.AddBlock(batchTriples(t, "1", "Farm A"))
	if err != nil {
		t.Fatal(err)
	}

	if block.Index != 1 {
		t.Fatalf("expected index 1, got %d", block.Index)
	}
	if block.PreviousHash != genesis.Hash {
		t.Fatal("block is not linked to the genesis hash")
	}
	if block.GraphID != "http://graphchain.org/block/1" {
		t.Fatalf("unexpected graph id %s", block.GraphID)
	}
	if !block.VerifyHash() {
		t.Fatal("block hash does not verify")
	}

	got, err := c.GetBlock(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash != block.Hash {
		t.Fatal("GetBlock returned a different block")
	}

	if _, err := c.GetBlock(7); !cm.IsStore(err, cm.KeyNotFound) {
		t.Fatalf("expected KeyNotFound, got %v", err)
	}
}

func TestChainContentHashNotByteHash(t *testing.T) {
	//two syntactically different renditions of the same graph must seal the
	//same canonical hash
	c1 := initChain(t)
	c2 := initChain(t)

	triples := batchTriples(t, "1", "Farm A")
	reordered := []rdf.Triple{triples[1], triples[0]}
	relabelled := rdf.NewGraph("", reordered).RelabelBlankNodes(map[string]string{"handler": "h42"}).Triples

	b1, err := c1.AddBlock(triples)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := c2.AddBlock(relabelled)
	if err != nil {
		t.Fatal(err)
	}

	if b1.CanonicalHash != b2.CanonicalHash {
		t.Fatal("equivalent graphs sealed different canonical hashes")
	}
}

func TestChainRejectsInvalidTriples(t *testing.T) {
	c := initChain(t)

	bad := []rdf.Triple{
		{Subject: rdf.NewLiteral("nope"), Predicate: rdf.NewIRI("http://example.org/p"), Object: rdf.NewLiteral("v")},
	}

	if _, err := c.AddBlock(bad); err == nil {
		t.Fatal("expected an error for a literal subject")
	}
	if c.Len() != 1 {
		t.Fatal("a failed AddBlock must not grow the chain")
	}
}

func TestLoadChain(t *testing.T) {
	s := store.NewInmemStore()

	c, err := NewChain(s, canonical.New(0), cm.NewTestEntry(t, "chain"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddBlock(batchTriples(t, "1", "Farm A")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddBlock(batchTriples(t, "2", "Farm B")); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadChain(s, canonical.New(0), cm.NewTestEntry(t, "chain"))
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Len() != c.Len() {
		t.Fatalf("expected %d blocks, got %d", c.Len(), loaded.Len())
	}
	if loaded.LastBlock().Hash != c.LastBlock().Hash {
		t.Fatal("loaded chain head differs from the original")
	}

	if report := loaded.Validate(); !report.Valid {
		t.Fatalf("loaded chain does not validate: %v", report.Findings)
	}
}

func TestLoadChainEmptyStore(t *testing.T) {
	_, err := LoadChain(store.NewInmemStore(), canonical.New(0), cm.NewTestEntry(t, "chain"))
	if !cm.IsStore(err, cm.Empty) {
		t.Fatalf("expected Empty store error, got %v", err)
	}
}
