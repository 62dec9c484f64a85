package chain

import (
	"testing"

	"github.com/provchain/graphchain/src/rdf"
)

func initChainWithBlocks(t *testing.T, n int) *Chain {
	t.Helper()

	c := initChain(t)
	for i := 0; i < n; i++ {
		origin := "Farm A"
		if i%2 == 1 {
			origin = "Farm B"
		}
		if _, err := c.AddBlock(batchTriples(t, string(rune('1'+i)), origin)); err != nil {
			t.Fatal(err)
		}
	}

	return c
}

func corruptGraph(t *testing.T, c *Chain, index uint64) {
	t.Helper()

	block, err := c.GetBlock(index)
	if err != nil {
		t.Fatal(err)
	}

	tampered, err := rdf.NewTriple(
		rdf.NewIRI("http://example.org/batch/1"),
		rdf.NewIRI("http://example.org/origin"),
		rdf.NewLiteral("Farm Z"),
	)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.store.StoreGraph(block.GraphID, []rdf.Triple{tampered}); err != nil {
		t.Fatal(err)
	}
}

func TestValidateCleanChain(t *testing.T) {
	c := initChainWithBlocks(t, 3)

	report := c.Validate()
	if !report.Valid {
		t.Fatalf("clean chain reported invalid: %v", report.Findings)
	}
	if report.Checked != 3 {
		t.Fatalf("expected 3 checked blocks, got %d", report.Checked)
	}

	if report := c.ValidateAll(); !report.Valid {
		t.Fatalf("clean chain reported invalid: %v", report.Findings)
	}
}

func TestValidateDetectsGraphTampering(t *testing.T) {
	//a three-block chain whose middle graph is rewritten behind the chain's
	//back: validation must locate the tampered block exactly
	c := initChainWithBlocks(t, 3)
	corruptGraph(t, c, 1)

	report := c.Validate()
	if report.Valid {
		t.Fatal("tampered chain reported valid")
	}
	if len(report.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(report.Findings))
	}

	f := report.Findings[0]
	if f.Index != 1 {
		t.Fatalf("expected finding at block 1, got %d", f.Index)
	}
	if !IsIntegrity(f.Err) {
		t.Fatalf("expected IntegrityError, got %v", f.Err)
	}
}

func TestValidateFailFastStopsEarly(t *testing.T) {
	c := initChainWithBlocks(t, 4)
	corruptGraph(t, c, 1)
	corruptGraph(t, c, 3)

	report := c.Validate()
	if report.Valid {
		t.Fatal("tampered chain reported valid")
	}
	if report.Checked != 1 {
		t.Fatalf("fail-fast walk checked %d blocks, expected 1", report.Checked)
	}
	if len(report.Findings) != 1 || report.Findings[0].Index != 1 {
		t.Fatalf("unexpected findings %v", report.Findings)
	}
}

func TestValidateAllCollectsEverything(t *testing.T) {
	c := initChainWithBlocks(t, 4)
	corruptGraph(t, c, 1)
	corruptGraph(t, c, 3)

	report := c.ValidateAll()
	if report.Valid {
		t.Fatal("tampered chain reported valid")
	}
	if report.Checked != 4 {
		t.Fatalf("expected 4 checked blocks, got %d", report.Checked)
	}
	if len(report.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(report.Findings))
	}
	if report.Findings[0].Index != 1 || report.Findings[1].Index != 3 {
		t.Fatalf("findings not sorted by index: %v", report.Findings)
	}
	for _, f := range report.Findings {
		if !IsIntegrity(f.Err) {
			t.Fatalf("expected IntegrityError, got %v", f.Err)
		}
	}
}

func TestValidateDetectsBrokenLink(t *testing.T) {
	c := initChainWithBlocks(t, 3)

	//rewrite block 2's link and reseal it, as an attacker splicing a block
	//would have to
	block, err := c.GetBlock(2)
	if err != nil {
		t.Fatal(err)
	}
	block.PreviousHash = GenesisPreviousHash
	block.Hash = block.computeHash()

	report := c.Validate()
	if report.Valid {
		t.Fatal("chain with a broken link reported valid")
	}

	f := report.Findings[0]
	if f.Index != 2 {
		t.Fatalf("expected finding at block 2, got %d", f.Index)
	}
	if !IsChainLink(f.Err) {
		t.Fatalf("expected ChainLinkError, got %v", f.Err)
	}
}
