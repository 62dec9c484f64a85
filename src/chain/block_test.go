package chain

import (
	"crypto/sha256"
	"fmt"
	"reflect"
	"testing"

	"github.com/provchain/graphchain/src/canonical"
)

func TestBlockHashDerivation(t *testing.T) {
	b := NewBlock(1, "http://graphchain.org/block/1", "abc123", canonical.AlgorithmCustom, GenesisPreviousHash)

	data := fmt.Sprintf("%d%s%s%s", b.Index, b.Timestamp, b.CanonicalHash, b.PreviousHash)
	expected := fmt.Sprintf("%x", sha256.Sum256([]byte(data)))

	if b.Hash != expected {
		t.Fatalf("hash mismatch: got %s, expected %s", b.Hash, expected)
	}
	if !b.VerifyHash() {
		t.Fatal("VerifyHash failed on an untampered block")
	}
}

func TestBlockVerifyHashDetectsTampering(t *testing.T) {
	b := NewBlock(1, "http://graphchain.org/block/1", "abc123", canonical.AlgorithmCustom, GenesisPreviousHash)

	b.CanonicalHash = "def456"

	if b.VerifyHash() {
		t.Fatal("VerifyHash passed on a tampered block")
	}
}

func TestBlockMarshalRoundTrip(t *testing.T) {
	b := NewBlock(3, "http://graphchain.org/block/3", "abc123", canonical.AlgorithmStandard, "ff00ff00")

	data, err := b.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	decoded := new(Block)
	if err := decoded.Unmarshal(data); err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(b, decoded) {
		t.Fatalf("round trip mismatch:\n%#v\n%#v", b, decoded)
	}
}
