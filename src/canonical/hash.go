package canonical

import (
	"crypto/sha256"
	"sort"

	"github.com/provchain/graphchain/src/common"
)

// hashStrings computes the SHA-256 digest of the concatenation of parts.
func hashStrings(parts ...string) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return h.Sum(nil)
}

// combineHashes folds a multiset of hashes into one digest independently of
// the order in which they were produced: the hex forms are sorted,
// concatenated and re-hashed. Sorting rather than XOR-ing keeps duplicate
// hashes from cancelling each other out.
func combineHashes(hashes [][]byte) []byte {
	hexes := make([]string, len(hashes))
	for i, h := range hashes {
		hexes[i] = common.EncodeToString(h)
	}
	sort.Strings(hexes)

	h := sha256.New()
	for _, hx := range hexes {
		h.Write([]byte(hx))
	}
	return h.Sum(nil)
}
