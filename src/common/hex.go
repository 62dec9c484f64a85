package common

import (
	"encoding/hex"
	"fmt"
)

//EncodeToString returns the lowercase hex representation of hashBytes. Block
//and canonical hashes are always rendered with this function so that the
//strings fed back into hash derivations are stable.
func EncodeToString(hashBytes []byte) string {
	return fmt.Sprintf("%x", hashBytes)
}

//DecodeFromString converts a lowercase hex string to a byte slice
func DecodeFromString(hexString string) ([]byte, error) {
	return hex.DecodeString(hexString)
}
