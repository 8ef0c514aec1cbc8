package data

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"outliner/local-app/src/pkg/model"
)

// Digest returns a hex BLAKE2b-256 hash of the serialized subtree.
// Two trees have the same digest exactly when they serialize identically.
func Digest(n *model.Node) (string, error) {
	data, err := Encode(n)
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
