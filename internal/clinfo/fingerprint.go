package clinfo

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Fingerprint returns the hex BLAKE3-256 digest of the compact JSON encoding
// of doc. Documents that differ only in nil versus empty lists share a
// fingerprint.
func Fingerprint(doc Document) (string, error) {
	data, err := Encode(doc, FormatJSON)
	if err != nil {
		return "", fmt.Errorf("failed to encode document for fingerprint: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
