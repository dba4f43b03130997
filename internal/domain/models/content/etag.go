package content

import (
	"crypto/sha256"
	"encoding/hex"
)

// ETag fingerprints the current arrangement of a collection.
// It changes whenever membership or order changes and ignores payload edits.
func ETag[T Item](items []T) string {
	h := sha256.New()
	for _, item := range items {
		h.Write([]byte(item.Base().ID))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
