package id

import (
	"strconv"
	"strings"
)

// Compose joins the non-empty parts with "-" into a deterministic entity
// key. The same part sequence always yields the same key, which is what
// makes keyed upserts safe to re-apply.
func Compose(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}

// ForLog derives the key of an immutable log row from its parent entity key
// and the (tx hash, log index) position of the emitting log. Distinct logs
// never collide; a redelivered log maps onto the same key.
func ForLog(entityKey, txHash string, logIndex uint) string {
	return Compose(entityKey, txHash, strconv.FormatUint(uint64(logIndex), 10))
}
