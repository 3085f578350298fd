package ingest

import (
	"context"
	"fmt"
	"time"

	"securevault-indexer/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

// SeenCache is a redis fast path over the database idempotency gates: a
// (tx hash, log index) pair marked within the TTL is skipped without
// opening a transaction. Pairs are marked only after the event's
// transaction commits, so a failed apply stays unmarked and is retried.
// Redis being down or evicting keys only costs a no-op replay, so every
// error degrades to "not seen".
type SeenCache struct {
	rdb     *redis.Client
	vaultID string
	ttl     time.Duration
}

func NewSeenCache(rdb *redis.Client, vaultID string, ttl time.Duration) *SeenCache {
	return &SeenCache{rdb: rdb, vaultID: vaultID, ttl: ttl}
}

func (s *SeenCache) key(m event.Meta) string {
	return fmt.Sprintf("seen:%s:%s:%d", s.vaultID, m.TxHash.Hex(), m.LogIndex)
}

// Seen reports whether the pair was already marked as applied.
func (s *SeenCache) Seen(ctx context.Context, m event.Meta) bool {
	n, err := s.rdb.Exists(ctx, s.key(m)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// MarkApplied records the pair once its event has committed. Best effort:
// a lost mark means one redundant replay absorbed by the DB gates.
func (s *SeenCache) MarkApplied(ctx context.Context, m event.Meta) {
	s.rdb.Set(ctx, s.key(m), 1, s.ttl)
}
