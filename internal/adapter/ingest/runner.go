package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"securevault-indexer/internal/domain/checkpoint"
	"securevault-indexer/internal/domain/event"

	"gorm.io/gorm"
)

// Source yields decoded vault events from some block onward, ordered by
// (block number, log index), plus the next block to poll from.
type Source interface {
	Poll(ctx context.Context, from uint64) ([]event.Event, uint64, error)
}

// Reconciler applies one event atomically.
type Reconciler interface {
	Apply(ctx context.Context, ev event.Event) error
}

// Runner drives the ingest loop for a single vault. Events are applied
// strictly sequentially; the cursor only advances after an event's
// transaction has committed, so a crash replays at most the tail the
// idempotency gates absorb.
type Runner struct {
	source     Source
	reconciler Reconciler
	cursors    checkpoint.Repository

	vaultID    string
	startBlock uint64
	interval   time.Duration
	seen       *SeenCache // optional
}

func NewRunner(src Source, rec Reconciler, cursors checkpoint.Repository, vaultID string, startBlock uint64, interval time.Duration, seen *SeenCache) *Runner {
	return &Runner{
		source:     src,
		reconciler: rec,
		cursors:    cursors,
		vaultID:    vaultID,
		startBlock: startBlock,
		interval:   interval,
		seen:       seen,
	}
}

// Run polls until ctx is cancelled. A storage failure stops the loop: the
// stream must not advance past an event that did not commit.
func (r *Runner) Run(ctx context.Context) error {
	from, err := r.resumeBlock(ctx)
	if err != nil {
		return err
	}
	log.Printf("ingest: vault %s starting from block %d", r.vaultID, from)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		next, err := r.runOnce(ctx, from)
		if err != nil {
			return err
		}
		from = next

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runOnce polls one batch and applies it, returning the next poll-from
// block.
func (r *Runner) runOnce(ctx context.Context, from uint64) (uint64, error) {
	events, next, err := r.source.Poll(ctx, from)
	if err != nil {
		// RPC trouble is transient; retry the same window next tick.
		log.Printf("ingest: poll from %d: %v", from, err)
		return from, nil
	}

	for _, ev := range events {
		m := ev.EventMeta()
		if r.seen != nil && r.seen.Seen(ctx, m) {
			continue
		}
		if err := r.reconciler.Apply(ctx, ev); err != nil {
			// The pair stays unmarked so the retry re-applies it.
			return from, fmt.Errorf("ingest: apply %T at %d:%d: %w", ev, m.BlockNumber, m.LogIndex, err)
		}
		if r.seen != nil {
			r.seen.MarkApplied(ctx, m)
		}
		if err := r.cursors.Save(ctx, &checkpoint.Cursor{
			VaultID:      r.vaultID,
			LastBlock:    m.BlockNumber,
			LastLogIndex: m.LogIndex,
		}); err != nil {
			return from, fmt.Errorf("ingest: save cursor: %w", err)
		}
	}
	return next, nil
}

// resumeBlock re-polls the cursor block itself: the boundary event gets
// re-applied and absorbed by its idempotency gate.
func (r *Runner) resumeBlock(ctx context.Context) (uint64, error) {
	cur, err := r.cursors.Get(ctx, r.vaultID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.startBlock, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ingest: load cursor: %w", err)
	}
	return cur.LastBlock, nil
}
