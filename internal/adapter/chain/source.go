package chain

import (
	"context"
	"fmt"
	"math/big"
	"sort"

	"securevault-indexer/internal/domain/event"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthClient is the slice of ethclient.Client the poller needs.
type EthClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// Poller pulls vault logs in bounded block windows and decodes them into
// domain events ordered by (block number, log index).
type Poller struct {
	client   EthClient
	vault    common.Address
	maxRange uint64

	// blockTimes caches header timestamps for the current batch; logs from
	// one block share a single header fetch.
	blockTimes map[uint64]uint64
}

func NewPoller(client EthClient, vault common.Address, maxRange uint64) *Poller {
	if maxRange == 0 {
		maxRange = 2000
	}
	return &Poller{
		client:     client,
		vault:      vault,
		maxRange:   maxRange,
		blockTimes: make(map[uint64]uint64),
	}
}

// Poll fetches and decodes all vault events in [from, head], walking the
// range in windows of at most maxRange blocks. It returns the decoded
// events and the next block to poll from. When from is already past the
// head it returns no events and from unchanged.
func (p *Poller) Poll(ctx context.Context, from uint64) ([]event.Event, uint64, error) {
	head, err := p.client.BlockNumber(ctx)
	if err != nil {
		return nil, from, fmt.Errorf("chain: head: %w", err)
	}
	if from > head {
		return nil, from, nil
	}

	var logs []types.Log
	for start := from; start <= head; start += p.maxRange {
		end := start + p.maxRange - 1
		if end > head {
			end = head
		}
		batch, err := p.client.FilterLogs(ctx, ethereum.FilterQuery{
			FromBlock: new(big.Int).SetUint64(start),
			ToBlock:   new(big.Int).SetUint64(end),
			Addresses: []common.Address{p.vault},
			Topics:    [][]common.Hash{eventIDs},
		})
		if err != nil {
			return nil, from, fmt.Errorf("chain: filter [%d,%d]: %w", start, end, err)
		}
		logs = append(logs, batch...)
	}

	sort.Slice(logs, func(i, j int) bool {
		if logs[i].BlockNumber != logs[j].BlockNumber {
			return logs[i].BlockNumber < logs[j].BlockNumber
		}
		return logs[i].Index < logs[j].Index
	})

	events := make([]event.Event, 0, len(logs))
	for _, lg := range logs {
		if lg.Removed {
			continue
		}
		ts, err := p.blockTime(ctx, lg.BlockNumber)
		if err != nil {
			return nil, from, err
		}
		ev, err := DecodeLog(lg, ts)
		if err != nil {
			return nil, from, err
		}
		events = append(events, ev)
	}

	p.blockTimes = make(map[uint64]uint64)
	return events, head + 1, nil
}

func (p *Poller) blockTime(ctx context.Context, number uint64) (uint64, error) {
	if ts, ok := p.blockTimes[number]; ok {
		return ts, nil
	}
	hdr, err := p.client.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return 0, fmt.Errorf("chain: header %d: %w", number, err)
	}
	p.blockTimes[number] = hdr.Time
	return hdr.Time, nil
}
