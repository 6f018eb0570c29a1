package miner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
)

// Miner drives the fetch/validate/submit cycle of spec §4.11 against a
// single node, using a CPU-bound worker for nonce search and an I/O
// worker that owns the node connection; they communicate over a
// single-producer/single-consumer channel carrying solved blocks (§5).
type Miner struct {
	NodeAddr      string
	PubKey        chain.PublicKey
	BatchSize     uint64
	FetchInterval time.Duration
	Log           *zap.Logger
}

// templateBox holds the current template snapshot and a generation
// counter the CPU worker uses to notice a fresh template without locking
// on every nonce-search iteration.
type templateBox struct {
	mu         sync.Mutex
	blk        *chain.Block
	generation int
}

func (b *templateBox) set(blk *chain.Block) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.blk = blk
	b.generation++
}

func (b *templateBox) get() (*chain.Block, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.blk, b.generation
}

// Run blocks until ctx is cancelled, continuously mining against
// m.NodeAddr.
func (m *Miner) Run(ctx context.Context) {
	var mining atomic.Bool
	box := &templateBox{}
	solved := make(chan *chain.Block, 1)

	go m.cpuWorker(ctx, &mining, box, solved)
	m.ioWorker(ctx, &mining, box, solved)
}

func (m *Miner) ioWorker(ctx context.Context, mining *atomic.Bool, box *templateBox, solved <-chan *chain.Block) {
	ticker := time.NewTicker(m.FetchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case blk := <-solved:
			mining.Store(false)
			if err := submitTemplate(m.NodeAddr, blk); err != nil {
				m.Log.Warn("submit template failed", zap.Error(err))
				continue
			}
			m.Log.Info("submitted solved block", zap.String("hash", blk.Hash().String()))

		case <-ticker.C:
			if !mining.Load() {
				blk, err := fetchTemplate(m.NodeAddr, m.PubKey)
				if err != nil {
					m.Log.Warn("fetch template failed", zap.Error(err))
					continue
				}
				box.set(blk)
				mining.Store(true)
				continue
			}

			current, _ := box.get()
			if current == nil {
				continue
			}
			valid, err := validateTemplate(m.NodeAddr, current)
			if err != nil {
				m.Log.Warn("validate template failed", zap.Error(err))
				continue
			}
			if !valid {
				mining.Store(false)
			}
		}
	}
}

func (m *Miner) cpuWorker(ctx context.Context, mining *atomic.Bool, box *templateBox, solved chan<- *chain.Block) {
	var local *chain.Block
	localGen := -1

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !mining.Load() {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		blk, gen := box.get()
		if blk == nil {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if gen != localGen {
			copied := *blk
			local = &copied
			localGen = gen
		}

		header, ok := MineBatch(local.Header, m.BatchSize, time.Now)
		local.Header = header
		if ok {
			result := *local
			mining.Store(false)
			solved <- &result
			localGen = -1
		}
	}
}
