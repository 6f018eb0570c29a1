package p2p

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
)

// RunBackgroundTasks starts the two periodic maintenance loops spec §4.12
// names: mempool cleanup and chain-snapshot persistence. It returns at
// once; both loops run in their own goroutines until ctx is cancelled.
func (n *Node) RunBackgroundTasks(ctx context.Context) {
	go n.runMempoolCleanup(ctx)
	go n.runSnapshotSave(ctx)
}

func (n *Node) runMempoolCleanup(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.MempoolCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.chain.CleanupMempool()
		}
	}
}

func (n *Node) runSnapshotSave(ctx context.Context) {
	ticker := time.NewTicker(n.cfg.SnapshotSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := chain.SaveSnapshotFile(n.cfg.SnapshotPath, n.chain); err != nil {
				n.log.Warn("snapshot save failed", zap.Error(err))
			}
		}
	}
}

// SaveSnapshotNow persists the chain immediately, used on graceful
// shutdown so the last block mined before exit is not lost.
func (n *Node) SaveSnapshotNow() error {
	return chain.SaveSnapshotFile(n.cfg.SnapshotPath, n.chain)
}
