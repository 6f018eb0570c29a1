package p2p

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
)

func TestRunBackgroundTasksSavesSnapshot(t *testing.T) {
	bc := chain.NewBlockchain(chain.DefaultParams())
	snapPath := filepath.Join(t.TempDir(), "chain.cbor")

	n := NewNode(Config{
		SnapshotPath:           snapPath,
		MempoolCleanupInterval: time.Hour,
		SnapshotSaveInterval:   10 * time.Millisecond,
	}, bc, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	n.RunBackgroundTasks(ctx)

	require.Eventually(t, func() bool {
		_, err := os.Stat(snapPath)
		return err == nil
	}, 400*time.Millisecond, 10*time.Millisecond)
}

func TestSaveSnapshotNowWritesFile(t *testing.T) {
	bc := chain.NewBlockchain(chain.DefaultParams())
	snapPath := filepath.Join(t.TempDir(), "chain.cbor")

	n := NewNode(Config{SnapshotPath: snapPath}, bc, zap.NewNop())

	require.NoError(t, n.SaveSnapshotNow())

	loaded, err := chain.LoadSnapshotFile(snapPath, chain.DefaultParams())
	require.NoError(t, err)
	require.Equal(t, bc.Height(), loaded.Height())
}

func TestRunMempoolCleanupTicks(t *testing.T) {
	bc := chain.NewBlockchain(chain.DefaultParams())
	n := NewNode(Config{
		MempoolCleanupInterval: 10 * time.Millisecond,
		SnapshotSaveInterval:   time.Hour,
		SnapshotPath:           filepath.Join(t.TempDir(), "chain.cbor"),
	}, bc, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	n.RunBackgroundTasks(ctx)

	time.Sleep(50 * time.Millisecond)
	cancel()
}
