package miner

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/p2p"
)

// TestMinerRunMinesAgainstTrivialTarget exercises the full fetch/mine/submit
// cycle end to end: against the default all-ones target every candidate
// nonce already satisfies it, so the miner should append at least one
// block to the node's chain well within the test's deadline.
func TestMinerRunMinesAgainstTrivialTarget(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	bc := chain.NewBlockchain(chain.DefaultParams())
	node := p2p.NewNode(p2p.Config{ListenAddr: ln.Addr().String()}, bc, zap.NewNop())
	go node.Serve(ln)

	_, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)

	m := &Miner{
		NodeAddr:      ln.Addr().String(),
		PubKey:        pk,
		BatchSize:     100,
		FetchInterval: 10 * time.Millisecond,
		Log:           zap.NewNop(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go m.Run(ctx)

	require.Eventually(t, func() bool {
		return bc.Height() >= 1
	}, 2*time.Second, 20*time.Millisecond)
}
