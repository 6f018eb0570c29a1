package p2p

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/wire"
)

func newTestNode(t *testing.T) (*Node, net.Listener, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	bc := chain.NewBlockchain(chain.DefaultParams())
	node := NewNode(Config{ListenAddr: ln.Addr().String()}, bc, zap.NewNop())
	go node.Serve(ln)

	return node, ln, func() { ln.Close() }
}

func roundTrip(t *testing.T, addr string, req wire.Message) wire.Message {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, wire.WriteMessage(conn, req))
	reply, err := wire.ReadMessage(conn)
	require.NoError(t, err)
	return reply
}

func TestDispatchFetchUTXOsEmpty(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	_, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)

	reply := roundTrip(t, node.cfg.ListenAddr, wire.FetchUTXOs{PubKey: pk})
	utxos, ok := reply.(wire.UTXOs)
	require.True(t, ok)
	require.Empty(t, utxos.Entries)
}

func TestDispatchSubmitTransactionAdmitsToMempool(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	sk, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)

	blk := node.chain.BuildTemplate(pk)
	require.NoError(t, node.chain.AppendBlock(blk))
	reward := node.chain.UTXOsForPubKey(pk)[0].Output

	_, pkB := mustKeyPair(t)
	tx := &chain.Transaction{
		Inputs:  []chain.TransactionInput{{PrevOutputHash: reward.Hash()}},
		Outputs: []chain.TransactionOutput{chain.NewOutput(1000, pkB)},
	}
	tx.SignInput(0, sk)

	conn, err := net.DialTimeout("tcp", node.cfg.ListenAddr, 2*time.Second)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, wire.WriteMessage(conn, wire.SubmitTransaction{Tx: tx}))

	require.Eventually(t, func() bool {
		return node.chain.MempoolSize() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDispatchFetchTemplateAndValidateTemplate(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	_, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)

	reply := roundTrip(t, node.cfg.ListenAddr, wire.FetchTemplate{PubKey: pk})
	tmpl, ok := reply.(wire.Template)
	require.True(t, ok)
	require.NotNil(t, tmpl.Block)

	reply2 := roundTrip(t, node.cfg.ListenAddr, wire.ValidateTemplate{Block: tmpl.Block})
	validity, ok := reply2.(wire.TemplateValidity)
	require.True(t, ok)
	require.True(t, validity.Valid)
}

func TestDispatchDiscoverNodes(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	reply := roundTrip(t, node.cfg.ListenAddr, wire.DiscoverNodes{})
	list, ok := reply.(wire.NodeList)
	require.True(t, ok)
	require.Contains(t, list.Addrs, node.cfg.ListenAddr)
}

func TestDispatchAskDifference(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	_, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)
	require.NoError(t, node.chain.AppendBlock(node.chain.BuildTemplate(pk)))

	reply := roundTrip(t, node.cfg.ListenAddr, wire.AskDifference{Height: 0})
	diff, ok := reply.(wire.Difference)
	require.True(t, ok)
	require.Equal(t, int32(1), diff.Delta)
}

func TestDispatchFetchBlock(t *testing.T) {
	node, _, closeFn := newTestNode(t)
	defer closeFn()

	_, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)
	blk := node.chain.BuildTemplate(pk)
	require.NoError(t, node.chain.AppendBlock(blk))

	reply := roundTrip(t, node.cfg.ListenAddr, wire.FetchBlock{Index: 0})
	nb, ok := reply.(wire.NewBlock)
	require.True(t, ok)
	require.Equal(t, blk.Hash(), nb.Block.Hash())
}

func mustKeyPair(t *testing.T) (chain.PrivateKey, chain.PublicKey) {
	t.Helper()
	sk, pk, err := chain.GenerateKeyPair()
	require.NoError(t, err)
	return sk, pk
}
