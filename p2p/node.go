// Package p2p implements the per-connection dispatcher, gossip, sync
// bootstrap, and background maintenance tasks that serve wallets and
// miners and keep nodes in sync (spec §4.12, §5).
package p2p

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/wire"
)

// Config is the dispatcher's external configuration surface (spec §6).
type Config struct {
	ListenAddr             string
	SnapshotPath           string
	SeedPeers              []string
	MempoolCleanupInterval time.Duration
	SnapshotSaveInterval   time.Duration
}

// Node is the message-driven dispatcher for a single chain instance: it
// owns the chain state, the peer registry, and the background tasks that
// keep the mempool tidy and the chain persisted.
type Node struct {
	cfg   Config
	chain *chain.Blockchain
	peers *PeerSet
	log   *zap.Logger
}

func NewNode(cfg Config, bc *chain.Blockchain, log *zap.Logger) *Node {
	return &Node{cfg: cfg, chain: bc, peers: NewPeerSet(), log: log}
}

// Serve accepts connections on cfg.ListenAddr until listener.Close is
// called (by the caller or process exit). Each connection runs its own
// dispatch loop concurrently, sharing chain state behind its lock.
func (n *Node) Serve(ln net.Listener) error {
	n.log.Info("node listening", zap.String("addr", ln.Addr().String()))
	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("p2p: accept: %w", err)
		}
		go n.handleConn(conn)
	}
}

// handleConn implements spec §4.12's per-connection loop: receive one
// framed message, dispatch it, reply where the protocol defines a reply,
// loop until a transport, framing or dispatch error occurs.
func (n *Node) handleConn(conn net.Conn) {
	addr := conn.RemoteAddr().String()
	n.peers.Store(addr, conn)
	defer n.peers.Drop(addr)

	for {
		msg, err := wire.ReadMessage(conn)
		if err != nil {
			n.log.Debug("connection closed", zap.String("peer", addr), zap.Error(err))
			return
		}
		if err := n.dispatch(conn, addr, msg); err != nil {
			n.log.Warn("dispatch error", zap.String("peer", addr), zap.Error(err))
			return
		}
	}
}

// dial opens a fresh connection to addr and registers it in the peer set.
func (n *Node) dial(addr string) (net.Conn, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("p2p: dial %s: %w", addr, err)
	}
	n.peers.Store(addr, conn)
	return conn, nil
}

// requestReply dials addr, sends req, reads exactly one reply, and closes
// the connection. Used for the node-to-node request/reply exchanges in
// bootstrap (DiscoverNodes/AskDifference/FetchBlock), which are one-shot
// by nature rather than part of a held-open gossip connection.
func (n *Node) requestReply(addr string, req wire.Message) (wire.Message, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("p2p: dial %s: %w", addr, err)
	}
	defer conn.Close()

	if err := wire.WriteMessage(conn, req); err != nil {
		return nil, err
	}
	return wire.ReadMessage(conn)
}

// gossip sends msg to every known peer other than exceptAddr, dropping any
// peer whose connection errors (spec §4.12's NewTransaction/NewBlock
// broadcast).
func (n *Node) gossip(msg wire.Message, exceptAddr string) {
	n.peers.Range(exceptAddr, func(addr string, conn net.Conn) {
		if err := wire.WriteMessage(conn, msg); err != nil {
			n.log.Debug("gossip failed, dropping peer", zap.String("peer", addr), zap.Error(err))
			n.peers.Drop(addr)
		}
	})
}
