package p2p

import (
	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/wire"
)

// Bootstrap implements spec §4.12's startup sync: discover peers through
// the configured seeds, ask each known peer how far ahead it is, and pull
// blocks sequentially from whichever peer is furthest ahead.
func (n *Node) Bootstrap() {
	known := make(map[string]struct{})
	for _, seed := range n.cfg.SeedPeers {
		known[seed] = struct{}{}
		n.discoverFrom(seed, known)
	}
	for addr := range known {
		n.connectPersistent(addr)
	}
	if len(known) == 0 {
		return
	}

	bestAddr := ""
	bestDiff := int32(0)
	localHeight := int32(n.chain.Height())
	for addr := range known {
		reply, err := n.requestReply(addr, wire.AskDifference{Height: localHeight})
		if err != nil {
			n.log.Debug("bootstrap: AskDifference failed", zap.String("peer", addr), zap.Error(err))
			continue
		}
		diff, ok := reply.(wire.Difference)
		if !ok {
			continue
		}
		if diff.Delta > bestDiff {
			bestDiff = diff.Delta
			bestAddr = addr
		}
	}
	if bestAddr == "" {
		n.log.Info("bootstrap: no peer ahead of local chain")
		return
	}

	n.syncFrom(bestAddr, known)
}

func (n *Node) discoverFrom(addr string, known map[string]struct{}) {
	reply, err := n.requestReply(addr, wire.DiscoverNodes{})
	if err != nil {
		n.log.Debug("bootstrap: DiscoverNodes failed", zap.String("peer", addr), zap.Error(err))
		return
	}
	list, ok := reply.(wire.NodeList)
	if !ok {
		return
	}
	for _, a := range list.Addrs {
		if a != n.cfg.ListenAddr {
			known[a] = struct{}{}
		}
	}
}

// syncFrom pulls blocks 0..height-1 from addr, falling through to the next
// known candidate on any fetch or validation failure.
func (n *Node) syncFrom(addr string, known map[string]struct{}) {
	candidates := []string{addr}
	for a := range known {
		if a != addr {
			candidates = append(candidates, a)
		}
	}
	for _, candidate := range candidates {
		if n.pullChainFrom(candidate) {
			return
		}
		n.log.Info("bootstrap: dropping candidate peer", zap.String("peer", candidate))
	}
	n.log.Warn("bootstrap: no candidate peer produced a valid chain, continuing with local state")
}

func (n *Node) pullChainFrom(addr string) bool {
	i := int32(0)
	for {
		reply, err := n.requestReply(addr, wire.FetchBlock{Index: i})
		if err != nil {
			if i == 0 {
				n.log.Debug("bootstrap: FetchBlock failed", zap.String("peer", addr), zap.Error(err))
				return false
			}
			return true
		}
		nb, ok := reply.(wire.NewBlock)
		if !ok || nb.Block == nil {
			return i > 0
		}
		if err := n.chain.AppendBlock(nb.Block); err != nil {
			n.log.Info("bootstrap: block failed validation",
				zap.String("peer", addr), zap.Int32("index", i), zap.Error(err))
			return false
		}
		i++
	}
}

// connectPersistent opens and registers an outbound connection for
// ongoing gossip with addr, running its own dispatch loop so replies and
// later gossip from that peer are still served.
func (n *Node) connectPersistent(addr string) {
	if _, ok := n.peers.Get(addr); ok {
		return
	}
	conn, err := n.dial(addr)
	if err != nil {
		n.log.Debug("bootstrap: persistent connect failed", zap.String("peer", addr), zap.Error(err))
		return
	}
	go n.handleConn(conn)
}
