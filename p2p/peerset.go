package p2p

import (
	"net"
	"sync"
)

// PeerSet is the concurrent address -> connection registry (spec §5): a
// sync.Map permits per-entry mutation (a connection dropping out) without a
// global lock contending with chain-state access.
type PeerSet struct {
	conns sync.Map // string -> net.Conn
}

func NewPeerSet() *PeerSet {
	return &PeerSet{}
}

func (p *PeerSet) Store(addr string, conn net.Conn) {
	p.conns.Store(addr, conn)
}

// Drop removes addr and closes its connection, if any.
func (p *PeerSet) Drop(addr string) {
	if v, ok := p.conns.LoadAndDelete(addr); ok {
		_ = v.(net.Conn).Close()
	}
}

func (p *PeerSet) Get(addr string) (net.Conn, bool) {
	v, ok := p.conns.Load(addr)
	if !ok {
		return nil, false
	}
	return v.(net.Conn), true
}

// Addrs returns every currently registered peer address.
func (p *PeerSet) Addrs() []string {
	var addrs []string
	p.conns.Range(func(k, _ any) bool {
		addrs = append(addrs, k.(string))
		return true
	})
	return addrs
}

// Range iterates live peers, skipping except if non-empty.
func (p *PeerSet) Range(except string, fn func(addr string, conn net.Conn)) {
	p.conns.Range(func(k, v any) bool {
		addr := k.(string)
		if addr == except {
			return true
		}
		fn(addr, v.(net.Conn))
		return true
	})
}
