package p2p

import (
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/duniacoin/duniacoin/wire"
)

// dispatch implements the closed message-handler table of spec §4.12.
func (n *Node) dispatch(conn net.Conn, from string, msg wire.Message) error {
	switch m := msg.(type) {

	case wire.FetchUTXOs:
		entries := n.chain.UTXOsForPubKey(m.PubKey)
		reply := wire.UTXOs{Entries: make([]wire.UTXOWireEntry, len(entries))}
		for i, e := range entries {
			reply.Entries[i] = wire.UTXOWireEntry{Marked: e.Marked, Output: e.Output}
		}
		return wire.WriteMessage(conn, reply)

	case wire.SubmitTransaction:
		if _, err := n.chain.SubmitTransaction(m.Tx); err != nil {
			n.log.Info("SubmitTransaction rejected", zap.Error(err))
			return nil
		}
		n.gossip(wire.NewTransaction{Tx: m.Tx}, "")
		return nil

	case wire.NewTransaction:
		if _, err := n.chain.SubmitTransaction(m.Tx); err != nil {
			n.log.Debug("gossiped transaction rejected", zap.Error(err))
			return nil
		}
		n.gossip(wire.NewTransaction{Tx: m.Tx}, from)
		return nil

	case wire.FetchTemplate:
		blk := n.chain.BuildTemplate(m.PubKey)
		return wire.WriteMessage(conn, wire.Template{Block: blk})

	case wire.ValidateTemplate:
		valid := n.chain.ValidateTemplate(m.Block)
		return wire.WriteMessage(conn, wire.TemplateValidity{Valid: valid})

	case wire.SubmitTemplate:
		if err := n.chain.AppendBlock(m.Block); err != nil {
			n.log.Info("SubmitTemplate rejected", zap.Error(err))
			return nil
		}
		n.gossip(wire.NewBlock{Block: m.Block}, "")
		return nil

	case wire.NewBlock:
		if m.Block == nil {
			return nil
		}
		if err := n.chain.AppendBlock(m.Block); err != nil {
			n.log.Debug("gossiped block rejected", zap.Error(err))
			return nil
		}
		n.gossip(wire.NewBlock{Block: m.Block}, from)
		return nil

	case wire.DiscoverNodes:
		addrs := append([]string{n.cfg.ListenAddr}, n.peers.Addrs()...)
		return wire.WriteMessage(conn, wire.NodeList{Addrs: addrs})

	case wire.AskDifference:
		delta := int32(n.chain.Height()) - m.Height
		return wire.WriteMessage(conn, wire.Difference{Delta: delta})

	case wire.FetchBlock:
		blk, ok := n.chain.BlockAt(int(m.Index))
		if !ok {
			// No reply; returning an error closes the connection, which is
			// how a syncing peer learns it has pulled the whole chain.
			return fmt.Errorf("p2p: FetchBlock index %d beyond height", m.Index)
		}
		return wire.WriteMessage(conn, wire.NewBlock{Block: blk})

	default:
		return fmt.Errorf("p2p: unhandled message type %T", m)
	}
}
