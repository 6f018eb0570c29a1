package miner

import (
	"fmt"
	"net"
	"time"

	"github.com/duniacoin/duniacoin/chain"
	"github.com/duniacoin/duniacoin/wire"
)

const dialTimeout = 5 * time.Second

func fetchTemplate(nodeAddr string, pk chain.PublicKey) (*chain.Block, error) {
	reply, err := roundTrip(nodeAddr, wire.FetchTemplate{PubKey: pk})
	if err != nil {
		return nil, err
	}
	tmpl, ok := reply.(wire.Template)
	if !ok {
		return nil, fmt.Errorf("miner: unexpected reply to FetchTemplate: %T", reply)
	}
	return tmpl.Block, nil
}

func validateTemplate(nodeAddr string, blk *chain.Block) (bool, error) {
	reply, err := roundTrip(nodeAddr, wire.ValidateTemplate{Block: blk})
	if err != nil {
		return false, err
	}
	validity, ok := reply.(wire.TemplateValidity)
	if !ok {
		return false, fmt.Errorf("miner: unexpected reply to ValidateTemplate: %T", reply)
	}
	return validity.Valid, nil
}

// submitTemplate sends a solved block for final validation and append.
// The protocol defines no reply for SubmitTemplate; a rejected submission
// is discovered on the next FetchTemplate/ValidateTemplate round-trip
// (spec §7).
func submitTemplate(nodeAddr string, blk *chain.Block) error {
	conn, err := net.DialTimeout("tcp", nodeAddr, dialTimeout)
	if err != nil {
		return fmt.Errorf("miner: dial %s: %w", nodeAddr, err)
	}
	defer conn.Close()
	return wire.WriteMessage(conn, wire.SubmitTemplate{Block: blk})
}

func roundTrip(nodeAddr string, req wire.Message) (wire.Message, error) {
	conn, err := net.DialTimeout("tcp", nodeAddr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("miner: dial %s: %w", nodeAddr, err)
	}
	defer conn.Close()

	if err := wire.WriteMessage(conn, req); err != nil {
		return nil, err
	}
	return wire.ReadMessage(conn)
}
