// Package miner implements the bounded nonce-search mining loop and the
// template fetch/validate/submit cycle that drives it (spec §4.11).
package miner

import (
	"math"
	"time"

	"github.com/duniacoin/duniacoin/chain"
)

// MineBatch runs up to batch iterations of spec §4.11's nonce search over
// header, returning the header at the point a solution was found (its
// second result true), or the header after batch exhausted iterations
// (false). now is injected so tests can control timestamp refresh on
// nonce overflow.
func MineBatch(header chain.BlockHeader, batch uint64, now func() time.Time) (chain.BlockHeader, bool) {
	h := header
	for i := uint64(0); i < batch; i++ {
		if h.Nonce == math.MaxUint64 {
			h.Nonce = 0
			h.Timestamp = now()
		} else {
			h.Nonce++
		}
		if h.SatisfiesTarget() {
			return h, true
		}
	}
	return h, false
}
