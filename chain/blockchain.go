package chain

import (
	"sync"
	"time"
)

// Blockchain is the authoritative replicated chain state (spec §3): the
// block sequence, the UTXO set, the mempool, and the currently active
// target, guarded by a single reader-writer lock (spec §5).
type Blockchain struct {
	mu      sync.RWMutex
	blocks  []*Block
	utxos   *UTXOSet
	mempool *Mempool
	target  Target
	params  Params

	// clock is time.Now by default; tests override it to exercise
	// mempool aging and retarget arithmetic deterministically.
	clock func() time.Time
}

// NewBlockchain creates an empty chain (no genesis block) with the given
// consensus parameters, ready to mine its first block.
func NewBlockchain(params Params) *Blockchain {
	return &Blockchain{
		utxos:   NewUTXOSet(),
		mempool: NewMempool(),
		target:  params.MinTarget,
		params:  params,
		clock:   time.Now,
	}
}

// Height returns the number of blocks in the chain.
func (bc *Blockchain) Height() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return len(bc.blocks)
}

// Tip returns the hash of the most recently appended block's header, or
// the zero hash for an empty chain.
func (bc *Blockchain) Tip() Hash {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.tipLocked()
}

func (bc *Blockchain) tipLocked() Hash {
	if len(bc.blocks) == 0 {
		return ZeroHash
	}
	return bc.blocks[len(bc.blocks)-1].Hash()
}

// Target returns the currently active difficulty target.
func (bc *Blockchain) Target() Target {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.target
}

// Params returns the chain's consensus parameters.
func (bc *Blockchain) Params() Params { return bc.params }

// BlockAt returns the block at height i, or false if out of range (used by
// the FetchBlock handler, spec §4.12).
func (bc *Blockchain) BlockAt(i int) (*Block, bool) {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	if i < 0 || i >= len(bc.blocks) {
		return nil, false
	}
	return bc.blocks[i], true
}

// UTXOsForPubKey returns every live UTXO locked to pk, with marking state
// (the FetchUTXOs handler, spec §4.12).
func (bc *Blockchain) UTXOsForPubKey(pk PublicKey) []UTXOEntry {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.utxos.ByPubKey(pk)
}

// MempoolSize returns the number of pending transactions.
func (bc *Blockchain) MempoolSize() int {
	bc.mu.RLock()
	defer bc.mu.RUnlock()
	return bc.mempool.Len()
}
