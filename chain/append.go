package chain

import (
	"fmt"
	"math"
)

// AppendBlock validates and commits blk at the chain's current tip,
// implementing spec §4.5. On success it removes newly confirmed
// transactions from the mempool, restores marking consistency for the
// entries that remain, and retargets difficulty if the new height lands on
// a retarget boundary.
func (bc *Blockchain) AppendBlock(blk *Block) error {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.appendLocked(blk)
}

func (bc *Blockchain) appendLocked(blk *Block) error {
	height := len(bc.blocks)

	if err := blk.ValidateStructure(); err != nil {
		return err
	}

	if height > 0 {
		prev := bc.blocks[height-1]
		if blk.Header.PrevBlockHash != prev.Hash() {
			return NewError(ErrInvalidPrevHash, "prev_block_hash does not match current tip")
		}
		if blk.Header.Timestamp.Before(prev.Header.Timestamp) {
			return NewError(ErrNonMonotonicTimestamp, "block timestamp precedes parent")
		}
	} else if blk.Header.PrevBlockHash != ZeroHash {
		return NewError(ErrInvalidPrevHash, "genesis block must reference the zero hash")
	}

	if blk.Header.Target != bc.target {
		return NewError(ErrTargetMismatch, "block target does not match engine target")
	}
	if !blk.Header.SatisfiesTarget() {
		return NewError(ErrInsufficientProofOfWork, "header hash exceeds target")
	}
	if root := TransactionMerkleRoot(blk.Transactions); root != blk.Header.MerkleRoot {
		return NewError(ErrInvalidMerkleRoot, "recomputed merkle root mismatch")
	}

	view := newShadowView(bc.utxos)
	var fees uint64
	for _, tx := range blk.Transactions[1:] {
		fee, err := tx.ValidateStandalone(view)
		if err != nil {
			return err
		}
		if fees > math.MaxUint64-fee {
			return NewError(ErrInvalidTransaction, "block fee sum overflows u64")
		}
		fees += fee
		for _, in := range tx.Inputs {
			view.consume(in.PrevOutputHash)
		}
		for _, out := range tx.Outputs {
			view.insert(out.Hash(), out)
		}
	}

	coinbase := blk.Transactions[0]
	coinbaseSum, err := coinbase.OutputSum()
	if err != nil {
		return err
	}
	reward := bc.params.BaseReward(uint64(height))
	if reward > math.MaxUint64-fees {
		return NewError(ErrInvalidTransaction, "coinbase entitlement overflows u64")
	}
	if want := reward + fees; coinbaseSum != want {
		return NewError(ErrBadCoinbase, fmt.Sprintf("coinbase pays %d, expected %d", coinbaseSum, want))
	}

	bc.commitLocked(blk, view, coinbase)

	newHeight := uint64(len(bc.blocks))
	if d := bc.params.DifficultyUpdateInterval; d != 0 && newHeight != 0 && newHeight%d == 0 {
		bc.retargetLocked()
	}
	return nil
}

func (bc *Blockchain) commitLocked(blk *Block, view *shadowView, coinbase *Transaction) {
	for h := range view.consumed {
		bc.utxos.Remove(h)
	}
	for h, out := range view.inserted {
		bc.utxos.Insert(h, out)
	}
	for _, out := range coinbase.Outputs {
		bc.utxos.Insert(out.Hash(), out)
	}

	originalEntries := bc.mempool.entries
	confirmed := make(map[Hash]struct{}, len(view.consumed))
	for h := range view.consumed {
		confirmed[h] = struct{}{}
	}

	var survivors []*MempoolEntry
	for _, e := range originalEntries {
		consumedByBlock := false
		for _, in := range e.Tx.Inputs {
			if _, ok := confirmed[in.PrevOutputHash]; ok {
				consumedByBlock = true
				break
			}
		}
		if !consumedByBlock {
			survivors = append(survivors, e)
		}
	}
	bc.mempool.entries = survivors

	stillMarked := make(map[Hash]struct{})
	for _, e := range survivors {
		for _, in := range e.Tx.Inputs {
			stillMarked[in.PrevOutputHash] = struct{}{}
		}
	}
	for _, e := range originalEntries {
		for _, in := range e.Tx.Inputs {
			h := in.PrevOutputHash
			if _, exists := bc.utxos.entries[h]; !exists {
				continue
			}
			if _, used := stillMarked[h]; used {
				bc.utxos.Mark(h)
			} else {
				bc.utxos.Unmark(h)
			}
		}
	}

	bc.blocks = append(bc.blocks, blk)
}
