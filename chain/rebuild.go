package chain

import "fmt"

// RebuildFromBlocks reconstructs a Blockchain's utxos and target by
// replaying blocks in order from an empty chain (spec §4.8). Used both to
// validate a persisted snapshot against its block log (P7) and to build
// chain state from blocks pulled during sync bootstrap (§4.12), where a
// peer hands over only the block sequence.
func RebuildFromBlocks(blocks []*Block, params Params) (*Blockchain, error) {
	bc := NewBlockchain(params)
	for i, blk := range blocks {
		if err := bc.appendLocked(blk); err != nil {
			return nil, fmt.Errorf("replay block %d: %w", i, err)
		}
	}
	return bc, nil
}
