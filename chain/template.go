package chain

// BuildTemplate assembles a candidate block for a miner paying PK,
// implementing spec §4.9: the highest-fee mempool prefix up to
// BlockTransactionCap-1 transactions, with a coinbase entitled to the
// height's base reward plus their fees.
func (bc *Blockchain) BuildTemplate(pk PublicKey) *Block {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	slots := bc.params.BlockTransactionCap - 1
	if slots < 0 {
		slots = 0
	}
	selected := bc.mempool.TopN(slots)

	var fees uint64
	txs := make([]*Transaction, 0, len(selected)+1)
	for _, e := range selected {
		fees += e.Fee
	}

	height := uint64(len(bc.blocks))
	coinbase := NewCoinbase(bc.params.BaseReward(height)+fees, pk)
	txs = append(txs, coinbase)
	for _, e := range selected {
		txs = append(txs, e.Tx)
	}

	header := BlockHeader{
		Timestamp:     bc.clock(),
		Nonce:         0,
		PrevBlockHash: bc.tipLocked(),
		MerkleRoot:    TransactionMerkleRoot(txs),
		Target:        bc.target,
	}
	return &Block{Header: header, Transactions: txs}
}

// ValidateTemplate implements spec §4.10: an in-progress template is valid
// iff it still targets the current tip and difficulty, and every
// non-coinbase transaction it carries still resolves its inputs.
func (bc *Blockchain) ValidateTemplate(blk *Block) bool {
	bc.mu.RLock()
	defer bc.mu.RUnlock()

	if blk.Header.PrevBlockHash != bc.tipLocked() {
		return false
	}
	if blk.Header.Target != bc.target {
		return false
	}
	for _, tx := range blk.Transactions {
		if tx.IsCoinbase() {
			continue
		}
		for _, in := range tx.Inputs {
			if _, ok := bc.utxos.Lookup(in.PrevOutputHash); !ok {
				return false
			}
		}
	}
	return true
}
