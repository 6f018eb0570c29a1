package chain

// MerkleRoot computes the merkle root over an ordered list of transaction
// hashes per spec §4.1: pair adjacent hashes, hashing each pair's
// concatenation into the next layer; an unpaired last element is paired
// with itself. The empty list's root is the zero hash; a single-element
// list's root is that element unchanged.
func MerkleRoot(leaves []Hash) Hash {
	if len(leaves) == 0 {
		return ZeroHash
	}

	layer := make([]Hash, len(leaves))
	copy(layer, leaves)

	for len(layer) > 1 {
		if len(layer)%2 != 0 {
			layer = append(layer, layer[len(layer)-1])
		}
		next := make([]Hash, len(layer)/2)
		for i := 0; i < len(layer); i += 2 {
			buf := make([]byte, 0, 64)
			buf = append(buf, layer[i][:]...)
			buf = append(buf, layer[i+1][:]...)
			next[i/2] = HashBytes(buf)
		}
		layer = next
	}
	return layer[0]
}

// TransactionMerkleRoot hashes each transaction and computes their root.
func TransactionMerkleRoot(txs []*Transaction) Hash {
	leaves := make([]Hash, len(txs))
	for i, tx := range txs {
		leaves[i] = tx.ID()
	}
	return MerkleRoot(leaves)
}
