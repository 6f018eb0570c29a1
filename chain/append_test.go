package chain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mineTemplate finesses a template into an appendable block. With the
// default MinTarget (all-ones, the easiest possible difficulty) every
// header already satisfies the target, so no nonce search is needed.
func mineTemplate(t *testing.T, blk *Block) *Block {
	t.Helper()
	require.True(t, blk.Header.SatisfiesTarget(), "default target should accept any header")
	return blk
}

// TestGenesisAndFirstReward implements spec scenario S1.
func TestGenesisAndFirstReward(t *testing.T) {
	_, pkM := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	blk := mineTemplate(t, bc.BuildTemplate(pkM))
	require.NoError(t, bc.AppendBlock(blk))

	require.Equal(t, 1, bc.Height())
	entries := bc.UTXOsForPubKey(pkM)
	require.Len(t, entries, 1)
	require.Equal(t, uint64(50*CoinUnits), entries[0].Output.Value)
}

// TestSimpleTransfer implements spec scenario S2.
func TestSimpleTransfer(t *testing.T) {
	skM, pkM := newTestKeyPair(t)
	_, pkB := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	require.NoError(t, bc.AppendBlock(mineTemplate(t, bc.BuildTemplate(pkM))))

	reward := bc.UTXOsForPubKey(pkM)[0]
	// Input 5e9, outputs 3e9 + 1.9999e9: the 1e5 difference is the fee.
	tx := &Transaction{
		Inputs: []TransactionInput{{PrevOutputHash: reward.Output.Hash()}},
		Outputs: []TransactionOutput{
			NewOutput(3_000_000_000, pkB),
			NewOutput(1_999_900_000, pkM),
		},
	}
	tx.SignInput(0, skM)

	fee, err := bc.SubmitTransaction(tx)
	require.NoError(t, err)
	require.Equal(t, uint64(100_000), fee)
	require.Equal(t, 1, bc.MempoolSize())

	blk2 := mineTemplate(t, bc.BuildTemplate(pkM))
	require.NoError(t, bc.AppendBlock(blk2))

	require.Zero(t, bc.MempoolSize())

	bOut := bc.UTXOsForPubKey(pkB)
	require.Len(t, bOut, 1)
	require.Equal(t, uint64(3_000_000_000), bOut[0].Output.Value)

	mOut := bc.UTXOsForPubKey(pkM)
	// change output + second coinbase (reward + fee).
	require.Len(t, mOut, 2)
	var total uint64
	for _, e := range mOut {
		total += e.Output.Value
	}
	require.Equal(t, uint64(1_999_900_000)+uint64(50*CoinUnits)+fee, total)
}

// TestConsecutiveBlockLinkage implements P4.
func TestConsecutiveBlockLinkage(t *testing.T) {
	_, pk := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	require.NoError(t, bc.AppendBlock(mineTemplate(t, bc.BuildTemplate(pk))))
	b1, _ := bc.BlockAt(0)

	require.NoError(t, bc.AppendBlock(mineTemplate(t, bc.BuildTemplate(pk))))
	b2, _ := bc.BlockAt(1)

	require.Equal(t, b1.Hash(), b2.Header.PrevBlockHash)
	require.False(t, b2.Header.Timestamp.Before(b1.Header.Timestamp))
}

// TestAppendRejectsBadPrevHash covers P4/ErrInvalidPrevHash.
func TestAppendRejectsBadPrevHash(t *testing.T) {
	_, pk := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	blk := bc.BuildTemplate(pk)
	blk.Header.PrevBlockHash = HashBytes([]byte("not the zero hash"))

	err := bc.AppendBlock(blk)
	require.Error(t, err)
	require.Equal(t, ErrInvalidPrevHash, KindOf(err))
}

// TestAppendRejectsBadMerkleRoot covers P5.
func TestAppendRejectsBadMerkleRoot(t *testing.T) {
	_, pk := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	blk := bc.BuildTemplate(pk)
	blk.Header.MerkleRoot = HashBytes([]byte("wrong"))

	err := bc.AppendBlock(blk)
	require.Error(t, err)
	require.Equal(t, ErrInvalidMerkleRoot, KindOf(err))
}

// TestAppendRejectsWrongCoinbaseValue covers P6.
func TestAppendRejectsWrongCoinbaseValue(t *testing.T) {
	_, pk := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	blk := bc.BuildTemplate(pk)
	blk.Transactions[0] = NewCoinbase(1, pk) // wrong value
	blk.Header.MerkleRoot = TransactionMerkleRoot(blk.Transactions)

	err := bc.AppendBlock(blk)
	require.Error(t, err)
	require.Equal(t, ErrBadCoinbase, KindOf(err))
}

// TestCoinConservation implements P9 across several mined blocks with a
// transfer in between.
func TestCoinConservation(t *testing.T) {
	skM, pkM := newTestKeyPair(t)
	_, pkB := newTestKeyPair(t)
	bc := NewBlockchain(DefaultParams())

	for i := 0; i < 3; i++ {
		require.NoError(t, bc.AppendBlock(mineTemplate(t, bc.BuildTemplate(pkM))))
	}

	reward := bc.UTXOsForPubKey(pkM)[0]
	tx := &Transaction{
		Inputs:  []TransactionInput{{PrevOutputHash: reward.Output.Hash()}},
		Outputs: []TransactionOutput{NewOutput(1_000_000_000, pkB)},
	}
	tx.SignInput(0, skM)
	_, err := bc.SubmitTransaction(tx)
	require.NoError(t, err)
	require.NoError(t, bc.AppendBlock(mineTemplate(t, bc.BuildTemplate(pkM))))

	var expected uint64
	p := bc.Params()
	for h := 0; h < bc.Height(); h++ {
		expected += p.BaseReward(uint64(h))
	}

	var actual uint64
	for _, e := range bc.UTXOsForPubKey(pkM) {
		actual += e.Output.Value
	}
	for _, e := range bc.UTXOsForPubKey(pkB) {
		actual += e.Output.Value
	}

	require.Equal(t, expected, actual)
}
