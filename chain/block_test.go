package chain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateStructureRejectsEmptyBlock(t *testing.T) {
	blk := &Block{}
	err := blk.ValidateStructure()
	require.Error(t, err)
	require.Equal(t, ErrBadCoinbase, KindOf(err))
}

func TestValidateStructureRejectsMissingCoinbase(t *testing.T) {
	_, pk := newTestKeyPair(t)
	blk := &Block{Transactions: []*Transaction{{Outputs: []TransactionOutput{NewOutput(1, pk)}}}}
	err := blk.ValidateStructure()
	require.Error(t, err)
	require.Equal(t, ErrBadCoinbase, KindOf(err))
}

func TestValidateStructureRejectsExtraCoinbase(t *testing.T) {
	_, pk := newTestKeyPair(t)
	blk := &Block{Transactions: []*Transaction{
		NewCoinbase(100, pk),
		NewCoinbase(100, pk),
	}}
	err := blk.ValidateStructure()
	require.Error(t, err)
	require.Equal(t, ErrBadCoinbase, KindOf(err))
}

func TestValidateStructureAcceptsCoinbaseOnly(t *testing.T) {
	_, pk := newTestKeyPair(t)
	blk := &Block{Transactions: []*Transaction{NewCoinbase(100, pk)}}
	require.NoError(t, blk.ValidateStructure())
}

func TestBlockHeaderHashIsHeaderOnly(t *testing.T) {
	_, pk := newTestKeyPair(t)
	blk := &Block{
		Header:       BlockHeader{Timestamp: time.Unix(0, 0).UTC()},
		Transactions: []*Transaction{NewCoinbase(100, pk)},
	}
	require.Equal(t, blk.Header.Hash(), blk.Hash())
}

func TestSatisfiesTargetAgainstMaxTarget(t *testing.T) {
	h := BlockHeader{Timestamp: time.Unix(0, 0).UTC(), Target: maxTarget()}
	require.True(t, h.SatisfiesTarget())
}

func TestSatisfiesTargetAgainstZeroTarget(t *testing.T) {
	h := BlockHeader{Timestamp: time.Unix(0, 0).UTC()}
	require.False(t, h.SatisfiesTarget())
}
