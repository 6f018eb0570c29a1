package miner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/duniacoin/duniacoin/chain"
)

func TestMineBatchFindsSolutionUnderMaxTarget(t *testing.T) {
	header := chain.BlockHeader{Target: maxTargetForTest()}
	solved, ok := MineBatch(header, 100, time.Now)
	require.True(t, ok)
	require.True(t, solved.SatisfiesTarget())
}

func TestMineBatchExhaustsBatchAgainstImpossibleTarget(t *testing.T) {
	var zero chain.Target // the hardest possible target: nothing satisfies it
	header := chain.BlockHeader{Target: zero}
	_, ok := MineBatch(header, 1000, time.Now)
	require.False(t, ok)
}

func TestMineBatchIsDeterministicGivenSameStart(t *testing.T) {
	header := chain.BlockHeader{Target: maxTargetForTest()}
	a, okA := MineBatch(header, 10, time.Now)
	b, okB := MineBatch(header, 10, time.Now)
	require.Equal(t, okA, okB)
	require.Equal(t, a, b)
}

func maxTargetForTest() chain.Target {
	var t chain.Target
	for i := range t {
		t[i] = 0xff
	}
	return t
}
