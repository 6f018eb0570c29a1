package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseRewardGenesis(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, uint64(50*CoinUnits), p.BaseReward(0))
}

func TestBaseRewardAtFirstHalving(t *testing.T) {
	p := DefaultParams()
	// S5: height 210 halves once.
	assert.Equal(t, uint64(25*CoinUnits), p.BaseReward(p.HalvingInterval))
}

func TestBaseRewardJustBeforeHalving(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, uint64(50*CoinUnits), p.BaseReward(p.HalvingInterval-1))
}

func TestBaseRewardSaturatesToZero(t *testing.T) {
	p := DefaultParams()
	assert.Zero(t, p.BaseReward(p.HalvingInterval*64))
}
