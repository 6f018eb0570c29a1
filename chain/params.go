package chain

import "time"

// Params holds the consensus parameters that two nodes must agree on to
// share a chain (spec §6: "two nodes with different consensus parameters
// form incompatible networks").
type Params struct {
	// InitialReward is the whole-coin block subsidy at height 0, before the
	// 10^8 smallest-unit scaling.
	InitialReward uint64
	// HalvingInterval is the number of blocks between subsidy halvings.
	HalvingInterval uint64
	// IdealBlockTime is the target seconds between blocks.
	IdealBlockTime uint64
	// DifficultyUpdateInterval is the number of blocks between retargets.
	DifficultyUpdateInterval uint64
	// MaxMempoolTransactionAge is how long an unconfirmed transaction may
	// sit in the mempool before cleanup evicts it.
	MaxMempoolTransactionAge time.Duration
	// BlockTransactionCap bounds the number of transactions (coinbase
	// included) a template may carry.
	BlockTransactionCap int
	// MinTarget is the easiest (numerically largest) target retargeting
	// may ever select.
	MinTarget Target
}

// DefaultParams are the literal values used throughout spec §8's scenarios.
func DefaultParams() Params {
	return Params{
		InitialReward:            50,
		HalvingInterval:          210,
		IdealBlockTime:           10,
		DifficultyUpdateInterval: 50,
		MaxMempoolTransactionAge: 600 * time.Second,
		BlockTransactionCap:      20,
		MinTarget:                maxTarget(),
	}
}

// maxTarget is the all-ones 256-bit target: the easiest possible difficulty,
// used as the default MinTarget ceiling when a deployment does not configure
// a tighter one.
func maxTarget() Target {
	var t Target
	for i := range t {
		t[i] = 0xff
	}
	return t
}
