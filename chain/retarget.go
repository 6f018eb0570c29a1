package chain

import "math/big"

// retargetLocked implements spec §4.6. Called after a block has been
// appended whose new height (len(bc.blocks)) is a nonzero multiple of
// DifficultyUpdateInterval; it recomputes bc.target from the timestamps of
// the most recent D-block window.
func (bc *Blockchain) retargetLocked() {
	d := bc.params.DifficultyUpdateInterval
	n := uint64(len(bc.blocks))
	if d == 0 || n == 0 || n%d != 0 {
		return
	}

	window := bc.blocks[n-d:]
	first := window[0].Header.Timestamp
	last := window[len(window)-1].Header.Timestamp

	actual := last.Unix() - first.Unix()
	if actual < 1 {
		actual = 1
	}
	ideal := int64(d * bc.params.IdealBlockTime)

	bc.target = retargetTarget(bc.target, actual, ideal, bc.params.MinTarget)
}

// retargetTarget computes new_target = current * (actual/ideal) in
// arbitrary precision, then clamps to [current/4, current*4] and
// [1, minTarget] per spec §4.6 and §9's zero-target open question.
func retargetTarget(current Target, actual, ideal int64, minTarget Target) Target {
	cur := current.Int()

	scaled := new(big.Int).Mul(cur, big.NewInt(actual))
	scaled.Div(scaled, big.NewInt(ideal))

	quarter := new(big.Int).Div(cur, big.NewInt(4))
	quadruple := new(big.Int).Mul(cur, big.NewInt(4))
	if scaled.Cmp(quarter) < 0 {
		scaled.Set(quarter)
	}
	if scaled.Cmp(quadruple) > 0 {
		scaled.Set(quadruple)
	}

	one := big.NewInt(1)
	if scaled.Cmp(one) < 0 {
		scaled.Set(one)
	}
	if max := minTarget.Int(); scaled.Cmp(max) > 0 {
		scaled.Set(max)
	}

	return TargetFromInt(scaled)
}
