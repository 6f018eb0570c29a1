package chain

// shadowView layers a block's in-progress consumption and creation of
// outputs on top of the committed UTXOSet, without mutating it (spec
// §4.5 step 5). Consuming an output removes it from view regardless of
// whether it originated in the base set or earlier in the same block, so
// a second reference to the same hash resolves as UnknownInput.
type shadowView struct {
	base     *UTXOSet
	consumed map[Hash]struct{}
	inserted map[Hash]TransactionOutput
}

func newShadowView(base *UTXOSet) *shadowView {
	return &shadowView{
		base:     base,
		consumed: make(map[Hash]struct{}),
		inserted: make(map[Hash]TransactionOutput),
	}
}

func (v *shadowView) Lookup(h Hash) (TransactionOutput, bool) {
	if _, gone := v.consumed[h]; gone {
		return TransactionOutput{}, false
	}
	if out, ok := v.inserted[h]; ok {
		return out, true
	}
	return v.base.Lookup(h)
}

func (v *shadowView) consume(h Hash) {
	delete(v.inserted, h)
	v.consumed[h] = struct{}{}
}

func (v *shadowView) insert(h Hash, out TransactionOutput) {
	delete(v.consumed, h)
	v.inserted[h] = out
}
