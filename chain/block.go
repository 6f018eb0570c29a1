package chain

import "time"

// BlockHeader is the part of a block whose hash is the block's identity.
type BlockHeader struct {
	Timestamp     time.Time `cbor:"1,keyasint"`
	Nonce         uint64    `cbor:"2,keyasint"`
	PrevBlockHash Hash      `cbor:"3,keyasint"`
	MerkleRoot    Hash      `cbor:"4,keyasint"`
	Target        Target    `cbor:"5,keyasint"`
}

func (h BlockHeader) CanonicalEncode() []byte { return cborEncode(h) }

// Hash is the block's identity: the hash of its header alone.
func (h BlockHeader) Hash() Hash { return HashOf(h) }

// Block is a header plus its ordered transaction list. Transaction order is
// part of consensus: it fixes the merkle root and the coinbase's position.
type Block struct {
	Header       BlockHeader    `cbor:"1,keyasint"`
	Transactions []*Transaction `cbor:"2,keyasint"`
}

func (b *Block) CanonicalEncode() []byte { return cborEncode(b) }

// Hash is the identity of b's header.
func (b *Block) Hash() Hash { return b.Header.Hash() }

// Coinbase returns b's first transaction, which structural validation
// guarantees is the block's unique coinbase.
func (b *Block) Coinbase() *Transaction {
	if len(b.Transactions) == 0 {
		return nil
	}
	return b.Transactions[0]
}

// ValidateStructure checks spec §4.5 step 1: a non-empty transaction list
// whose first (and only) coinbase transaction is at index 0.
func (b *Block) ValidateStructure() error {
	if len(b.Transactions) == 0 {
		return NewError(ErrBadCoinbase, "block has no transactions")
	}
	if !b.Transactions[0].IsCoinbase() {
		return NewError(ErrBadCoinbase, "first transaction is not a coinbase")
	}
	for _, tx := range b.Transactions[1:] {
		if tx.IsCoinbase() {
			return NewError(ErrBadCoinbase, "unexpected coinbase at non-zero index")
		}
	}
	return nil
}

// SatisfiesTarget reports whether h's hash satisfies h.Target (spec §4.5 step 3).
func (h BlockHeader) SatisfiesTarget() bool {
	return h.Hash().MatchesTarget(h.Target)
}
