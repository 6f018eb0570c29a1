// Package chain implements the consensus-validated, replicated chain state:
// the UTXO set, mempool, block and transaction validation, the reward
// schedule, and difficulty retargeting.
package chain

import (
	"crypto/sha256"
	"math/big"
)

// Hash is a 256-bit unsigned integer derived from the canonical binary
// encoding of a value, held as 32 big-endian bytes. Its CBOR encoding is
// four u64 words, low word first (see codec.go).
type Hash [32]byte

// ZeroHash is the hash used as the merkle root of an empty transaction list.
var ZeroHash = Hash{}

// Target is a 256-bit unsigned integer; a smaller target means harder.
type Target [32]byte

// Encodable is anything that can be canonically serialized for hashing.
// Every hashed value in the consensus layer implements it.
type Encodable interface {
	CanonicalEncode() []byte
}

// HashOf computes the SHA-256 hash of v's canonical encoding.
func HashOf(v Encodable) Hash {
	sum := sha256.Sum256(v.CanonicalEncode())
	return Hash(sum)
}

// HashBytes computes the SHA-256 hash of raw bytes, used for merkle-tree
// internal nodes where the input is already a concatenation of hashes.
func HashBytes(b []byte) Hash {
	return Hash(sha256.Sum256(b))
}

// Int returns h interpreted as a big-endian unsigned integer for comparison
// against a Target.
func (h Hash) Int() *big.Int {
	return new(big.Int).SetBytes(h[:])
}

// MatchesTarget reports whether h <= t, i.e. the hash satisfies the
// proof-of-work requirement for target t.
func (h Hash) MatchesTarget(t Target) bool {
	return h.Int().Cmp(t.Int()) <= 0
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) String() string { return hexString(h[:]) }

// Int returns t interpreted as a big-endian unsigned integer.
func (t Target) Int() *big.Int {
	return new(big.Int).SetBytes(t[:])
}

// TargetFromInt converts a big.Int into a 256-bit Target, clamped to fit:
// a value wider than 256 bits becomes the all-ones maximum.
func TargetFromInt(i *big.Int) Target {
	var t Target
	b := i.Bytes()
	if len(b) > 32 {
		return maxTarget()
	}
	copy(t[32-len(b):], b)
	return t
}

func (t Target) Bytes() []byte { return t[:] }

func (t Target) String() string { return hexString(t[:]) }

func hexString(b []byte) string {
	const hexdigits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = hexdigits[c>>4]
		out[i*2+1] = hexdigits[c&0xf]
	}
	return string(out)
}
