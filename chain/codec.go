package chain

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// canonicalEncMode produces deterministic CBOR: length-first map key
// ordering and the shortest-form integer/float encoding (RFC 7049 §3.9,
// "Canonical CBOR"). Every hash, wire frame, and persisted value in
// this module goes through it, so two conforming implementations encode the
// same value to the same bytes (spec §4.1, §6, §9, P8).
var canonicalEncMode = func() cbor.EncMode {
	opts := cbor.CanonicalEncOptions()
	// Timestamps are tagged epoch seconds (RFC 8949 tag 1), not RFC3339
	// strings: an integer/float count has one canonical form, a formatted
	// string has several (fractional digits, "Z" vs "+00:00").
	opts.Time = cbor.TimeUnix
	opts.TimeTag = cbor.EncTagRequired
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("chain: building canonical CBOR encoder: %v", err))
	}
	return mode
}()

var decMode = func() cbor.DecMode {
	opts := cbor.DecOptions{TimeTag: cbor.DecTagOptional}
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("chain: building CBOR decoder: %v", err))
	}
	return mode
}()

func cborEncode(v interface{}) []byte {
	b, err := canonicalEncMode.Marshal(v)
	if err != nil {
		// Every encoded type here is a plain struct of bytes/ints/slices;
		// a marshal failure means a programming error, not bad input.
		panic(fmt.Sprintf("chain: cbor marshal: %v", err))
	}
	return b
}

func cborDecode(b []byte, out interface{}) error {
	return decMode.Unmarshal(b, out)
}

// DecodeTransaction decodes a .tx.cbor offline artifact (spec §6).
func DecodeTransaction(data []byte) (*Transaction, error) {
	var tx Transaction
	if err := cborDecode(data, &tx); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	return &tx, nil
}

// DecodeBlock decodes a .block.cbor offline artifact (spec §6).
func DecodeBlock(data []byte) (*Block, error) {
	var blk Block
	if err := cborDecode(data, &blk); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	return &blk, nil
}

// MarshalCBOR renders a Hash as a four-element array of little-endian u64
// words, low word first, per spec §6's wire encoding for Hash/Target.
func (h Hash) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(wordsOf(h[:]))
}

func (h *Hash) UnmarshalCBOR(data []byte) error {
	var words [4]uint64
	if err := cbor.Unmarshal(data, &words); err != nil {
		return err
	}
	b := bytesOf(words)
	copy(h[:], b)
	return nil
}

func (t Target) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(wordsOf(t[:]))
}

func (t *Target) UnmarshalCBOR(data []byte) error {
	var words [4]uint64
	if err := cbor.Unmarshal(data, &words); err != nil {
		return err
	}
	b := bytesOf(words)
	copy(t[:], b)
	return nil
}

// wordsOf splits a 32-byte big-endian value into four u64 words, low word
// (least significant 64 bits) first.
func wordsOf(b []byte) [4]uint64 {
	var words [4]uint64
	for i := 0; i < 4; i++ {
		// word i covers big-endian byte range [32-8*(i+1), 32-8*i)
		words[i] = binary.BigEndian.Uint64(b[32-8*(i+1) : 32-8*i])
	}
	return words
}

// bytesOf is the inverse of wordsOf, reconstructing the 32-byte big-endian
// value from its four low-word-first u64 words.
func bytesOf(words [4]uint64) []byte {
	b := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(b[32-8*(i+1):32-8*i], words[i])
	}
	return b
}
