// Package addr derives Bitcoin-style display addresses from a consensus
// public key. This sits entirely outside consensus: a TransactionOutput
// locks value to a raw PublicKey, never to an address, so the encoding
// here is a pure offline display convenience for keygen/print tools.
package addr

import (
	"bytes"
	"crypto/sha256"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/duniacoin/duniacoin/chain"
)

const (
	checksumLength = 4
	version        = byte(0x00)
)

// PublicKeyHash returns RIPEMD160(SHA256(pubkey)), the address payload.
func PublicKeyHash(pk chain.PublicKey) []byte {
	shaHash := sha256.Sum256(pk.CanonicalEncode())
	hasher := ripemd160.New()
	hasher.Write(shaHash[:])
	return hasher.Sum(nil)
}

// Checksum returns the first checksumLength bytes of SHA256(SHA256(payload)).
func Checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}

// Encode renders pk as a Base58Check display address: version || hash160
// || checksum.
func Encode(pk chain.PublicKey) string {
	payload := append([]byte{version}, PublicKeyHash(pk)...)
	full := append(payload, Checksum(payload)...)
	return base58.Encode(full)
}

// Validate reports whether address is a well-formed, checksum-correct
// address produced by Encode (structural check only; it cannot confirm
// the address corresponds to a live UTXO).
func Validate(address string) bool {
	decoded, err := base58.Decode(address)
	if err != nil || len(decoded) != 1+20+checksumLength {
		return false
	}
	payload := decoded[:1+20]
	gotChecksum := decoded[1+20:]
	return bytes.Equal(gotChecksum, Checksum(payload))
}
