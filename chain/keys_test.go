package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, pk, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := HashBytes([]byte("spend this output"))
	sig := Sign(msg, sk)

	assert.True(t, Verify(msg, sig, pk))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, _, err := GenerateKeyPair()
	require.NoError(t, err)
	_, otherPK, err := GenerateKeyPair()
	require.NoError(t, err)

	msg := HashBytes([]byte("spend this output"))
	sig := Sign(msg, sk)

	assert.False(t, Verify(msg, sig, otherPK))
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	sk, pk, err := GenerateKeyPair()
	require.NoError(t, err)

	sig := Sign(HashBytes([]byte("original")), sk)
	assert.False(t, Verify(HashBytes([]byte("tampered")), sig, pk))
}

func TestSPKIRoundTrip(t *testing.T) {
	_, pk, err := GenerateKeyPair()
	require.NoError(t, err)

	pem, err := pk.MarshalSPKI()
	require.NoError(t, err)

	parsed, err := ParseSPKI(pem)
	require.NoError(t, err)

	assert.True(t, pk.Equal(parsed))
}

func TestPrivateKeyBinaryRoundTrip(t *testing.T) {
	sk, _, err := GenerateKeyPair()
	require.NoError(t, err)

	b := sk.MarshalBinary()
	parsed, err := ParsePrivateKey(b)
	require.NoError(t, err)

	assert.Equal(t, sk.Public().CanonicalEncode(), parsed.Public().CanonicalEncode())
}

func TestEncodeDecodePrivateKeyCBOR(t *testing.T) {
	sk, _, err := GenerateKeyPair()
	require.NoError(t, err)

	data, err := EncodePrivateKeyCBOR(sk)
	require.NoError(t, err)

	parsed, err := DecodePrivateKeyCBOR(data)
	require.NoError(t, err)

	assert.Equal(t, sk.Public().CanonicalEncode(), parsed.Public().CanonicalEncode())
}

func TestSignatureBinaryRoundTrip(t *testing.T) {
	sk, pk, err := GenerateKeyPair()
	require.NoError(t, err)

	sig := Sign(HashBytes([]byte("msg")), sk)
	der := sig.MarshalBinary()

	parsed, err := ParseSignature(der)
	require.NoError(t, err)

	assert.True(t, Verify(HashBytes([]byte("msg")), parsed, pk))
}
