package crypto

import (
	"crypto/sha256"
	"testing"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndRecover(t *testing.T) {
	key := GenPrivKey()
	digest := sha256.Sum256([]byte("pay 100 to bob"))

	sig, err := key.Sign(digest[:])
	require.NoError(t, err)
	require.NoError(t, sig.Validate())

	recovered, err := RecoverSigner(digest[:], sig)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), recovered)
	assert.True(t, key.PublicKey().Address().Equals(recovered.Address()))
}

func TestRecoverOtherSigner(t *testing.T) {
	alice := GenPrivKey()
	bob := GenPrivKey()
	digest := sha256.Sum256([]byte("pay 100 to bob"))

	sig, err := bob.Sign(digest[:])
	require.NoError(t, err)

	// Recovery works, but yields bob, not alice. The caller is the one
	// responsible for the comparison.
	recovered, err := RecoverSigner(digest[:], sig)
	require.NoError(t, err)
	assert.False(t, alice.PublicKey().Address().Equals(recovered.Address()))
}

func TestRecoverDifferentDigest(t *testing.T) {
	key := GenPrivKey()
	digest := sha256.Sum256([]byte("original"))
	other := sha256.Sum256([]byte("tampered"))

	sig, err := key.Sign(digest[:])
	require.NoError(t, err)

	recovered, err := RecoverSigner(other[:], sig)
	if err == nil {
		// Recovery against the wrong digest can still find some key but
		// never the signing one.
		assert.False(t, key.PublicKey().Address().Equals(recovered.Address()))
	}
}

func TestSignRejectsBadDigest(t *testing.T) {
	key := GenPrivKey()
	_, err := key.Sign([]byte("short"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestRecoverRejectsBadSignature(t *testing.T) {
	digest := sha256.Sum256([]byte("anything"))

	_, err := RecoverSigner(digest[:], Signature("way too short"))
	assert.True(t, errors.ErrInput.Is(err))
}

func TestPrivKeyRoundTrip(t *testing.T) {
	key := GenPrivKey()
	restored, err := PrivKeyFromBytes(key.Bytes())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), restored.PublicKey())
}

func TestAddressIsValid(t *testing.T) {
	addr := GenPrivKey().PublicKey().Address()
	require.NoError(t, addr.Validate())
	assert.Equal(t, raise.AddressLength, len(addr))
}
