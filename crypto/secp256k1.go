// Package crypto wraps the secp256k1 primitives used by the raise engine.
//
// Payment authorizations are signed with recoverable compact signatures,
// so a verifier needs only the digest and the signature to learn who
// signed. The signer identity is the address derived from the compressed
// public key.
package crypto

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
)

// ExtensionName is used as the first part of conditions built from keys
// managed by this package.
const ExtensionName = "sigs"

const (
	// DigestSize is the only message length that can be signed. All
	// callers hash their payload into a digest first.
	DigestSize = 32

	// SignatureSize is the length of a compact recoverable signature:
	// one header byte carrying the recovery information followed by the
	// R and S values.
	SignatureSize = 65

	// PubKeySize is the length of a compressed public key.
	PubKeySize = 33

	// PrivKeySize is the length of a raw private key.
	PrivKeySize = 32
)

// Signer is implemented by anything that can produce a recoverable
// signature over a digest.
type Signer interface {
	Sign(digest []byte) (Signature, error)
	PublicKey() PublicKey
}

// PrivateKey wraps a secp256k1 private key.
type PrivateKey struct {
	key *btcec.PrivateKey
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKey returns a random new private key.
func GenPrivKey() *PrivateKey {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		// Only fails when the random source does, which is fatal anyway.
		panic(err)
	}
	return &PrivateKey{key: key}
}

// PrivKeyFromBytes restores a private key from its raw form.
func PrivKeyFromBytes(raw []byte) (*PrivateKey, error) {
	if len(raw) != PrivKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "private key must be %d bytes", PrivKeySize)
	}
	key, _ := btcec.PrivKeyFromBytes(raw)
	return &PrivateKey{key: key}, nil
}

// Sign produces a compact recoverable signature over the given digest.
func (k *PrivateKey) Sign(digest []byte) (Signature, error) {
	if len(digest) != DigestSize {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes", DigestSize)
	}
	sig, err := ecdsa.SignCompact(k.key, digest, true)
	if err != nil {
		return nil, err
	}
	return Signature(sig), nil
}

// PublicKey returns the corresponding compressed public key.
func (k *PrivateKey) PublicKey() PublicKey {
	return PublicKey(k.key.PubKey().SerializeCompressed())
}

// Bytes returns the raw private key.
func (k *PrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

// PublicKey is a compressed secp256k1 public key.
type PublicKey []byte

// Validate returns an error if this is not a compressed public key.
func (p PublicKey) Validate() error {
	if len(p) != PubKeySize {
		return errors.Wrapf(errors.ErrInput, "public key must be %d bytes", PubKeySize)
	}
	return nil
}

// Condition encodes the public key into a permission condition.
func (p PublicKey) Condition() raise.Condition {
	return raise.NewCondition(ExtensionName, "secp256k", p)
}

// Address is the one-way digest of the key's condition. It is the
// identity a signer acts under everywhere in the system.
func (p PublicKey) Address() raise.Address {
	return p.Condition().Address()
}

// Signature is a compact recoverable signature.
type Signature []byte

// Validate returns an error if this is not a compact signature.
func (s Signature) Validate() error {
	if len(s) != SignatureSize {
		return errors.Wrapf(errors.ErrInput, "signature must be %d bytes", SignatureSize)
	}
	return nil
}

// RecoverSigner returns the public key that produced the given signature
// over the given digest. A mangled signature that decodes to no valid
// key is rejected; a valid signature by a different key simply recovers
// that other key, so callers must compare the result against the claimed
// signer.
func RecoverSigner(digest []byte, sig Signature) (PublicKey, error) {
	if len(digest) != DigestSize {
		return nil, errors.Wrapf(errors.ErrInput, "digest must be %d bytes", DigestSize)
	}
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	pub, _, err := ecdsa.RecoverCompact(sig, digest)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "cannot recover signer: %s", err)
	}
	return PublicKey(pub.SerializeCompressed()), nil
}
