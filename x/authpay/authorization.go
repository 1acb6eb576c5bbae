package authpay

import (
	"encoding/binary"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"golang.org/x/crypto/sha3"
)

// NonceSize is the length of an authorization nonce. Nonces are opaque
// caller-chosen tags, unique per payer.
const NonceSize = 32

// Scheme codes prefix every digest so a signature over a transfer can
// never be presented as a cancellation or vice versa.
var (
	transferCodeV1 = []byte{0, 0xA7, 0x01, 0}
	cancelCodeV1   = []byte{0, 0xA7, 0x02, 0}
)

// Authorization is a single payment instruction. It exists only for the
// duration of its one submission; after a successful transfer only the
// spent nonce marker remains.
type Authorization struct {
	Payer       raise.Address
	Payee       raise.Address
	Value       uint64
	ValidAfter  raise.UnixTime
	ValidBefore raise.UnixTime
	Nonce       []byte
}

// Validate ensures the authorization is well formed. It performs no
// business checks; the time window, balance and signature are judged by
// the verifier.
func (a *Authorization) Validate() error {
	if err := a.Payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if err := a.Payee.Validate(); err != nil {
		return errors.Wrap(err, "payee")
	}
	if len(a.Nonce) != NonceSize {
		return errors.Wrapf(errors.ErrInput, "nonce must be %d bytes", NonceSize)
	}
	if err := a.ValidAfter.Validate(); err != nil {
		return errors.Wrap(err, "valid after")
	}
	if err := a.ValidBefore.Validate(); err != nil {
		return errors.Wrap(err, "valid before")
	}
	if a.ValidBefore <= a.ValidAfter {
		return errors.Wrap(errors.ErrInput, "empty validity window")
	}
	return nil
}

// Domain identifies the context an authorization is bound to. Two
// domains differing in any field produce unrelated digests.
type Domain struct {
	// Name and Version identify the issuer of authorizations, typically
	// the deployment name of the engine.
	Name    string
	Version string
	// Ledger is the ticker of the token the authorization moves.
	Ledger string
}

// Validate ensures the domain is fully specified.
func (d Domain) Validate() error {
	if d.Name == "" {
		return errors.Wrap(errors.ErrEmpty, "name")
	}
	if d.Version == "" {
		return errors.Wrap(errors.ErrEmpty, "version")
	}
	if d.Ledger == "" {
		return errors.Wrap(errors.ErrEmpty, "ledger")
	}
	return nil
}

// TransferDigest computes the structured-data digest a payer signs to
// authorize a transfer. It is a pure function of the domain and the
// authorization fields.
func TransferDigest(d Domain, a *Authorization) []byte {
	out := separator(transferCodeV1, d)
	out = append(out, a.Payer...)
	out = append(out, a.Payee...)
	out = appendUint64(out, a.Value)
	out = appendUint64(out, uint64(a.ValidAfter))
	out = appendUint64(out, uint64(a.ValidBefore))
	out = append(out, a.Nonce...)
	digest := sha3.Sum256(out)
	return digest[:]
}

// CancelDigest computes the digest a payer signs to void an unused
// nonce.
func CancelDigest(d Domain, payer raise.Address, nonce []byte) []byte {
	out := separator(cancelCodeV1, d)
	out = append(out, payer...)
	out = append(out, nonce...)
	digest := sha3.Sum256(out)
	return digest[:]
}

// separator builds the domain-separation prefix. Every variable length
// field is length-prefixed so that no two domains can produce the same
// byte stream.
func separator(code []byte, d Domain) []byte {
	out := append([]byte(nil), code...)
	out = appendString(out, d.Name)
	out = appendString(out, d.Version)
	out = appendString(out, d.Ledger)
	return out
}

func appendString(out []byte, s string) []byte {
	out = append(out, uint8(len(s)))
	return append(out, s...)
}

func appendUint64(out []byte, v uint64) []byte {
	var raw [8]byte
	binary.BigEndian.PutUint64(raw[:], v)
	return append(out, raw[:]...)
}
