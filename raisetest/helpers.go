package raisetest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/x/authpay"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// NewKey returns a fresh signing key and the address it acts under.
func NewKey(t testing.TB) (*crypto.PrivateKey, raise.Address) {
	t.Helper()
	key := crypto.GenPrivKey()
	return key, key.PublicKey().Address()
}

// Nonce returns a fresh unique authorization nonce.
func Nonce() []byte {
	a, b := uuid.New(), uuid.New()
	return append(a[:], b[:]...)
}

// Clock returns a stopped fake clock set to the given unix time.
func Clock(unix int64) clockwork.FakeClock {
	return clockwork.NewFakeClockAt(time.Unix(unix, 0))
}

// Logger returns a logger that discards everything.
func Logger() zerolog.Logger {
	return zerolog.Nop()
}

// SignedTransfer builds a payment authorization with a fresh nonce and
// signs it for the given domain.
func SignedTransfer(t testing.TB, key *crypto.PrivateKey, d authpay.Domain, payee raise.Address, value uint64, validAfter, validBefore raise.UnixTime) (*authpay.Authorization, crypto.Signature) {
	t.Helper()
	a := &authpay.Authorization{
		Payer:       key.PublicKey().Address(),
		Payee:       payee,
		Value:       value,
		ValidAfter:  validAfter,
		ValidBefore: validBefore,
		Nonce:       Nonce(),
	}
	sig, err := key.Sign(authpay.TransferDigest(d, a))
	if err != nil {
		t.Fatalf("cannot sign transfer: %s", err)
	}
	return a, sig
}

// SignedCancel signs a cancellation of the given nonce for the given
// domain.
func SignedCancel(t testing.TB, key *crypto.PrivateKey, d authpay.Domain, nonce []byte) crypto.Signature {
	t.Helper()
	sig, err := key.Sign(authpay.CancelDigest(d, key.PublicKey().Address(), nonce))
	if err != nil {
		t.Fatalf("cannot sign cancellation: %s", err)
	}
	return sig
}
