package authpay

import (
	"testing"
	"time"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/store"
	"github.com/iov-one/raise/x/token"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       raise.CacheableKVStore
	ledger   token.Ledger
	verifier *Verifier
	clock    clockwork.FakeClock
	payerKey *crypto.PrivateKey
	payer    raise.Address
	payee    raise.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := store.MemStore()
	ledger := token.NewLedger("IOV")
	require.NoError(t, ledger.Create(db, "reference token", 0))

	clock := clockwork.NewFakeClockAt(time.Unix(1000, 0))
	verifier := NewVerifier(ledger, "raised", "1", clock)

	payerKey := crypto.GenPrivKey()
	payer := payerKey.PublicKey().Address()
	payee := testAddr(200)

	require.NoError(t, ledger.Issue(db, payer, 1000))

	return &fixture{
		db:       db,
		ledger:   ledger,
		verifier: verifier,
		clock:    clock,
		payerKey: payerKey,
		payer:    payer,
		payee:    payee,
	}
}

func (f *fixture) authorization(value uint64, nonce []byte) Authorization {
	return Authorization{
		Payer:       f.payer,
		Payee:       f.payee,
		Value:       value,
		ValidAfter:  raise.AsUnixTime(f.clock.Now()) - 100,
		ValidBefore: raise.AsUnixTime(f.clock.Now()) + 100,
		Nonce:       nonce,
	}
}

func (f *fixture) sign(t *testing.T, a *Authorization) crypto.Signature {
	t.Helper()
	sig, err := f.payerKey.Sign(TransferDigest(f.verifier.Domain(), a))
	require.NoError(t, err)
	return sig
}

func (f *fixture) balance(t *testing.T, addr raise.Address) uint64 {
	t.Helper()
	units, err := f.ledger.BalanceOf(f.db, addr)
	require.NoError(t, err)
	return units
}

func TestMoveWithAuthorization(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(300, testNonce(1))
	sig := f.sign(t, &a)

	require.NoError(t, f.verifier.MoveWithAuthorization(f.db, &a, sig))

	assert.Equal(t, uint64(700), f.balance(t, f.payer))
	assert.Equal(t, uint64(300), f.balance(t, f.payee))

	spent, err := f.verifier.Spent(f.db, f.payer, a.Nonce)
	require.NoError(t, err)
	assert.True(t, spent)
}

func TestNonceReuse(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(100, testNonce(1))
	sig := f.sign(t, &a)
	require.NoError(t, f.verifier.MoveWithAuthorization(f.db, &a, sig))

	// Same nonce with a different value is still a replay.
	b := f.authorization(50, testNonce(1))
	sigB := f.sign(t, &b)
	err := f.verifier.MoveWithAuthorization(f.db, &b, sigB)
	assert.True(t, ErrNonceUsed.Is(err))

	// Only the first transfer went through.
	assert.Equal(t, uint64(900), f.balance(t, f.payer))
}

func TestIndependentNoncesAnyOrder(t *testing.T) {
	f := newFixture(t)

	// Two authorizations signed up front, submitted in reverse order.
	a := f.authorization(100, testNonce(1))
	b := f.authorization(200, testNonce(2))
	sigA := f.sign(t, &a)
	sigB := f.sign(t, &b)

	require.NoError(t, f.verifier.MoveWithAuthorization(f.db, &b, sigB))
	require.NoError(t, f.verifier.MoveWithAuthorization(f.db, &a, sigA))

	assert.Equal(t, uint64(700), f.balance(t, f.payer))
}

func TestWindowBounds(t *testing.T) {
	f := newFixture(t)
	now := raise.AsUnixTime(f.clock.Now())

	cases := map[string]struct {
		after, before raise.UnixTime
		wantErr       *errors.Error
	}{
		"inside window":     {after: now - 1, before: now + 1, wantErr: nil},
		"not yet valid":     {after: now + 10, before: now + 20, wantErr: ErrNotYetValid},
		"expired":           {after: now - 20, before: now - 10, wantErr: ErrExpired},
		"at lower boundary": {after: now, before: now + 10, wantErr: ErrNotYetValid},
		"at upper boundary": {after: now - 10, before: now, wantErr: ErrExpired},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			a := f.authorization(1, testNonce(1))
			a.ValidAfter = tc.after
			a.ValidBefore = tc.before
			err := f.verifier.CheckWindow(now, &a)
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.True(t, tc.wantErr.Is(err))
			}
		})
	}
}

func TestExpiredLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(100, testNonce(1))
	sig := f.sign(t, &a)

	f.clock.Advance(200 * time.Second)
	err := f.verifier.MoveWithAuthorization(f.db, &a, sig)
	assert.True(t, ErrExpired.Is(err))

	// A rejected authorization must not consume its nonce.
	spent, err := f.verifier.Spent(f.db, f.payer, a.Nonce)
	require.NoError(t, err)
	assert.False(t, spent)
	assert.Equal(t, uint64(1000), f.balance(t, f.payer))
}

func TestForeignSignatureRejected(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(100, testNonce(1))

	// Signed by someone who is not the payer.
	mallory := crypto.GenPrivKey()
	sig, err := mallory.Sign(TransferDigest(f.verifier.Domain(), &a))
	require.NoError(t, err)

	err = f.verifier.MoveWithAuthorization(f.db, &a, sig)
	assert.True(t, ErrInvalidSignature.Is(err))
	assert.Equal(t, uint64(1000), f.balance(t, f.payer))
}

func TestTamperedValueRejected(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(100, testNonce(1))
	sig := f.sign(t, &a)

	// A relayer bumping the value invalidates the signature.
	a.Value = 999
	err := f.verifier.MoveWithAuthorization(f.db, &a, sig)
	assert.True(t, ErrInvalidSignature.Is(err))
}

func TestInsufficientBalanceRollsBack(t *testing.T) {
	f := newFixture(t)
	a := f.authorization(5000, testNonce(1))
	sig := f.sign(t, &a)

	err := f.verifier.MoveWithAuthorization(f.db, &a, sig)
	assert.True(t, token.ErrInsufficientFunds.Is(err))

	// The nonce marking must have been rolled back with the transfer.
	spent, err := f.verifier.Spent(f.db, f.payer, a.Nonce)
	require.NoError(t, err)
	assert.False(t, spent)
}

func TestCancelAuthorization(t *testing.T) {
	f := newFixture(t)
	nonce := testNonce(1)

	sig, err := f.payerKey.Sign(CancelDigest(f.verifier.Domain(), f.payer, nonce))
	require.NoError(t, err)
	require.NoError(t, f.verifier.CancelAuthorization(f.db, f.payer, nonce, sig))

	// The canceled nonce can never be used for a transfer.
	a := f.authorization(100, nonce)
	transferSig := f.sign(t, &a)
	err = f.verifier.MoveWithAuthorization(f.db, &a, transferSig)
	assert.True(t, ErrNonceUsed.Is(err))

	// Cancelling twice reports the nonce as used.
	err = f.verifier.CancelAuthorization(f.db, f.payer, nonce, sig)
	assert.True(t, ErrNonceUsed.Is(err))
}

func TestCancelRequiresPayerSignature(t *testing.T) {
	f := newFixture(t)
	nonce := testNonce(1)

	mallory := crypto.GenPrivKey()
	sig, err := mallory.Sign(CancelDigest(f.verifier.Domain(), f.payer, nonce))
	require.NoError(t, err)

	err = f.verifier.CancelAuthorization(f.db, f.payer, nonce, sig)
	assert.True(t, ErrInvalidSignature.Is(err))
}

func TestNoncesScopedPerLedger(t *testing.T) {
	f := newFixture(t)

	// a second verifier over the share ledger, same payer
	shares := token.NewLedger("SHR")
	require.NoError(t, shares.Create(f.db, "share token", 0))
	require.NoError(t, shares.Issue(f.db, f.payer, 10))
	shareVerifier := NewVerifier(shares, "raised", "1", f.clock)

	nonce := testNonce(1)
	a := f.authorization(100, nonce)
	require.NoError(t, f.verifier.MoveWithAuthorization(f.db, &a, f.sign(t, &a)))

	// the same nonce is still fresh on the other ledger
	b := Authorization{
		Payer:       f.payer,
		Payee:       f.payee,
		Value:       10,
		ValidAfter:  a.ValidAfter,
		ValidBefore: a.ValidBefore,
		Nonce:       nonce,
	}
	sig, err := f.payerKey.Sign(TransferDigest(shareVerifier.Domain(), &b))
	require.NoError(t, err)
	require.NoError(t, shareVerifier.MoveWithAuthorization(f.db, &b, sig))

	units, err := shares.BalanceOf(f.db, f.payee)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), units)

	// but consumed on each ledger after its own use
	spent, err := shareVerifier.Spent(f.db, f.payer, nonce)
	require.NoError(t, err)
	assert.True(t, spent)
}
