package authpay

import (
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
	"github.com/jonboulle/clockwork"
)

// Mover is the ledger surface the verifier needs: who holds what, and
// the ability to move it. Implemented by token.Ledger.
type Mover interface {
	ID() string
	BalanceOf(db raise.ReadOnlyKVStore, addr raise.Address) (uint64, error)
	Move(db raise.KVStore, src, dest raise.Address, units uint64) error
}

// Verifier validates signed payment authorizations and performs the
// underlying transfer. One verifier instance guards one ledger.
type Verifier struct {
	ledger Mover
	domain Domain
	nonces orm.ModelBucket
	clock  clockwork.Clock
}

// NewVerifier returns a verifier bound to the given ledger. Issuer name
// and version become part of the signing domain, so rotating either
// invalidates all previously signed authorizations.
func NewVerifier(ledger Mover, issuer, version string, clock clockwork.Clock) *Verifier {
	return &Verifier{
		ledger: ledger,
		domain: Domain{
			Name:    issuer,
			Version: version,
			Ledger:  ledger.ID(),
		},
		nonces: newNonceBucket(),
		clock:  clock,
	}
}

// Domain returns the signing domain of this verifier. Clients need it to
// produce digests that this verifier will accept.
func (v *Verifier) Domain() Domain {
	return v.domain
}

// CheckWindow validates the authorization's validity window against the
// given time. Both bounds are strict: a submission exactly at either
// bound is rejected.
func (v *Verifier) CheckWindow(now raise.UnixTime, a *Authorization) error {
	if now <= a.ValidAfter {
		return errors.Wrapf(ErrNotYetValid, "not valid before %s", a.ValidAfter)
	}
	if now >= a.ValidBefore {
		return errors.Wrapf(ErrExpired, "not valid after %s", a.ValidBefore)
	}
	return nil
}

// Spent returns whether the given (payer, nonce) pair was consumed on
// this verifier's ledger.
func (v *Verifier) Spent(db raise.ReadOnlyKVStore, payer raise.Address, nonce []byte) (bool, error) {
	return v.nonces.Has(db, nonceKey(v.domain.Ledger, payer, nonce))
}

// MoveWithAuthorization performs the transfer described by the signed
// authorization. Checks run in order: shape, time window, nonce,
// signature. Marking the nonce and moving the value happen atomically;
// on any failure no state is changed.
func (v *Verifier) MoveWithAuthorization(db raise.CacheableKVStore, a *Authorization, sig crypto.Signature) error {
	if err := a.Validate(); err != nil {
		return errors.Wrap(err, "authorization")
	}
	now := raise.AsUnixTime(v.clock.Now())
	if err := v.CheckWindow(now, a); err != nil {
		return err
	}
	switch spent, err := v.Spent(db, a.Payer, a.Nonce); {
	case err != nil:
		return errors.Wrap(err, "nonce lookup")
	case spent:
		return errors.Wrapf(ErrNonceUsed, "payer %s", a.Payer)
	}
	if err := v.verifySigner(TransferDigest(v.domain, a), sig, a.Payer); err != nil {
		return err
	}

	cache := db.CacheWrap()
	if err := v.markSpent(cache, a.Payer, a.Nonce, now); err != nil {
		cache.Discard()
		return err
	}
	if err := v.ledger.Move(cache, a.Payer, a.Payee, a.Value); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// CancelAuthorization voids an unused nonce. The cancellation must be
// signed by the payer over the cancellation digest. Cancelling an
// already consumed nonce fails with ErrNonceUsed.
func (v *Verifier) CancelAuthorization(db raise.KVStore, payer raise.Address, nonce []byte, sig crypto.Signature) error {
	if err := payer.Validate(); err != nil {
		return errors.Wrap(err, "payer")
	}
	if len(nonce) != NonceSize {
		return errors.Wrapf(errors.ErrInput, "nonce must be %d bytes", NonceSize)
	}
	switch spent, err := v.Spent(db, payer, nonce); {
	case err != nil:
		return errors.Wrap(err, "nonce lookup")
	case spent:
		return errors.Wrapf(ErrNonceUsed, "payer %s", payer)
	}
	if err := v.verifySigner(CancelDigest(v.domain, payer, nonce), sig, payer); err != nil {
		return err
	}
	return v.markSpent(db, payer, nonce, raise.AsUnixTime(v.clock.Now()))
}

func (v *Verifier) verifySigner(digest []byte, sig crypto.Signature, payer raise.Address) error {
	signer, err := crypto.RecoverSigner(digest, sig)
	if err != nil {
		return errors.Wrapf(ErrInvalidSignature, "%s", err)
	}
	if !signer.Address().Equals(payer) {
		return errors.Wrap(ErrInvalidSignature, "signer is not the payer")
	}
	return nil
}

func (v *Verifier) markSpent(db raise.KVStore, payer raise.Address, nonce []byte, now raise.UnixTime) error {
	key := nonceKey(v.domain.Ledger, payer, nonce)
	return v.nonces.Put(db, key, &SpentNonce{SpentAt: now})
}
