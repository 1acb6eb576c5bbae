package offering

import (
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/coin"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
	"github.com/iov-one/raise/x/authpay"
	"github.com/iov-one/raise/x/capability"
	"github.com/iov-one/raise/x/membership"
	"github.com/iov-one/raise/x/token"
	"github.com/jonboulle/clockwork"
)

// CapManageRaise guards cancellation and the manager payout.
const CapManageRaise = capability.Capability("raise/manage")

// Config carries the construction parameters of an offering. All of
// them are fixed at bootstrap and immutable thereafter.
type Config struct {
	// Issuer and Version form the signing domain for payment
	// authorizations. Rotating either invalidates signed but unsubmitted
	// authorizations.
	Issuer  string
	Version string

	// ValueTicker names the ledger accepted as payment. The ledger must
	// exist before the offering is bootstrapped.
	ValueTicker string

	// ShareTicker and ShareName describe the share ledger the bootstrap
	// creates. Shares always have zero decimals.
	ShareTicker string
	ShareName   string

	TotalSupply    uint64
	Manager        raise.Address
	MinimalPercent uint8
	UnitPrice      uint64
}

// Controller implements the raise business rules. It is stateless, all
// data lives in the store passed to each call, and every mutating
// operation applies its effects all-or-nothing.
type Controller struct {
	offerings orm.ModelBucket
	value     token.Ledger
	shares    token.Ledger
	verifier  *authpay.Verifier
	members   membership.Gate
	caps      capability.Checker
	clock     clockwork.Clock
	escrow    raise.Address
}

// NewController wires a controller for the offering described by cfg.
// The same cfg must be used for Bootstrap and for all later calls.
func NewController(cfg Config, members membership.Gate, caps capability.Checker, clock clockwork.Clock) *Controller {
	value := token.NewLedger(cfg.ValueTicker)
	return &Controller{
		offerings: orm.NewModelBucket("offerings"),
		value:     value,
		shares:    token.NewLedger(cfg.ShareTicker),
		verifier:  authpay.NewVerifier(value, cfg.Issuer, cfg.Version, clock),
		members:   members,
		caps:      caps,
		clock:     clock,
		escrow:    EscrowCondition(cfg.ShareTicker).Address(),
	}
}

// Escrow returns the address holding the unsold share pool and the
// escrowed value. Payment authorizations must name it as payee.
func (c *Controller) Escrow() raise.Address {
	return c.escrow
}

// Domain returns the signing domain accepted by this offering's
// verifier.
func (c *Controller) Domain() authpay.Domain {
	return c.verifier.Domain()
}

// Bootstrap creates the share ledger, pre-mints the whole supply to the
// escrow and stores the offering aggregate in its initial state. The
// value ledger must already exist. Bootstrapping twice fails with
// ErrDuplicate.
func (c *Controller) Bootstrap(db raise.CacheableKVStore, cfg Config) error {
	off := Offering{
		Manager:        cfg.Manager,
		ValueTicker:    cfg.ValueTicker,
		ShareTicker:    cfg.ShareTicker,
		TotalSupply:    cfg.TotalSupply,
		MinimalPercent: cfg.MinimalPercent,
		UnitPrice:      cfg.UnitPrice,
		SoldUnits:      0,
		State:          StateActive,
		CreatedAt:      raise.AsUnixTime(c.clock.Now()),
	}
	if err := off.Validate(); err != nil {
		return errors.Wrap(err, "offering")
	}
	switch has, err := c.offerings.Has(db, c.offeringKey()); {
	case err != nil:
		return errors.Wrap(err, "offering lookup")
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "offering %q", cfg.ShareTicker)
	}
	if _, err := c.value.Info(db); err != nil {
		return errors.Wrap(err, "value ledger")
	}

	cache := db.CacheWrap()
	if err := c.shares.Create(cache, cfg.ShareName, 0); err != nil {
		cache.Discard()
		return errors.Wrap(err, "share ledger")
	}
	if err := c.shares.Issue(cache, c.escrow, cfg.TotalSupply); err != nil {
		cache.Discard()
		return errors.Wrap(err, "pre-mint")
	}
	if err := c.offerings.Put(cache, c.offeringKey(), &off); err != nil {
		cache.Discard()
		return err
	}
	return cache.Write()
}

// Offering loads the current offering aggregate.
func (c *Controller) Offering(db raise.ReadOnlyKVStore) (Offering, error) {
	var off Offering
	if err := c.offerings.One(db, c.offeringKey(), &off); err != nil {
		return Offering{}, errors.Wrap(err, "offering")
	}
	return off, nil
}

// AddForPayment settles a signed payment authorization against the
// offering: the authorized value moves from the payer to the escrow and
// the corresponding number of share units moves from the pool to the
// beneficiary. Crossing the viability threshold latches the viable
// state. The returned count is the number of units issued.
//
// Business checks run before the signature path so that a malformed
// request is rejected cheaply, and before any state is touched.
func (c *Controller) AddForPayment(db raise.CacheableKVStore, a *authpay.Authorization, sig crypto.Signature, beneficiary raise.Address) (uint64, error) {
	off, err := c.Offering(db)
	if err != nil {
		return 0, err
	}
	if off.State == StateCanceled {
		return 0, errors.Wrap(ErrCanceled, "no payments accepted")
	}
	if err := a.Validate(); err != nil {
		return 0, errors.Wrap(err, "authorization")
	}
	if err := beneficiary.Validate(); err != nil {
		return 0, errors.Wrap(err, "beneficiary")
	}
	if err := c.checkMembers(db, a.Payer, beneficiary); err != nil {
		return 0, err
	}
	if a.Value == 0 {
		return 0, errors.Wrap(errors.ErrAmount, "zero value")
	}
	switch balance, err := c.value.BalanceOf(db, a.Payer); {
	case err != nil:
		return 0, err
	case balance < a.Value:
		return 0, errors.Wrapf(token.ErrInsufficientFunds, "payer holds %d, authorized %d", balance, a.Value)
	}
	if !a.Payee.Equals(c.escrow) {
		return 0, errors.Wrapf(ErrBadDestination, "payee %s", a.Payee)
	}
	if err := c.verifier.CheckWindow(raise.AsUnixTime(c.clock.Now()), a); err != nil {
		return 0, err
	}
	units, err := c.unitsFor(db, off.UnitPrice, a.Value)
	if err != nil {
		return 0, err
	}
	if units > off.TotalSupply-off.SoldUnits {
		return 0, errors.Wrapf(ErrExceedsSupply, "%d units requested, %d remain", units, off.TotalSupply-off.SoldUnits)
	}

	cache := db.CacheWrap()
	off.SoldUnits += units
	if off.State == StateActive && off.SoldUnits >= off.ViabilityThreshold() {
		if err := off.moveTo(StateViable); err != nil {
			cache.Discard()
			return 0, err
		}
	}
	if err := c.offerings.Put(cache, c.offeringKey(), &off); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := c.verifier.MoveWithAuthorization(cache, a, sig); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := c.shares.Move(cache, c.escrow, beneficiary, units); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := cache.Write(); err != nil {
		return 0, err
	}
	return units, nil
}

// CancelRaise moves the offering to the canceled state. Only refunds
// remain possible afterwards. The caller must hold the raise/manage
// capability. Canceling an already canceled raise succeeds without
// effect.
func (c *Controller) CancelRaise(db raise.KVStore, caller raise.Address) error {
	if err := c.authorize(db, caller); err != nil {
		return err
	}
	off, err := c.Offering(db)
	if err != nil {
		return err
	}
	if off.State == StateCanceled {
		return nil
	}
	if err := off.moveTo(StateCanceled); err != nil {
		return err
	}
	return c.offerings.Put(db, c.offeringKey(), &off)
}

// WithdrawForDuty pays the entire escrowed value out to the manager.
// Available only while the raise is viable and not canceled. The caller
// must hold the raise/manage capability. The returned amount is in
// value base units.
func (c *Controller) WithdrawForDuty(db raise.KVStore, caller raise.Address) (uint64, error) {
	if err := c.authorize(db, caller); err != nil {
		return 0, err
	}
	off, err := c.Offering(db)
	if err != nil {
		return 0, err
	}
	switch off.State {
	case StateCanceled:
		return 0, errors.Wrap(ErrCanceled, "no payout after cancellation")
	case StateActive:
		return 0, errors.Wrapf(ErrNotViable, "sold %d of %d threshold", off.SoldUnits, off.ViabilityThreshold())
	}
	balance, err := c.value.BalanceOf(db, c.escrow)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, errors.Wrap(errors.ErrEmpty, "escrow holds no value")
	}
	if err := c.value.Move(db, c.escrow, off.Manager, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// WithdrawPayment refunds the caller's entire share balance: the shares
// return to the unsold pool, sold units decrease accordingly and the
// exact value paid for them moves back from the escrow to the caller.
// Refunds are available while the raise is active or after it was
// canceled, never while it is viable. The returned amount is in value
// base units.
func (c *Controller) WithdrawPayment(db raise.CacheableKVStore, caller raise.Address) (uint64, error) {
	off, err := c.Offering(db)
	if err != nil {
		return 0, err
	}
	if off.State == StateViable {
		return 0, errors.Wrap(ErrAlreadyViable, "participants are locked in")
	}
	if err := caller.Validate(); err != nil {
		return 0, errors.Wrap(err, "caller")
	}
	switch ok, err := c.members.IsMember(db, caller); {
	case err != nil:
		return 0, errors.Wrap(err, "membership lookup")
	case !ok:
		return 0, errors.Wrapf(ErrSenderNotMember, "%s", caller)
	}
	units, err := c.shares.BalanceOf(db, caller)
	if err != nil {
		return 0, err
	}
	if units == 0 {
		return 0, errors.Wrapf(ErrNoRefund, "%s holds no shares", caller)
	}
	refund, err := c.valueFor(db, off.UnitPrice, units)
	if err != nil {
		return 0, err
	}
	newSold, err := coin.Sub(off.SoldUnits, units)
	if err != nil {
		return 0, errors.Wrap(err, "sold units")
	}

	cache := db.CacheWrap()
	off.SoldUnits = newSold
	if err := c.offerings.Put(cache, c.offeringKey(), &off); err != nil {
		cache.Discard()
		return 0, err
	}
	// Returned shares are burned and re-minted into the pool so that the
	// pool balance always equals TotalSupply-SoldUnits and the burn path
	// of the share ledger is exercised for every refund.
	if err := c.shares.Retire(cache, caller, units); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := c.shares.Issue(cache, c.escrow, units); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := c.value.Move(cache, c.escrow, caller, refund); err != nil {
		cache.Discard()
		return 0, err
	}
	if err := cache.Write(); err != nil {
		return 0, err
	}
	return refund, nil
}

// CancelAuthorization voids an unused payment nonce. Exposed so payers
// can retire authorizations that were signed but never submitted.
func (c *Controller) CancelAuthorization(db raise.KVStore, payer raise.Address, nonce []byte, sig crypto.Signature) error {
	return c.verifier.CancelAuthorization(db, payer, nonce, sig)
}

// unitsFor converts a payment value in base units into share units. The
// value must scale to a whole number of value tokens and then divide
// evenly by the unit price.
func (c *Controller) unitsFor(db raise.ReadOnlyKVStore, unitPrice, value uint64) (uint64, error) {
	factor, err := c.value.ScalingFactor(db)
	if err != nil {
		return 0, err
	}
	if value%factor != 0 {
		return 0, errors.Wrapf(ErrNonIntegralAmount, "%d base units do not scale to whole tokens", value)
	}
	whole := value / factor
	if whole%unitPrice != 0 {
		return 0, errors.Wrapf(ErrNonIntegralAmount, "%d tokens do not buy whole units at price %d", whole, unitPrice)
	}
	return whole / unitPrice, nil
}

// valueFor is the exact inverse of unitsFor: the base unit value of the
// given number of share units.
func (c *Controller) valueFor(db raise.ReadOnlyKVStore, unitPrice, units uint64) (uint64, error) {
	factor, err := c.value.ScalingFactor(db)
	if err != nil {
		return 0, err
	}
	whole, err := coin.Mul(units, unitPrice)
	if err != nil {
		return 0, err
	}
	return coin.Mul(whole, factor)
}

func (c *Controller) checkMembers(db raise.ReadOnlyKVStore, payer, beneficiary raise.Address) error {
	switch ok, err := c.members.IsMember(db, payer); {
	case err != nil:
		return errors.Wrap(err, "membership lookup")
	case !ok:
		return errors.Wrapf(ErrSenderNotMember, "%s", payer)
	}
	if beneficiary.Equals(payer) {
		return nil
	}
	switch ok, err := c.members.IsMember(db, beneficiary); {
	case err != nil:
		return errors.Wrap(err, "membership lookup")
	case !ok:
		return errors.Wrapf(ErrBeneficiaryNotMember, "%s", beneficiary)
	}
	return nil
}

func (c *Controller) authorize(db raise.ReadOnlyKVStore, caller raise.Address) error {
	ok, err := c.caps.Allowed(db, caller, CapManageRaise)
	if err != nil {
		return errors.Wrap(err, "capability lookup")
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s cannot manage the raise", caller)
	}
	return nil
}

func (c *Controller) offeringKey() []byte {
	return []byte(c.shares.ID())
}
