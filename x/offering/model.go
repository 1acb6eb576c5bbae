package offering

import (
	"fmt"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/coin"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
)

// State is the lifecycle state of an offering. Viability and
// cancellation are modelled as a single enum so that illegal
// combinations such as canceled-and-viable cannot be represented.
type State uint8

const (
	// StateActive accepts payments and refunds. Initial state.
	StateActive State = 1
	// StateViable accepts payments and the manager payout, refunds are
	// locked. Reached once, from Active, when enough units are sold.
	StateViable State = 2
	// StateCanceled accepts refunds only. Terminal.
	StateCanceled State = 3
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateViable:
		return "viable"
	case StateCanceled:
		return "canceled"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(s))
	}
}

// Validate returns an error unless the state is a known value.
func (s State) Validate() error {
	switch s {
	case StateActive, StateViable, StateCanceled:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "state %d", uint8(s))
	}
}

// transitions lists for each state the states it may move to. Canceled
// has no exit.
var transitions = map[State][]State{
	StateActive:   {StateViable, StateCanceled},
	StateViable:   {StateCanceled},
	StateCanceled: nil,
}

// Offering is the single raise aggregate. All counters and the state
// latch live here; every operation loads it, checks against the loaded
// snapshot and writes it back only on full success.
type Offering struct {
	// Manager receives the escrowed value on a successful raise.
	Manager raise.Address
	// ValueTicker names the ledger accepted as payment.
	ValueTicker string
	// ShareTicker names the ledger of shares being sold.
	ShareTicker string
	// TotalSupply is the fixed number of share units pre-minted to the
	// escrow. Sales never exceed it.
	TotalSupply uint64
	// MinimalPercent of TotalSupply that must sell for viability.
	MinimalPercent uint8
	// UnitPrice is the number of whole value tokens one share unit costs.
	UnitPrice uint64
	// SoldUnits counts units issued so far. It grows with payments and
	// shrinks with refunds.
	SoldUnits uint64
	State     State
	CreatedAt raise.UnixTime
}

var _ orm.Model = (*Offering)(nil)

// Validate implements orm.Model.
func (o *Offering) Validate() error {
	if err := o.Manager.Validate(); err != nil {
		return errors.Wrap(err, "manager")
	}
	if !coin.IsTicker(o.ValueTicker) {
		return errors.Wrapf(errors.ErrInput, "value ticker %q", o.ValueTicker)
	}
	if !coin.IsTicker(o.ShareTicker) {
		return errors.Wrapf(errors.ErrInput, "share ticker %q", o.ShareTicker)
	}
	if o.ValueTicker == o.ShareTicker {
		return errors.Wrap(errors.ErrInput, "value and share ledgers must differ")
	}
	if o.TotalSupply == 0 {
		return errors.Wrap(errors.ErrAmount, "zero supply")
	}
	if o.MinimalPercent > 100 {
		return errors.Wrapf(errors.ErrInput, "minimal percent %d", o.MinimalPercent)
	}
	if o.UnitPrice == 0 {
		return errors.Wrap(errors.ErrAmount, "zero unit price")
	}
	if o.SoldUnits > o.TotalSupply {
		return errors.Wrapf(errors.ErrState, "sold %d of %d", o.SoldUnits, o.TotalSupply)
	}
	if err := o.State.Validate(); err != nil {
		return err
	}
	return o.CreatedAt.Validate()
}

// ViabilityThreshold returns the number of sold units at which the
// raise becomes viable, floor(TotalSupply * MinimalPercent / 100).
// Split arithmetic keeps the exact floor without risking overflow of
// the product.
func (o *Offering) ViabilityThreshold() uint64 {
	pct := uint64(o.MinimalPercent)
	return o.TotalSupply/100*pct + o.TotalSupply%100*pct/100
}

// moveTo transitions the offering to the given state, enforcing the
// transition table.
func (o *Offering) moveTo(next State) error {
	for _, allowed := range transitions[o.State] {
		if next == allowed {
			o.State = next
			return nil
		}
	}
	return errors.Wrapf(errors.ErrState, "cannot move from %s to %s", o.State, next)
}

// EscrowCondition names the account owning the pre-minted share pool
// and the escrowed value of the offering with the given share ticker.
func EscrowCondition(shareTicker string) raise.Condition {
	return raise.NewCondition("offering", "escrow", []byte(shareTicker))
}
