package offering

import (
	"strconv"
	"sync"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/crypto"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/x/authpay"
	"github.com/rs/zerolog"
)

// Engine exposes the offering operations of a long-running process. It
// owns the store handle, serializes all operations so that every
// read-check-mutate sequence is atomic relative to the others, and
// emits a log event and metrics update per settled operation.
//
// The serialization is a plain mutex: operations are short, purely
// store-bound and must observe each other's effects in a total order,
// so there is nothing to gain from finer locking.
type Engine struct {
	mu      sync.Mutex
	db      raise.CacheableKVStore
	ctrl    *Controller
	logger  zerolog.Logger
	metrics *Metrics
}

// NewEngine wraps the controller for use by a daemon. The metrics may
// be nil when no monitoring is wanted.
func NewEngine(db raise.CacheableKVStore, ctrl *Controller, logger zerolog.Logger, metrics *Metrics) *Engine {
	return &Engine{
		db:      db,
		ctrl:    ctrl,
		logger:  logger,
		metrics: metrics,
	}
}

// Escrow returns the offering escrow address.
func (e *Engine) Escrow() raise.Address {
	return e.ctrl.Escrow()
}

// Domain returns the signing domain for payment authorizations.
func (e *Engine) Domain() authpay.Domain {
	return e.ctrl.Domain()
}

// Offering returns a snapshot of the raise state.
func (e *Engine) Offering() (Offering, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctrl.Offering(e.db)
}

// View runs fn with read access to the store, serialized with all
// other engine operations. fn must not retain the store.
func (e *Engine) View(fn func(raise.ReadOnlyKVStore) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.db)
}

// AddForPayment settles a signed payment. See Controller.AddForPayment.
func (e *Engine) AddForPayment(a *authpay.Authorization, sig crypto.Signature, beneficiary raise.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	units, err := e.ctrl.AddForPayment(e.db, a, sig, beneficiary)
	if err != nil {
		e.fail("add_for_payment", err)
		return 0, err
	}
	e.logger.Info().
		Str("payer", a.Payer.String()).
		Str("beneficiary", beneficiary.String()).
		Uint64("value", a.Value).
		Uint64("units", units).
		Msg("payment received")
	if e.metrics != nil {
		e.metrics.Payments.Inc()
		e.metrics.PaymentsValue.Add(float64(a.Value))
	}
	e.trackSold()
	return units, nil
}

// CancelRaise ends the raise. See Controller.CancelRaise.
func (e *Engine) CancelRaise(caller raise.Address) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ctrl.CancelRaise(e.db, caller); err != nil {
		e.fail("cancel_raise", err)
		return err
	}
	e.logger.Info().Str("caller", caller.String()).Msg("raise ended")
	return nil
}

// WithdrawForDuty pays the manager out. See Controller.WithdrawForDuty.
func (e *Engine) WithdrawForDuty(caller raise.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, err := e.ctrl.WithdrawForDuty(e.db, caller)
	if err != nil {
		e.fail("withdraw_for_duty", err)
		return 0, err
	}
	e.logger.Info().
		Str("caller", caller.String()).
		Uint64("value", value).
		Msg("duty withdrawn")
	return value, nil
}

// WithdrawPayment refunds the caller. See Controller.WithdrawPayment.
func (e *Engine) WithdrawPayment(caller raise.Address) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	value, err := e.ctrl.WithdrawPayment(e.db, caller)
	if err != nil {
		e.fail("withdraw_payment", err)
		return 0, err
	}
	e.logger.Info().
		Str("recipient", caller.String()).
		Uint64("value", value).
		Msg("payment returned")
	if e.metrics != nil {
		e.metrics.Refunds.Inc()
		e.metrics.RefundsValue.Add(float64(value))
	}
	e.trackSold()
	return value, nil
}

// CancelAuthorization voids an unused payment nonce. See
// Controller.CancelAuthorization.
func (e *Engine) CancelAuthorization(payer raise.Address, nonce []byte, sig crypto.Signature) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.ctrl.CancelAuthorization(e.db, payer, nonce, sig); err != nil {
		e.fail("cancel_authorization", err)
		return err
	}
	e.logger.Info().Str("payer", payer.String()).Msg("authorization canceled")
	return nil
}

func (e *Engine) fail(operation string, err error) {
	e.logger.Debug().Err(err).Str("operation", operation).Msg("operation rejected")
	if e.metrics != nil {
		code := strconv.FormatUint(uint64(errors.Code(err)), 10)
		e.metrics.Failures.WithLabelValues(operation, code).Inc()
	}
}

func (e *Engine) trackSold() {
	if e.metrics == nil {
		return
	}
	if off, err := e.ctrl.Offering(e.db); err == nil {
		e.metrics.SoldUnits.Set(float64(off.SoldUnits))
	}
}
