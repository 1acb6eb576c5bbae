package token

import (
	"github.com/iov-one/raise/coin"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
)

const maxNameLength = 32

var _ orm.Model = (*Info)(nil)

// Info describes a single ledger and tracks its circulating supply in
// base units.
type Info struct {
	Name     string
	Ticker   string
	Decimals uint8
	Supply   uint64
}

// Validate ensures the ledger metadata is sensible.
func (i *Info) Validate() error {
	if n := len(i.Name); n == 0 || n > maxNameLength {
		return errors.Wrapf(errors.ErrInput, "name %q", i.Name)
	}
	if !coin.IsTicker(i.Ticker) {
		return errors.Wrapf(errors.ErrInput, "ticker %q", i.Ticker)
	}
	if i.Decimals > coin.MaxDecimals {
		return errors.Wrapf(errors.ErrInput, "decimals %d", i.Decimals)
	}
	return nil
}

var _ orm.Model = (*Wallet)(nil)

// Wallet holds the balance of one address in base units.
type Wallet struct {
	Units uint64
}

// Validate always succeeds. Any uint64 is a legal balance.
func (w *Wallet) Validate() error {
	return nil
}
