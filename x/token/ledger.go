package token

import (
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/coin"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
)

// Ledger errors reserve codes 1030-1039.
var (
	// ErrInsufficientFunds is returned when a movement asks for more
	// units than the source wallet holds.
	ErrInsufficientFunds = errors.Register(1030, "insufficient funds")
)

// Ledger gives access to the balances of a single token. It is a
// stateless handle; all data lives in the store passed to each call.
type Ledger struct {
	ticker  string
	infos   orm.ModelBucket
	wallets orm.ModelBucket
}

// NewLedger returns a handle on the ledger of the given ticker. The
// ledger must be created with Create before any balance operation.
func NewLedger(ticker string) Ledger {
	return Ledger{
		ticker:  ticker,
		infos:   orm.NewModelBucket("tokens"),
		wallets: orm.NewModelBucket("wallets"),
	}
}

// ID returns the ticker identifying this ledger.
func (l Ledger) ID() string {
	return l.ticker
}

// Create registers this ledger with the given metadata and zero supply.
// It fails with ErrDuplicate if the ticker is already taken.
func (l Ledger) Create(db raise.KVStore, name string, decimals uint8) error {
	switch has, err := l.infos.Has(db, []byte(l.ticker)); {
	case err != nil:
		return errors.Wrap(err, "ledger lookup")
	case has:
		return errors.Wrapf(errors.ErrDuplicate, "ledger %q", l.ticker)
	}
	info := Info{
		Name:     name,
		Ticker:   l.ticker,
		Decimals: decimals,
	}
	return l.infos.Put(db, []byte(l.ticker), &info)
}

// Info loads the ledger metadata.
func (l Ledger) Info(db raise.ReadOnlyKVStore) (Info, error) {
	var info Info
	if err := l.infos.One(db, []byte(l.ticker), &info); err != nil {
		return Info{}, errors.Wrapf(err, "ledger %q", l.ticker)
	}
	return info, nil
}

// ScalingFactor returns the number of base units in one whole token,
// that is 10^decimals.
func (l Ledger) ScalingFactor(db raise.ReadOnlyKVStore) (uint64, error) {
	info, err := l.Info(db)
	if err != nil {
		return 0, err
	}
	return coin.Scale(info.Decimals)
}

// BalanceOf returns the balance of the given address in base units. An
// address without a wallet has a zero balance.
func (l Ledger) BalanceOf(db raise.ReadOnlyKVStore, addr raise.Address) (uint64, error) {
	var w Wallet
	switch err := l.wallets.One(db, l.walletKey(addr), &w); {
	case err == nil:
		return w.Units, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "wallet lookup")
	}
}

// Move transfers units from src to dest. It fails if src doesn't hold
// enough units.
func (l Ledger) Move(db raise.KVStore, src, dest raise.Address, units uint64) error {
	if units == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot move zero units")
	}
	srcBalance, err := l.BalanceOf(db, src)
	if err != nil {
		return err
	}
	if srcBalance < units {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, needs %d", src, srcBalance, units)
	}
	destBalance, err := l.BalanceOf(db, dest)
	if err != nil {
		return err
	}
	newDest, err := coin.Add(destBalance, units)
	if err != nil {
		return err
	}
	if err := l.setBalance(db, src, srcBalance-units); err != nil {
		return err
	}
	return l.setBalance(db, dest, newDest)
}

// Issue mints units into the destination wallet, increasing the
// circulating supply. Only the ledger's controller may call this.
func (l Ledger) Issue(db raise.KVStore, dest raise.Address, units uint64) error {
	if units == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot issue zero units")
	}
	info, err := l.Info(db)
	if err != nil {
		return err
	}
	newSupply, err := coin.Add(info.Supply, units)
	if err != nil {
		return err
	}
	balance, err := l.BalanceOf(db, dest)
	if err != nil {
		return err
	}
	newBalance, err := coin.Add(balance, units)
	if err != nil {
		return err
	}
	info.Supply = newSupply
	if err := l.infos.Put(db, []byte(l.ticker), &info); err != nil {
		return err
	}
	return l.setBalance(db, dest, newBalance)
}

// Retire burns units from the source wallet, decreasing the circulating
// supply. Only the ledger's controller may call this.
func (l Ledger) Retire(db raise.KVStore, src raise.Address, units uint64) error {
	if units == 0 {
		return errors.Wrap(errors.ErrAmount, "cannot retire zero units")
	}
	balance, err := l.BalanceOf(db, src)
	if err != nil {
		return err
	}
	if balance < units {
		return errors.Wrapf(ErrInsufficientFunds, "%s holds %d, retiring %d", src, balance, units)
	}
	info, err := l.Info(db)
	if err != nil {
		return err
	}
	newSupply, err := coin.Sub(info.Supply, units)
	if err != nil {
		return err
	}
	info.Supply = newSupply
	if err := l.infos.Put(db, []byte(l.ticker), &info); err != nil {
		return err
	}
	return l.setBalance(db, src, balance-units)
}

func (l Ledger) setBalance(db raise.KVStore, addr raise.Address, units uint64) error {
	return l.wallets.Put(db, l.walletKey(addr), &Wallet{Units: units})
}

// walletKey scopes a wallet to this ledger. Tickers are of bounded
// length and cannot contain the separator, so keys cannot collide.
func (l Ledger) walletKey(addr raise.Address) []byte {
	key := make([]byte, 0, len(l.ticker)+1+len(addr))
	key = append(key, l.ticker...)
	key = append(key, '/')
	return append(key, addr...)
}
