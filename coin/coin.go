// Package coin implements checked arithmetic on token amounts.
//
// All ledger balances are kept in base units (the smallest indivisible
// fraction of a token) as unsigned 64 bit integers. Every operation that
// could silently wrap around is guarded and returns ErrOverflow instead.
package coin

import (
	"regexp"

	"github.com/iov-one/raise/errors"
)

// IsTicker is the RegExp to ensure valid ledger tickers.
var IsTicker = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// MaxDecimals bounds the decimal precision of a ledger so that the
// scaling factor always fits an uint64.
const MaxDecimals = 18

// Add returns a+b or ErrOverflow.
func Add(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns a-b. Unsigned underflow is reported as ErrAmount because
// it always means taking more than is available.
func Sub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrAmount, "%d - %d", a, b)
	}
	return a - b, nil
}

// Mul returns a*b or ErrOverflow.
func Mul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return product, nil
}

// Scale returns the base-unit scaling factor of a ledger with given
// decimal precision, that is 10^decimals.
func Scale(decimals uint8) (uint64, error) {
	if decimals > MaxDecimals {
		return 0, errors.Wrapf(errors.ErrInput, "decimals %d", decimals)
	}
	factor := uint64(1)
	for i := uint8(0); i < decimals; i++ {
		factor *= 10
	}
	return factor, nil
}
