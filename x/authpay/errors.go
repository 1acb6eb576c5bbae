package authpay

import (
	"github.com/iov-one/raise/errors"
)

// Authorization errors reserve codes 1100-1109.
var (
	// ErrExpired is returned when the current time is at or past the
	// authorization's valid-before bound.
	ErrExpired = errors.Register(1100, "authorization expired")

	// ErrNotYetValid is returned when the current time is at or before
	// the authorization's valid-after bound.
	ErrNotYetValid = errors.Register(1101, "authorization not yet valid")

	// ErrNonceUsed is returned when the (payer, nonce) pair was already
	// consumed, by a transfer or by a cancellation.
	ErrNonceUsed = errors.Register(1102, "nonce already used")

	// ErrInvalidSignature is returned when the signature cannot be
	// recovered or recovers to a signer other than the claimed payer.
	// It is distinct from all business-rule failures so that a relayer
	// can tell a badly signed payment from a rejected one.
	ErrInvalidSignature = errors.Register(1103, "invalid signature")
)
