package offering

import "github.com/iov-one/raise/errors"

// Offering errors reserve codes 1010-1029.
var (
	// ErrSenderNotMember is returned when the paying party is not on the
	// member list.
	ErrSenderNotMember = errors.Register(1010, "sender is not a member")

	// ErrBeneficiaryNotMember is returned when the party that would
	// receive shares is not on the member list.
	ErrBeneficiaryNotMember = errors.Register(1011, "beneficiary is not a member")

	// ErrCanceled is returned when an operation is not available because
	// the raise was canceled.
	ErrCanceled = errors.Register(1012, "raise canceled")

	// ErrNonIntegralAmount is returned when a payment value cannot be
	// converted into a whole number of share units.
	ErrNonIntegralAmount = errors.Register(1013, "non-integral unit amount")

	// ErrExceedsSupply is returned when a payment asks for more share
	// units than remain in the pool.
	ErrExceedsSupply = errors.Register(1014, "exceeds available supply")

	// ErrNotViable is returned when the manager payout is requested
	// before the viability threshold was reached.
	ErrNotViable = errors.Register(1015, "viable point not reached")

	// ErrAlreadyViable is returned when a refund is requested while the
	// raise is viable and not canceled.
	ErrAlreadyViable = errors.Register(1016, "viable point already reached")

	// ErrNoRefund is returned when the refund caller holds no shares.
	ErrNoRefund = errors.Register(1017, "no refund available")

	// ErrBadDestination is returned when an authorization names a payee
	// other than the offering escrow.
	ErrBadDestination = errors.Register(1018, "invalid transfer destination")
)
