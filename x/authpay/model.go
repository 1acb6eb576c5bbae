package authpay

import (
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
)

var _ orm.Model = (*SpentNonce)(nil)

// SpentNonce marks a consumed (payer, nonce) pair. Its presence is the
// information; the timestamp is kept for operators digging through state.
type SpentNonce struct {
	SpentAt raise.UnixTime
}

// Validate ensures the marker is well formed.
func (s *SpentNonce) Validate() error {
	return errors.Wrap(s.SpentAt.Validate(), "spent at")
}

func newNonceBucket() orm.ModelBucket {
	return orm.NewModelBucket("nonces")
}

// nonceKey scopes a nonce to its payer and ledger. Addresses have fixed
// length, so concatenation cannot collide.
func nonceKey(ledger string, payer raise.Address, nonce []byte) []byte {
	key := make([]byte, 0, len(ledger)+1+len(payer)+len(nonce))
	key = append(key, ledger...)
	key = append(key, '/')
	key = append(key, payer...)
	return append(key, nonce...)
}
