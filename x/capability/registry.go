package capability

import (
	"regexp"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
)

// Capability names a privileged action, scoped by the extension that
// guards it, for example "raise/manage".
type Capability string

var isCapability = regexp.MustCompile(`^[a-z]{2,10}/[a-z]{2,10}$`).MatchString

// Validate ensures the capability name is well formed.
func (c Capability) Validate() error {
	if !isCapability(string(c)) {
		return errors.Wrapf(errors.ErrInput, "capability %q", c)
	}
	return nil
}

// Checker answers whether an address holds a capability. Code that
// guards operations should depend on this interface rather than on the
// Registry so that tests can substitute a fixed policy.
type Checker interface {
	Allowed(db raise.ReadOnlyKVStore, caller raise.Address, c Capability) (bool, error)
}

// Grant marks that an address holds a capability. The value carries
// only bookkeeping data, presence of the entry is what matters.
type Grant struct {
	GrantedAt raise.UnixTime
}

var _ orm.Model = (*Grant)(nil)

// Validate implements orm.Model.
func (g *Grant) Validate() error {
	return g.GrantedAt.Validate()
}

// Registry is a bucket backed Checker with grant management.
type Registry struct {
	grants orm.ModelBucket
}

var _ Checker = (*Registry)(nil)

// NewRegistry returns a registry over the "grants" bucket.
func NewRegistry() *Registry {
	return &Registry{
		grants: orm.NewModelBucket("grants"),
	}
}

// Allowed implements Checker.
func (r *Registry) Allowed(db raise.ReadOnlyKVStore, caller raise.Address, c Capability) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	if err := caller.Validate(); err != nil {
		return false, errors.Wrap(err, "caller")
	}
	return r.grants.Has(db, grantKey(caller, c))
}

// Assign grants the capability to the given address. Granting an
// already held capability is a no-op that refreshes the timestamp.
func (r *Registry) Assign(db raise.KVStore, addr raise.Address, c Capability, now raise.UnixTime) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return r.grants.Put(db, grantKey(addr, c), &Grant{GrantedAt: now})
}

// Revoke removes the capability from the given address. It fails with
// ErrNotFound if the address does not hold the capability.
func (r *Registry) Revoke(db raise.KVStore, addr raise.Address, c Capability) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := r.grants.Delete(db, grantKey(addr, c)); err != nil {
		return errors.Wrapf(err, "capability %q", c)
	}
	return nil
}

// grantKey scopes an address to a capability. Capability names cannot
// contain the separator, so keys cannot collide.
func grantKey(addr raise.Address, c Capability) []byte {
	key := make([]byte, 0, len(c)+1+len(addr))
	key = append(key, c...)
	key = append(key, ':')
	return append(key, addr...)
}
