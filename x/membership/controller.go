package membership

import (
	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/orm"
	"github.com/iov-one/raise/x/capability"
)

// CapManageMembers guards additions to and removals from the member
// list.
const CapManageMembers = capability.Capability("members/manage")

// Member marks an address as part of the whitelist. Presence of the
// entry is what matters, the value carries only bookkeeping data.
type Member struct {
	Since raise.UnixTime
}

var _ orm.Model = (*Member)(nil)

// Validate implements orm.Model.
func (m *Member) Validate() error {
	return m.Since.Validate()
}

// Gate answers the membership question. The offering engine depends on
// this interface rather than on the Controller.
type Gate interface {
	IsMember(db raise.ReadOnlyKVStore, addr raise.Address) (bool, error)
}

// Controller manages the member list.
type Controller struct {
	members orm.ModelBucket
	caps    capability.Checker
}

var _ Gate = (*Controller)(nil)

// NewController returns a controller using the given capability checker
// to guard mutations.
func NewController(caps capability.Checker) *Controller {
	return &Controller{
		members: orm.NewModelBucket("members"),
		caps:    caps,
	}
}

// IsMember returns whether the address is on the member list.
func (c *Controller) IsMember(db raise.ReadOnlyKVStore, addr raise.Address) (bool, error) {
	if err := addr.Validate(); err != nil {
		return false, errors.Wrap(err, "address")
	}
	return c.members.Has(db, addr)
}

// Add puts the address on the member list. The caller must hold the
// members/manage capability. Adding an existing member is a no-op that
// refreshes the timestamp.
func (c *Controller) Add(db raise.KVStore, caller, addr raise.Address, now raise.UnixTime) error {
	if err := c.authorize(db, caller); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return c.members.Put(db, addr, &Member{Since: now})
}

// Remove takes the address off the member list. The caller must hold
// the members/manage capability. Removing an address that is not a
// member fails with ErrNotFound.
func (c *Controller) Remove(db raise.KVStore, caller, addr raise.Address) error {
	if err := c.authorize(db, caller); err != nil {
		return err
	}
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	if err := c.members.Delete(db, addr); err != nil {
		return errors.Wrap(err, "member")
	}
	return nil
}

func (c *Controller) authorize(db raise.ReadOnlyKVStore, caller raise.Address) error {
	ok, err := c.caps.Allowed(db, caller, CapManageMembers)
	if err != nil {
		return errors.Wrap(err, "capability lookup")
	}
	if !ok {
		return errors.Wrapf(errors.ErrUnauthorized, "%s cannot manage members", caller)
	}
	return nil
}
