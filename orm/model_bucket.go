package orm

import (
	"regexp"

	"github.com/iov-one/raise"
	"github.com/iov-one/raise/errors"
	amino "github.com/tendermint/go-amino"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using a
// ModelBucket.
type Model interface {
	Validate() error
}

// ModelBucket is implemented by buckets that operate on models rather
// than raw bytes.
type ModelBucket interface {
	// One queries the database for a single model instance. Lookup is
	// done by the primary key. The result is loaded into the given
	// destination model.
	// This method returns ErrNotFound if the entity does not exist in
	// the database.
	One(db raise.ReadOnlyKVStore, key []byte, dest Model) error

	// Has checks for existence without deserializing the stored entity.
	Has(db raise.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. The model is validated
	// before being written.
	Put(db raise.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db raise.KVStore, key []byte) error
}

// NewModelBucket returns a ModelBucket instance owning the given name
// prefix of the store. All stored models are serialized with a
// deterministic binary codec.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	return &modelBucket{
		prefix: append([]byte(name), ':'),
		cdc:    codec,
	}
}

// codec is shared by all buckets. Only concrete structures are
// serialized, so no type registration is needed.
var codec = amino.NewCodec()

type modelBucket struct {
	prefix []byte
	cdc    *amino.Codec
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte(nil), mb.prefix...), key...)
}

func (mb *modelBucket) One(db raise.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "bucket get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := mb.cdc.UnmarshalBinaryBare(raw, dest); err != nil {
		return errors.Wrapf(errors.ErrType, "cannot deserialize %T: %s", dest, err)
	}
	return nil
}

func (mb *modelBucket) Has(db raise.ReadOnlyKVStore, key []byte) (bool, error) {
	has, err := db.Has(mb.dbKey(key))
	if err != nil {
		return false, errors.Wrap(err, "bucket has")
	}
	return has, nil
}

func (mb *modelBucket) Put(db raise.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := mb.cdc.MarshalBinaryBare(m)
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "cannot serialize %T: %s", m, err)
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db raise.KVStore, key []byte) error {
	dbKey := mb.dbKey(key)
	has, err := db.Has(dbKey)
	if err != nil {
		return errors.Wrap(err, "bucket has")
	}
	if !has {
		return errors.Wrap(errors.ErrNotFound, "cannot delete")
	}
	return db.Delete(dbKey)
}
