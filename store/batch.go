package store

// Op is a single operation on a store, used to build up batches that can
// be applied atomically.
type Op struct {
	delete bool
	key    []byte
	value  []byte
}

// SetOp returns a new Op to set a value.
func SetOp(key, value []byte) Op {
	return Op{
		delete: false,
		key:    key,
		value:  value,
	}
}

// DelOp returns a new Op to delete a key.
func DelOp(key []byte) Op {
	return Op{
		delete: true,
		key:    key,
	}
}

// Apply performs the stored operation on a writable store.
func (o Op) Apply(out KVStore) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// IsSetOp returns true if it is setting (false implies delete).
func (o Op) IsSetOp() bool {
	return !o.delete
}

// Key returns a copy of the key.
func (o Op) Key() []byte {
	return append([]byte(nil), o.key...)
}

// NonAtomicBatch just piles up ops and executes them later on the
// underlying store. Only use this for in-memory stores; the cache wrap
// guarantees the batch is applied as a unit.
type NonAtomicBatch struct {
	out KVStore
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates an empty batch to be later written to the
// given KVStore.
func NewNonAtomicBatch(out KVStore) *NonAtomicBatch {
	return &NonAtomicBatch{
		out: out,
	}
}

// Set adds a set operation to the batch.
func (b *NonAtomicBatch) Set(key, value []byte) error {
	set := SetOp(key, value)
	b.ops = append(b.ops, set)
	return nil
}

// Delete adds a delete operation to the batch.
func (b *NonAtomicBatch) Delete(key []byte) error {
	del := DelOp(key)
	b.ops = append(b.ops, del)
	return nil
}

// Write applies all the ops to the underlying store and resets the batch.
func (b *NonAtomicBatch) Write() error {
	for _, op := range b.ops {
		if err := op.Apply(b.out); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns a copy of the scheduled operations, mainly to debug and
// assert on writes in tests.
func (b *NonAtomicBatch) ShowOps() []Op {
	ops := make([]Op, len(b.ops))
	copy(ops, b.ops)
	return ops
}
