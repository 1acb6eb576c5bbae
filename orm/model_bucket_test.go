package orm

import (
	"testing"

	"github.com/iov-one/raise/errors"
	"github.com/iov-one/raise/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cnt struct {
	Val int64
}

func (c *cnt) Validate() error {
	if c.Val < 0 {
		return errors.Wrap(errors.ErrState, "negative")
	}
	return nil
}

func TestModelBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	require.NoError(t, b.Put(db, []byte("c1"), &cnt{Val: 42}))

	var got cnt
	require.NoError(t, b.One(db, []byte("c1"), &got))
	assert.Equal(t, int64(42), got.Val)
}

func TestModelBucketNotFound(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	var got cnt
	err := b.One(db, []byte("missing"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))

	err = b.Delete(db, []byte("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestModelBucketValidates(t *testing.T) {
	db := store.MemStore()
	b := NewModelBucket("cnts")

	err := b.Put(db, []byte("c1"), &cnt{Val: -1})
	assert.True(t, errors.ErrState.Is(err))

	has, err := b.Has(db, []byte("c1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestModelBucketsAreIsolated(t *testing.T) {
	db := store.MemStore()
	a := NewModelBucket("aaa")
	z := NewModelBucket("zzz")

	require.NoError(t, a.Put(db, []byte("k"), &cnt{Val: 1}))

	var got cnt
	err := z.One(db, []byte("k"), &got)
	assert.True(t, errors.ErrNotFound.Is(err))
}
