package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/raise/errors"
)

// cacheIter merges the materialized overlay operations with the backing
// store iterator. Overlay entries shadow backing entries with the same
// key; deletions mask them entirely.
type cacheIter struct {
	items   []btree.Item
	parent  Iterator
	reverse bool

	// one buffered entry from the parent iterator
	pkey, pvalue []byte
	pdone        bool
}

var _ Iterator = (*cacheIter)(nil)

func newCacheIter(items []btree.Item, parent Iterator, reverse bool) *cacheIter {
	it := &cacheIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	it.advanceParent()
	return it
}

func (it *cacheIter) advanceParent() {
	key, value, err := it.parent.Next()
	if err != nil {
		it.pdone = true
		it.pkey, it.pvalue = nil, nil
		return
	}
	it.pkey, it.pvalue = key, value
}

func (it *cacheIter) Next() (key, value []byte, err error) {
	for {
		if len(it.items) == 0 {
			if it.pdone {
				return nil, nil, errors.Wrap(errors.ErrIteratorDone, "cache iterator")
			}
			key, value = it.pkey, it.pvalue
			it.advanceParent()
			return key, value, nil
		}

		front := it.items[0]
		frontKey := front.(keyer).Key()

		if !it.pdone {
			cmp := bytes.Compare(frontKey, it.pkey)
			if it.reverse {
				cmp = -cmp
			}
			if cmp > 0 {
				// parent entry comes first
				key, value = it.pkey, it.pvalue
				it.advanceParent()
				return key, value, nil
			}
			if cmp == 0 {
				// overlay shadows this parent entry
				it.advanceParent()
			}
		}

		it.items = it.items[1:]
		switch t := front.(type) {
		case setItem:
			return t.bkey.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", front)
		}
	}
}

func (it *cacheIter) Release() {
	it.parent.Release()
	it.items = nil
	it.pdone = true
}

// emptyIterator contains no entries at all.
type emptyIterator struct{}

var _ Iterator = emptyIterator{}

func (emptyIterator) Next() ([]byte, []byte, error) {
	return nil, nil, errors.Wrap(errors.ErrIteratorDone, "empty")
}

func (emptyIterator) Release() {}
