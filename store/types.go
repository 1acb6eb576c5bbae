package store

import "github.com/iov-one/raise"

// Move references for all storage types into this package
// for shorter names everywhere.

type ReadOnlyKVStore = raise.ReadOnlyKVStore
type KVStore = raise.KVStore
type Iterator = raise.Iterator
type CacheableKVStore = raise.CacheableKVStore
type KVCacheWrap = raise.KVCacheWrap
type Batch = raise.Batch
