/*
Package store provides the key-value storage implementations used by the
raise engine.

The central piece is the btree-backed cache wrap. Every engine operation
runs against a cache wrap of the underlying store and either Writes the
whole batch back on success or Discards it, so a failing operation leaves
no partial state behind.

MemStore returns an empty in-memory store, used by tests and by the
daemon when no persistence is configured.
*/
package store
