/*
Package token implements the balance ledgers of the raise engine.

A Ledger manages a single token: its metadata (name, ticker, decimal
precision), its circulating supply and one wallet per address, all kept
in base units. The same implementation backs both the reference value
token that payments are made in, and the whole-unit share token the
offering distributes.

Issue and Retire are supply-changing operations and must only be called
by the controller owning the ledger; Retire genuinely destroys units.
*/
package token
