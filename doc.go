/*
Package raise defines the common interfaces and primitive types shared by
all packages of the capital-raise escrow engine.

The root package carries no business logic. It holds the address and
condition types used to identify parties, the second-precision UnixTime
used by authorization validity windows, and the key-value store contracts
that every extension persists through. Extensions live under x/ and
compose these primitives; support packages (errors, store, orm, coin,
crypto) provide the machinery.
*/
package raise
