// Package raisetest provides fixtures shared by tests across the
// repository: fresh signing keys, unique nonces and pre-signed payment
// authorizations.
package raisetest
