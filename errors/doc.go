/*
Package errors implements custom error interfaces for the raise engine.

The idea is to reuse as many errors from this package as possible and
define per-package custom errors when absolutely necessary. Errors are
categorized by a root error. Every instance created during runtime wraps
one of the registered roots, so callers can test a failure cause with the
root's Is method regardless of how many layers of context were added.

Extensions declare their own roots through Register, using a unique code
range, so that every distinct failure cause stays distinguishable all the
way to the client.
*/
package errors
