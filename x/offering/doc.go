/*
Package offering implements the capital-raise escrow engine.

An offering sells a fixed, pre-minted pool of whole share units against
a reference value token. Payments arrive as signed authorizations and
are settled through the authpay verifier, so participants never grant a
standing spending allowance. The offering tracks sold units against the
total supply, latches viability once the configured percentage of the
supply is sold, and exposes a manager payout path and a participant
refund path that are mutually exclusive by raise state.

The package is split in two layers. Controller holds the business
rules; every operation takes the store explicitly and applies its
mutations all-or-nothing. Engine wraps a controller with the
serialization, logging and metrics a long-running process needs.
*/
package offering
