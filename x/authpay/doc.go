/*
Package authpay implements signature-authorized value transfers.

Instead of a pre-approved spending allowance, a payer signs a structured
authorization off-line: who may be paid, how much, within which time
window, tagged with a single-use nonce. Anyone holding the signed
authorization (typically a relayer) can submit it; the verifier recovers
the signer from the structured-data digest and moves the funds only when
every check passes.

Nonces are a set, not a counter, so a payer can have any number of
independent authorizations in flight and relayers need no coordination
on ordering. A spent nonce is the only state this package keeps.

The digest binds a domain separator (scheme code, issuer name and
version, ledger ticker) so an authorization signed for one context can
never be replayed against another.
*/
package authpay
