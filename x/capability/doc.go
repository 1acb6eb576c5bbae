/*
Package capability implements a minimal grant registry for privileged
operations.

A Capability names a privileged action, for example "raise/manage". A
Registry stores which addresses hold which capabilities and answers the
Allowed predicate for callers that need to guard an operation. Grants
are plain store entries, so they participate in the same transactional
semantics as the rest of the state.
*/
package capability
