/*
Package membership maintains the whitelist of addresses allowed to take
part in an offering.

Membership is binary: an address either is or is not on the list. The
Controller manages the list; mutations are guarded by the
"members/manage" capability while the IsMember query is open to any
caller.
*/
package membership
