/*
Package orm provides an easy to use db wrapper.

It breaks the state space into prefixed sections called buckets. Each
bucket contains only one type of model, addressed by a primary key. The
serialization of stored models is handled by the bucket, so business code
deals only with validated Go structures.
*/
package orm
