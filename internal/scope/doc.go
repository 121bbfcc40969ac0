// Package scope implements the tri-level authorization model: pure role
// gates over the caller identity (super-admin / community-admin / member)
// and the query/payload rewriting that confines every caller to their own
// community's data. All functions are side-effect-free predicates or
// in-place rewrites; they hold no state and perform no I/O.
package scope
