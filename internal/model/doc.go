// Package model defines the domain types shared across the API: the
// per-request caller identity, user and community records, and the uniform
// response envelope.
//
// Community content resources (posts, news, donations, dukaans, ...) are
// deliberately not given typed structs here. They are opaque documents to
// the core; the scoping layer only touches their community and createdBy
// fields, so they travel as plain maps between the handler, scope, and
// repository layers.
package model
