// Package service implements the business rules between HTTP handlers and
// repositories: authentication, identity resolution, membership decisions,
// community lifecycle, and the shared authorization/scoping pipeline every
// content resource goes through.
//
// Services depend on narrow store interfaces declared in this package and
// satisfied by the repository types, so tests substitute in-memory fakes.
package service
