// Package repository implements data access against the document store.
//
// ResourceRepository is the shared CRUD engine for community content
// resources; it executes sanitized query specs and nothing else. Typed
// repositories exist only where the domain needs them (users for
// authentication and membership, communities for join codes and
// configuration).
//
// Authorization and scoping never happen here — by the time a filter or
// payload reaches this package it has already been rewritten by the scope
// package.
package repository
