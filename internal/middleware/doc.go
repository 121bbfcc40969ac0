// Package middleware provides HTTP middleware for the KULL API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: bearer token authentication and identity resolution
//   - RequireSuperAdmin / RequireAdmin: role gates on route groups
//   - RateLimit: request rate limiting per user/IP
//   - RequestID, Logger, Recovery, CORS, Compress: request plumbing
//
// # Authentication
//
// Auth resolves the bearer token to a fresh caller identity and stores it
// in the request context. Handlers behind it read it back with:
//
//	ident := middleware.GetIdentity(r.Context())
//
// The identity reflects the user's stored state at request time, so role
// and membership changes take effect immediately.
package middleware
