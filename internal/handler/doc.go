// Package handler implements the HTTP layer of the KULL API.
//
// Handlers are thin: they decode the request, pull the caller identity from
// the request context, call a service, and render the uniform response
// envelope. All status-code mapping goes through MapServiceError so every
// endpoint reports errors the same way.
//
// Content resources share one ResourceHandler; per-resource behavior is
// declared in service.ResourceDef at wiring time.
package handler
