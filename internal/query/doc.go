// Package query parses untrusted list-endpoint query strings into safe,
// allow-listed filter/sort/projection/pagination specifications. The
// allow-lists are the API's injection-prevention boundary: a field a
// resource did not declare can never reach the store.
package query
