// Package token wraps JWT signing and verification for the API's bearer
// credentials. Tokens are HS256-signed with a shared secret and carry the
// subject id plus role and community claims.
package token
