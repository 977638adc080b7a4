// Package jwt verifies HS512 bearer tokens issued by the platform and
// carries the caller's role scoped identity through the request context.
package jwt
