// Package jwt issues and verifies short-lived, purpose-scoped HS512 tokens.
//
// A token minted for one purpose (for example "password_recovery") never
// verifies for another, so the same signing key can back several flows.
package jwt
