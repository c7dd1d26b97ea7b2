// Package uid generates identifiers: UUIDv7 strings for externally visible ids
// and snowflake integers for internal row keys.
package uid

// StringID produces opaque string identifiers.
type StringID interface {
	Generate() string
}

// NumberID produces time-ordered integer identifiers.
type NumberID interface {
	Generate() int64
}
