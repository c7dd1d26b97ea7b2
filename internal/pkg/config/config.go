package config

import (
	"io"
	"time"
)

// Config is the read-only view over application settings.
//
// Missing keys resolve to the zero value of the requested type. Callers that
// need a non-zero fallback check the result themselves.
type Config interface {
	io.Closer

	// GetBool returns key as a bool.
	GetBool(key string) bool

	// GetString returns key as a string.
	GetString(key string) string

	// GetInt returns key as an int.
	GetInt(key string) int

	// GetInt32 returns key as an int32.
	GetInt32(key string) int32

	// GetInt64 returns key as an int64.
	GetInt64(key string) int64

	// GetFloat64 returns key as a float64.
	GetFloat64(key string) float64

	// GetSecond interprets key as a whole number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute interprets key as a whole number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary decodes key from base64. Invalid input yields nil.
	GetBinary(key string) []byte

	// GetArray splits key on commas. Blank elements are dropped and the rest trimmed.
	GetArray(key string) []string

	// GetMap parses key from "k1:v1,k2:v2" pairs.
	GetMap(key string) map[string]string
}
