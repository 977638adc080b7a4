package config

import (
	"io"
	"time"
)

// Config is the read-only view of runtime configuration.
//
// Missing keys resolve to the zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary reads a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray reads either a YAML list or a comma separated string.
	// Elements are trimmed and empty elements dropped.
	GetArray(key string) []string

	// GetMap reads either a YAML mapping or a "k:v,k:v" string.
	GetMap(key string) map[string]string
}
