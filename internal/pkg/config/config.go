// Package config exposes typed accessors over the runtime
// configuration file. Implementations return zero values for missing
// or unconvertible keys.
package config

import (
	"io"
	"time"
)

// TimeConfig reads integer keys as durations in a fixed unit.
type TimeConfig interface {
	// GetSecond reads the key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour reads the key as a number of hours.
	GetHour(key string) time.Duration

	// GetDay reads the key as a number of 24h days.
	GetDay(key string) time.Duration
}

// SignedIntConfig reads keys as signed integers.
type SignedIntConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
}

// UnsignedIntConfig reads keys as unsigned integers.
type UnsignedIntConfig interface {
	GetUint(key string) uint
	GetUint16(key string) uint16
	GetUint32(key string) uint32
	GetUint64(key string) uint64
}

// FloatConfig reads keys as floating-point numbers.
type FloatConfig interface {
	GetFloat32(key string) float32
	GetFloat64(key string) float64
}

// Config is the full accessor surface handed to modules. Closing it
// stops any underlying file watcher.
type Config interface {
	io.Closer
	TimeConfig
	SignedIntConfig
	UnsignedIntConfig
	FloatConfig

	GetBool(key string) bool

	GetString(key string) string

	// GetBinary decodes a base64-encoded string value.
	GetBinary(key string) []byte

	// GetArray reads a string slice, also accepting the
	// "<element1>,<element2>,..." scalar form.
	GetArray(key string) []string

	// GetMap reads a string map, also accepting the
	// "<key1>:<value1>,<key2>:<value2>,..." scalar form.
	GetMap(key string) map[string]string
}
