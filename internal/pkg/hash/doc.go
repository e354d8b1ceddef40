// Package hash provides helpers for keyed hashing and verification.
//
// Typical usage is signing event payloads: the publisher attaches the
// digest as a message header and consumers verify it before trusting the
// body. Implementations (like HMAC-SHA256) live in this package behind a
// small interface.
package hash
