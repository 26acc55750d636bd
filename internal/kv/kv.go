// Package kv provides the string key/value substrate the stores persist into.
package kv

import "errors"

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// Substrate is a synchronous string key/value store scoped to one user.
// Implementations give no atomicity across keys.
type Substrate interface {
	Get(key string) (string, error)
	Set(key, value string) error
}
