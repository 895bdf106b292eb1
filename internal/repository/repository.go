// Package repository defines the durable key-value contract favorites are
// persisted through. Implementations offer no transactions across calls;
// callers re-read state on startup to recover from a crash between writes.
package repository

// Store is a string-keyed, string-valued durable store.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
