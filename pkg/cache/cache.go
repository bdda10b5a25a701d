// Package cache stores computed comparisons and annotation payloads.
//
// All backends implement [Cache]: a byte-oriented key/value store with
// per-entry TTL. Keys are built by a [Keyer] so that every input that
// influences a result (payload bytes, format, graph names, mode) is part of
// the key.
//
// Backends:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [MemoryCache]: in-process, for a single server
//   - [RedisCache]: shared between server replicas
//
// [Open] picks a backend from [Options].
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store for serialized results.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Keyer builds cache keys.
type Keyer interface {
	// AnnotateKey is the key of an annotation service response.
	AnnotateKey(sentence string, opts AnnotateKeyOpts) string

	// DiffKey is the key of a classified comparison. payloadHash covers
	// both input payloads, see [Hash].
	DiffKey(payloadHash string, opts DiffKeyOpts) string
}

// AnnotateKeyOpts are the request flags that change an annotation.
type AnnotateKeyOpts struct {
	Endpoint         string
	EnhanceUD        bool
	EnhancedPlusPlus bool
	EnhancedExtra    bool
}

// DiffKeyOpts are the settings that change a comparison.
type DiffKeyOpts struct {
	Input  string // payload format (odin, conllu)
	Format string // artifact format
	GraphA string
	GraphB string
	Mode   string
}

// DefaultKeyer hashes key options with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AnnotateKey implements Keyer.
func (DefaultKeyer) AnnotateKey(sentence string, opts AnnotateKeyOpts) string {
	return hashKey("annotate", sentence, opts)
}

// DiffKey implements Keyer.
func (DefaultKeyer) DiffKey(payloadHash string, opts DiffKeyOpts) string {
	return hashKey("diff", payloadHash, opts)
}
