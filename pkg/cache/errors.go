package cache

import "errors"

var (
	// ErrCacheMiss is returned by helpers that require an entry to exist.
	ErrCacheMiss = errors.New("cache miss")

	// ErrUnknownBackend is returned by [Open] for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown cache backend")
)
