package store

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Options selects and configures a store backend.
type Options struct {
	Backend    string
	MaxRecords int // memory only

	MongoURI   string
	Database   string
	Collection string
}

// Open creates the store described by opts. An empty backend means memory.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(opts.MaxRecords), nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo store requires a URI")
		}
		return NewMongoStore(ctx, opts.MongoURI, opts.Database, opts.Collection)
	default:
		return nil, fmt.Errorf("unknown store backend %q (must be %s or %s)", opts.Backend, BackendMemory, BackendMongo)
	}
}
