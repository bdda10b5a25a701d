// Package store keeps the history of computed comparisons.
//
// Every comparison served by the API is saved as a [Record] under a random
// ID so that clients can fetch it again (GET /api/1/diff/{id}). Two
// backends implement [Store]:
//
//   - [MemoryStore]: a bounded in-process buffer; the oldest record is
//     dropped when it is full
//   - [MongoStore]: a MongoDB collection shared between server replicas
//
// [Open] picks a backend from [Options].
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

// List limits.
const (
	DefaultListLimit = 20
	MaxListLimit     = 500
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("comparison not found")

// Record is one saved comparison.
type Record struct {
	ID          string         `json:"id" bson:"_id"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	Sentence    string         `json:"sentence,omitempty" bson:"sentence,omitempty"`
	Input       string         `json:"input" bson:"input"`
	GraphA      string         `json:"graph_a" bson:"graph_a"`
	GraphB      string         `json:"graph_b" bson:"graph_b"`
	Mode        string         `json:"mode" bson:"mode"`
	PayloadHash string         `json:"payload_hash" bson:"payload_hash"`
	Summary     diff.Summary   `json:"summary" bson:"summary"`
	Document    *sink.Document `json:"document,omitempty" bson:"document,omitempty"`
}

// Store saves and retrieves comparison records.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores rec. An empty ID is replaced by a new UUID and a zero
	// CreatedAt by the current time; both are written back to rec.
	Save(ctx context.Context, rec *Record) error

	// Get returns the record with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. The documents are
	// omitted; use Get for the full record. A non-positive limit means
	// DefaultListLimit; limits above MaxListLimit are capped.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing record returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Close releases resources held by the backend.
	Close(ctx context.Context) error
}

// prepare fills in the ID and creation time of a record about to be saved.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

// ValidID reports whether id has the shape of a record ID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// summary returns a copy of rec without its document.
func summary(rec *Record) *Record {
	out := *rec
	out.Document = nil
	return &out
}

func listLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
