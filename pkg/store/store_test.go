package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

func newRecord(sentence string) *Record {
	return &Record{
		Sentence: sentence,
		Input:    "odin",
		GraphA:   "universal-basic",
		GraphB:   "universal-enhanced",
		Mode:     "text",
		Summary:  diff.Summary{EdgesA: 3, EdgesB: 2, Match: 2, UniqueA: 1},
		Document: &sink.Document{Mode: "text", Sentence: sentence},
	}
}

// exercise runs the behavior every backend shares.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}

	rec := newRecord("The dog runs")
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !ValidID(rec.ID) {
		t.Errorf("Save assigned ID %q, want a UUID", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		t.Error("Save did not set CreatedAt")
	}

	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Sentence != rec.Sentence || got.Summary != rec.Summary {
		t.Errorf("Get = %+v, want %+v", got, rec)
	}
	if got.Document == nil || got.Document.Mode != "text" {
		t.Errorf("Get document = %+v", got.Document)
	}

	time.Sleep(2 * time.Millisecond)
	newer := newRecord("A cat sleeps")
	if err := s.Save(ctx, newer); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) < 2 || list[0].ID != newer.ID || list[1].ID != rec.ID {
		t.Fatalf("List order = %v, want newest first", ids(list))
	}
	if list[0].Document != nil {
		t.Error("List should omit documents")
	}

	if err := s.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
	if err := s.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}
	_ = s.Delete(ctx, newer.ID)
}

func ids(recs []*Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore(10))
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	var saved []*Record
	for i := range 5 {
		rec := newRecord(fmt.Sprintf("sentence %d", i))
		if err := s.Save(ctx, rec); err != nil {
			t.Fatal(err)
		}
		saved = append(saved, rec)
	}

	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	for _, rec := range saved[:2] {
		if _, err := s.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s should have been evicted", rec.Sentence)
		}
	}
	list, _ := s.List(ctx, 0)
	want := []string{saved[4].ID, saved[3].ID, saved[2].ID}
	if fmt.Sprint(ids(list)) != fmt.Sprint(want) {
		t.Errorf("List = %v, want %v", ids(list), want)
	}
}

func TestMemoryStoreSaveExistingID(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	rec := newRecord("first")
	rec.ID = "fixed"
	_ = s.Save(ctx, rec)
	rec2 := newRecord("second")
	rec2.ID = "fixed"
	_ = s.Save(ctx, rec2)

	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
	got, _ := s.Get(ctx, "fixed")
	if got.Sentence != "second" {
		t.Errorf("Sentence = %q, want second", got.Sentence)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)
	rec := newRecord("original")
	_ = s.Save(ctx, rec)
	rec.Sentence = "mutated after save"

	got, _ := s.Get(ctx, rec.ID)
	got.Mode = "mutated after get"
	again, _ := s.Get(ctx, rec.ID)
	if again.Sentence != "original" || again.Mode != "text" {
		t.Errorf("stored record changed: %+v", again)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(50)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := newRecord(fmt.Sprintf("s%d", i))
			if err := s.Save(ctx, rec); err != nil {
				t.Error(err)
				return
			}
			if _, err := s.Get(ctx, rec.ID); err != nil {
				t.Error(err)
			}
			_, _ = s.List(ctx, 5)
		}()
	}
	wg.Wait()
	if s.Len() != 20 {
		t.Errorf("Len = %d, want 20", s.Len())
	}
}

func TestListLimit(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, DefaultListLimit},
		{-5, DefaultListLimit},
		{7, 7},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		if got := listLimit(tt.in); got != tt.want {
			t.Errorf("listLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("ARCDIFF_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("ARCDIFF_TEST_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "arcdiff_test", fmt.Sprintf("comparisons_%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close(ctx)
	exercise(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("default backend = %T, want *MemoryStore", s)
	}

	if _, err := Open(ctx, Options{Backend: BackendMongo}); err == nil {
		t.Error("mongo without URI should fail")
	}
	if _, err := Open(ctx, Options{Backend: "sqlite"}); err == nil {
		t.Error("unknown backend should fail")
	}
}
