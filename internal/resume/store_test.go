package resume

import (
	"errors"
	"testing"
	"time"
)

func TestPutIsIdempotentPerContent(t *testing.T) {
	store := NewStore()

	current := time.Unix(1000, 0)
	store.now = func() time.Time { return current }

	first := store.Put("backend engineer resume", Analysis{Skills: []string{"go"}})

	current = current.Add(time.Hour)
	second := store.Put("backend engineer resume", Analysis{Skills: []string{"python"}})

	if first != second {
		t.Fatalf("expected identical ids, got %s and %s", first, second)
	}

	entry, err := store.Get(first)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entry.UploadedAt.Equal(time.Unix(1000, 0)) {
		t.Fatalf("second put must not touch uploadedAt, got %v", entry.UploadedAt)
	}
	if len(entry.Analysis.Skills) != 1 || entry.Analysis.Skills[0] != "go" {
		t.Fatalf("second put must not overwrite analysis, got %v", entry.Analysis.Skills)
	}
}

func TestDistinctContentGetsDistinctIDs(t *testing.T) {
	store := NewStore()

	a := store.Put("resume one", Analysis{})
	b := store.Put("resume two", Analysis{})

	if a == b {
		t.Fatalf("expected distinct ids for distinct content")
	}
}

func TestGetUnknownIDFails(t *testing.T) {
	store := NewStore()

	if _, err := store.Get("no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	store := NewStore()

	id := store.Put("resume", Analysis{})
	if err := store.Delete(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	if err := store.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	store := NewStore()

	first := store.Put("resume one", Analysis{})
	second := store.Put("resume two", Analysis{})
	third := store.Put("resume three", Analysis{})

	summaries := store.List()
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}

	want := []string{first, second, third}
	for i, summary := range summaries {
		if summary.ID != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, summary.ID)
		}
	}
}

func TestEvictsOldestWhenFull(t *testing.T) {
	store := NewStore()
	store.maxEntries = 2

	first := store.Put("resume one", Analysis{})
	store.Put("resume two", Analysis{})
	store.Put("resume three", Analysis{})

	if _, err := store.Get(first); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected oldest entry to be evicted, got %v", err)
	}

	if got := len(store.List()); got != 2 {
		t.Fatalf("expected 2 entries after eviction, got %d", got)
	}
}
