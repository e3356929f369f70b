// Package resume holds the content-addressed cache of analyzed resumes.
// Entries are keyed by a hash of the raw text, so re-uploading identical
// content is idempotent and never re-triggers analysis.
package resume

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned for lookups of ids that were never stored.
var ErrNotFound = errors.New("resume not found")

// defaultMaxEntries bounds the cache. The oldest inserted entry is evicted
// once the bound is reached.
const defaultMaxEntries = 256

// Analysis carries the structured fields an external analyzer extracted from
// the raw text. The cache treats it as opaque.
type Analysis struct {
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
	Email           string   `json:"email,omitempty"`
	Phone           string   `json:"phone,omitempty"`
}

type Resume struct {
	ID         string    `json:"id"`
	RawText    string    `json:"-"`
	Analysis   Analysis  `json:"analysis"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Summary is the listing view of a cached resume, without the raw text.
type Summary struct {
	ID              string    `json:"id"`
	Skills          []string  `json:"skills"`
	ExperienceYears int       `json:"experience_years"`
	UploadedAt      time.Time `json:"uploaded_at"`
}

// Store is safe for concurrent use by request handlers and an active
// scheduler run.
type Store struct {
	mu         sync.RWMutex
	entries    map[string]*Resume
	order      []string
	maxEntries int
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries:    make(map[string]*Resume),
		maxEntries: defaultMaxEntries,
		now:        time.Now,
	}
}

// ID returns the deterministic content hash used as the cache key.
func ID(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return fmt.Sprintf("%x", sum[:])
}

// Put stores the resume and returns its id. When an entry with the same
// content already exists its analysis and upload time are left untouched and
// the existing id is returned.
func (s *Store) Put(rawText string, analysis Analysis) string {
	id := ID(rawText)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; ok {
		return id
	}

	if len(s.order) >= s.maxEntries {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}

	s.entries[id] = &Resume{
		ID:         id,
		RawText:    rawText,
		Analysis:   analysis,
		UploadedAt: s.now(),
	}
	s.order = append(s.order, id)

	return id
}

func (s *Store) Get(id string) (*Resume, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}

	return entry, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}

	delete(s.entries, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return nil
}

// List returns summaries in insertion order.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		entry := s.entries[id]
		summaries = append(summaries, Summary{
			ID:              entry.ID,
			Skills:          entry.Analysis.Skills,
			ExperienceYears: entry.Analysis.ExperienceYears,
			UploadedAt:      entry.UploadedAt,
		})
	}

	return summaries
}
