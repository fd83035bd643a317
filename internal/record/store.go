// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"strings"
	"sync"

	"github.com/pdiddy/fieldnotes/pkg/types"
)

// Store aggregates everything recorded during one run: notes and figures
// grouped by topic, plus the flat reference and identifier lists collected
// by Cite. Topics are created implicitly on first use and the notes and
// figures maps always hold the same topic set, so readers can iterate one
// and index the other.
//
// A mutex serializes all mutations. The expected use is a single writer
// (one script run), but the create-if-absent plus append sequence must stay
// atomic if callers ever record from multiple goroutines.
type Store struct {
	mu          sync.Mutex
	order       []string
	notes       map[string][]string
	figures     map[string][]types.Figure
	references  []string
	identifiers []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	s := &Store{}
	s.init()
	return s
}

func (s *Store) init() {
	s.order = nil
	s.notes = make(map[string][]string)
	s.figures = make(map[string][]types.Figure)
	s.references = nil
	s.identifiers = nil
}

// ensureTopicLocked creates empty note and figure lists for topic if it is
// unknown. Callers must hold s.mu.
func (s *Store) ensureTopicLocked(topic string) {
	if _, ok := s.notes[topic]; ok {
		return
	}
	s.notes[topic] = []string{}
	s.figures[topic] = []types.Figure{}
	s.order = append(s.order, topic)
}

// EnsureTopic creates topic with empty note and figure lists if absent.
// Calling it again for a known topic is a no-op.
func (s *Store) EnsureTopic(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureTopicLocked(topic)
}

// AddNote appends finalized note text to topic, creating it if needed.
func (s *Store) AddNote(topic, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureTopicLocked(topic)
	s.notes[topic] = append(s.notes[topic], text)
}

// AddFigure appends a figure to topic, creating it if needed.
func (s *Store) AddFigure(topic string, fig types.Figure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureTopicLocked(topic)
	s.figures[topic] = append(s.figures[topic], fig)
}

// Notes joins each requested topic's notes with a single space, then joins
// the per-topic results with a single space. Unknown topics are created
// empty and contribute an empty string.
func (s *Store) Notes(topics ...string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	parts := make([]string, 0, len(topics))
	for _, topic := range topics {
		s.ensureTopicLocked(topic)
		parts = append(parts, strings.Join(s.notes[topic], " "))
	}
	return strings.Join(parts, " ")
}

// Figures concatenates the requested topics' figures into one flat list,
// preserving topic order and within-topic insertion order.
func (s *Store) Figures(topics ...string) []types.Figure {
	s.mu.Lock()
	defer s.mu.Unlock()

	var figs []types.Figure
	for _, topic := range topics {
		s.ensureTopicLocked(topic)
		figs = append(figs, s.figures[topic]...)
	}
	return figs
}

// Topics returns the topic names in first-use order.
func (s *Store) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// AddReference stores literal, already-formatted citation text.
func (s *Store) AddReference(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.references = append(s.references, ref)
}

// AddIdentifier stores a resolvable citation identifier for later batch
// lookup. Duplicates are kept; they collapse in DedupeIdentifiers.
func (s *Store) AddIdentifier(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identifiers = append(s.identifiers, id)
}

// References returns a copy of the literal reference list.
func (s *Store) References() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.references))
	copy(out, s.references)
	return out
}

// DedupeIdentifiers collapses duplicate identifiers in place, keeping the
// first occurrence of each, and returns a copy of the result. Dedup happens
// here, at resolution time, not at insertion time.
func (s *Store) DedupeIdentifiers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(s.identifiers))
	deduped := s.identifiers[:0]
	for _, id := range s.identifiers {
		if seen[id] {
			continue
		}
		seen[id] = true
		deduped = append(deduped, id)
	}
	s.identifiers = deduped

	out := make([]string, len(deduped))
	copy(out, deduped)
	return out
}

// Reset clears all four collections in one step. Safe to call on an
// already-empty store.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
}
