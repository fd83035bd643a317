// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record is the recording engine: a script accumulates
// human-readable notes, figures, and citations under named topics while it
// runs, and a publisher later pulls them back out through the Recorder's
// read methods to assemble a report.
package record

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/pdiddy/fieldnotes/internal/format"
	"github.com/pdiddy/fieldnotes/internal/logging"
	"github.com/pdiddy/fieldnotes/pkg/types"
)

// identifierPattern recognizes citation strings that resolve against the
// bibliographic service: a DOI registry prefix like "10.5194/...".
var identifierPattern = regexp.MustCompile(`^10\.[0-9]{4,}`)

// Resolver materializes citation identifiers into formatted citation text.
// The returned slice has the same cardinality and order as ids; an empty
// string marks an identifier the service could not render.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) ([]string, error)
}

// Message is a sealed variant of what Report accepts: note text or a
// figure. Anything else (a nil Message included) is rejected with a logged
// warning rather than an error.
type Message interface {
	isMessage()
}

// TextNote is a note template; Report formats it with positional values.
type TextNote string

func (TextNote) isMessage() {}

// FigureNote is a rendered figure recorded under a topic.
type FigureNote types.Figure

func (FigureNote) isMessage() {}

// Recorder is the public recording surface. It owns the Store and funnels
// citations through the Resolver when references are collected.
type Recorder struct {
	store    *Store
	resolver Resolver
	log      *logging.Logger
}

// NewRecorder returns a Recorder over a fresh Store. Both resolver and log
// may be nil: without a resolver only literal references can be collected,
// and a nil logger discards diagnostics.
func NewRecorder(resolver Resolver, log *logging.Logger) *Recorder {
	return &Recorder{store: NewStore(), resolver: resolver, log: log}
}

// Report records msg under topic. A TextNote is formatted with the
// positional values (nil values become NaN first, so an absent measurement
// never aborts a run) and appended to the topic's notes. A FigureNote is
// appended to the topic's figures; values are ignored. Any other message
// logs a warning and records nothing.
func (r *Recorder) Report(topic string, msg Message, values ...any) {
	switch m := msg.(type) {
	case TextNote:
		text := string(m)
		if len(values) > 0 {
			vals := make([]any, len(values))
			for i, v := range values {
				if v == nil {
					vals[i] = math.NaN()
				} else {
					vals[i] = v
				}
			}
			text = format.Format(text, vals...)
		}
		r.store.AddNote(topic, text)
	case FigureNote:
		r.store.AddFigure(topic, types.Figure(m))
	default:
		r.log.Warning("nothing to report: message is neither text nor figure")
	}
}

// Cite records citation strings. Strings with a DOI registry prefix go to
// the identifier list for later batch resolution; everything else is kept
// verbatim as a literal reference. Blank strings are ignored.
func (r *Recorder) Cite(refs ...string) {
	for _, ref := range refs {
		if strings.TrimSpace(ref) == "" {
			continue
		}
		if identifierPattern.MatchString(ref) {
			r.store.AddIdentifier(ref)
		} else {
			r.store.AddReference(ref)
		}
	}
}

// CollectReferences returns the literal references plus the resolved text
// of every collected identifier, merged and lexicographically sorted.
// Identifiers are deduplicated first (this rewrites the stored list), so
// each unique identifier is looked up once; results the service could not
// render are dropped. Repeated calls return the same list.
func (r *Recorder) CollectReferences(ctx context.Context) ([]string, error) {
	refs := r.store.References()

	ids := r.store.DedupeIdentifiers()
	if len(ids) > 0 {
		if r.resolver == nil {
			return nil, fmt.Errorf("collecting references: %d identifier(s) recorded but no resolver configured", len(ids))
		}
		r.log.Progress("collecting %d citation(s) from CrossRef", len(ids))

		texts, err := r.resolver.Resolve(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("resolving citation identifiers: %w", err)
		}
		for _, text := range texts {
			text = strings.TrimRight(text, " \t\r\n")
			if text != "" {
				refs = append(refs, text)
			}
		}
	}

	sort.Strings(refs)
	return refs, nil
}

// Notes returns the requested topics' notes joined into prose. See
// Store.Notes for the join rules.
func (r *Recorder) Notes(topics ...string) string {
	return r.store.Notes(topics...)
}

// Figures returns the requested topics' figures as one flat ordered list.
func (r *Recorder) Figures(topics ...string) []types.Figure {
	return r.store.Figures(topics...)
}

// Topics returns the recorded topic names in first-use order.
func (r *Recorder) Topics() []string {
	return r.store.Topics()
}

// EnsureTopic creates an empty topic so it appears in Topics even before
// anything is recorded under it.
func (r *Recorder) EnsureTopic(topic string) {
	r.store.EnsureTopic(topic)
}

// Reset clears everything recorded so far, making room for a new run.
func (r *Recorder) Reset() {
	r.store.Reset()
}
