// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/pdiddy/fieldnotes/internal/format"
	"github.com/pdiddy/fieldnotes/internal/logging"
)

// --- Wrapping ---

func TestWrap1ReportsReturnValue(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{Report: "Result: {return}."}

	fn := Wrap1(r, "calc", doc, "double", func(n int) (int, error) {
		return n + n, nil
	})

	got, err := fn(2)
	if err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}
	if got != 4 {
		t.Errorf("wrapped call = %d, want 4", got)
	}
	if notes := r.Notes("calc"); notes != "Result: 4." {
		t.Errorf("Notes(calc) = %q, want %q", notes, "Result: 4.")
	}
}

func TestWrapBindsNamedParameters(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{
		Params: []string{"station", "depth"},
		Report: "Station {station} was probed at {depth} cm by {function}.",
	}

	fn := Wrap2(r, "survey", doc, "probe", func(station string, depth int) (bool, error) {
		return true, nil
	})
	if _, err := fn("B07", 30); err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}

	want := "Station B07 was probed at 30 cm by probe."
	if notes := r.Notes("survey"); notes != want {
		t.Errorf("Notes(survey) = %q, want %q", notes, want)
	}
}

func TestWrapLeavesUnknownFieldsVerbatim(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{Report: "Saw {mystery} and {return}."}

	fn := Wrap0(r, "t", doc, "noop", func() (string, error) { return "ok", nil })
	if _, err := fn(); err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}

	if notes := r.Notes("t"); notes != "Saw {mystery} and ok." {
		t.Errorf("Notes(t) = %q", notes)
	}
}

func TestObserveAllowsContributedFields(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{Report: "Removed {outliers} outliers from {args}."}

	_, err := Observe(r, "qa", doc, "clean", []any{"input.csv"}, func(p *format.Params) (int, error) {
		p.Set("outliers", 3)
		return 97, nil
	})
	if err != nil {
		t.Fatalf("Observe() error: %v", err)
	}

	want := "Removed 3 outliers from [input.csv]."
	if notes := r.Notes("qa"); notes != want {
		t.Errorf("Notes(qa) = %q, want %q", notes, want)
	}
}

// --- Failure handling ---

func TestWrapPropagatesErrorWithoutRecording(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{
		Report:     "Result: {return}.",
		References: []string{"10.5194/hess-27-723-2023"},
	}
	callErr := errors.New("boom")

	fn := Wrap1(r, "calc", doc, "fails", func(int) (int, error) {
		return 0, callErr
	})

	_, err := fn(1)
	if !errors.Is(err, callErr) {
		t.Fatalf("wrapped call error = %v, want %v", err, callErr)
	}
	if notes := r.Notes("calc"); notes != "" {
		t.Errorf("Notes(calc) = %q, want empty after failed call", notes)
	}
	if ids := r.store.DedupeIdentifiers(); len(ids) != 0 {
		t.Errorf("identifiers = %v, want none after failed call", ids)
	}
}

func TestWrapWithEmptyDocWarns(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(nil, logging.New(&buf, slog.LevelInfo))

	fn := Wrap0(r, "t", Doc{}, "undocumented", func() (int, error) { return 1, nil })
	if _, err := fn(); err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}

	if !strings.Contains(buf.String(), "undocumented") {
		t.Errorf("expected warning naming the function, got %q", buf.String())
	}
	if notes := r.Notes("t"); notes != "" {
		t.Errorf("Notes(t) = %q, want empty", notes)
	}
}

// --- References and layout ---

func TestWrapForwardsReferences(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{
		Report: "Done.",
		References: []string{
			"10.5194/hess-27-723-2023",
			"",
			"Brown et al. (1979)",
		},
	}

	fn := Wrap0(r, "t", doc, "documented", func() (int, error) { return 1, nil })
	if _, err := fn(); err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}

	if ids := r.store.DedupeIdentifiers(); len(ids) != 1 {
		t.Errorf("identifiers = %v, want 1", ids)
	}
	if refs := r.store.References(); len(refs) != 1 {
		t.Errorf("references = %v, want 1", refs)
	}
}

func TestJoinLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single newline collapses", "line one\nline two.", "line one line two."},
		{"paragraph break survives", "para one.\n\npara two.", "para one.\n\npara two."},
		{"mixed", "a\nb\n\nc\nd", "a b\n\nc d"},
		{"no newlines", "untouched", "untouched"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := joinLines(tt.in); got != tt.want {
				t.Errorf("joinLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrapCollapsesTemplateNewlines(t *testing.T) {
	r := NewRecorder(nil, nil)
	doc := Doc{Report: "The run took\n{return} seconds\nin total."}

	fn := Wrap0(r, "t", doc, "timed", func() (int, error) { return 12, nil })
	if _, err := fn(); err != nil {
		t.Fatalf("wrapped call error: %v", err)
	}

	want := "The run took 12 seconds in total."
	if notes := r.Notes("t"); notes != want {
		t.Errorf("Notes(t) = %q, want %q", notes, want)
	}
}
