// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package record

import (
	"regexp"
	"strings"

	"github.com/pdiddy/fieldnotes/internal/format"
)

// Doc describes what a wrapped function reports. It is attached explicitly
// at the wrap site instead of being parsed out of prose documentation, so
// the template and the exposed fields are visible and testable.
type Doc struct {
	// Params names the positional arguments, in order. Each named argument
	// becomes a "{name}" field available to the Report template.
	Params []string

	// Report is the note template. Besides the Params names it can use the
	// reserved fields "{function}", "{args}", "{return}", and any field the
	// function itself sets on its *format.Params. Single newlines collapse
	// to spaces when the note is recorded; blank lines remain paragraph
	// breaks.
	Report string

	// References lists citation lines forwarded to Cite after a successful
	// call. Blank lines are skipped.
	References []string
}

func (d Doc) empty() bool {
	return d.Report == "" && len(d.References) == 0
}

// Observe invokes fn while capturing a report for topic. The per-call
// mapping starts with "function", "args", and the Doc.Params-named
// arguments; fn receives it and may contribute further fields. When fn
// fails, the error propagates unchanged and nothing is recorded — the
// mapping, any contributed fields included, is discarded. On success
// "return" is set, the Doc's Report template is rendered through the safe
// formatter, and the note and references land in the Recorder.
func Observe[R any](r *Recorder, topic string, doc Doc, name string, args []any, fn func(p *format.Params) (R, error)) (R, error) {
	p := format.NewParams()
	p.Set("function", name)
	p.Set("args", args)
	for i, argName := range doc.Params {
		if i < len(args) {
			p.Set(argName, args[i])
		}
	}

	result, err := fn(p)
	if err != nil {
		return result, err
	}

	p.Set("return", result)
	r.recordDoc(topic, doc, name, p)
	return result, nil
}

// Wrap0 wraps a niladic function so each successful call reports to topic.
func Wrap0[R any](r *Recorder, topic string, doc Doc, name string, fn func() (R, error)) func() (R, error) {
	return func() (R, error) {
		return Observe(r, topic, doc, name, nil, func(*format.Params) (R, error) {
			return fn()
		})
	}
}

// Wrap1 wraps a one-argument function so each successful call reports to
// topic. The call result is returned unchanged.
func Wrap1[A, R any](r *Recorder, topic string, doc Doc, name string, fn func(A) (R, error)) func(A) (R, error) {
	return func(a A) (R, error) {
		return Observe(r, topic, doc, name, []any{a}, func(*format.Params) (R, error) {
			return fn(a)
		})
	}
}

// Wrap2 wraps a two-argument function so each successful call reports to
// topic.
func Wrap2[A, B, R any](r *Recorder, topic string, doc Doc, name string, fn func(A, B) (R, error)) func(A, B) (R, error) {
	return func(a A, b B) (R, error) {
		return Observe(r, topic, doc, name, []any{a, b}, func(*format.Params) (R, error) {
			return fn(a, b)
		})
	}
}

// recordDoc renders doc against the finished per-call mapping and records
// the result. An empty doc only logs a warning; the call itself already
// succeeded.
func (r *Recorder) recordDoc(topic string, doc Doc, name string, p *format.Params) {
	if doc.empty() {
		r.log.Warning("no report documentation for function %s", name)
		return
	}

	if doc.Report != "" {
		text := format.Substitute(doc.Report, p)
		r.Report(topic, TextNote(joinLines(text)))
	}

	for _, line := range doc.References {
		if strings.TrimSpace(line) != "" {
			r.Cite(line)
		}
	}
}

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// joinLines collapses single newlines to spaces so a wrapped template reads
// as prose, while blank-line paragraph breaks survive. RE2 has no
// lookarounds, so paragraph breaks are parked on a placeholder byte first.
func joinLines(s string) string {
	s = paragraphBreak.ReplaceAllString(s, "\x00")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\x00", "\n\n")
}
