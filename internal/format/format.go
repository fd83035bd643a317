// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format implements brace-placeholder text substitution that never
// fails: unknown fields are echoed back verbatim instead of raising an
// error, so a template can be partially filled and re-rendered later.
//
// Two entry points share one scanner. Format performs positional
// substitution ("{}", "{0}", "{:.2f}"); Substitute performs named
// substitution ("{name}", "{name:spec}") against a Params mapping. A
// positional pass leaves named fields untouched and vice versa, so the two
// syntaxes compose in a single template.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Params is a safe key/value mapping built per recorded call. Looking up a
// missing key yields the literal "{key}" placeholder rather than an error.
type Params struct {
	values map[string]any
}

// NewParams returns an empty mapping.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set stores value under key, replacing any previous value.
func (p *Params) Set(key string, value any) {
	p.values[key] = value
}

// Get returns the value for key and whether it is present.
func (p *Params) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Lookup returns the rendered value for key, or the literal "{key}"
// placeholder when the key is absent.
func (p *Params) Lookup(key string) string {
	if v, ok := p.values[key]; ok {
		return fmt.Sprint(v)
	}
	return "{" + key + "}"
}

// Len returns the number of stored keys.
func (p *Params) Len() int {
	return len(p.values)
}

// Format renders template with positional values: "{}" consumes the next
// value, "{0}" indexes explicitly, and "{:spec}" applies a format spec.
// Out-of-range fields are left verbatim. Doubled braces escape to literal
// braces. Named fields ("{x}") are not consumed; they survive for a later
// Substitute pass.
func Format(template string, values ...any) string {
	next := 0
	return render(template, func(name string) (any, bool) {
		if name == "" {
			if next >= len(values) {
				return nil, false
			}
			v := values[next]
			next++
			return v, true
		}
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 0 || idx >= len(values) {
			return nil, false
		}
		return values[idx], true
	})
}

// Substitute renders template against p: every "{name}" whose key exists is
// replaced; unknown placeholders stay as literal text, format spec included.
func Substitute(template string, p *Params) string {
	return render(template, func(name string) (any, bool) {
		if name == "" {
			return nil, false
		}
		return p.Get(name)
	})
}

// render scans template for "{field}" and "{field:spec}" placeholders and
// replaces each one whose field the lookup resolves. Unresolved
// placeholders are copied through unchanged.
func render(template string, lookup func(field string) (any, bool)) string {
	var b strings.Builder
	for i := 0; i < len(template); {
		c := template[i]

		if c == '{' {
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				b.WriteString(template[i:])
				break
			}
			field := template[i+1 : i+end]
			name, spec := field, ""
			if j := strings.IndexByte(field, ':'); j >= 0 {
				name, spec = field[:j], field[j+1:]
			}
			if v, ok := lookup(name); ok {
				b.WriteString(applySpec(spec, v))
			} else {
				b.WriteString(template[i : i+end+1])
			}
			i += end + 1
			continue
		}

		if c == '}' && i+1 < len(template) && template[i+1] == '}' {
			b.WriteByte('}')
			i += 2
			continue
		}

		b.WriteByte(c)
		i++
	}
	return b.String()
}

// applySpec renders v according to a format spec of the form
// [align][width][.precision][type]. Supported types: d f F e E g G x X o b
// s. An empty spec or any spec the value cannot satisfy falls back to plain
// "%v" rendering; substitution never fails on a bad spec.
func applySpec(spec string, v any) string {
	if spec == "" {
		return fmt.Sprint(v)
	}

	flag := ""
	if len(spec) > 0 && (spec[0] == '<' || spec[0] == '>' || spec[0] == '^') {
		if spec[0] == '<' {
			flag = "-"
		}
		spec = spec[1:]
	}

	width := ""
	for len(spec) > 0 && spec[0] >= '0' && spec[0] <= '9' {
		width += spec[:1]
		spec = spec[1:]
	}

	prec := ""
	if len(spec) > 0 && spec[0] == '.' {
		spec = spec[1:]
		for len(spec) > 0 && spec[0] >= '0' && spec[0] <= '9' {
			prec += spec[:1]
			spec = spec[1:]
		}
		prec = "." + prec
	}

	verb := "v"
	if len(spec) == 1 {
		switch spec[0] {
		case 'd', 'e', 'E', 'g', 'G', 'x', 'X', 'o', 'b', 's':
			verb = spec[:1]
		case 'f', 'F':
			verb = "f"
			if prec == "" {
				// Python defaults float precision to 6.
				prec = ".6"
			}
		default:
			return fmt.Sprint(v)
		}
	} else if len(spec) > 1 {
		// Leftover characters mean a spec form outside the subset.
		return fmt.Sprint(v)
	}

	if verb == "s" {
		v = fmt.Sprint(v)
	}

	out := fmt.Sprintf("%"+flag+width+prec+verb, v)
	if strings.Contains(out, "%!") {
		// Verb/value mismatch (e.g. "{:d}" with a string).
		return fmt.Sprint(v)
	}
	return out
}
