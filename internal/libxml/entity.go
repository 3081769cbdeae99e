// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// predefinedEntities are always resolvable, DTD or not.
var predefinedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// ModelProvider yields the DTD model once the DOCTYPE event has passed.
// *DTDStage implements it; StaticModel adapts a fixed model.
type ModelProvider interface {
	Model() *DTD
}

// StaticModel is a ModelProvider over a fixed DTD (nil for none).
type StaticModel struct {
	DTD *DTD
}

func (s StaticModel) Model() *DTD { return s.DTD }

// expansionBudget is shared between a resolver and the nested resolvers it
// spawns for markup-containing expansions, so the limits are global to the
// document.
type expansionBudget struct {
	total int
	max   int
}

// EntityResolver rewrites entity references in character data and attribute
// values: predefined, numeric, and DTD-declared named entities. A
// DTD-declared expansion containing markup is re-parsed through a nested
// tokenizer and its events spliced into the stream.
type EntityResolver struct {
	stream Stream
	models ModelProvider
	opts   *Options

	budget  *expansionBudget
	depth   int             // base nesting depth, non-zero in nested instances
	active  map[string]bool // names currently being expanded, for cycle detection
	pending eventQueue
	ended   bool // terminated by an exhausted budget
}

// NewEntityResolver wraps s with entity resolution against the model
// provider (which may be nil when no DTD entities are expected).
func NewEntityResolver(s Stream, models ModelProvider, opts ...Option) *EntityResolver {
	return NewEntityResolverOptions(s, models, NewOptions(opts...))
}

// NewEntityResolverOptions is NewEntityResolver with a prepared option set.
func NewEntityResolverOptions(s Stream, models ModelProvider, o *Options) *EntityResolver {
	return &EntityResolver{
		stream: s,
		models: models,
		opts:   o,
		budget: &expansionBudget{max: o.MaxTotalExpansion},
		active: make(map[string]bool),
	}
}

func (r *EntityResolver) model() *DTD {
	if r.models == nil {
		return nil
	}
	return r.models.Model()
}

func (r *EntityResolver) Next(ev *Event) error {
	for {
		if r.pending.pop(ev) {
			return nil
		}
		if r.ended {
			return io.EOF
		}
		if err := r.stream.Next(ev); err != nil {
			return err
		}
		switch ev.Type {
		case CHARACTERS_EVENT:
			if strings.IndexByte(ev.Value, '&') < 0 {
				return nil
			}
			if err := r.resolveText(ev); err != nil {
				return err
			}
		case START_ELEMENT_EVENT:
			if err := r.resolveAttrs(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// fail applies the validator error policy to a recoverable entity error.
// With RAISE_ON_ERROR the diagnostic becomes the stream's terminal error;
// otherwise it is queued as an event.
func (r *EntityResolver) fail(err *Error) error {
	if r.opts.OnError == RAISE_ON_ERROR {
		return err
	}
	r.pending.push(errorEvent(err))
	return nil
}

// fatal emits the diagnostic and stops further expansion: the stream closes
// right after the error.
func (r *EntityResolver) fatal(err *Error) {
	r.pending.push(errorEvent(err))
	r.pending.push(Event{Type: END_DOCUMENT_EVENT})
	r.ended = true
}

// charge draws n bytes from the document-wide expansion budget.
func (r *EntityResolver) charge(n int, mark Mark) *Error {
	r.budget.total += n
	if r.budget.total > r.budget.max {
		return newError(ErrExpansionSize, mark, "entity expansion exceeds %d bytes", r.budget.max)
	}
	return nil
}

// resolveText expands references in a CHARACTERS_EVENT, queueing the
// resulting events (text segments and any spliced markup).
func (r *EntityResolver) resolveText(ev *Event) error {
	text := ev.Value
	var buf strings.Builder
	var segments []Event

	flush := func() {
		if buf.Len() > 0 {
			segments = append(segments, Event{Type: CHARACTERS_EVENT, Start: ev.Start, End: ev.End, Value: buf.String()})
			buf.Reset()
		}
	}

	i := 0
	for i < len(text) {
		c := text[i]
		if c != '&' {
			buf.WriteByte(c)
			i++
			continue
		}
		ref, ok := scanReference(text[i:])
		if !ok {
			if err := r.fail(newError(ErrBareAmpersand, ev.Start, "'&' is not followed by an entity reference")); err != nil {
				return err
			}
			buf.WriteByte('&')
			i++
			continue
		}
		consumed := len(ref) + 2 // '&' ... ';'
		i += consumed

		if ref[0] == '#' {
			rn, cerr := parseCharRef(ref, ev.Start)
			if cerr != nil {
				if err := r.fail(cerr); err != nil {
					return err
				}
				buf.WriteString("&" + ref + ";")
				continue
			}
			buf.WriteRune(rn)
			continue
		}
		if val, ok := predefinedEntities[ref]; ok {
			buf.WriteString(val)
			continue
		}

		def, declared := r.model().Entity(ref)
		if !declared || !def.Internal {
			if err := r.unknown(ref, ev.Start, &buf); err != nil {
				return err
			}
			continue
		}

		expansion, spliced, xerr := r.expandEntity(ref, def.Value, r.depth+1, ev.Start)
		if xerr != nil {
			if xerr.Kind.Fatal() {
				r.queue(segments)
				flush = nil
				r.fatal(xerr)
				return nil
			}
			if err := r.fail(xerr); err != nil {
				return err
			}
			continue
		}
		if spliced != nil {
			flush()
			segments = append(segments, spliced...)
			continue
		}
		buf.WriteString(expansion)
	}
	if flush != nil {
		flush()
		r.queue(segments)
	}
	return nil
}

func (r *EntityResolver) queue(events []Event) {
	for _, ev := range events {
		r.pending.push(ev)
	}
}

// unknown applies the unresolved-entity policy.
func (r *EntityResolver) unknown(ref string, mark Mark, buf *strings.Builder) error {
	err := newError(ErrUnknownEntity, mark, "reference to undeclared entity %q", ref)
	switch r.opts.OnUnknownEntity {
	case RAISE_UNKNOWN_ENTITY:
		return err
	case EMIT_UNKNOWN_ENTITY:
		r.pending.push(errorEvent(err))
		buf.WriteString("&" + ref + ";")
	case KEEP_UNKNOWN_ENTITY:
		buf.WriteString("&" + ref + ";")
	case REMOVE_UNKNOWN_ENTITY:
	}
	return nil
}

// expandEntity produces the replacement for one named entity: either plain
// text, or a spliced event sequence when the expansion contains markup.
// Character references inside the expansion are expanded first.
func (r *EntityResolver) expandEntity(name, literal string, depth int, mark Mark) (string, []Event, *Error) {
	if depth > r.opts.MaxExpansionDepth {
		return "", nil, newError(ErrExpansionDepth, mark, "entity expansion deeper than %d", r.opts.MaxExpansionDepth)
	}
	if r.active[name] {
		return "", nil, newError(ErrCyclicEntity, mark, "entity %q expands through itself", name)
	}
	if err := r.charge(len(literal), mark); err != nil {
		return "", nil, err
	}

	r.active[name] = true
	defer delete(r.active, name)

	// First pass: character references only.
	text, cerr := expandCharRefs(literal, mark)
	if cerr != nil {
		return "", nil, cerr
	}

	if strings.IndexByte(text, '<') >= 0 {
		events, serr := r.splice(text, depth, mark)
		if serr != nil {
			return "", nil, serr
		}
		return "", events, nil
	}

	// Plain text: nested named references expand recursively.
	var buf strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		if c != '&' {
			buf.WriteByte(c)
			i++
			continue
		}
		ref, ok := scanReference(text[i:])
		if !ok {
			return "", nil, newError(ErrBareAmpersand, mark, "'&' in expansion of %q is not a reference", name)
		}
		i += len(ref) + 2
		if val, ok := predefinedEntities[ref]; ok {
			buf.WriteString(val)
			continue
		}
		def, declared := r.model().Entity(ref)
		if !declared || !def.Internal {
			return "", nil, newError(ErrUnknownEntity, mark, "entity %q references undeclared entity %q", name, ref)
		}
		nested, spliced, nerr := r.expandEntity(ref, def.Value, depth+1, mark)
		if nerr != nil {
			return "", nil, nerr
		}
		if spliced != nil {
			return "", nil, newError(ErrMalformedDecl, mark, "entity %q mixes markup into text context", ref)
		}
		buf.WriteString(nested)
	}
	return buf.String(), nil, nil
}

// splice re-parses a markup-containing expansion through a nested tokenizer
// chained with a nested resolver, and returns its events with the document
// bracketing stripped. The nested resolver shares this one's budget and
// active set, so limits and cycles span the splice.
func (r *EntityResolver) splice(text string, depth int, mark Mark) ([]Event, *Error) {
	nested := &EntityResolver{
		stream: NewTokenizerOptions(NewBytesSource([]byte(text)), r.opts),
		models: r.models,
		opts:   r.opts,
		budget: r.budget,
		depth:  depth,
		active: r.active,
	}
	var events []Event
	for {
		var ev Event
		err := nested.Next(&ev)
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			if e, ok := err.(*Error); ok {
				return nil, e
			}
			return nil, newError(ErrMalformedDecl, mark, "re-parsing entity expansion: %s", err)
		}
		switch ev.Type {
		case START_DOCUMENT_EVENT, END_DOCUMENT_EVENT:
			continue
		case ERROR_EVENT:
			if ev.Err.Kind.Fatal() {
				return nil, ev.Err
			}
		}
		// Locations inside an expansion refer to the reference site.
		ev.Start, ev.End = mark, mark
		events = append(events, ev)
	}
}

// resolveAttrs expands references in attribute values. Markup never splices
// in attribute context: an expansion containing '<' is an error.
func (r *EntityResolver) resolveAttrs(ev *Event) error {
	for idx := range ev.Attrs {
		value := ev.Attrs[idx].Value
		if strings.IndexByte(value, '&') < 0 {
			continue
		}
		var buf strings.Builder
		i := 0
		for i < len(value) {
			c := value[i]
			if c != '&' {
				buf.WriteByte(c)
				i++
				continue
			}
			ref, ok := scanReference(value[i:])
			if !ok {
				if err := r.fail(newError(ErrBareAmpersand, ev.Start, "'&' in attribute %q is not a reference", ev.Attrs[idx].Name.QName())); err != nil {
					return err
				}
				buf.WriteByte('&')
				i++
				continue
			}
			i += len(ref) + 2

			if ref[0] == '#' {
				rn, cerr := parseCharRef(ref, ev.Start)
				if cerr != nil {
					if err := r.fail(cerr); err != nil {
						return err
					}
					buf.WriteString("&" + ref + ";")
					continue
				}
				buf.WriteRune(rn)
				continue
			}
			if val, ok := predefinedEntities[ref]; ok {
				buf.WriteString(val)
				continue
			}
			def, declared := r.model().Entity(ref)
			if !declared || !def.Internal {
				if err := r.unknown(ref, ev.Start, &buf); err != nil {
					return err
				}
				continue
			}
			expansion, spliced, xerr := r.expandEntity(ref, def.Value, r.depth+1, ev.Start)
			if xerr != nil {
				if xerr.Kind.Fatal() {
					r.fatal(xerr)
					return nil
				}
				if err := r.fail(xerr); err != nil {
					return err
				}
				continue
			}
			if spliced != nil || strings.IndexByte(expansion, '<') >= 0 {
				if err := r.fail(newError(ErrLtInAttributeValue, ev.Start, "entity %q expands to '<' in attribute value", ref)); err != nil {
					return err
				}
				continue
			}
			buf.WriteString(expansion)
		}
		ev.Attrs[idx].Value = buf.String()
	}
	r.pending.push(*ev)
	return nil
}

// scanReference recognizes '&name;' and '&#...;' at the start of s and
// returns the reference body. Anything else is a bare ampersand.
func scanReference(s string) (string, bool) {
	// s[0] is '&'.
	end := strings.IndexByte(s, ';')
	if end < 2 {
		return "", false
	}
	body := s[1:end]
	if body[0] == '#' {
		return body, true
	}
	for i, r := range body {
		if i == 0 && !isNameStartChar(r, EDITION_5) {
			return "", false
		}
		if i > 0 && !isNameChar(r, EDITION_5) {
			return "", false
		}
	}
	return body, true
}

// parseCharRef decodes a '#N' or '#xH' reference body to its scalar value.
func parseCharRef(body string, mark Mark) (rune, *Error) {
	digits := body[1:]
	base := 10
	if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
		base = 16
		digits = digits[1:]
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, newError(ErrInvalidCharRef, mark, "malformed character reference &%s;", body)
	}
	r := rune(n)
	if !utf8.ValidRune(r) || !isChar(r) {
		return 0, newError(ErrInvalidCharRef, mark, "character reference &%s; is not a legal XML character", body)
	}
	return r, nil
}

// expandCharRefs rewrites only numeric character references in s.
func expandCharRefs(s string, mark Mark) (string, *Error) {
	if strings.Index(s, "&#") < 0 {
		return s, nil
	}
	var buf strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '&' || i+1 >= len(s) || s[i+1] != '#' {
			buf.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 0 {
			buf.WriteByte(s[i])
			i++
			continue
		}
		body := s[i+1 : i+end]
		r, err := parseCharRef(body, mark)
		if err != nil {
			return "", err
		}
		buf.WriteRune(r)
		i += end + 1
	}
	return buf.String(), nil
}
