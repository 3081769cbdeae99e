// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"bytes"
	"io"
	"strings"
)

// escapeText writes character data with '&', '<', and '>' escaped.
func escapeText(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteByte(s[i])
		}
	}
}

// escapeAttr writes an attribute value with quotes escaped as well.
func escapeAttr(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&apos;")
		default:
			buf.WriteByte(s[i])
		}
	}
}

// serializerFrame tracks one open element for pretty printing: elements
// holding text keep their content untouched.
type serializerFrame struct {
	name     string
	hasText  bool
	hasChild bool
}

// Serializer maps the event stream back to bytes. It implements Source:
// output is a lazy sequence of byte slices, cut near the configured block
// size for use with chunked sinks.
type Serializer struct {
	stream Stream
	opts   *Options

	buf      bytes.Buffer
	stack    []serializerFrame
	held     *Event // pending start tag, for empty-element collapsing
	heldPref string
	wroteAny bool
	sawDecl  bool
	done     bool
	err      error
}

// NewSerializer returns a Serializer rendering s.
func NewSerializer(s Stream, opts ...Option) *Serializer {
	return NewSerializerOptions(s, NewOptions(opts...))
}

// NewSerializerOptions is NewSerializer with a prepared option set.
func NewSerializerOptions(s Stream, o *Options) *Serializer {
	return &Serializer{stream: s, opts: o}
}

// Bytes drains the stream and returns the full rendition.
func (s *Serializer) Bytes() ([]byte, error) {
	var out bytes.Buffer
	if _, err := s.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteTo drains the stream into w.
func (s *Serializer) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for {
		chunk, err := s.NextChunk()
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
		n, werr := w.Write(chunk)
		total += int64(n)
		if werr != nil {
			return total, werr
		}
	}
}

// NextChunk produces the next output slice, at least the configured block
// size except for the final piece.
func (s *Serializer) NextChunk() ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	blockSize := s.opts.BlockSize
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	for !s.done && s.buf.Len() < blockSize {
		var ev Event
		err := s.stream.Next(&ev)
		if err == io.EOF {
			s.done = true
			break
		}
		if err != nil {
			s.err = err
			return nil, err
		}
		if err := s.render(&ev); err != nil {
			s.err = err
			return nil, err
		}
	}
	if s.buf.Len() == 0 {
		s.err = io.EOF
		return nil, io.EOF
	}
	out := make([]byte, s.buf.Len())
	copy(out, s.buf.Bytes())
	s.buf.Reset()
	return out, nil
}

func (s *Serializer) indent(depth int) string {
	if !s.opts.Pretty {
		return ""
	}
	return strings.Repeat(s.opts.Indent, depth)
}

// breakBefore writes the pretty-printing line break and indentation ahead
// of a tag at the given depth, unless the enclosing element holds text.
func (s *Serializer) breakBefore(depth int) {
	if !s.opts.Pretty || !s.wroteAny {
		return
	}
	if depth > 0 && s.stack[depth-1].hasText {
		return
	}
	s.buf.WriteByte('\n')
	s.buf.WriteString(s.indent(depth))
}

// flushHeld completes the pending start tag, collapsed to an empty element
// when selfClose is set.
func (s *Serializer) flushHeld(selfClose bool) {
	if s.held == nil {
		return
	}
	s.buf.WriteString(s.heldPref)
	s.buf.WriteByte('<')
	s.buf.WriteString(s.held.Name.QName())
	for _, a := range s.held.Attrs {
		s.buf.WriteByte(' ')
		s.buf.WriteString(a.Name.QName())
		s.buf.WriteString(`="`)
		escapeAttr(&s.buf, a.Value)
		s.buf.WriteByte('"')
	}
	if selfClose {
		s.buf.WriteString("/>")
	} else {
		s.buf.WriteByte('>')
	}
	s.held = nil
	s.wroteAny = true
}

// writeDeclaration emits a generated XML declaration when the option asks
// for one and the stream carries no prolog of its own.
func (s *Serializer) writeDeclaration() {
	s.buf.WriteString(`<?xml version="1.0" encoding="UTF-8"`)
	switch s.opts.Standalone {
	case STANDALONE_YES:
		s.buf.WriteString(` standalone="yes"`)
	case STANDALONE_NO:
		s.buf.WriteString(` standalone="no"`)
	}
	s.buf.WriteString("?>")
	if s.opts.Pretty {
		s.buf.WriteByte('\n')
	}
	s.sawDecl = true
}

func (s *Serializer) render(ev *Event) error {
	// A generated declaration goes ahead of the first rendered content.
	switch ev.Type {
	case START_DOCUMENT_EVENT, PROLOG_EVENT, NAMESPACE_EVENT, ERROR_EVENT:
	default:
		if s.opts.XMLDeclaration && !s.sawDecl && !s.wroteAny && s.held == nil {
			s.writeDeclaration()
		}
	}

	switch ev.Type {
	case START_DOCUMENT_EVENT, END_DOCUMENT_EVENT:
		if ev.Type == END_DOCUMENT_EVENT {
			s.flushHeld(false)
			if s.opts.Pretty && s.wroteAny {
				s.buf.WriteByte('\n')
			}
		}
	case PROLOG_EVENT:
		s.sawDecl = true
		s.buf.WriteString("<?xml")
		for _, a := range ev.Attrs {
			s.buf.WriteByte(' ')
			s.buf.WriteString(a.Name.QName())
			s.buf.WriteString(`="`)
			escapeAttr(&s.buf, a.Value)
			s.buf.WriteByte('"')
		}
		s.buf.WriteString("?>")
		if s.opts.Pretty {
			s.buf.WriteByte('\n')
		}
	case DOCTYPE_EVENT:
		s.flushHeld(false)
		s.buf.WriteString("<!DOCTYPE ")
		s.buf.WriteString(ev.Value)
		s.buf.WriteByte('>')
		if s.opts.Pretty {
			s.buf.WriteByte('\n')
		}
		s.wroteAny = true
	case START_ELEMENT_EVENT:
		s.flushHeld(false)
		depth := len(s.stack)
		if depth > 0 {
			s.stack[depth-1].hasChild = true
		}
		var pref strings.Builder
		if s.opts.Pretty && s.wroteAny && (depth == 0 || !s.stack[depth-1].hasText) {
			pref.WriteByte('\n')
			pref.WriteString(s.indent(depth))
		}
		s.heldPref = pref.String()
		held := *ev
		s.held = &held
		s.stack = append(s.stack, serializerFrame{name: ev.Name.QName()})
	case END_ELEMENT_EVENT:
		if s.held != nil {
			s.flushHeld(true)
			s.stack = s.stack[:len(s.stack)-1]
			return nil
		}
		if len(s.stack) == 0 {
			return &SerializerError{Message: "close tag </" + ev.Name.QName() + "> without open element"}
		}
		frame := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		if s.opts.Pretty && frame.hasChild && !frame.hasText {
			s.buf.WriteByte('\n')
			s.buf.WriteString(s.indent(len(s.stack)))
		}
		s.buf.WriteString("</")
		s.buf.WriteString(ev.Name.QName())
		s.buf.WriteByte('>')
		s.wroteAny = true
	case CHARACTERS_EVENT:
		s.flushHeld(false)
		if len(s.stack) > 0 {
			s.stack[len(s.stack)-1].hasText = true
		}
		escapeText(&s.buf, ev.Value)
		s.wroteAny = true
	case SPACE_EVENT:
		// The pretty printer re-derives inter-element whitespace.
		if s.opts.Pretty {
			return nil
		}
		s.flushHeld(false)
		s.buf.WriteString(ev.Value)
		s.wroteAny = true
	case CDATA_EVENT:
		s.flushHeld(false)
		if len(s.stack) > 0 {
			s.stack[len(s.stack)-1].hasText = true
		}
		s.buf.WriteString("<![CDATA[")
		s.buf.WriteString(ev.Value)
		s.buf.WriteString("]]>")
		s.wroteAny = true
	case COMMENT_EVENT:
		s.flushHeld(false)
		s.breakBefore(len(s.stack))
		if len(s.stack) > 0 {
			s.stack[len(s.stack)-1].hasChild = true
		}
		s.buf.WriteString("<!--")
		s.buf.WriteString(ev.Value)
		s.buf.WriteString("-->")
		s.wroteAny = true
	case PI_EVENT:
		s.flushHeld(false)
		s.breakBefore(len(s.stack))
		if len(s.stack) > 0 {
			s.stack[len(s.stack)-1].hasChild = true
		}
		s.buf.WriteString("<?")
		s.buf.WriteString(ev.Target)
		if ev.Value != "" {
			s.buf.WriteByte(' ')
			s.buf.WriteString(ev.Value)
		}
		s.buf.WriteString("?>")
		s.wroteAny = true
	case NAMESPACE_EVENT, ERROR_EVENT, NO_EVENT:
		// Ambient and diagnostic events have no byte form.
	}
	return nil
}
