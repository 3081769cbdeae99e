// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"fmt"
	"strings"
)

// EventType identifies the kind of an Event.
type EventType int8

// Event types.
const (
	// An empty event.
	NO_EVENT EventType = iota

	START_DOCUMENT_EVENT // Brackets the stream, always first.
	END_DOCUMENT_EVENT   // Brackets the stream, always last.

	PROLOG_EVENT  // The XML declaration.
	DOCTYPE_EVENT // The raw DOCTYPE text, parsed later by the DTD stage.

	START_ELEMENT_EVENT
	END_ELEMENT_EVENT

	CHARACTERS_EVENT // Text with at least one non-whitespace character.
	SPACE_EVENT      // Whitespace-only inter-element text.
	CDATA_EVENT
	COMMENT_EVENT
	PI_EVENT

	NAMESPACE_EVENT // Ambient scope snapshot, emitted before each start tag.
	ERROR_EVENT
)

var eventStrings = []string{
	NO_EVENT:             "none",
	START_DOCUMENT_EVENT: "start document",
	END_DOCUMENT_EVENT:   "end document",
	PROLOG_EVENT:         "prolog",
	DOCTYPE_EVENT:        "doctype",
	START_ELEMENT_EVENT:  "start element",
	END_ELEMENT_EVENT:    "end element",
	CHARACTERS_EVENT:     "characters",
	SPACE_EVENT:          "space",
	CDATA_EVENT:          "cdata",
	COMMENT_EVENT:        "comment",
	PI_EVENT:             "processing instruction",
	NAMESPACE_EVENT:      "namespace context",
	ERROR_EVENT:          "error",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventStrings) {
		return fmt.Sprintf("unknown event %d", e)
	}
	return eventStrings[e]
}

// Mark describes a position in the logical (post-normalization) input.
type Mark struct {
	Line      int // 1-based line counter, incremented on each LF.
	LineStart int // Byte offset following the most recent LF.
	Offset    int // Absolute byte offset from the start of logical input.
}

// Column derives the 0-based column from the offset and line start.
func (m Mark) Column() int {
	return m.Offset - m.LineStart
}

func (m Mark) String() string {
	return fmt.Sprintf("line %d, column %d", m.Line, m.Column())
}

// Name is an XML name. Before namespace resolution only Prefix and Local are
// populated, split at the first colon of the qualified name. The resolve mode
// of the namespace tracker fills Space with the bound URI.
type Name struct {
	Space  string // Namespace URI, empty until resolved.
	Prefix string // Declared prefix, empty for unprefixed names.
	Local  string
}

// QName returns the name as it appeared in the document.
func (n Name) QName() string {
	if n.Prefix == "" {
		return n.Local
	}
	return n.Prefix + ":" + n.Local
}

func (n Name) String() string {
	if n.Space != "" {
		return "{" + n.Space + "}" + n.Local
	}
	return n.QName()
}

// splitName splits a qualified name at its first colon.
func splitName(qname string) Name {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return Name{Prefix: qname[:i], Local: qname[i+1:]}
	}
	return Name{Local: qname}
}

// Attr is a single attribute. Order is preserved as written; values hold the
// literal bytes between the quotes until the entity resolver rewrites them.
type Attr struct {
	Name  Name
	Value string
}

// Binding is one prefix/URI pair of a namespace scope. The default namespace
// uses an empty prefix.
type Binding struct {
	Prefix string
	URI    string
}

// Event is the canonical stream record. A single struct carries every kind;
// Type selects which fields are meaningful.
type Event struct {
	Type EventType

	// The start and end of the event in the logical input. Document
	// bracketing events carry zero marks.
	Start, End Mark

	// The element name (for START_ELEMENT_EVENT, END_ELEMENT_EVENT).
	Name Name

	// The target (for PROLOG_EVENT, PI_EVENT).
	Target string

	// The text payload (for CHARACTERS_EVENT, SPACE_EVENT, CDATA_EVENT,
	// COMMENT_EVENT, PI_EVENT data, and the raw DOCTYPE_EVENT literal).
	Value string

	// The attribute list (for START_ELEMENT_EVENT, PROLOG_EVENT), in
	// document order.
	Attrs []Attr

	// The scope in effect (for NAMESPACE_EVENT).
	Bindings []Binding

	// The diagnostic (for ERROR_EVENT).
	Err *Error
}

// Attr returns the value of the named attribute and whether it is present.
func (e *Event) Attr(qname string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.QName() == qname {
			return a.Value, true
		}
	}
	return "", false
}

// String renders a compact single-line form of the event, used by the CLI
// event dump and by tests.
func (e *Event) String() string {
	var b strings.Builder
	switch e.Type {
	case START_DOCUMENT_EVENT:
		b.WriteString("+DOC")
	case END_DOCUMENT_EVENT:
		b.WriteString("-DOC")
	case PROLOG_EVENT:
		b.WriteString("=XML")
		for _, a := range e.Attrs {
			fmt.Fprintf(&b, " %s=%q", a.Name.QName(), a.Value)
		}
	case DOCTYPE_EVENT:
		fmt.Fprintf(&b, "=DTD %q", e.Value)
	case START_ELEMENT_EVENT:
		b.WriteString("+ELE " + e.Name.String())
		for _, a := range e.Attrs {
			fmt.Fprintf(&b, " %s=%q", a.Name.String(), a.Value)
		}
	case END_ELEMENT_EVENT:
		b.WriteString("-ELE " + e.Name.String())
	case CHARACTERS_EVENT:
		fmt.Fprintf(&b, "=CHR %q", e.Value)
	case SPACE_EVENT:
		fmt.Fprintf(&b, "=SPC %q", e.Value)
	case CDATA_EVENT:
		fmt.Fprintf(&b, "=CDA %q", e.Value)
	case COMMENT_EVENT:
		fmt.Fprintf(&b, "=REM %q", e.Value)
	case PI_EVENT:
		fmt.Fprintf(&b, "=PI_ %s %q", e.Target, e.Value)
	case NAMESPACE_EVENT:
		b.WriteString("=NS_")
		for _, bind := range e.Bindings {
			if bind.Prefix == "" {
				fmt.Fprintf(&b, " xmlns=%q", bind.URI)
			} else {
				fmt.Fprintf(&b, " xmlns:%s=%q", bind.Prefix, bind.URI)
			}
		}
	case ERROR_EVENT:
		fmt.Fprintf(&b, "!ERR %s", e.Err)
	default:
		b.WriteString(e.Type.String())
	}
	return b.String()
}

// DumpEvents renders a stream one event per line.
func DumpEvents(events []Event) string {
	var b strings.Builder
	for i := range events {
		b.WriteString(events[i].String())
		b.WriteByte('\n')
	}
	return b.String()
}
