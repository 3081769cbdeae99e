// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Canonical XML rendering: byte-deterministic output for logically
// equivalent documents. Implements Canonical XML 1.0 and Exclusive XML
// Canonicalization, each with and without comments.

package libxml

import (
	"bytes"
	"io"
	"sort"

	"go.xmlstream.in/xmlstream/internal/sortattr"
)

// Canonicalizer renders a raw (namespace-unresolved) event stream in
// canonical form: attributes sorted, double quotes, empty elements
// expanded, comments removed unless kept, line endings LF only.
type Canonicalizer struct {
	stream       Stream
	exclusive    bool
	withComments bool

	buf      bytes.Buffer
	known    []map[string]string // declarations, one scope per open element
	rendered []map[string]string // declarations written to the output
	names    []string            // open element QNames
	rootDone bool
}

// NewCanonicalizer wraps s for canonical rendering per the options' C14N
// mode.
func NewCanonicalizer(s Stream, o *Options) *Canonicalizer {
	return &Canonicalizer{
		stream:       s,
		exclusive:    o.C14N == C14N_EXCLUSIVE,
		withComments: o.C14NComments,
	}
}

// Bytes drains the stream and returns the canonical form. An in-stream
// error event aborts with its diagnostic: canonical output is only defined
// over well-formed input.
func (c *Canonicalizer) Bytes() ([]byte, error) {
	for {
		var ev Event
		err := c.stream.Next(&ev)
		if err == io.EOF {
			return c.buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		if err := c.render(&ev); err != nil {
			return nil, err
		}
	}
}

func (c *Canonicalizer) render(ev *Event) error {
	switch ev.Type {
	case ERROR_EVENT:
		return ev.Err
	case START_ELEMENT_EVENT:
		c.startElement(ev)
	case END_ELEMENT_EVENT:
		if len(c.names) == 0 {
			return &SerializerError{Message: "canonicalizer: unbalanced close tag"}
		}
		c.buf.WriteString("</")
		c.buf.WriteString(c.names[len(c.names)-1])
		c.buf.WriteByte('>')
		c.names = c.names[:len(c.names)-1]
		c.known = c.known[:len(c.known)-1]
		c.rendered = c.rendered[:len(c.rendered)-1]
		if len(c.names) == 0 {
			c.rootDone = true
		}
	case CHARACTERS_EVENT, CDATA_EVENT:
		// CDATA sections canonicalize to their escaped text form.
		if len(c.names) > 0 {
			c14nEscapeText(&c.buf, ev.Value)
		}
	case SPACE_EVENT:
		if len(c.names) > 0 {
			c14nEscapeText(&c.buf, ev.Value)
		}
	case COMMENT_EVENT:
		if !c.withComments {
			return nil
		}
		c.outsideBreakBefore()
		c.buf.WriteString("<!--")
		c.buf.WriteString(ev.Value)
		c.buf.WriteString("-->")
		c.outsideBreakAfter()
	case PI_EVENT:
		c.outsideBreakBefore()
		c.buf.WriteString("<?")
		c.buf.WriteString(ev.Target)
		if ev.Value != "" {
			c.buf.WriteByte(' ')
			c.buf.WriteString(ev.Value)
		}
		c.buf.WriteString("?>")
		c.outsideBreakAfter()
	case PROLOG_EVENT, DOCTYPE_EVENT:
		// The declaration and the DTD are dropped from canonical form.
	}
	return nil
}

// Comments and processing instructions outside the document element are
// separated from it by line feeds.
func (c *Canonicalizer) outsideBreakBefore() {
	if len(c.names) == 0 && c.rootDone {
		c.buf.WriteByte('\n')
	}
}

func (c *Canonicalizer) outsideBreakAfter() {
	if len(c.names) == 0 && !c.rootDone {
		c.buf.WriteByte('\n')
	}
}

// lookup walks a scope stack for the nearest binding of prefix.
func lookupScopes(scopes []map[string]string, prefix string) (string, bool) {
	for i := len(scopes) - 1; i >= 0; i-- {
		if uri, ok := scopes[i][prefix]; ok {
			return uri, ok
		}
	}
	return "", false
}

func (c *Canonicalizer) startElement(ev *Event) {
	// The names declared by this element, and the prefixes it visibly
	// uses (its own and its non-declaration attributes').
	decls := map[string]string{}
	visiblyUsed := map[string]bool{ev.Name.Prefix: true}
	var plainAttrs []Attr
	for _, attr := range ev.Attrs {
		if prefix, isDecl := declaredPrefix(attr.Name); isDecl {
			decls[prefix] = attr.Value
			continue
		}
		if attr.Name.Prefix != "" {
			visiblyUsed[attr.Name.Prefix] = true
		}
		plainAttrs = append(plainAttrs, attr)
	}
	c.known = append(c.known, decls)

	// Decide which namespace declarations to write on this element.
	toRender := map[string]string{}
	if c.exclusive {
		for prefix := range visiblyUsed {
			uri, declared := lookupScopes(c.known, prefix)
			renderedURI, rendered := lookupScopes(c.rendered, prefix)
			if prefix == "" {
				// xmlns="" is written only to cancel a rendered
				// non-empty default.
				if !declared || uri == "" {
					if rendered && renderedURI != "" {
						toRender[""] = ""
					}
					continue
				}
			} else if !declared {
				continue // undeclared prefix; the validator's concern
			}
			if !rendered || renderedURI != uri {
				toRender[prefix] = uri
			}
		}
	} else {
		// Inclusive canonical form: every in-scope declaration is
		// written at its first point of visibility or value change.
		inScope := map[string]string{}
		for _, scope := range c.known {
			for prefix, uri := range scope {
				if prefix == "" && uri == "" {
					delete(inScope, "")
					continue
				}
				inScope[prefix] = uri
			}
		}
		for prefix, uri := range inScope {
			renderedURI, rendered := lookupScopes(c.rendered, prefix)
			if !rendered || renderedURI != uri {
				toRender[prefix] = uri
			}
		}
		if renderedURI, rendered := lookupScopes(c.rendered, ""); rendered && renderedURI != "" {
			if _, stillBound := inScope[""]; !stillBound {
				toRender[""] = ""
			}
		}
	}
	c.rendered = append(c.rendered, toRender)

	// Assemble and sort the attribute axis: declarations first by prefix,
	// then attributes by (URI, local).
	sorted := sortattr.SortAttr{
		Lookup: func(prefix string) string {
			uri, _ := lookupScopes(c.known, prefix)
			return uri
		},
	}
	for prefix, uri := range toRender {
		if prefix == "" {
			sorted.Attrs = append(sorted.Attrs, sortattr.Attr{Local: "xmlns", Value: uri})
		} else {
			sorted.Attrs = append(sorted.Attrs, sortattr.Attr{Prefix: "xmlns", Local: prefix, Value: uri})
		}
	}
	for _, attr := range plainAttrs {
		sorted.Attrs = append(sorted.Attrs, sortattr.Attr{Prefix: attr.Name.Prefix, Local: attr.Name.Local, Value: attr.Value})
	}
	sort.Sort(sorted)

	qname := ev.Name.QName()
	c.buf.WriteByte('<')
	c.buf.WriteString(qname)
	for _, attr := range sorted.Attrs {
		c.buf.WriteByte(' ')
		if attr.Prefix != "" {
			c.buf.WriteString(attr.Prefix)
			c.buf.WriteByte(':')
		}
		c.buf.WriteString(attr.Local)
		c.buf.WriteString(`="`)
		c14nEscapeAttr(&c.buf, attr.Value)
		c.buf.WriteByte('"')
	}
	c.buf.WriteByte('>')
	c.names = append(c.names, qname)
}

// c14nEscapeText escapes character data per the canonical rules: '&', '<',
// '>', and CR as an uppercase hexadecimal character reference.
func c14nEscapeText(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteByte(s[i])
		}
	}
}

// c14nEscapeAttr escapes attribute values: '&', '<', '"', and the
// whitespace characters as character references.
func c14nEscapeAttr(buf *bytes.Buffer, s string) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '"':
			buf.WriteString("&quot;")
		case '\t':
			buf.WriteString("&#x9;")
		case '\n':
			buf.WriteString("&#xA;")
		case '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteByte(s[i])
		}
	}
}
