// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"sort"
	"strings"
)

// Reserved namespace names per Namespaces in XML 1.0.
const (
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"
)

// nsScope is one element's namespace declarations: a delta over the
// enclosing scope. A present empty-string URI undeclares the prefix (only
// legal for the default namespace).
type nsScope map[string]string

// NamespaceTracker maintains the scoped prefix binding stack across the
// stream. In validate mode it checks declarations and prefixes; in resolve
// mode it additionally rewrites element and attribute names as (URI, local)
// pairs. It trusts well-formedness: mismatched nesting is the well_formed
// validator's concern.
type NamespaceTracker struct {
	stream Stream
	opts   *Options

	scopes  []nsScope
	pending eventQueue
}

// NewNamespaceTracker wraps s with namespace processing.
func NewNamespaceTracker(s Stream, opts ...Option) *NamespaceTracker {
	return NewNamespaceTrackerOptions(s, NewOptions(opts...))
}

// NewNamespaceTrackerOptions is NewNamespaceTracker with a prepared option
// set.
func NewNamespaceTrackerOptions(s Stream, o *Options) *NamespaceTracker {
	return &NamespaceTracker{stream: s, opts: o}
}

// lookup walks the scope stack top-down for a prefix binding. The xml
// prefix is preseeded and never overridden.
func (n *NamespaceTracker) lookup(prefix string) (string, bool) {
	if prefix == "xml" {
		return XMLNamespace, true
	}
	for i := len(n.scopes) - 1; i >= 0; i-- {
		if uri, ok := n.scopes[i][prefix]; ok {
			if uri == "" {
				return "", false // explicitly undeclared
			}
			return uri, true
		}
	}
	return "", false
}

func (n *NamespaceTracker) validate() bool {
	return n.opts.Namespaces == NAMESPACES_VALIDATE || n.opts.Namespaces == NAMESPACES_BOTH
}

func (n *NamespaceTracker) resolve() bool {
	return n.opts.Namespaces == NAMESPACES_RESOLVE || n.opts.Namespaces == NAMESPACES_BOTH
}

func (n *NamespaceTracker) fail(err *Error) error {
	if n.opts.OnError == RAISE_ON_ERROR {
		return err
	}
	n.pending.push(errorEvent(err))
	return nil
}

func (n *NamespaceTracker) Next(ev *Event) error {
	for {
		if n.pending.pop(ev) {
			return nil
		}
		if err := n.stream.Next(ev); err != nil {
			return err
		}
		switch ev.Type {
		case START_ELEMENT_EVENT:
			if err := n.startElement(ev); err != nil {
				return err
			}
		case END_ELEMENT_EVENT:
			if err := n.endElement(ev); err != nil {
				return err
			}
			n.pending.push(*ev)
		default:
			return nil
		}
	}
}

// startElement pushes the element's scope, validates and resolves names,
// and queues the ambient context event when tracking is enabled.
func (n *NamespaceTracker) startElement(ev *Event) error {
	scope := nsScope{}
	for _, attr := range ev.Attrs {
		prefix, declared := declaredPrefix(attr.Name)
		if !declared {
			continue
		}
		switch {
		case prefix == "xml" && attr.Value != XMLNamespace:
			if err := n.fail(newError(ErrReservedBinding, ev.Start, "prefix \"xml\" may only bind to %q", XMLNamespace)); err != nil {
				return err
			}
			continue
		case prefix == "xmlns":
			if err := n.fail(newError(ErrReservedBinding, ev.Start, "prefix \"xmlns\" may not be declared")); err != nil {
				return err
			}
			continue
		case attr.Value == XMLNSNamespace:
			if err := n.fail(newError(ErrReservedBinding, ev.Start, "namespace %q may not be bound", XMLNSNamespace)); err != nil {
				return err
			}
			continue
		case prefix != "" && prefix != "xml" && attr.Value == "":
			// Only the default namespace may be undeclared.
			if err := n.fail(newError(ErrReservedBinding, ev.Start, "prefix %q may not be undeclared", prefix)); err != nil {
				return err
			}
			continue
		}
		scope[prefix] = attr.Value
	}
	n.scopes = append(n.scopes, scope)

	if n.validate() || n.resolve() {
		if err := n.applyToName(ev, &ev.Name, true); err != nil {
			return err
		}
		for i := range ev.Attrs {
			if _, declared := declaredPrefix(ev.Attrs[i].Name); declared {
				continue
			}
			// Unprefixed attributes never inherit the default namespace.
			if ev.Attrs[i].Name.Prefix == "" {
				continue
			}
			if err := n.applyToName(ev, &ev.Attrs[i].Name, false); err != nil {
				return err
			}
		}
	}

	if n.opts.TrackContext {
		n.pending.push(n.contextEvent(ev.Start, scope))
	}
	n.pending.push(*ev)
	return nil
}

// applyToName validates (and, in resolve mode, rewrites) one name against
// the current scope. Elements consult the default namespace; attributes do
// not.
func (n *NamespaceTracker) applyToName(ev *Event, name *Name, element bool) error {
	if name.Prefix == "" {
		if element && n.resolve() {
			if uri, ok := n.lookup(""); ok {
				name.Space = uri
			}
		}
		return nil
	}
	uri, ok := n.lookup(name.Prefix)
	if !ok {
		return n.fail(newError(ErrUndeclaredPrefix, ev.Start, "prefix %q is not declared", name.Prefix))
	}
	if n.resolve() {
		name.Space = uri
	}
	return nil
}

// endElement resolves the close tag against the scope it closes, then pops.
func (n *NamespaceTracker) endElement(ev *Event) error {
	var err error
	if n.validate() || n.resolve() {
		err = n.applyToName(ev, &ev.Name, true)
	}
	if len(n.scopes) > 0 {
		n.scopes = n.scopes[:len(n.scopes)-1]
	}
	return err
}

// contextEvent builds the ambient NAMESPACE_EVENT: the full flattened scope,
// or just the declaring element's delta with OnlyChanges. It carries the
// same location as the start tag it precedes.
func (n *NamespaceTracker) contextEvent(mark Mark, delta nsScope) Event {
	var bindings []Binding
	if n.opts.OnlyChanges {
		for prefix, uri := range delta {
			bindings = append(bindings, Binding{Prefix: prefix, URI: uri})
		}
	} else {
		flat := map[string]string{}
		for _, scope := range n.scopes {
			for prefix, uri := range scope {
				if uri == "" {
					delete(flat, prefix)
					continue
				}
				flat[prefix] = uri
			}
		}
		for prefix, uri := range flat {
			bindings = append(bindings, Binding{Prefix: prefix, URI: uri})
		}
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Prefix < bindings[j].Prefix })
	return Event{Type: NAMESPACE_EVENT, Start: mark, End: mark, Bindings: bindings}
}

// declaredPrefix classifies an attribute as a namespace declaration:
// xmlns="..." declares the default (empty prefix), xmlns:p="..." declares
// p. The xmlns name itself is never a lookup key.
func declaredPrefix(name Name) (string, bool) {
	if name.Prefix == "" && name.Local == "xmlns" {
		return "", true
	}
	if name.Prefix == "xmlns" {
		return name.Local, true
	}
	return "", false
}

// SplitQName splits a raw qualified name for callers layering above the
// event stream.
func SplitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}
