// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package sortattr orders attributes in compliance with the c14n
// specification's document-order rules.
package sortattr

// Attr is one attribute or namespace declaration to order. Namespace
// declarations use the Prefix "xmlns" (or Local "xmlns" with no prefix for
// the default declaration), mirroring their source form.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// SortAttr sorts attributes per the c14n rules: the default namespace
// declaration first, then prefixed namespace declarations by prefix, then
// regular attributes with namespace URI as the primary key and local name
// as the secondary key. Lookup maps a prefix to its in-scope URI.
type SortAttr struct {
	Attrs  []Attr
	Lookup func(prefix string) string
}

// Len implements sort.Interface.
func (s SortAttr) Len() int {
	return len(s.Attrs)
}

// Swap implements sort.Interface.
func (s SortAttr) Swap(i, j int) {
	s.Attrs[i], s.Attrs[j] = s.Attrs[j], s.Attrs[i]
}

// Less implements sort.Interface.
func (s SortAttr) Less(i, j int) bool {
	// The default namespace node has no local name and is therefore
	// lexicographically least: it always sorts first.
	if s.isDefaultDecl(i) {
		return true
	}
	if s.isDefaultDecl(j) {
		return false
	}

	// Namespace nodes have a lesser document order position than
	// attribute nodes.
	declI, declJ := s.Attrs[i].Prefix == "xmlns", s.Attrs[j].Prefix == "xmlns"
	if declI != declJ {
		return declI
	}
	if declI {
		// Ties between namespace nodes break by local name.
		return s.Attrs[i].Local < s.Attrs[j].Local
	}

	// Attribute nodes sort with namespace URI as the primary key and
	// local name as the secondary key; an empty URI is least.
	spaceI := s.space(i)
	spaceJ := s.space(j)
	if spaceI != spaceJ {
		return spaceI < spaceJ
	}
	return s.Attrs[i].Local < s.Attrs[j].Local
}

func (s SortAttr) isDefaultDecl(i int) bool {
	return s.Attrs[i].Prefix == "" && s.Attrs[i].Local == "xmlns"
}

func (s SortAttr) space(i int) string {
	if s.Attrs[i].Prefix == "" || s.Lookup == nil {
		return ""
	}
	return s.Lookup(s.Attrs[i].Prefix)
}
