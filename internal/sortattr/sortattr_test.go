// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package sortattr

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortAttrOrder(t *testing.T) {
	uris := map[string]string{
		"a": "http://z.example",
		"b": "http://a.example",
	}
	s := SortAttr{
		Attrs: []Attr{
			{Prefix: "a", Local: "attr", Value: "1"},
			{Prefix: "", Local: "plain", Value: "2"},
			{Prefix: "xmlns", Local: "b", Value: "http://a.example"},
			{Prefix: "b", Local: "attr", Value: "3"},
			{Prefix: "", Local: "xmlns", Value: "http://d.example"},
			{Prefix: "xmlns", Local: "a", Value: "http://z.example"},
		},
		Lookup: func(prefix string) string { return uris[prefix] },
	}
	sort.Sort(s)

	var order []string
	for _, a := range s.Attrs {
		if a.Prefix == "" {
			order = append(order, a.Local)
		} else {
			order = append(order, a.Prefix+":"+a.Local)
		}
	}
	assert.Equal(t, []string{
		"xmlns",         // default declaration first
		"xmlns:a",       // then declarations by prefix
		"xmlns:b",
		"plain",         // unprefixed attribute: empty URI is least
		"b:attr",        // http://a.example
		"a:attr",        // http://z.example
	}, order)
}

func TestSortAttrUnprefixedByLocalName(t *testing.T) {
	s := SortAttr{
		Attrs: []Attr{
			{Local: "b"},
			{Local: "a"},
			{Local: "c"},
		},
	}
	sort.Sort(s)
	assert.Equal(t, "a", s.Attrs[0].Local)
	assert.Equal(t, "b", s.Attrs[1].Local)
	assert.Equal(t, "c", s.Attrs[2].Local)
}
