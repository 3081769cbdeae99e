// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkColumn(t *testing.T) {
	m := Mark{Line: 2, LineStart: 4, Offset: 5}
	require.Equal(t, 1, m.Column())
	require.Equal(t, "line 2, column 1", m.String())
}

func TestNameQName(t *testing.T) {
	require.Equal(t, "local", Name{Local: "local"}.QName())
	require.Equal(t, "p:local", Name{Prefix: "p", Local: "local"}.QName())
	require.Equal(t, "{u}local", Name{Space: "u", Prefix: "p", Local: "local"}.String())
}

func TestSplitName(t *testing.T) {
	require.Equal(t, Name{Prefix: "a", Local: "b"}, splitName("a:b"))
	require.Equal(t, Name{Local: "b"}, splitName("b"))
	require.Equal(t, Name{Prefix: "a", Local: "b:c"}, splitName("a:b:c"))
}

func TestEventAttrLookup(t *testing.T) {
	ev := Event{Type: START_ELEMENT_EVENT, Attrs: []Attr{
		{Name: Name{Local: "a"}, Value: "1"},
		{Name: Name{Prefix: "x", Local: "b"}, Value: "2"},
	}}
	v, ok := ev.Attr("a")
	require.True(t, ok)
	require.Equal(t, "1", v)
	v, ok = ev.Attr("x:b")
	require.True(t, ok)
	require.Equal(t, "2", v)
	_, ok = ev.Attr("missing")
	require.False(t, ok)
}

func TestEventString(t *testing.T) {
	events := tokenize(t, `<r a="1">x<!-- c --></r>`)
	dump := DumpEvents(events)
	require.Equal(t, `+DOC
+ELE r a="1"
=CHR "x"
=REM " c "
-ELE r
-DOC
`, dump)
}

func TestEventTypeString(t *testing.T) {
	require.Equal(t, "start element", START_ELEMENT_EVENT.String())
	require.Equal(t, "error", ERROR_EVENT.String())
	require.Equal(t, "none", NO_EVENT.String())
}

func TestErrorString(t *testing.T) {
	err := newError(ErrMismatchedEndTag, Mark{Line: 3, LineStart: 10, Offset: 14}, "close tag </b> does not match <a>")
	require.Equal(t, "xml: line 3, column 4: close tag </b> does not match <a>", err.Error())
	require.False(t, err.Kind.Fatal())
	require.True(t, ErrExpansionSize.Fatal())
}
