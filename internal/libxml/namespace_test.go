// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func trackEvents(t *testing.T, input string, opts ...Option) []Event {
	t.Helper()
	tok := NewTokenizer(NewBytesSource([]byte(input)), opts...)
	events, err := Collect(NewNamespaceTracker(tok, opts...))
	require.NoError(t, err)
	return events
}

func elementNames(events []Event) []Name {
	var names []Name
	for _, ev := range events {
		if ev.Type == START_ELEMENT_EVENT || ev.Type == END_ELEMENT_EVENT {
			names = append(names, ev.Name)
		}
	}
	return names
}

func TestNamespaceResolveDefault(t *testing.T) {
	events := trackEvents(t, `<r xmlns="u"><c/></r>`, WithNamespaces(NAMESPACES_RESOLVE))
	require.Equal(t, []Name{
		{Space: "u", Local: "r"},
		{Space: "u", Local: "c"},
		{Space: "u", Local: "c"},
		{Space: "u", Local: "r"},
	}, elementNames(events))
}

func TestNamespaceResolvePrefixed(t *testing.T) {
	events := trackEvents(t, `<x:r xmlns:x="u"><x:c a="1" x:b="2"/></x:r>`, WithNamespaces(NAMESPACES_RESOLVE))

	names := elementNames(events)
	require.Equal(t, Name{Space: "u", Prefix: "x", Local: "r"}, names[0])
	require.Equal(t, Name{Space: "u", Prefix: "x", Local: "c"}, names[1])

	for _, ev := range events {
		if ev.Type == START_ELEMENT_EVENT && ev.Name.Local == "c" {
			// Unprefixed attributes never inherit any namespace.
			require.Equal(t, Name{Local: "a"}, ev.Attrs[0].Name)
			// Prefixed attributes resolve as elements do.
			require.Equal(t, Name{Space: "u", Prefix: "x", Local: "b"}, ev.Attrs[1].Name)
		}
	}
}

func TestNamespaceScopeShadowing(t *testing.T) {
	events := trackEvents(t, `<r xmlns="a"><c xmlns="b"><d/></c><e/></r>`, WithNamespaces(NAMESPACES_RESOLVE))
	var spaces []string
	for _, ev := range events {
		if ev.Type == START_ELEMENT_EVENT {
			spaces = append(spaces, ev.Name.Space)
		}
	}
	require.Equal(t, []string{"a", "b", "b", "a"}, spaces)
}

func TestNamespaceEmptyDefaultUndeclares(t *testing.T) {
	events := trackEvents(t, `<r xmlns="u"><c xmlns=""><d/></c></r>`, WithNamespaces(NAMESPACES_RESOLVE))
	var spaces []string
	for _, ev := range events {
		if ev.Type == START_ELEMENT_EVENT {
			spaces = append(spaces, ev.Name.Space)
		}
	}
	require.Equal(t, []string{"u", "", ""}, spaces)
}

func TestNamespaceUndeclaredPrefix(t *testing.T) {
	events := trackEvents(t, `<a:r/>`, WithNamespaces(NAMESPACES_VALIDATE))
	require.Equal(t, []ErrorKind{ErrUndeclaredPrefix, ErrUndeclaredPrefix}, errorKinds(events))
}

func TestNamespaceDeclarationOnSameElement(t *testing.T) {
	// Prefix validity is independent of whether the declaration appears
	// on the same element or an ancestor.
	events := trackEvents(t, `<a:r xmlns:a="u"/>`, WithNamespaces(NAMESPACES_BOTH))
	require.Empty(t, errorKinds(events))
	require.Equal(t, "u", elementNames(events)[0].Space)
}

func TestNamespaceXMLPrefixPreseeded(t *testing.T) {
	events := trackEvents(t, `<r xml:lang="en"/>`, WithNamespaces(NAMESPACES_BOTH))
	require.Empty(t, errorKinds(events))
	for _, ev := range events {
		if ev.Type == START_ELEMENT_EVENT {
			require.Equal(t, XMLNamespace, ev.Attrs[0].Name.Space)
		}
	}
}

func TestNamespaceReservedBindings(t *testing.T) {
	for _, input := range []string{
		`<r xmlns:xml="http://wrong"/>`,
		`<r xmlns:xmlns="u"/>`,
		`<r xmlns:p="http://www.w3.org/2000/xmlns/"/>`,
	} {
		events := trackEvents(t, input, WithNamespaces(NAMESPACES_VALIDATE))
		require.Contains(t, errorKinds(events), ErrReservedBinding, "input %q", input)
	}

	// Binding xml to its own URI is allowed.
	events := trackEvents(t, `<r xmlns:xml="http://www.w3.org/XML/1998/namespace"/>`, WithNamespaces(NAMESPACES_VALIDATE))
	require.Empty(t, errorKinds(events))
}

func TestNamespacePrefixUndeclareRejected(t *testing.T) {
	events := trackEvents(t, `<r xmlns:p=""><p:c/></r>`, WithNamespaces(NAMESPACES_VALIDATE))
	require.Contains(t, errorKinds(events), ErrReservedBinding)
}

func TestNamespaceContextEvents(t *testing.T) {
	events := trackEvents(t, `<r xmlns="u" xmlns:x="v"><c/></r>`,
		WithNamespaces(NAMESPACES_RESOLVE), WithNamespaceContext(false))

	var contexts []Event
	for i, ev := range events {
		if ev.Type == NAMESPACE_EVENT {
			// The ambient event immediately precedes its start tag and
			// carries the same location.
			require.Equal(t, START_ELEMENT_EVENT, events[i+1].Type)
			require.Equal(t, events[i+1].Start, ev.Start)
			contexts = append(contexts, ev)
		}
	}
	require.Len(t, contexts, 2)
	require.Equal(t, []Binding{{Prefix: "", URI: "u"}, {Prefix: "x", URI: "v"}}, contexts[0].Bindings)
	// The child sees the inherited scope in full-snapshot mode.
	require.Equal(t, contexts[0].Bindings, contexts[1].Bindings)
}

func TestNamespaceContextOnlyChanges(t *testing.T) {
	events := trackEvents(t, `<r xmlns="u"><c xmlns:x="v"/><d/></r>`,
		WithNamespaces(NAMESPACES_RESOLVE), WithNamespaceContext(true))

	var contexts []Event
	for _, ev := range events {
		if ev.Type == NAMESPACE_EVENT {
			contexts = append(contexts, ev)
		}
	}
	require.Len(t, contexts, 3)
	require.Equal(t, []Binding{{Prefix: "", URI: "u"}}, contexts[0].Bindings)
	require.Equal(t, []Binding{{Prefix: "x", URI: "v"}}, contexts[1].Bindings)
	require.Empty(t, contexts[2].Bindings)
}

func TestNamespaceValidateDoesNotRewrite(t *testing.T) {
	events := trackEvents(t, `<x:r xmlns:x="u"/>`, WithNamespaces(NAMESPACES_VALIDATE))
	require.Equal(t, Name{Prefix: "x", Local: "r"}, elementNames(events)[0])
}

func TestNamespaceOffPassesThrough(t *testing.T) {
	input := `<a:r xmlns:b="u"/>`
	events := trackEvents(t, input)
	require.Equal(t, tokenize(t, input), events)
}
