// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func canonical(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	o := NewOptions(opts...)
	if o.C14N == C14N_OFF {
		o.C14N = C14N_STANDARD
	}
	// Canonical form is defined over the resolved stream with raw
	// prefixes, so the chain stops short of the namespace tracker.
	tok := NewTokenizerOptions(NewBytesSource([]byte(input)), o)
	dtd := NewDTDStage(tok, o.Resolver)
	res := NewEntityResolverOptions(dtd, dtd, o)
	out, err := NewCanonicalizer(res, o).Bytes()
	require.NoError(t, err)
	return string(out)
}

func TestC14NAttributeSort(t *testing.T) {
	require.Equal(t,
		`<r a="1" b="2" c="3"></r>`,
		canonical(t, `<r c="3" a="1" b="2"/>`))
}

func TestC14NQuoteNormalization(t *testing.T) {
	require.Equal(t,
		`<r a="it's"></r>`,
		canonical(t, `<r a='it&#39;s'/>`))
}

func TestC14NEmptyElementExpansion(t *testing.T) {
	require.Equal(t, `<r><c></c></r>`, canonical(t, `<r><c/></r>`))
}

func TestC14NDeterminism(t *testing.T) {
	// Inputs differing only in attribute order, quoting, and
	// empty-element form canonicalize to identical bytes.
	variants := []string{
		`<r b="2" a="1"></r>`,
		`<r a='1' b='2'/>`,
		`<r  b = "2"  a = "1" />`,
	}
	want := canonical(t, variants[0])
	for _, v := range variants[1:] {
		require.Equal(t, want, canonical(t, v), "variant %q", v)
	}
}

func TestC14NCommentsStripped(t *testing.T) {
	require.Equal(t, `<r></r>`, canonical(t, `<r><!-- gone --></r>`))
	require.Equal(t,
		`<r><!-- kept --></r>`,
		canonical(t, `<r><!-- kept --></r>`, WithC14N(C14N_STANDARD, true)))
}

func TestC14NCommentOutsideRoot(t *testing.T) {
	require.Equal(t,
		"<!-- before -->\n<r></r>\n<!-- after -->",
		canonical(t, "<!-- before --><r/><!-- after -->", WithC14N(C14N_STANDARD, true)))
}

func TestC14NPrologAndDoctypeDropped(t *testing.T) {
	require.Equal(t, `<r></r>`,
		canonical(t, `<?xml version="1.0"?><!DOCTYPE r><r/>`))
}

func TestC14NCDataBecomesText(t *testing.T) {
	require.Equal(t,
		`<r>a &lt;&gt; b &amp; c</r>`,
		canonical(t, `<r><![CDATA[a <> b & c]]></r>`))
}

func TestC14NAttrEscaping(t *testing.T) {
	require.Equal(t,
		`<r a="x&quot;y&#x9;z"></r>`,
		canonical(t, "<r a='x\"y\tz'/>"))
}

func TestC14NNamespaceDeclarationsSorted(t *testing.T) {
	require.Equal(t,
		`<r xmlns="d" xmlns:a="ua" xmlns:b="ub" b:x="1"></r>`,
		canonical(t, `<r xmlns:b="ub" xmlns="d" xmlns:a="ua" b:x="1"/>`))
}

func TestC14NInheritedDeclarationNotRepeated(t *testing.T) {
	require.Equal(t,
		`<r xmlns:p="u"><p:c></p:c></r>`,
		canonical(t, `<r xmlns:p="u"><p:c xmlns:p="u"/></r>`))
}

func TestC14NExclusiveDropsUnusedNamespaces(t *testing.T) {
	input := `<r xmlns:used="u1" xmlns:unused="u2"><used:c/></r>`

	require.Equal(t,
		`<r xmlns:unused="u2" xmlns:used="u1"><used:c></used:c></r>`,
		canonical(t, input))

	require.Equal(t,
		`<r><used:c xmlns:used="u1"></used:c></r>`,
		canonical(t, input, WithC14N(C14N_EXCLUSIVE, false)))
}

func TestC14NExclusiveRendersAtUse(t *testing.T) {
	require.Equal(t,
		`<p:r xmlns:p="u"><p:c></p:c></p:r>`,
		canonical(t, `<p:r xmlns:p="u"><p:c/></p:r>`, WithC14N(C14N_EXCLUSIVE, false)))
}

func TestC14NDefaultNamespaceCancellation(t *testing.T) {
	require.Equal(t,
		`<r xmlns="u"><c xmlns=""></c></r>`,
		canonical(t, `<r xmlns="u"><c xmlns=""/></r>`))
}

func TestC14NCharDataEscapes(t *testing.T) {
	require.Equal(t,
		`<r>&amp;&lt;&gt;"'</r>`,
		canonical(t, `<r>&#38;&#60;&#62;&#34;&#39;</r>`))
}

func TestC14NErrorEventAborts(t *testing.T) {
	o := NewOptions()
	o.C14N = C14N_STANDARD
	tok := NewTokenizerOptions(NewBytesSource([]byte(`<r><</r>`)), o)
	_, err := NewCanonicalizer(tok, o).Bytes()
	require.Error(t, err)
}
