// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNameStartChar(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '_', ':', 'é', 'ß', '日', 0x10000} {
		require.True(t, isNameStartChar(r, EDITION_5), "U+%04X", r)
	}
	for _, r := range []rune{'-', '.', '7', ' ', '<', '&', 0xB7, 0x2000} {
		require.False(t, isNameStartChar(r, EDITION_5), "U+%04X", r)
	}
}

func TestNameChar(t *testing.T) {
	for _, r := range []rune{'a', '-', '.', '0', '9', 0xB7, ':', '_'} {
		require.True(t, isNameChar(r, EDITION_5), "U+%04X", r)
	}
	for _, r := range []rune{' ', '\t', '<', '>', '/', '=', '"'} {
		require.False(t, isNameChar(r, EDITION_5), "U+%04X", r)
	}
}

func TestEditionDifferences(t *testing.T) {
	// U+0980 and U+0D3A entered the name classes with the Fifth Edition
	// rewrite; the Fourth Edition enumerated ranges exclude them.
	for _, r := range []rune{0x0980, 0x0D3A} {
		require.True(t, isNameStartChar(r, EDITION_5), "U+%04X", r)
		require.False(t, isNameStartChar(r, EDITION_4), "U+%04X", r)
	}

	// Classical letters are names under both editions.
	for _, r := range []rune{'a', 'é', 'Ω', '日', 0xAC00} {
		require.True(t, isNameStartChar(r, EDITION_4), "U+%04X", r)
		require.True(t, isNameStartChar(r, EDITION_5), "U+%04X", r)
	}

	// Digits and combining marks continue names under both editions.
	require.True(t, isNameChar(0x0660, EDITION_4))  // ARABIC-INDIC DIGIT ZERO
	require.True(t, isNameChar(0x0300, EDITION_4))  // COMBINING GRAVE ACCENT
	require.True(t, isNameChar(0x0300, EDITION_5))
}

func TestIsChar(t *testing.T) {
	for _, r := range []rune{0x9, 0xA, 0xD, ' ', 'x', 0xD7FF, 0xE000, 0x10FFFF} {
		require.True(t, isChar(r), "U+%04X", r)
	}
	for _, r := range []rune{0x0, 0x1, 0x8, 0xB, 0xC, 0x1F, 0xD800, 0xDFFF, 0x110000} {
		require.False(t, isChar(r), "U+%04X", r)
	}
}

func TestIsNoncharacter(t *testing.T) {
	for _, r := range []rune{0xFDD0, 0xFDEF, 0xFFFE, 0xFFFF, 0x1FFFE, 0x10FFFF} {
		require.True(t, isNoncharacter(r), "U+%04X", r)
	}
	for _, r := range []rune{0xFDCF, 0xFDF0, 0xFFFD, 'x'} {
		require.False(t, isNoncharacter(r), "U+%04X", r)
	}
}

func TestIsAllSpace(t *testing.T) {
	require.True(t, isAllSpace(" \t\n\r"))
	require.True(t, isAllSpace(""))
	require.False(t, isAllSpace(" x "))
}
