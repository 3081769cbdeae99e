// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"bytes"
	"io"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/charset"
)

// encodeUTF16 renders s as UTF-16 bytes, optionally BOM-prefixed.
func encodeUTF16(s string, bigEndian, bom bool) []byte {
	var buf bytes.Buffer
	if bom {
		if bigEndian {
			buf.Write([]byte{0xFE, 0xFF})
		} else {
			buf.Write([]byte{0xFF, 0xFE})
		}
	}
	for _, unit := range utf16.Encode([]rune(s)) {
		if bigEndian {
			buf.WriteByte(byte(unit >> 8))
			buf.WriteByte(byte(unit))
		} else {
			buf.WriteByte(byte(unit))
			buf.WriteByte(byte(unit >> 8))
		}
	}
	return buf.Bytes()
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		in     []byte
		want   Encoding
		bomLen int
	}{
		{[]byte{0xFF, 0xFE, 0x3C, 0x00}, UTF16LE_ENCODING, 2},
		{[]byte{0xFE, 0xFF, 0x00, 0x3C}, UTF16BE_ENCODING, 2},
		{[]byte{0xEF, 0xBB, 0xBF, '<'}, UTF8_ENCODING, 3},
		{[]byte("<r/>"), UTF8_ENCODING, 0},
		{nil, UTF8_ENCODING, 0},
	}
	for _, tc := range tests {
		enc, n := DetectEncoding(tc.in)
		require.Equal(t, tc.want, enc)
		require.Equal(t, tc.bomLen, n)
	}
}

func TestDecodeInputUTF16(t *testing.T) {
	const doc = `<r a="é">日本語 𝄞</r>`

	for _, bigEndian := range []bool{false, true} {
		in := encodeUTF16(doc, bigEndian, true)
		out, enc, err := DecodeInput(in, ANY_ENCODING)
		require.NoError(t, err)
		if bigEndian {
			require.Equal(t, UTF16BE_ENCODING, enc)
		} else {
			require.Equal(t, UTF16LE_ENCODING, enc)
		}
		require.Equal(t, doc, string(out))

		// Cross-check against the platform transcoder used by the rest
		// of the ecosystem.
		label := "utf-16le"
		if bigEndian {
			label = "utf-16be"
		}
		ref, err := charset.NewReaderLabel(label, bytes.NewReader(in))
		require.NoError(t, err)
		refBytes, err := io.ReadAll(ref)
		require.NoError(t, err)
		require.Equal(t, string(refBytes), string(out))
	}
}

func TestDecodeInputUTF8BOMStripped(t *testing.T) {
	in := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<r/>")...)
	out, enc, err := DecodeInput(in, ANY_ENCODING)
	require.NoError(t, err)
	require.Equal(t, UTF8_ENCODING, enc)
	require.Equal(t, "<r/>", string(out))
}

func TestDecodeInputExplicitEncoding(t *testing.T) {
	// Explicit-encoding mode bypasses BOM detection: BOM-less UTF-16
	// decodes when named.
	in := encodeUTF16("<r/>", false, false)
	out, enc, err := DecodeInput(in, UTF16LE_ENCODING)
	require.NoError(t, err)
	require.Equal(t, UTF16LE_ENCODING, enc)
	require.Equal(t, "<r/>", string(out))
}

func TestDecodeInputInvalidUTF8(t *testing.T) {
	_, _, err := DecodeInput([]byte{'<', 0xC0, 0x20, '>'}, UTF8_ENCODING)
	require.Error(t, err)
	var ee *EncodingError
	require.ErrorAs(t, err, &ee)
}

func TestDecodeInputIncompleteUTF16(t *testing.T) {
	in := encodeUTF16("<r/>", false, true)
	_, _, err := DecodeInput(in[:len(in)-1], ANY_ENCODING)
	require.Error(t, err)
	require.ErrorIs(t, err, errIncompleteSeq)
}

func TestDecodeSourceSpansCodepoints(t *testing.T) {
	const doc = `<r>héllo 日本 𝄞</r>`
	in := encodeUTF16(doc, false, true)

	// Split everywhere, including mid-BOM and mid-codepoint.
	for cut := 1; cut < len(in); cut++ {
		src := NewDecodeSource(NewChunkSource(in[:cut], in[cut:]), ANY_ENCODING)
		require.Equal(t, doc, drainSource(t, src), "split at %d", cut)
	}

	// One byte at a time.
	var single [][]byte
	for i := range in {
		single = append(single, in[i:i+1])
	}
	src := NewDecodeSource(NewChunkSource(single...), ANY_ENCODING)
	require.Equal(t, doc, drainSource(t, src))
}

func TestDecodeSourceUTF8Carry(t *testing.T) {
	const doc = "<r>héllo 𝄞</r>"
	in := []byte(doc)
	for cut := 1; cut < len(in); cut++ {
		src := NewDecodeSource(NewChunkSource(in[:cut], in[cut:]), ANY_ENCODING)
		require.Equal(t, doc, drainSource(t, src), "split at %d", cut)
	}
}

func TestDecodeSourceIncompleteAtEOF(t *testing.T) {
	in := encodeUTF16("<r/>", false, true)
	src := NewDecodeSource(NewBytesSource(in[:len(in)-1]), ANY_ENCODING)
	var err error
	for err == nil {
		_, err = src.NextChunk()
	}
	require.NotEqual(t, io.EOF, err)
	require.ErrorIs(t, err, errIncompleteSeq)
}

func TestDecodeSourceInvalidUTF8(t *testing.T) {
	src := NewDecodeSource(NewBytesSource([]byte{'<', 'r', 0xFF, 0xFE, '>'}), ANY_ENCODING)
	var err error
	for err == nil {
		_, err = src.NextChunk()
	}
	require.NotEqual(t, io.EOF, err)
	require.ErrorIs(t, err, errInvalidUTF8)
}

func TestUTF16EndToEnd(t *testing.T) {
	const doc = `<r a="1">x</r>`
	in := encodeUTF16(doc, true, true)

	o := NewOptions()
	events, err := Collect(NewPipeline(NewBytesSource(in), o))
	require.NoError(t, err)
	// Locations refer to the logical UTF-8 input, so the decoded parse
	// matches a plain one exactly.
	require.Equal(t, tokenize(t, doc), events)
}
