// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func drainSource(t *testing.T, src Source) string {
	t.Helper()
	var out []byte
	for {
		chunk, err := src.NextChunk()
		if err == io.EOF {
			return string(out)
		}
		require.NoError(t, err)
		out = append(out, chunk...)
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain\n", "plain\n"},
		{"a\r\nb", "a\nb"},
		{"a\rb", "a\nb"},
		{"a\r\r\nb", "a\n\nb"},
		{"\r", "\n"},
		{"\r\n", "\n"},
		{"a\r\n\r\nb\r", "a\n\nb\n"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, string(NormalizeLineEndings([]byte(tc.in))), "input %q", tc.in)
	}
}

func TestNormalizeLineEndingsNoCopyWithoutCR(t *testing.T) {
	in := []byte("no carriage returns here\n")
	require.Equal(t, &in[0], &NormalizeLineEndings(in)[0])
}

func TestLineEndingSourceSpansChunks(t *testing.T) {
	// A CRLF pair split across a chunk boundary collapses; a trailing CR
	// at end of input flushes as LF.
	src := NewLineEndingSource(NewChunkSource(
		[]byte("a\r"), []byte("\nb"), []byte("\r"),
	))
	require.Equal(t, "a\nb\n", drainSource(t, src))
}

func TestLineEndingSourceLoneCRChunk(t *testing.T) {
	src := NewLineEndingSource(NewChunkSource(
		[]byte("\r"), []byte("\r"), []byte("x"),
	))
	require.Equal(t, "\n\nx", drainSource(t, src))
}

func TestLineEndingSourceAllSplits(t *testing.T) {
	input := "a\r\nb\rc\r\r\nd\r"
	want := string(NormalizeLineEndings([]byte(input)))
	for cut := 1; cut < len(input); cut++ {
		src := NewLineEndingSource(NewChunkSource([]byte(input[:cut]), []byte(input[cut:])))
		require.Equal(t, want, drainSource(t, src), "split at %d", cut)
	}
}

func TestNoCRSurvivesTokenization(t *testing.T) {
	input := "<r>\r\n x\r\n<!-- c\r -->\r<![CDATA[d\r\ne]]></r>"
	o := NewOptions()
	src := NewLineEndingSource(NewBytesSource([]byte(input)))
	events, err := Collect(NewTokenizerOptions(src, o))
	require.NoError(t, err)
	for _, ev := range events {
		require.NotContains(t, ev.Value, "\r", "event %s", ev.String())
	}
}

func TestLineEndingSourceEmpty(t *testing.T) {
	src := NewLineEndingSource(NewChunkSource())
	_, err := src.NextChunk()
	require.Equal(t, io.EOF, err)
}

func TestReaderSource(t *testing.T) {
	src := NewReaderSource(strings.NewReader("abcdefgh"), 3)
	require.Equal(t, "abcdefgh", drainSource(t, src))
}
