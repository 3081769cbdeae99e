// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectAndSliceStream(t *testing.T) {
	events := tokenize(t, `<r><c/></r>`)
	replayed, err := Collect(NewSliceStream(events))
	require.NoError(t, err)
	require.Equal(t, events, replayed)
}

func TestDrain(t *testing.T) {
	require.NoError(t, Drain(NewTokenizer(NewBytesSource([]byte(`<r/>`)))))
}

func TestHaltOnErrorPassesCleanStream(t *testing.T) {
	events, err := Collect(HaltOnError(NewTokenizer(NewBytesSource([]byte(`<r/>`)))))
	require.NoError(t, err)
	require.Len(t, events, 4)
}

func TestHaltOnErrorSticky(t *testing.T) {
	s := HaltOnError(NewTokenizer(NewBytesSource([]byte(`<r><}</r>`))))
	var ev Event
	var err error
	for err == nil {
		err = s.Next(&ev)
	}
	var perr *Error
	require.ErrorAs(t, err, &perr)
	// A halted stream stays halted.
	require.Equal(t, err, s.Next(&ev))
}

func TestEventQueue(t *testing.T) {
	var q eventQueue
	require.True(t, q.empty())

	q.push(Event{Type: COMMENT_EVENT, Value: "one"})
	q.push(Event{Type: COMMENT_EVENT, Value: "two"})

	var ev Event
	require.True(t, q.pop(&ev))
	require.Equal(t, "one", ev.Value)
	require.True(t, q.pop(&ev))
	require.Equal(t, "two", ev.Value)
	require.False(t, q.pop(&ev))

	// The backing slice is reclaimed once drained.
	q.push(Event{Type: COMMENT_EVENT, Value: "three"})
	require.True(t, q.pop(&ev))
	require.Equal(t, "three", ev.Value)
	require.True(t, q.empty())
}

func TestChunkSourceSkipsEmptyChunks(t *testing.T) {
	src := NewChunkSource(nil, []byte("a"), []byte{}, []byte("b"))
	require.Equal(t, "ab", drainSource(t, src))
}

func TestBytesSourceSingleChunk(t *testing.T) {
	src := NewBytesSource([]byte("xyz"))
	chunk, err := src.NextChunk()
	require.NoError(t, err)
	require.Equal(t, "xyz", string(chunk))
	_, err = src.NextChunk()
	require.Equal(t, io.EOF, err)
}
