// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Package xmlstream implements streaming XML processing for the Go
// language: a chunk-spanning tokenizer producing a lazy event sequence,
// and the composable stream transforms built on it — DTD decoding, entity
// resolution, namespace tracking, well-formedness validation, and
// serialization with pretty-printed and canonical forms.
package xmlstream

import (
	"io"

	"go.xmlstream.in/xmlstream/internal/libxml"
)

// Re-export the event model from internal/libxml.
type (
	Event     = libxml.Event
	EventType = libxml.EventType
	Mark      = libxml.Mark
	Name      = libxml.Name
	Attr      = libxml.Attr
	Binding   = libxml.Binding
	Error     = libxml.Error
	ErrorKind = libxml.ErrorKind
	Stream    = libxml.Stream
	Source    = libxml.Source
)

// Re-export event type constants.
const (
	START_DOCUMENT_EVENT = libxml.START_DOCUMENT_EVENT
	END_DOCUMENT_EVENT   = libxml.END_DOCUMENT_EVENT
	PROLOG_EVENT         = libxml.PROLOG_EVENT
	DOCTYPE_EVENT        = libxml.DOCTYPE_EVENT
	START_ELEMENT_EVENT  = libxml.START_ELEMENT_EVENT
	END_ELEMENT_EVENT    = libxml.END_ELEMENT_EVENT
	CHARACTERS_EVENT     = libxml.CHARACTERS_EVENT
	SPACE_EVENT          = libxml.SPACE_EVENT
	CDATA_EVENT          = libxml.CDATA_EVENT
	COMMENT_EVENT        = libxml.COMMENT_EVENT
	PI_EVENT             = libxml.PI_EVENT
	NAMESPACE_EVENT      = libxml.NAMESPACE_EVENT
	ERROR_EVENT          = libxml.ERROR_EVENT
)

// Re-export the DTD model.
type (
	DTD          = libxml.DTD
	ContentModel = libxml.ContentModel
	ContentKind  = libxml.ContentKind
	Occurrence   = libxml.Occurrence
	AttrDecl     = libxml.AttrDecl
	AttrType     = libxml.AttrType
	AttrDefault  = libxml.AttrDefault
	EntityDef    = libxml.EntityDef
	Resolver     = libxml.Resolver
)

// Re-export sources, sinks, and stream utilities.
var (
	NewBytesSource  = libxml.NewBytesSource
	NewChunkSource  = libxml.NewChunkSource
	NewReaderSource = libxml.NewReaderSource
	NewSliceStream  = libxml.NewSliceStream
	Collect         = libxml.Collect
	Drain           = libxml.Drain
	HaltOnError     = libxml.HaltOnError
	DumpEvents      = libxml.DumpEvents
)

// Re-export the transform constructors for callers assembling bespoke
// pipelines.
var (
	NewTokenizer           = libxml.NewTokenizer
	NewDTDStage            = libxml.NewDTDStage
	NewEntityResolver      = libxml.NewEntityResolver
	NewNamespaceTracker    = libxml.NewNamespaceTracker
	NewWellFormedValidator = libxml.NewWellFormedValidator
	NewConformantValidator = libxml.NewConformantValidator
	NewLineEndingSource    = libxml.NewLineEndingSource
	NewDecodeSource        = libxml.NewDecodeSource
	NormalizeLineEndings   = libxml.NormalizeLineEndings
	DecodeInput            = libxml.DecodeInput
	ParseDTD               = libxml.ParseDTD
)

//-----------------------------------------------------------------------------
// Parse / Serialize API
//-----------------------------------------------------------------------------

// A Parser pulls events from a fully assembled pipeline: input decoding,
// line normalization, tokenization, DTD decoding, entity resolution,
// namespace tracking, and validation, configured through options.
type Parser struct {
	pipeline *libxml.Pipeline
}

// NewParser returns a Parser reading from r.
func NewParser(r io.Reader, opts ...Option) *Parser {
	o := libxml.NewOptions(opts...)
	return &Parser{pipeline: libxml.NewPipeline(libxml.NewReaderSource(r, o.BlockSize), o)}
}

// NewParserSource returns a Parser over an explicit chunk source, for
// callers that manage their own buffering.
func NewParserSource(src Source, opts ...Option) *Parser {
	o := libxml.NewOptions(opts...)
	return &Parser{pipeline: libxml.NewPipeline(src, o)}
}

// Next produces the next event; io.EOF follows END_DOCUMENT_EVENT.
func (p *Parser) Next(ev *Event) error {
	return p.pipeline.Next(ev)
}

// DTD returns the document type model, available once the DOCTYPE event
// has passed through the stream (nil when the document has none).
func (p *Parser) DTD() *DTD {
	return p.pipeline.DTD.Model()
}

// Events parses a whole buffer through the full pipeline and collects the
// event sequence. In-stream errors appear as ERROR_EVENT entries, fatal ones
// included (the stream ends after them); only a raised error is returned.
func Events(in []byte, opts ...Option) ([]Event, error) {
	o := libxml.NewOptions(opts...)
	return libxml.Collect(libxml.NewPipeline(libxml.NewBytesSource(in), o))
}

// EventsFromChunks is Events over an explicit chunking of the input. Any
// chunking yields the same sequence, locations included.
func EventsFromChunks(chunks [][]byte, opts ...Option) ([]Event, error) {
	o := libxml.NewOptions(opts...)
	return libxml.Collect(libxml.NewPipeline(libxml.NewChunkSource(chunks...), o))
}

// Serialize renders an event sequence back to bytes per the options:
// plain, pretty-printed, or canonical.
func Serialize(events []Event, opts ...Option) ([]byte, error) {
	return SerializeStream(libxml.NewSliceStream(events), opts...)
}

// SerializeStream renders a stream directly.
func SerializeStream(s Stream, opts ...Option) ([]byte, error) {
	o := libxml.NewOptions(opts...)
	if o.C14N != libxml.C14N_OFF {
		return libxml.NewCanonicalizer(s, o).Bytes()
	}
	return libxml.NewSerializerOptions(s, o).Bytes()
}

// NewSerializer returns the configured serializer over s; its output is a
// lazy byte-slice sequence (a Source) cut near the configured block size.
func NewSerializer(s Stream, opts ...Option) *libxml.Serializer {
	return libxml.NewSerializerOptions(s, libxml.NewOptions(opts...))
}

// Canonicalize parses in and returns its canonical form. The default mode
// is Canonical XML 1.0 without comments; options select the exclusive and
// with-comments variants. Validation runs with the raise policy: canonical
// output is only defined over well-formed input.
func Canonicalize(in []byte, opts ...Option) ([]byte, error) {
	o := libxml.NewOptions(opts...)
	if o.C14N == libxml.C14N_OFF {
		o.C14N = libxml.C14N_STANDARD
	}
	// The canonicalizer needs raw prefixes and resolved entities.
	o.Namespaces = libxml.NAMESPACES_OFF
	o.TrackContext = false
	o.OnError = libxml.RAISE_ON_ERROR
	pipeline := libxml.NewPipeline(libxml.NewBytesSource(in), o)
	return libxml.NewCanonicalizer(pipeline, o).Bytes()
}
