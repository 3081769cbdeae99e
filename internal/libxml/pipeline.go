// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

// Pipeline is the assembled parse stack: normalization, tokenization, DTD
// decoding, the lexical validators, entity resolution, namespace tracking,
// and the structural validators, in that order. The DTD stage is reachable
// for out-of-band model access.
type Pipeline struct {
	Stream Stream
	DTD    *DTDStage
}

// NewPipeline builds the full pipeline over a raw byte source. Data flow is
// strictly linear: bytes, normalized bytes, tokens, lexically validated
// tokens, resolved tokens, namespace-tagged tokens, structurally validated
// tokens.
func NewPipeline(src Source, o *Options) *Pipeline {
	src = NewDecodeSource(src, o.Encoding)
	src = NewLineEndingSource(src)

	var s Stream = NewTokenizerOptions(src, o)
	dtd := NewDTDStage(s, o.Resolver)
	s = dtd

	// Checks over literal bytes run ahead of entity resolution: a '<'
	// written as &lt; must not trip the attribute-value rule.
	s = NewCharactersValidator(s, o.OnError)
	s = NewCommentsValidator(s, o.OnError)
	s = NewProcessingInstructionsValidator(s, o.OnError)
	s = NewXMLDeclarationValidator(s, o.OnError)
	s = NewAttributesValidator(s, o.OnError)
	s = NewAttributeValuesValidator(s, o.OnError)

	s = NewEntityResolverOptions(s, dtd, o)
	if o.Namespaces != NAMESPACES_OFF || o.TrackContext {
		s = NewNamespaceTrackerOptions(s, o)
	}
	s = NewWellFormedValidator(s, o.OnError)
	s = NewRootBoundaryValidator(s, o.OnError)
	return &Pipeline{Stream: s, DTD: dtd}
}

func (p *Pipeline) Next(ev *Event) error {
	return p.Stream.Next(ev)
}
