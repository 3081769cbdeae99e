// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

// OnError selects how a validator reacts to a violation.
type OnError int8

const (
	EMIT_ON_ERROR  OnError = iota // Forward an error event and continue.
	RAISE_ON_ERROR                // Terminate the stream with the error.
	SKIP_ON_ERROR                 // Drop the offending event and continue.
)

// OnUnknownEntity selects how the entity resolver treats an unresolved
// named reference.
type OnUnknownEntity int8

const (
	EMIT_UNKNOWN_ENTITY   OnUnknownEntity = iota // Error event, reference preserved.
	RAISE_UNKNOWN_ENTITY                         // Terminate with the error.
	KEEP_UNKNOWN_ENTITY                          // Pass the reference through.
	REMOVE_UNKNOWN_ENTITY                        // Drop the reference.
)

// NamespaceMode selects the namespace tracker behavior.
type NamespaceMode int8

const (
	NAMESPACES_OFF      NamespaceMode = iota
	NAMESPACES_VALIDATE               // Check declarations and prefixes only.
	NAMESPACES_RESOLVE                // Rewrite names as (URI, local) pairs.
	NAMESPACES_BOTH
)

// C14NMode selects the canonicalization variant.
type C14NMode int8

const (
	C14N_OFF       C14NMode = iota
	C14N_STANDARD           // Canonical XML 1.0.
	C14N_EXCLUSIVE          // Exclusive XML Canonicalization.
)

// Standalone selects the standalone pseudo-attribute written by the
// serializer's generated XML declaration.
type Standalone int8

const (
	STANDALONE_OMIT Standalone = iota
	STANDALONE_YES
	STANDALONE_NO
)

// Default expansion limits, a defense against exponential entity attacks.
const (
	DefaultMaxExpansionDepth = 10
	DefaultMaxTotalExpansion = 1 << 20 // 1 MiB
)

// Options carries the full configuration surface. NewOptions returns the
// defaults; a zero Options differs from them, since the expansion budgets,
// TrackWhitespace and Indent have non-zero defaults.
type Options struct {
	Edition           Edition
	OnError           OnError
	OnUnknownEntity   OnUnknownEntity
	MaxExpansionDepth int
	MaxTotalExpansion int
	TrackWhitespace   bool
	Namespaces        NamespaceMode
	TrackContext      bool // Emit ambient NAMESPACE_EVENT before start tags.
	OnlyChanges       bool // Ambient events carry deltas, not snapshots.
	Resolver          Resolver

	// Serializer settings.
	Pretty         bool
	Indent         string
	XMLDeclaration bool
	Standalone     Standalone
	C14N           C14NMode
	C14NComments   bool
	BlockSize      int

	// Input settings.
	Encoding Encoding
}

// NewOptions returns the default configuration with opts applied.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		MaxExpansionDepth: DefaultMaxExpansionDepth,
		MaxTotalExpansion: DefaultMaxTotalExpansion,
		TrackWhitespace:   true,
		Indent:            "  ",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option configures parsing and serialization.
type Option func(*Options)

// CombineOptions folds multiple options into one.
func CombineOptions(opts ...Option) Option {
	return func(o *Options) {
		for _, opt := range opts {
			opt(o)
		}
	}
}

// WithEdition selects the XML 1.0 edition for Name character classes.
func WithEdition(e Edition) Option {
	return func(o *Options) { o.Edition = e }
}

// WithOnError sets the default validator error policy.
func WithOnError(p OnError) Option {
	return func(o *Options) { o.OnError = p }
}

// WithOnUnknownEntity sets the unresolved-entity policy.
func WithOnUnknownEntity(p OnUnknownEntity) Option {
	return func(o *Options) { o.OnUnknownEntity = p }
}

// WithMaxExpansionDepth bounds nesting of named-entity references.
func WithMaxExpansionDepth(n int) Option {
	return func(o *Options) { o.MaxExpansionDepth = n }
}

// WithMaxTotalExpansion bounds cumulative expanded bytes across the stream.
func WithMaxTotalExpansion(n int) Option {
	return func(o *Options) { o.MaxTotalExpansion = n }
}

// WithTrackWhitespace toggles SPACE_EVENT emission for whitespace-only text.
// When disabled, whitespace runs fold into CHARACTERS_EVENT.
func WithTrackWhitespace(track bool) Option {
	return func(o *Options) { o.TrackWhitespace = track }
}

// WithNamespaces selects the namespace tracker mode.
func WithNamespaces(m NamespaceMode) Option {
	return func(o *Options) { o.Namespaces = m }
}

// WithNamespaceContext enables ambient NAMESPACE_EVENT emission. With
// onlyChanges, events carry the declaring element's delta instead of a
// full snapshot.
func WithNamespaceContext(onlyChanges bool) Option {
	return func(o *Options) {
		o.TrackContext = true
		o.OnlyChanges = onlyChanges
	}
}

// WithResolver supplies external DTD subset access.
func WithResolver(r Resolver) Option {
	return func(o *Options) { o.Resolver = r }
}

// WithPretty enables indentation in serializer output.
func WithPretty(pretty bool) Option {
	return func(o *Options) { o.Pretty = pretty }
}

// WithIndent sets the pretty-printer indent unit.
func WithIndent(indent string) Option {
	return func(o *Options) { o.Indent = indent }
}

// WithXMLDeclaration makes the serializer write an XML declaration even
// when the stream carries no prolog event.
func WithXMLDeclaration(decl bool) Option {
	return func(o *Options) { o.XMLDeclaration = decl }
}

// WithStandalone sets the standalone pseudo-attribute of the generated
// XML declaration.
func WithStandalone(s Standalone) Option {
	return func(o *Options) { o.Standalone = s }
}

// WithC14N selects canonical output. withComments keeps comments, matching
// the WithComments canonicalization variants.
func WithC14N(mode C14NMode, withComments bool) Option {
	return func(o *Options) {
		o.C14N = mode
		o.C14NComments = withComments
	}
}

// WithBlockSize sets the chunk size of serializer output and reader input.
func WithBlockSize(n int) Option {
	return func(o *Options) { o.BlockSize = n }
}

// WithEncoding bypasses BOM detection with an explicit input encoding.
func WithEncoding(e Encoding) Option {
	return func(o *Options) { o.Encoding = e }
}
