// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package xmlstream

import (
	"go.xmlstream.in/xmlstream/internal/libxml"
)

// Option configures parsing and serialization.
// Re-exported from internal/libxml.
type Option = libxml.Option

// Re-export option functions from internal/libxml.
var (
	WithEdition           = libxml.WithEdition
	WithOnError           = libxml.WithOnError
	WithOnUnknownEntity   = libxml.WithOnUnknownEntity
	WithMaxExpansionDepth = libxml.WithMaxExpansionDepth
	WithMaxTotalExpansion = libxml.WithMaxTotalExpansion
	WithTrackWhitespace   = libxml.WithTrackWhitespace
	WithNamespaces        = libxml.WithNamespaces
	WithNamespaceContext  = libxml.WithNamespaceContext
	WithResolver          = libxml.WithResolver
	WithPretty            = libxml.WithPretty
	WithIndent            = libxml.WithIndent
	WithXMLDeclaration    = libxml.WithXMLDeclaration
	WithStandalone        = libxml.WithStandalone
	WithC14N              = libxml.WithC14N
	WithBlockSize         = libxml.WithBlockSize
	WithEncoding          = libxml.WithEncoding
)

// Options combines multiple options into a single Option, useful for
// presets.
func Options(opts ...Option) Option {
	return libxml.CombineOptions(opts...)
}

// Re-export the configuration enums.
type (
	Edition         = libxml.Edition
	OnError         = libxml.OnError
	OnUnknownEntity = libxml.OnUnknownEntity
	NamespaceMode   = libxml.NamespaceMode
	C14NMode        = libxml.C14NMode
	Standalone      = libxml.Standalone
	Encoding        = libxml.Encoding
)

const (
	EDITION_5 = libxml.EDITION_5
	EDITION_4 = libxml.EDITION_4

	EMIT_ON_ERROR  = libxml.EMIT_ON_ERROR
	RAISE_ON_ERROR = libxml.RAISE_ON_ERROR
	SKIP_ON_ERROR  = libxml.SKIP_ON_ERROR

	EMIT_UNKNOWN_ENTITY   = libxml.EMIT_UNKNOWN_ENTITY
	RAISE_UNKNOWN_ENTITY  = libxml.RAISE_UNKNOWN_ENTITY
	KEEP_UNKNOWN_ENTITY   = libxml.KEEP_UNKNOWN_ENTITY
	REMOVE_UNKNOWN_ENTITY = libxml.REMOVE_UNKNOWN_ENTITY

	NAMESPACES_OFF      = libxml.NAMESPACES_OFF
	NAMESPACES_VALIDATE = libxml.NAMESPACES_VALIDATE
	NAMESPACES_RESOLVE  = libxml.NAMESPACES_RESOLVE
	NAMESPACES_BOTH     = libxml.NAMESPACES_BOTH

	C14N_OFF       = libxml.C14N_OFF
	C14N_STANDARD  = libxml.C14N_STANDARD
	C14N_EXCLUSIVE = libxml.C14N_EXCLUSIVE

	STANDALONE_OMIT = libxml.STANDALONE_OMIT
	STANDALONE_YES  = libxml.STANDALONE_YES
	STANDALONE_NO   = libxml.STANDALONE_NO

	ANY_ENCODING     = libxml.ANY_ENCODING
	UTF8_ENCODING    = libxml.UTF8_ENCODING
	UTF16LE_ENCODING = libxml.UTF16LE_ENCODING
	UTF16BE_ENCODING = libxml.UTF16BE_ENCODING
)

// Re-export the error kind constants validators report.
const (
	ErrIllegalByte          = libxml.ErrIllegalByte
	ErrInvalidName          = libxml.ErrInvalidName
	ErrUnclosedToken        = libxml.ErrUnclosedToken
	ErrBadPITarget          = libxml.ErrBadPITarget
	ErrBadComment           = libxml.ErrBadComment
	ErrBadCDATAClose        = libxml.ErrBadCDATAClose
	ErrBadDeclaration       = libxml.ErrBadDeclaration
	ErrMismatchedEndTag     = libxml.ErrMismatchedEndTag
	ErrUnexpectedEndTag     = libxml.ErrUnexpectedEndTag
	ErrMultipleRoots        = libxml.ErrMultipleRoots
	ErrContentOutsideRoot   = libxml.ErrContentOutsideRoot
	ErrPrematureEOF         = libxml.ErrPrematureEOF
	ErrDuplicateAttribute   = libxml.ErrDuplicateAttribute
	ErrLtInAttributeValue   = libxml.ErrLtInAttributeValue
	ErrBadQuote             = libxml.ErrBadQuote
	ErrUnknownEntity        = libxml.ErrUnknownEntity
	ErrBareAmpersand        = libxml.ErrBareAmpersand
	ErrInvalidCharRef       = libxml.ErrInvalidCharRef
	ErrExpansionDepth       = libxml.ErrExpansionDepth
	ErrExpansionSize        = libxml.ErrExpansionSize
	ErrCyclicEntity         = libxml.ErrCyclicEntity
	ErrUndeclaredPrefix     = libxml.ErrUndeclaredPrefix
	ErrReservedBinding      = libxml.ErrReservedBinding
	ErrPrefixMismatch       = libxml.ErrPrefixMismatch
	ErrIllegalChar          = libxml.ErrIllegalChar
	ErrMalformedDecl        = libxml.ErrMalformedDecl
	ErrUndefinedParamEntity = libxml.ErrUndefinedParamEntity
	ErrExternalResolve      = libxml.ErrExternalResolve
	ErrInvalidEncoding      = libxml.ErrInvalidEncoding
	ErrIncompleteEncoding   = libxml.ErrIncompleteEncoding
)
