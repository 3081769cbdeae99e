// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Error types for XML parsing and serializing.
// Provides structured error reporting with line/column information.

package libxml

import (
	"fmt"
)

// ErrorKind classifies stream errors by the property they violate.
type ErrorKind int

const (
	ErrNone ErrorKind = iota

	// Lexical errors.
	ErrIllegalByte
	ErrInvalidName
	ErrUnclosedToken
	ErrBadPITarget
	ErrBadComment
	ErrBadCDATAClose
	ErrBadDeclaration

	// Structural errors.
	ErrMismatchedEndTag
	ErrUnexpectedEndTag
	ErrMultipleRoots
	ErrContentOutsideRoot
	ErrPrematureEOF

	// Attribute errors.
	ErrDuplicateAttribute
	ErrLtInAttributeValue
	ErrBadQuote

	// Entity errors.
	ErrUnknownEntity
	ErrBareAmpersand
	ErrInvalidCharRef
	ErrExpansionDepth
	ErrExpansionSize
	ErrCyclicEntity

	// Namespace errors.
	ErrUndeclaredPrefix
	ErrReservedBinding
	ErrPrefixMismatch

	// Character legality.
	ErrIllegalChar

	// DTD errors.
	ErrMalformedDecl
	ErrUndefinedParamEntity
	ErrExternalResolve

	// Encoding errors.
	ErrInvalidEncoding
	ErrIncompleteEncoding
)

var errorKindStrings = map[ErrorKind]string{
	ErrNone:                 "no error",
	ErrIllegalByte:          "illegal byte",
	ErrInvalidName:          "invalid name",
	ErrUnclosedToken:        "unclosed token",
	ErrBadPITarget:          "bad processing instruction target",
	ErrBadComment:           "bad comment",
	ErrBadCDATAClose:        "bad CDATA close",
	ErrBadDeclaration:       "bad declaration",
	ErrMismatchedEndTag:     "mismatched close tag",
	ErrUnexpectedEndTag:     "unexpected close tag",
	ErrMultipleRoots:        "multiple root elements",
	ErrContentOutsideRoot:   "content outside root",
	ErrPrematureEOF:         "premature end of input",
	ErrDuplicateAttribute:   "duplicate attribute",
	ErrLtInAttributeValue:   "'<' in attribute value",
	ErrBadQuote:             "bad attribute quote",
	ErrUnknownEntity:        "unknown entity",
	ErrBareAmpersand:        "bare '&'",
	ErrInvalidCharRef:       "invalid character reference",
	ErrExpansionDepth:       "entity expansion depth exceeded",
	ErrExpansionSize:        "entity expansion size exceeded",
	ErrCyclicEntity:         "cyclic entity reference",
	ErrUndeclaredPrefix:     "undeclared namespace prefix",
	ErrReservedBinding:      "illegal binding of reserved prefix",
	ErrPrefixMismatch:       "prefix-URI mismatch on end tag",
	ErrIllegalChar:          "illegal character",
	ErrMalformedDecl:        "malformed declaration",
	ErrUndefinedParamEntity: "undefined parameter entity",
	ErrExternalResolve:      "external subset resolution failed",
	ErrInvalidEncoding:      "invalid encoding",
	ErrIncompleteEncoding:   "incomplete encoding",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("unknown error kind %d", int(k))
}

// Fatal reports whether errors of this kind stop the parse. Encoding errors
// and exhausted expansion budgets are fatal; everything else is recoverable.
func (k ErrorKind) Fatal() bool {
	switch k {
	case ErrExpansionDepth, ErrExpansionSize,
		ErrInvalidEncoding, ErrIncompleteEncoding:
		return true
	}
	return false
}

// Error is the diagnostic carried by ERROR_EVENT events. The same value is
// returned through the Go error path when a transform's policy is to raise.
type Error struct {
	Kind    ErrorKind
	Message string
	Mark    Mark
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Mark.Line == 0 {
		return "xml: " + msg
	}
	return fmt.Sprintf("xml: %s: %s", e.Mark, msg)
}

func newError(kind ErrorKind, mark Mark, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Mark: mark}
}

// errorEvent wraps a diagnostic into a stream event positioned at its mark.
func errorEvent(err *Error) Event {
	return Event{Type: ERROR_EVENT, Start: err.Mark, End: err.Mark, Err: err}
}

// EncodingError reports a failure while decoding the input byte stream.
type EncodingError struct {
	Offset int
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("xml: offset %d: %s", e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// SerializerError reports a failure while rendering events back to bytes.
type SerializerError struct {
	Message string
}

func (e *SerializerError) Error() string {
	return fmt.Sprintf("xml: %s", e.Message)
}

// DTDError reports a failure while parsing a document type declaration.
type DTDError struct {
	Message string
	Offset  int // byte offset within the DOCTYPE literal
}

func (e *DTDError) Error() string {
	return fmt.Sprintf("xml: doctype offset %d: %s", e.Offset, e.Message)
}
