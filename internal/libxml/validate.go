// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// Well-formedness validators. Each is an independent stream transform
// enforcing one property, with a shared on-error policy: raise terminates
// the stream, emit forwards an error event and continues, skip drops the
// offending event.

package libxml

import (
	"strings"
)

// validatorStream drives one validator's check function under the policy.
type validatorStream struct {
	stream  Stream
	onError OnError
	check   func(ev *Event) []*Error
	pending eventQueue
}

func (v *validatorStream) Next(ev *Event) error {
	for {
		if v.pending.pop(ev) {
			return nil
		}
		if err := v.stream.Next(ev); err != nil {
			return err
		}
		errs := v.check(ev)
		if len(errs) == 0 {
			return nil
		}
		switch v.onError {
		case RAISE_ON_ERROR:
			return errs[0]
		case SKIP_ON_ERROR:
			continue
		default:
			for _, e := range errs {
				v.pending.push(errorEvent(e))
			}
			v.pending.push(*ev)
		}
	}
}

// NewWellFormedValidator checks tag nesting: unexpected and mismatched
// close tags, text outside the root, multiple roots, and premature end of
// input. A mismatched close tag still pops, so one slip yields one error.
func NewWellFormedValidator(s Stream, onError OnError) Stream {
	var stack []Name
	rootCount := 0
	check := func(ev *Event) []*Error {
		switch ev.Type {
		case START_ELEMENT_EVENT:
			if len(stack) == 0 {
				rootCount++
				if rootCount > 1 {
					stack = append(stack, ev.Name)
					return []*Error{newError(ErrMultipleRoots, ev.Start, "second root element <%s>", ev.Name.QName())}
				}
			}
			stack = append(stack, ev.Name)
		case END_ELEMENT_EVENT:
			if len(stack) == 0 {
				return []*Error{newError(ErrUnexpectedEndTag, ev.Start, "close tag </%s> without open element", ev.Name.QName())}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.QName() != ev.Name.QName() {
				return []*Error{newError(ErrMismatchedEndTag, ev.Start, "close tag </%s> does not match <%s>", ev.Name.QName(), top.QName())}
			}
		case CHARACTERS_EVENT, CDATA_EVENT:
			if len(stack) == 0 {
				return []*Error{newError(ErrContentOutsideRoot, ev.Start, "text outside the root element")}
			}
		case END_DOCUMENT_EVENT:
			if len(stack) > 0 {
				open := stack[len(stack)-1]
				return []*Error{newError(ErrPrematureEOF, ev.Start, "input ends with <%s> open", open.QName())}
			}
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewAttributesValidator checks per start tag that attribute names are
// unique.
func NewAttributesValidator(s Stream, onError OnError) Stream {
	check := func(ev *Event) []*Error {
		if ev.Type != START_ELEMENT_EVENT || len(ev.Attrs) < 2 {
			return nil
		}
		var errs []*Error
		seen := make(map[string]bool, len(ev.Attrs))
		for _, a := range ev.Attrs {
			qname := a.Name.QName()
			if seen[qname] {
				errs = append(errs, newError(ErrDuplicateAttribute, ev.Start, "attribute %q appears twice in <%s>", qname, ev.Name.QName()))
				continue
			}
			seen[qname] = true
		}
		return errs
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewCharactersValidator scans text payloads and attribute values for
// characters illegal in XML: C0 controls other than tab and line breaks,
// and noncharacters.
func NewCharactersValidator(s Stream, onError OnError) Stream {
	scan := func(text string, mark Mark) *Error {
		for _, r := range text {
			if !isChar(r) || isNoncharacter(r) {
				return newError(ErrIllegalChar, mark, "character U+%04X is not legal in XML", r)
			}
		}
		return nil
	}
	check := func(ev *Event) []*Error {
		switch ev.Type {
		case CHARACTERS_EVENT, SPACE_EVENT, CDATA_EVENT, COMMENT_EVENT, PI_EVENT:
			if err := scan(ev.Value, ev.Start); err != nil {
				return []*Error{err}
			}
		case START_ELEMENT_EVENT:
			for _, a := range ev.Attrs {
				if err := scan(a.Value, ev.Start); err != nil {
					return []*Error{err}
				}
			}
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewCommentsValidator rejects '--' inside a comment body and a trailing
// '-' before the close.
func NewCommentsValidator(s Stream, onError OnError) Stream {
	check := func(ev *Event) []*Error {
		if ev.Type != COMMENT_EVENT {
			return nil
		}
		if strings.Contains(ev.Value, "--") {
			return []*Error{newError(ErrBadComment, ev.Start, "'--' is not allowed inside a comment")}
		}
		if strings.HasSuffix(ev.Value, "-") {
			return []*Error{newError(ErrBadComment, ev.Start, "comment may not end with '-'")}
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewProcessingInstructionsValidator rejects an empty PI target and the
// target "xml" in any case. The declaration form is a distinct event, so
// any PI spelled with that target sits outside the prolog position.
func NewProcessingInstructionsValidator(s Stream, onError OnError) Stream {
	check := func(ev *Event) []*Error {
		if ev.Type != PI_EVENT {
			return nil
		}
		if ev.Target == "" {
			return []*Error{newError(ErrBadPITarget, ev.Start, "processing instruction with empty target")}
		}
		if strings.EqualFold(ev.Target, "xml") {
			return []*Error{newError(ErrBadPITarget, ev.Start, "target %q is reserved", ev.Target)}
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewRootBoundaryValidator enforces exactly one root element, with nothing
// outside it except comments, processing instructions, and whitespace.
func NewRootBoundaryValidator(s Stream, onError OnError) Stream {
	depth := 0
	rootCount := 0
	check := func(ev *Event) []*Error {
		switch ev.Type {
		case START_ELEMENT_EVENT:
			if depth == 0 {
				rootCount++
				if rootCount > 1 {
					depth++
					return []*Error{newError(ErrMultipleRoots, ev.Start, "document has more than one root element")}
				}
			}
			depth++
		case END_ELEMENT_EVENT:
			if depth > 0 {
				depth--
			}
		case CHARACTERS_EVENT, CDATA_EVENT:
			if depth == 0 {
				return []*Error{newError(ErrContentOutsideRoot, ev.Start, "content outside the root element")}
			}
		case END_DOCUMENT_EVENT:
			if rootCount == 0 {
				return []*Error{newError(ErrPrematureEOF, ev.Start, "document has no root element")}
			}
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewEntityReferencesValidator checks that every named reference in text
// and attribute values resolves to a predefined or declared entity. It
// requires DTD input: the provider is usually the DTD stage.
func NewEntityReferencesValidator(s Stream, models ModelProvider, onError OnError) Stream {
	model := func() *DTD {
		if models == nil {
			return nil
		}
		return models.Model()
	}
	scan := func(text string, mark Mark) []*Error {
		var errs []*Error
		for i := 0; i < len(text); i++ {
			if text[i] != '&' {
				continue
			}
			ref, ok := scanReference(text[i:])
			if !ok || ref[0] == '#' {
				continue
			}
			i += len(ref) + 1
			if _, predefined := predefinedEntities[ref]; predefined {
				continue
			}
			if _, declared := model().Entity(ref); declared {
				continue
			}
			errs = append(errs, newError(ErrUnknownEntity, mark, "reference to undeclared entity %q", ref))
		}
		return errs
	}
	check := func(ev *Event) []*Error {
		switch ev.Type {
		case CHARACTERS_EVENT:
			return scan(ev.Value, ev.Start)
		case START_ELEMENT_EVENT:
			var errs []*Error
			for _, a := range ev.Attrs {
				errs = append(errs, scan(a.Value, ev.Start)...)
			}
			return errs
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewXMLDeclarationValidator enforces declaration syntax: leading position,
// mandatory version, optional encoding then standalone, fixed order, and
// standalone restricted to yes|no.
func NewXMLDeclarationValidator(s Stream, onError OnError) Stream {
	sawContent := false
	sawProlog := false
	check := func(ev *Event) []*Error {
		switch ev.Type {
		case START_DOCUMENT_EVENT, NAMESPACE_EVENT, ERROR_EVENT:
			return nil
		case PROLOG_EVENT:
			var errs []*Error
			if sawContent || sawProlog {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "XML declaration is not at the start of the document"))
			}
			sawProlog = true
			errs = append(errs, checkDeclarationAttrs(ev)...)
			return errs
		default:
			sawContent = true
		}
		return nil
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

func checkDeclarationAttrs(ev *Event) []*Error {
	var errs []*Error
	pos := 0
	for _, a := range ev.Attrs {
		switch a.Name.QName() {
		case "version":
			if pos > 0 {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "version must come first in the XML declaration"))
			}
			if !validVersionNum(a.Value) {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "bad version %q", a.Value))
			}
			pos = 1
		case "encoding":
			if pos != 1 {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "encoding out of order in the XML declaration"))
			}
			pos = 2
		case "standalone":
			if pos == 0 || pos > 2 {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "standalone out of order in the XML declaration"))
			}
			if a.Value != "yes" && a.Value != "no" {
				errs = append(errs, newError(ErrBadDeclaration, ev.Start, "standalone must be \"yes\" or \"no\", not %q", a.Value))
			}
			pos = 3
		default:
			errs = append(errs, newError(ErrBadDeclaration, ev.Start, "unexpected %q in the XML declaration", a.Name.QName()))
		}
	}
	if pos == 0 {
		errs = append(errs, newError(ErrBadDeclaration, ev.Start, "XML declaration requires a version"))
	}
	return errs
}

func validVersionNum(v string) bool {
	if !strings.HasPrefix(v, "1.") || len(v) < 3 {
		return false
	}
	for i := 2; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// NewAttributeValuesValidator forbids '<' in attribute values. The
// tokenizer accepts the byte; the rule lives here.
func NewAttributeValuesValidator(s Stream, onError OnError) Stream {
	check := func(ev *Event) []*Error {
		if ev.Type != START_ELEMENT_EVENT {
			return nil
		}
		var errs []*Error
		for _, a := range ev.Attrs {
			if strings.IndexByte(a.Value, '<') >= 0 {
				errs = append(errs, newError(ErrLtInAttributeValue, ev.Start, "attribute %q contains '<'", a.Name.QName()))
			}
		}
		return errs
	}
	return &validatorStream{stream: s, onError: onError, check: check}
}

// NewConformantValidator is the composition of every well-formedness
// validator with one shared policy. The entity-references check joins only
// when a model provider is supplied, since it requires DTD input.
func NewConformantValidator(s Stream, models ModelProvider, onError OnError) Stream {
	s = NewCharactersValidator(s, onError)
	s = NewCommentsValidator(s, onError)
	s = NewProcessingInstructionsValidator(s, onError)
	s = NewXMLDeclarationValidator(s, onError)
	s = NewAttributesValidator(s, onError)
	s = NewAttributeValuesValidator(s, onError)
	if models != nil {
		s = NewEntityReferencesValidator(s, models, onError)
	}
	s = NewWellFormedValidator(s, onError)
	s = NewRootBoundaryValidator(s, onError)
	return s
}
