// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

package libxml

import (
	"fmt"
	"strings"
)

// The DTD parser implements the following grammar over the DOCTYPE literal:
//
//	doctype      ::= Name externalID? ('[' subset ']')?
//	externalID   ::= 'SYSTEM' quoted | 'PUBLIC' quoted quoted
//	subset       ::= (elementDecl | attlistDecl | entityDecl | pi | comment)*
//	elementDecl  ::= '<!ELEMENT' Name contentSpec '>'
//	contentSpec  ::= 'EMPTY' | 'ANY' | mixed | children
//	mixed        ::= '(' '#PCDATA' ('|' Name)* ')' '*'?
//	children     ::= group occurrence?
//	group        ::= '(' cp (',' cp)* ')' | '(' cp ('|' cp)* ')'
//	cp           ::= (Name | group) occurrence?
//	occurrence   ::= '?' | '*' | '+'
//	attlistDecl  ::= '<!ATTLIST' Name attDef* '>'
//	attDef       ::= Name attType default
//	attType      ::= 'CDATA' | 'ID' | 'IDREF' | 'IDREFS' | 'ENTITY'
//	               | 'ENTITIES' | 'NMTOKEN' | 'NMTOKENS' | enumeration
//	default      ::= '#REQUIRED' | '#IMPLIED' | '#FIXED' quoted | quoted
//	entityDecl   ::= '<!ENTITY' '%'? Name (quoted | externalID) '>'
//
// Parameter entities are expanded in a textual pre-pass over the subset
// before declaration parsing.

// Resolver supplies external subset and external entity content. It is
// called at most once per distinct identifier pair per document; an error
// aborts DTD parsing with a reported failure without halting the XML parse.
type Resolver func(systemID, publicID string) ([]byte, error)

// ContentKind discriminates element content models.
type ContentKind int8

const (
	ELEMENT_CONTENT ContentKind = iota // A child element reference (leaf).
	EMPTY_CONTENT
	ANY_CONTENT
	PCDATA_CONTENT   // (#PCDATA) or mixed (#PCDATA|a|b)*.
	SEQUENCE_CONTENT // (a, b, c)
	CHOICE_CONTENT   // (a | b | c)
)

// Occurrence is a content particle's repetition indicator.
type Occurrence int8

const (
	ONE_OCCURRENCE          Occurrence = iota // No indicator.
	OPTIONAL_OCCURRENCE                       // '?'
	ZERO_OR_MORE_OCCURRENCE                   // '*'
	ONE_OR_MORE_OCCURRENCE                    // '+'
)

func (o Occurrence) String() string {
	switch o {
	case OPTIONAL_OCCURRENCE:
		return "?"
	case ZERO_OR_MORE_OCCURRENCE:
		return "*"
	case ONE_OR_MORE_OCCURRENCE:
		return "+"
	}
	return ""
}

// ContentModel is one node of an element content model tree. Leaves carry
// an element name; groups carry their items. Nested groups are parsed
// recursively, never treated as element names.
type ContentModel struct {
	Kind  ContentKind
	Occur Occurrence
	Name  string         // for ELEMENT_CONTENT leaves
	Items []ContentModel // for SEQUENCE_CONTENT, CHOICE_CONTENT, mixed PCDATA
}

// AttrType is a declared attribute's type.
type AttrType int8

const (
	CDATA_ATTR AttrType = iota
	ID_ATTR
	IDREF_ATTR
	IDREFS_ATTR
	ENTITY_ATTR
	ENTITIES_ATTR
	NMTOKEN_ATTR
	NMTOKENS_ATTR
	NOTATION_ATTR
	ENUMERATED_ATTR
)

var attrTypeNames = map[string]AttrType{
	"CDATA":    CDATA_ATTR,
	"ID":       ID_ATTR,
	"IDREF":    IDREF_ATTR,
	"IDREFS":   IDREFS_ATTR,
	"ENTITY":   ENTITY_ATTR,
	"ENTITIES": ENTITIES_ATTR,
	"NMTOKEN":  NMTOKEN_ATTR,
	"NMTOKENS": NMTOKENS_ATTR,
	"NOTATION": NOTATION_ATTR,
}

// AttrDefault is a declared attribute's default mode.
type AttrDefault int8

const (
	IMPLIED_DEFAULT AttrDefault = iota
	REQUIRED_DEFAULT
	FIXED_DEFAULT
	VALUE_DEFAULT
)

// AttrDecl is one ATTLIST entry.
type AttrDecl struct {
	Name    string
	Type    AttrType
	Enum    []string // for ENUMERATED_ATTR and NOTATION_ATTR
	Default AttrDefault
	Value   string // for FIXED_DEFAULT and VALUE_DEFAULT
}

// EntityDef is a declared general entity.
type EntityDef struct {
	Name     string
	Internal bool
	Value    string // literal replacement text, for internal entities
	SystemID string
	PublicID string
}

// DTD is the document type model decoded from a DOCTYPE event.
type DTD struct {
	RootElement string
	Elements    map[string]ContentModel
	Attributes  map[string][]AttrDecl
	Entities    map[string]EntityDef
}

// Entity looks up a declared general entity.
func (d *DTD) Entity(name string) (EntityDef, bool) {
	if d == nil {
		return EntityDef{}, false
	}
	def, ok := d.Entities[name]
	return def, ok
}

// ParseDTD decodes a DOCTYPE literal (the text between '<!DOCTYPE' and its
// matching '>') into a model. When the declaration names an external subset
// and a resolver is supplied, the external subset is parsed first so that
// internal-subset declarations override external ones for duplicate names.
func ParseDTD(literal string, resolver Resolver) (*DTD, error) {
	if resolver != nil {
		// Each distinct identifier pair is fetched at most once.
		fetch, data, errs := resolver, map[[2]string][]byte{}, map[[2]string]error{}
		resolver = func(systemID, publicID string) ([]byte, error) {
			key := [2]string{systemID, publicID}
			if d, ok := data[key]; ok {
				return d, errs[key]
			}
			d, err := fetch(systemID, publicID)
			data[key], errs[key] = d, err
			return d, err
		}
	}
	p := &dtdParser{
		input: literal,
		dtd: &DTD{
			Elements:   make(map[string]ContentModel),
			Attributes: make(map[string][]AttrDecl),
			Entities:   make(map[string]EntityDef),
		},
	}
	if err := p.parse(resolver); err != nil {
		return nil, err
	}
	return p.dtd, nil
}

type dtdParser struct {
	input string
	pos   int
	dtd   *DTD

	// Parameter entities collected by the pre-pass.
	paramEntities map[string]string
}

func (p *dtdParser) errf(format string, args ...any) error {
	return &DTDError{Message: fmt.Sprintf(format, args...), Offset: p.pos}
}

func (p *dtdParser) parse(resolver Resolver) error {
	p.skipSpace()
	root, err := p.name()
	if err != nil {
		return p.errf("expected document type name: %v", err)
	}
	p.dtd.RootElement = root

	var externalSubset string
	p.skipSpace()
	if p.hasKeyword("SYSTEM") || p.hasKeyword("PUBLIC") {
		systemID, publicID, err := p.externalID()
		if err != nil {
			return err
		}
		if resolver != nil {
			data, rerr := resolver(systemID, publicID)
			if rerr != nil {
				return &DTDError{Message: fmt.Sprintf("resolving %q: %s", systemID, rerr), Offset: p.pos}
			}
			externalSubset = string(data)
		}
	}

	// External declarations first; the internal subset overrides them.
	if externalSubset != "" {
		if err := p.parseSubset(externalSubset, resolver); err != nil {
			return err
		}
	}

	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '[' {
		depth := 0
		start := p.pos + 1
		for i := p.pos; i < len(p.input); i++ {
			switch p.input[i] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					if err := p.parseSubset(p.input[start:i], resolver); err != nil {
						return err
					}
					p.pos = i + 1
					return nil
				}
			}
		}
		return p.errf("unterminated internal subset")
	}
	return nil
}

// parseSubset runs the parameter-entity pre-pass and then parses the
// declarations of one subset.
func (p *dtdParser) parseSubset(subset string, resolver Resolver) error {
	expanded, err := p.expandParameterEntities(subset, resolver)
	if err != nil {
		return err
	}
	sub := &dtdParser{input: expanded, dtd: p.dtd, paramEntities: p.paramEntities}
	return sub.declarations()
}

// expandParameterEntities collects <!ENTITY % ...> declarations and
// textually expands %name; references in the remaining subset text. This
// runs as a distinct pass before declaration parsing.
func (p *dtdParser) expandParameterEntities(subset string, resolver Resolver) (string, error) {
	if p.paramEntities == nil {
		p.paramEntities = make(map[string]string)
	}
	scan := &dtdParser{input: subset, paramEntities: p.paramEntities}
	var kept strings.Builder
	for scan.pos < len(subset) {
		rest := subset[scan.pos:]
		if strings.HasPrefix(rest, "<!ENTITY") {
			declStart := scan.pos
			scan.pos += len("<!ENTITY")
			scan.skipSpace()
			if scan.pos < len(subset) && subset[scan.pos] == '%' {
				scan.pos++
				scan.skipSpace()
				name, err := scan.name()
				if err != nil {
					return "", scan.errf("parameter entity: %v", err)
				}
				scan.skipSpace()
				var value string
				if scan.hasKeyword("SYSTEM") || scan.hasKeyword("PUBLIC") {
					systemID, publicID, err := scan.externalID()
					if err != nil {
						return "", err
					}
					if resolver != nil {
						data, rerr := resolver(systemID, publicID)
						if rerr != nil {
							return "", &DTDError{Message: fmt.Sprintf("resolving parameter entity %%%s;: %s", name, rerr), Offset: scan.pos}
						}
						value = string(data)
					}
				} else {
					value, err = scan.quoted()
					if err != nil {
						return "", scan.errf("parameter entity %%%s;: %v", name, err)
					}
				}
				scan.skipSpace()
				if scan.pos >= len(subset) || subset[scan.pos] != '>' {
					return "", scan.errf("unterminated parameter entity declaration")
				}
				scan.pos++
				if _, dup := p.paramEntities[name]; !dup {
					p.paramEntities[name] = value
				}
				continue
			}
			// A general entity declaration: keep it verbatim.
			scan.pos = declStart
		}
		kept.WriteByte(subset[scan.pos])
		scan.pos++
	}

	// Substitute %name; references, rescanning expansions for nesting.
	text := kept.String()
	for pass := 0; strings.IndexByte(text, '%') >= 0; pass++ {
		if pass > DefaultMaxExpansionDepth {
			return "", &DTDError{Message: "parameter entity expansion too deep"}
		}
		var out strings.Builder
		changed := false
		for i := 0; i < len(text); i++ {
			if text[i] != '%' {
				out.WriteByte(text[i])
				continue
			}
			end := strings.IndexByte(text[i:], ';')
			if end < 2 {
				out.WriteByte(text[i])
				continue
			}
			name := text[i+1 : i+end]
			if !isParamEntityName(name) {
				// A literal '%', e.g. inside a quoted default value.
				out.WriteByte(text[i])
				continue
			}
			value, ok := p.paramEntities[name]
			if !ok {
				return "", &DTDError{Message: fmt.Sprintf("undefined parameter entity %%%s;", name), Offset: i}
			}
			out.WriteString(value)
			i += end
			changed = true
		}
		text = out.String()
		if !changed {
			break
		}
	}
	return text, nil
}

func (p *dtdParser) declarations() error {
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil
		}
		rest := p.input[p.pos:]
		switch {
		case strings.HasPrefix(rest, "<!ELEMENT"):
			p.pos += len("<!ELEMENT")
			if err := p.elementDecl(); err != nil {
				return err
			}
		case strings.HasPrefix(rest, "<!ATTLIST"):
			p.pos += len("<!ATTLIST")
			if err := p.attlistDecl(); err != nil {
				return err
			}
		case strings.HasPrefix(rest, "<!ENTITY"):
			p.pos += len("<!ENTITY")
			if err := p.entityDecl(); err != nil {
				return err
			}
		case strings.HasPrefix(rest, "<!--"):
			end := strings.Index(rest, "-->")
			if end < 0 {
				return p.errf("unterminated comment in DTD")
			}
			p.pos += end + len("-->")
		case strings.HasPrefix(rest, "<?"):
			end := strings.Index(rest, "?>")
			if end < 0 {
				return p.errf("unterminated processing instruction in DTD")
			}
			p.pos += end + len("?>")
		case strings.HasPrefix(rest, "<!NOTATION"):
			// Notations carry no model we track; skip to '>'.
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return p.errf("unterminated NOTATION declaration")
			}
			p.pos += end + 1
		default:
			return p.errf("unrecognized declaration")
		}
	}
}

func (p *dtdParser) elementDecl() error {
	p.skipSpace()
	name, err := p.name()
	if err != nil {
		return p.errf("ELEMENT: %v", err)
	}
	p.skipSpace()
	model, err := p.contentSpec()
	if err != nil {
		return err
	}
	p.skipSpace()
	if err := p.expect('>'); err != nil {
		return p.errf("ELEMENT %s: %v", name, err)
	}
	// The internal subset parses after the external one and overrides
	// duplicate names.
	p.dtd.Elements[name] = model
	return nil
}

func (p *dtdParser) contentSpec() (ContentModel, error) {
	switch {
	case p.hasKeyword("EMPTY"):
		p.pos += len("EMPTY")
		return ContentModel{Kind: EMPTY_CONTENT}, nil
	case p.hasKeyword("ANY"):
		p.pos += len("ANY")
		return ContentModel{Kind: ANY_CONTENT}, nil
	}
	if p.pos >= len(p.input) || p.input[p.pos] != '(' {
		return ContentModel{}, p.errf("expected content model")
	}
	return p.group()
}

// group parses a parenthesized content particle: mixed content, a sequence,
// or a choice. Inner groups recurse.
func (p *dtdParser) group() (ContentModel, error) {
	if err := p.expect('('); err != nil {
		return ContentModel{}, p.errf("%v", err)
	}
	p.skipSpace()

	if strings.HasPrefix(p.input[p.pos:], "#PCDATA") {
		p.pos += len("#PCDATA")
		model := ContentModel{Kind: PCDATA_CONTENT}
		for {
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == '|' {
				p.pos++
				p.skipSpace()
				name, err := p.name()
				if err != nil {
					return ContentModel{}, p.errf("mixed content: %v", err)
				}
				model.Items = append(model.Items, ContentModel{Kind: ELEMENT_CONTENT, Name: name})
				continue
			}
			break
		}
		if err := p.expect(')'); err != nil {
			return ContentModel{}, p.errf("mixed content: %v", err)
		}
		if p.pos < len(p.input) && p.input[p.pos] == '*' {
			p.pos++
			model.Occur = ZERO_OR_MORE_OCCURRENCE
		} else if len(model.Items) > 0 {
			return ContentModel{}, p.errf("mixed content with elements requires '*'")
		}
		return model, nil
	}

	var items []ContentModel
	var sep byte
	for {
		p.skipSpace()
		item, err := p.particle()
		if err != nil {
			return ContentModel{}, err
		}
		items = append(items, item)
		p.skipSpace()
		if p.pos >= len(p.input) {
			return ContentModel{}, p.errf("unterminated content group")
		}
		c := p.input[p.pos]
		if c == ')' {
			p.pos++
			break
		}
		if c != ',' && c != '|' {
			return ContentModel{}, p.errf("expected ',' '|' or ')' in content group")
		}
		if sep == 0 {
			sep = c
		} else if sep != c {
			return ContentModel{}, p.errf("mixed ',' and '|' separators in one group")
		}
		p.pos++
	}

	kind := SEQUENCE_CONTENT
	if sep == '|' {
		kind = CHOICE_CONTENT
	}
	model := ContentModel{Kind: kind, Items: items}
	model.Occur = p.occurrence()
	return model, nil
}

// particle parses one content particle: a name or a nested group, with an
// optional occurrence indicator.
func (p *dtdParser) particle() (ContentModel, error) {
	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		return p.group()
	}
	name, err := p.name()
	if err != nil {
		return ContentModel{}, p.errf("content particle: %v", err)
	}
	item := ContentModel{Kind: ELEMENT_CONTENT, Name: name}
	item.Occur = p.occurrence()
	return item, nil
}

func (p *dtdParser) occurrence() Occurrence {
	if p.pos >= len(p.input) {
		return ONE_OCCURRENCE
	}
	switch p.input[p.pos] {
	case '?':
		p.pos++
		return OPTIONAL_OCCURRENCE
	case '*':
		p.pos++
		return ZERO_OR_MORE_OCCURRENCE
	case '+':
		p.pos++
		return ONE_OR_MORE_OCCURRENCE
	}
	return ONE_OCCURRENCE
}

func (p *dtdParser) attlistDecl() error {
	p.skipSpace()
	element, err := p.name()
	if err != nil {
		return p.errf("ATTLIST: %v", err)
	}
	var decls []AttrDecl
	for {
		p.skipSpace()
		if p.pos < len(p.input) && p.input[p.pos] == '>' {
			p.pos++
			break
		}
		if p.pos >= len(p.input) {
			return p.errf("unterminated ATTLIST %s", element)
		}
		decl, err := p.attDef(element)
		if err != nil {
			return err
		}
		decls = append(decls, decl)
	}
	// Merge per attribute: a later declaration of a name already known for
	// this element replaces it in place; new names are appended.
	existing := p.dtd.Attributes[element]
	for _, d := range decls {
		replaced := false
		for i := range existing {
			if existing[i].Name == d.Name {
				existing[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, d)
		}
	}
	p.dtd.Attributes[element] = existing
	return nil
}

func (p *dtdParser) attDef(element string) (AttrDecl, error) {
	name, err := p.name()
	if err != nil {
		return AttrDecl{}, p.errf("ATTLIST %s: %v", element, err)
	}
	decl := AttrDecl{Name: name}
	p.skipSpace()

	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		enum, err := p.enumeration()
		if err != nil {
			return AttrDecl{}, err
		}
		decl.Type = ENUMERATED_ATTR
		decl.Enum = enum
	} else {
		word, err := p.name()
		if err != nil {
			return AttrDecl{}, p.errf("ATTLIST %s %s: expected type", element, name)
		}
		typ, ok := attrTypeNames[word]
		if !ok {
			return AttrDecl{}, p.errf("ATTLIST %s %s: unknown type %q", element, name, word)
		}
		decl.Type = typ
		if typ == NOTATION_ATTR {
			p.skipSpace()
			enum, err := p.enumeration()
			if err != nil {
				return AttrDecl{}, err
			}
			decl.Enum = enum
		}
	}

	p.skipSpace()
	switch {
	case strings.HasPrefix(p.input[p.pos:], "#REQUIRED"):
		p.pos += len("#REQUIRED")
		decl.Default = REQUIRED_DEFAULT
	case strings.HasPrefix(p.input[p.pos:], "#IMPLIED"):
		p.pos += len("#IMPLIED")
		decl.Default = IMPLIED_DEFAULT
	case strings.HasPrefix(p.input[p.pos:], "#FIXED"):
		p.pos += len("#FIXED")
		p.skipSpace()
		value, err := p.quoted()
		if err != nil {
			return AttrDecl{}, p.errf("ATTLIST %s %s: %v", element, name, err)
		}
		decl.Default = FIXED_DEFAULT
		decl.Value = value
	default:
		value, err := p.quoted()
		if err != nil {
			return AttrDecl{}, p.errf("ATTLIST %s %s: expected default", element, name)
		}
		decl.Default = VALUE_DEFAULT
		decl.Value = value
	}
	return decl, nil
}

func (p *dtdParser) enumeration() ([]string, error) {
	if err := p.expect('('); err != nil {
		return nil, p.errf("enumeration: %v", err)
	}
	var values []string
	for {
		p.skipSpace()
		value, err := p.nmtoken()
		if err != nil {
			return nil, p.errf("enumeration: %v", err)
		}
		values = append(values, value)
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil, p.errf("unterminated enumeration")
		}
		switch p.input[p.pos] {
		case '|':
			p.pos++
		case ')':
			p.pos++
			return values, nil
		default:
			return nil, p.errf("expected '|' or ')' in enumeration")
		}
	}
}

func (p *dtdParser) entityDecl() error {
	p.skipSpace()
	// Parameter entities were consumed by the pre-pass; a '%' remaining
	// here is a stray.
	if p.pos < len(p.input) && p.input[p.pos] == '%' {
		return p.errf("unexpected parameter entity declaration")
	}
	name, err := p.name()
	if err != nil {
		return p.errf("ENTITY: %v", err)
	}
	p.skipSpace()

	def := EntityDef{Name: name}
	if p.hasKeyword("SYSTEM") || p.hasKeyword("PUBLIC") {
		systemID, publicID, err := p.externalID()
		if err != nil {
			return err
		}
		def.SystemID = systemID
		def.PublicID = publicID
		// An optional NDATA clause marks an unparsed entity; skip it.
		p.skipSpace()
		if strings.HasPrefix(p.input[p.pos:], "NDATA") {
			p.pos += len("NDATA")
			p.skipSpace()
			if _, err := p.name(); err != nil {
				return p.errf("ENTITY %s NDATA: %v", name, err)
			}
		}
	} else {
		value, err := p.quoted()
		if err != nil {
			return p.errf("ENTITY %s: %v", name, err)
		}
		def.Internal = true
		def.Value = value
	}
	p.skipSpace()
	if err := p.expect('>'); err != nil {
		return p.errf("ENTITY %s: %v", name, err)
	}
	// The internal subset parses last, so its definitions override the
	// external ones.
	p.dtd.Entities[name] = def
	return nil
}

// isParamEntityName reports whether s is a plausible parameter entity name,
// distinguishing %name; references from literal percent signs.
func isParamEntityName(s string) bool {
	for i, r := range s {
		if i == 0 && !isNameStartChar(r, EDITION_5) {
			return false
		}
		if i > 0 && !isNameChar(r, EDITION_5) {
			return false
		}
	}
	return len(s) > 0
}

// Lexical helpers.

func (p *dtdParser) skipSpace() {
	for p.pos < len(p.input) && isSpaceByte(p.input[p.pos]) {
		p.pos++
	}
}

func (p *dtdParser) expect(c byte) error {
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return fmt.Errorf("expected %q", string(c))
	}
	p.pos++
	return nil
}

func (p *dtdParser) hasKeyword(kw string) bool {
	return strings.HasPrefix(p.input[p.pos:], kw)
}

func (p *dtdParser) name() (string, error) {
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if isSpaceByte(c) || strings.IndexByte("()|,?*+%;='\">[]<", c) >= 0 {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", fmt.Errorf("expected name")
	}
	return p.input[start:p.pos], nil
}

func (p *dtdParser) nmtoken() (string, error) {
	return p.name()
}

func (p *dtdParser) quoted() (string, error) {
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("expected quoted literal")
	}
	quote := p.input[p.pos]
	if quote != '"' && quote != '\'' {
		return "", fmt.Errorf("expected quoted literal")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != quote {
		p.pos++
	}
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("unterminated literal")
	}
	value := p.input[start:p.pos]
	p.pos++
	return value, nil
}

func (p *dtdParser) externalID() (systemID, publicID string, err error) {
	if p.hasKeyword("PUBLIC") {
		p.pos += len("PUBLIC")
		p.skipSpace()
		publicID, err = p.quoted()
		if err != nil {
			return "", "", p.errf("PUBLIC identifier: %v", err)
		}
		p.skipSpace()
		systemID, err = p.quoted()
		if err != nil {
			return "", "", p.errf("SYSTEM identifier: %v", err)
		}
		return systemID, publicID, nil
	}
	p.pos += len("SYSTEM")
	p.skipSpace()
	systemID, err = p.quoted()
	if err != nil {
		return "", "", p.errf("SYSTEM identifier: %v", err)
	}
	return systemID, "", nil
}

// DTDStage decodes the DOCTYPE event into a model and re-emits the stream
// unchanged. The model is available out-of-band through Model, so the
// entity resolver can be chained over the same stream.
type DTDStage struct {
	stream   Stream
	resolver Resolver
	model    *DTD
	pending  eventQueue
}

// NewDTDStage wraps s with DTD decoding.
func NewDTDStage(s Stream, resolver Resolver) *DTDStage {
	return &DTDStage{stream: s, resolver: resolver}
}

// Model returns the decoded DTD, or nil before a DOCTYPE event has been
// consumed (or when the document has none).
func (d *DTDStage) Model() *DTD {
	return d.model
}

func (d *DTDStage) Next(ev *Event) error {
	if d.pending.pop(ev) {
		return nil
	}
	if err := d.stream.Next(ev); err != nil {
		return err
	}
	if ev.Type == DOCTYPE_EVENT && d.model == nil {
		model, err := ParseDTD(ev.Value, d.resolver)
		if err != nil {
			kind := ErrMalformedDecl
			msg := err.Error()
			if de, ok := err.(*DTDError); ok {
				switch {
				case strings.HasPrefix(de.Message, "resolving"):
					kind = ErrExternalResolve
				case strings.Contains(de.Message, "parameter entity"):
					kind = ErrUndefinedParamEntity
				}
			}
			// The doctype passes through; the failure follows it.
			d.pending.push(errorEvent(newError(kind, ev.Start, "%s", msg)))
		} else {
			d.model = model
		}
	}
	return nil
}
