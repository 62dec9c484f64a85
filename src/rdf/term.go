package rdf

import "strings"

// TermType discriminates the three kinds of RDF terms.
type TermType uint8

const (
	// TermIRI is a named resource identified by an IRI.
	TermIRI TermType = iota
	// TermBlank is a blank node. Its Value is a local identifier that has no
	// meaning outside the graph it belongs to.
	TermBlank
	// TermLiteral is a literal value with an optional datatype IRI or
	// language tag.
	TermLiteral
)

// XSDString is the default datatype of plain literals.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// Term is a tagged variant over IRI, blank node, and literal. The zero value
// is an empty IRI, which is not valid; terms should be built with the New*
// constructors.
type Term struct {
	Type     TermType
	Value    string
	Datatype string //literal only
	Language string //literal only
}

// NewIRI ...
func NewIRI(iri string) Term {
	return Term{Type: TermIRI, Value: iri}
}

// NewBlank creates a blank node with the given local identifier.
func NewBlank(id string) Term {
	return Term{Type: TermBlank, Value: id}
}

// NewLiteral creates a plain string literal.
func NewLiteral(value string) Term {
	return Term{Type: TermLiteral, Value: value, Datatype: XSDString}
}

// NewTypedLiteral creates a literal with an explicit datatype IRI.
func NewTypedLiteral(value, datatype string) Term {
	return Term{Type: TermLiteral, Value: value, Datatype: datatype}
}

// NewLangLiteral creates a language-tagged string literal.
func NewLangLiteral(value, language string) Term {
	return Term{Type: TermLiteral, Value: value, Language: language}
}

// IsBlank ...
func (t Term) IsBlank() bool {
	return t.Type == TermBlank
}

// Canonical returns the canonical N-Triples lexical form of the term. This
// form is the exclusive input to all hash derivations, so it must be
// byte-stable: IRIs render as <iri>, blank nodes as _:id, and literals with
// escaped quotes followed by their language tag or non-default datatype.
func (t Term) Canonical() (string, error) {
	switch t.Type {
	case TermIRI:
		if !validIRI(t.Value) {
			return "", NewSerializationError("invalid IRI", t.Value)
		}
		return "<" + t.Value + ">", nil
	case TermBlank:
		if t.Value == "" {
			return "", NewSerializationError("empty blank node id", t.Value)
		}
		return "_:" + t.Value, nil
	case TermLiteral:
		lex := "\"" + escapeLiteral(t.Value) + "\""
		if t.Language != "" {
			return lex + "@" + t.Language, nil
		}
		if t.Datatype != "" && t.Datatype != XSDString {
			if !validIRI(t.Datatype) {
				return "", NewSerializationError("invalid datatype IRI", t.Datatype)
			}
			return lex + "^^<" + t.Datatype + ">", nil
		}
		return lex, nil
	}
	return "", NewSerializationError("unknown term type", t.Value)
}

// Equals compares two terms field by field.
func (t Term) Equals(o Term) bool {
	return t.Type == o.Type &&
		t.Value == o.Value &&
		t.Datatype == o.Datatype &&
		t.Language == o.Language
}

func validIRI(iri string) bool {
	if len(iri) == 0 {
		return false
	}
	return !strings.ContainsAny(iri, "<>\"{}|^` \n\r\t")
}

func escapeLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString("\\\\")
		case '"':
			b.WriteString("\\\"")
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
