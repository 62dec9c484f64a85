package rdf

// Triple is one RDF statement. The predicate is always an IRI; the subject
// is an IRI or a blank node; the object may be any term.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple ...
func NewTriple(subject, predicate, object Term) (Triple, error) {
	t := Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
	if err := t.Validate(); err != nil {
		return Triple{}, err
	}
	return t, nil
}

// Validate enforces the positional constraints of RDF statements.
func (t Triple) Validate() error {
	if t.Subject.Type == TermLiteral {
		return NewSerializationError("literal in subject position", t.Subject.Value)
	}
	if t.Predicate.Type != TermIRI {
		return NewSerializationError("non-IRI in predicate position", t.Predicate.Value)
	}
	return nil
}

// Canonical returns the canonical N-Triples line for the statement,
// terminated with " ." but without a newline.
func (t Triple) Canonical() (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}

	s, err := t.Subject.Canonical()
	if err != nil {
		return "", err
	}
	p, err := t.Predicate.Canonical()
	if err != nil {
		return "", err
	}
	o, err := t.Object.Canonical()
	if err != nil {
		return "", err
	}

	return s + " " + p + " " + o + " .", nil
}

// Equals compares two triples term by term.
func (t Triple) Equals(o Triple) bool {
	return t.Subject.Equals(o.Subject) &&
		t.Predicate.Equals(o.Predicate) &&
		t.Object.Equals(o.Object)
}
