package rdf

import (
	"strings"
)

// Parse reads an N-Triples document and returns its statements. Parsing is
// line-based: blank lines and comment lines starting with '#' are skipped.
// Any lexical problem surfaces as a SerializationError.
func Parse(data string) ([]Triple, error) {
	triples := []Triple{}

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		triple, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		triples = append(triples, triple)
	}

	return triples, nil
}

// Format renders triples as an N-Triples document with one canonical
// statement per line, in slice order.
func Format(triples []Triple) (string, error) {
	var b strings.Builder
	for _, t := range triples {
		line, err := t.Canonical()
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

type lineParser struct {
	line string
	pos  int
}

func parseLine(line string) (Triple, error) {
	p := &lineParser{line: line}

	subject, err := p.parseTerm()
	if err != nil {
		return Triple{}, err
	}
	p.skipSpace()

	predicate, err := p.parseTerm()
	if err != nil {
		return Triple{}, err
	}
	p.skipSpace()

	object, err := p.parseTerm()
	if err != nil {
		return Triple{}, err
	}
	p.skipSpace()

	if !p.consume('.') {
		return Triple{}, NewSerializationError("statement not terminated with '.'", line)
	}
	p.skipSpace()
	if p.pos != len(p.line) {
		return Triple{}, NewSerializationError("trailing characters after '.'", p.line[p.pos:])
	}

	return NewTriple(subject, predicate, object)
}

func (p *lineParser) parseTerm() (Term, error) {
	if p.pos >= len(p.line) {
		return Term{}, NewSerializationError("unexpected end of statement", p.line)
	}

	switch p.line[p.pos] {
	case '<':
		return p.parseIRI()
	case '_':
		return p.parseBlank()
	case '"':
		return p.parseLiteral()
	}
	return Term{}, NewSerializationError("unexpected character", string(p.line[p.pos]))
}

func (p *lineParser) parseIRI() (Term, error) {
	end := strings.IndexByte(p.line[p.pos:], '>')
	if end < 0 {
		return Term{}, NewSerializationError("unterminated IRI", p.line[p.pos:])
	}
	iri := p.line[p.pos+1 : p.pos+end]
	if !validIRI(iri) {
		return Term{}, NewSerializationError("invalid IRI", iri)
	}
	p.pos += end + 1
	return NewIRI(iri), nil
}

func (p *lineParser) parseBlank() (Term, error) {
	if !strings.HasPrefix(p.line[p.pos:], "_:") {
		return Term{}, NewSerializationError("malformed blank node", p.line[p.pos:])
	}
	p.pos += 2
	start := p.pos
	for p.pos < len(p.line) && !isTermDelimiter(p.line[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Term{}, NewSerializationError("empty blank node id", p.line)
	}
	return NewBlank(p.line[start:p.pos]), nil
}

func (p *lineParser) parseLiteral() (Term, error) {
	p.pos++ //opening quote
	var b strings.Builder

	for {
		if p.pos >= len(p.line) {
			return Term{}, NewSerializationError("unterminated literal", p.line)
		}
		c := p.line[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c == '\\' {
			if p.pos+1 >= len(p.line) {
				return Term{}, NewSerializationError("dangling escape", p.line)
			}
			p.pos++
			switch p.line[p.pos] {
			case '\\':
				b.WriteByte('\\')
			case '"':
				b.WriteByte('"')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				return Term{}, NewSerializationError("unknown escape", string(p.line[p.pos]))
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}

	value := b.String()

	//language tag
	if p.pos < len(p.line) && p.line[p.pos] == '@' {
		p.pos++
		start := p.pos
		for p.pos < len(p.line) && !isTermDelimiter(p.line[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return Term{}, NewSerializationError("empty language tag", p.line)
		}
		return NewLangLiteral(value, p.line[start:p.pos]), nil
	}

	//datatype
	if strings.HasPrefix(p.line[p.pos:], "^^") {
		p.pos += 2
		if p.pos >= len(p.line) || p.line[p.pos] != '<' {
			return Term{}, NewSerializationError("malformed datatype IRI", p.line[p.pos:])
		}
		dt, err := p.parseIRI()
		if err != nil {
			return Term{}, err
		}
		return NewTypedLiteral(value, dt.Value), nil
	}

	return NewLiteral(value), nil
}

func (p *lineParser) skipSpace() {
	for p.pos < len(p.line) && (p.line[p.pos] == ' ' || p.line[p.pos] == '\t') {
		p.pos++
	}
}

func (p *lineParser) consume(c byte) bool {
	if p.pos < len(p.line) && p.line[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func isTermDelimiter(c byte) bool {
	return c == ' ' || c == '\t' || c == '.'
}
