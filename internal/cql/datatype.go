package cql

import (
	"fmt"
	"strings"
)

// DataType is a parsed CQL data type declaration, e.g. "text",
// "list<frozen<map<int, text>>>". Unknown base names are kept verbatim so
// user-defined types still round-trip through String.
type DataType struct {
	Base   string
	Frozen bool
	Params []DataType
}

// TextType is the descriptor used when metadata only reports a column name.
func TextType() DataType { return DataType{Base: "text"} }

// ParseDataType parses CQL type text. On malformed input it returns an error;
// callers in the metadata path treat that as a plain text column.
func ParseDataType(text string) (DataType, error) {
	p := &dataTypeParser{input: strings.TrimSpace(text)}
	if p.input == "" {
		return DataType{}, fmt.Errorf("empty type text")
	}
	dt, err := p.parseType()
	if err != nil {
		return DataType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return DataType{}, fmt.Errorf("trailing input at position %d in %q", p.pos, p.input)
	}
	return dt, nil
}

func (t DataType) String() string {
	var sb strings.Builder
	if t.Frozen {
		sb.WriteString("frozen<")
	}
	sb.WriteString(t.Base)
	if len(t.Params) > 0 {
		sb.WriteString("<")
		for i, p := range t.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(p.String())
		}
		sb.WriteString(">")
	}
	if t.Frozen {
		sb.WriteString(">")
	}
	return sb.String()
}

type dataTypeParser struct {
	input string
	pos   int
}

func (p *dataTypeParser) parseType() (DataType, error) {
	if p.consumeKeyword("frozen") {
		if !p.consume('<') {
			return DataType{}, fmt.Errorf("expected '<' after frozen at position %d", p.pos)
		}
		inner, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if !p.consume('>') {
			return DataType{}, fmt.Errorf("expected '>' closing frozen at position %d", p.pos)
		}
		inner.Frozen = true
		return inner, nil
	}

	name := p.parseIdentifier()
	if name == "" {
		return DataType{}, fmt.Errorf("expected type name at position %d", p.pos)
	}
	dt := DataType{Base: strings.ToLower(name)}

	arity := 0
	switch dt.Base {
	case "list", "set":
		arity = 1
	case "map":
		arity = 2
	case "tuple":
		arity = -1
	default:
		return dt, nil
	}

	if !p.consume('<') {
		return DataType{}, fmt.Errorf("expected '<' after %s at position %d", dt.Base, p.pos)
	}
	for {
		param, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		dt.Params = append(dt.Params, param)
		if p.consume('>') {
			break
		}
		if !p.consume(',') {
			return DataType{}, fmt.Errorf("expected ',' or '>' in %s at position %d", dt.Base, p.pos)
		}
	}
	if arity > 0 && len(dt.Params) != arity {
		return DataType{}, fmt.Errorf("%s takes %d type parameters, got %d", dt.Base, arity, len(dt.Params))
	}
	return dt, nil
}

func (p *dataTypeParser) parseIdentifier() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' || ch == '.' {
			p.pos++
		} else {
			break
		}
	}
	return p.input[start:p.pos]
}

func (p *dataTypeParser) consume(ch byte) bool {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *dataTypeParser) consumeKeyword(kw string) bool {
	p.skipSpace()
	if p.pos+len(kw) > len(p.input) {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:p.pos+len(kw)], kw) {
		return false
	}
	if p.pos+len(kw) < len(p.input) {
		next := p.input[p.pos+len(kw)]
		if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') ||
			(next >= '0' && next <= '9') || next == '_' {
			return false
		}
	}
	p.pos += len(kw)
	return true
}

func (p *dataTypeParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
