package contentstream

import (
	"bytes"
	"fmt"
	"strconv"

	"seehuhn.de/go/pdf"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the
// operator.
type Operation struct {
	Operator string       // The operator (e.g., "Tj", "Tm", "q")
	Operands []pdf.Object // The operands
}

// Parser parses PDF content streams into a sequence of operations.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []pdf.Object
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse parses the content stream and returns all operations in order.
func (p *Parser) Parse() ([]Operation, error) {
	for p.pos < len(p.data) {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			break
		}
		if err := p.parseNext(); err != nil {
			return nil, err
		}
	}
	return p.ops, nil
}

// parseNext parses the next token, which is either an operand (pushed onto
// the stack) or an operator (which consumes the operand stack and creates
// an Operation).
func (p *Parser) parseNext() error {
	start := p.pos

	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return nil
	}

	c := p.data[p.pos]

	// Comments run to end of line.
	if c == '%' {
		for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
			p.pos++
		}
		return nil
	}

	if isLetter(c) || c == '\'' || c == '"' {
		// Booleans and null look like operators; parseOperand handles them.
		if tok := p.peekToken(); tok == "true" || tok == "false" || tok == "null" {
			operand, err := p.parseOperand()
			if err != nil {
				return fmt.Errorf("at position %d: %w", start, err)
			}
			p.operands = append(p.operands, operand)
			return nil
		}
		return p.parseOperator()
	}

	operand, err := p.parseOperand()
	if err != nil {
		return fmt.Errorf("at position %d: %w", start, err)
	}
	p.operands = append(p.operands, operand)
	return nil
}

// peekToken returns the run of regular characters at the current position
// without consuming it.
func (p *Parser) peekToken() string {
	end := p.pos
	for end < len(p.data) && !isWhitespace(p.data[end]) && !isDelimiter(p.data[end]) {
		end++
	}
	return string(p.data[p.pos:end])
}

// parseOperator parses an operator and creates an operation with the
// current operand stack, then clears the stack.
func (p *Parser) parseOperator() error {
	start := p.pos

	var op bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isLetter(c) || c == '\'' || c == '"' || c == '*' {
			op.WriteByte(c)
			p.pos++
		} else {
			break
		}
	}

	operator := op.String()
	if operator == "" {
		return fmt.Errorf("empty operator at position %d", start)
	}

	operation := Operation{
		Operator: operator,
		Operands: make([]pdf.Object, len(p.operands)),
	}
	copy(operation.Operands, p.operands)

	p.ops = append(p.ops, operation)
	p.operands = p.operands[:0]

	// Inline images carry raw sample data between ID and EI that must be
	// skipped, not tokenized.
	if operator == "ID" {
		p.skipInlineImage()
	}

	return nil
}

// skipInlineImage advances past inline image data up to and including the
// EI operator.
func (p *Parser) skipInlineImage() {
	for p.pos+1 < len(p.data) {
		if p.data[p.pos] == 'E' && p.data[p.pos+1] == 'I' &&
			(p.pos == 0 || isWhitespace(p.data[p.pos-1])) {
			p.pos += 2
			return
		}
		p.pos++
	}
	p.pos = len(p.data)
}

// parseOperand parses a single operand, which can be a number, string,
// name, array, dictionary, boolean, or null.
func (p *Parser) parseOperand() (pdf.Object, error) {
	p.skipWhitespace()

	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]

	// Number (int or real)
	if c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		return p.parseNumber()
	}

	// String (literal)
	if c == '(' {
		return p.parseString()
	}

	// Hex string
	if c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] != '<' {
		return p.parseHexString()
	}

	// Name
	if c == '/' {
		return p.parseName()
	}

	// Array
	if c == '[' {
		return p.parseArray()
	}

	// Dictionary (rare in content streams, but possible)
	if c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
		return p.parseDict()
	}

	// Boolean or null
	if c == 't' || c == 'f' || c == 'n' {
		switch tok := p.peekToken(); tok {
		case "true":
			p.pos += len(tok)
			return pdf.Bool(true), nil
		case "false":
			p.pos += len(tok)
			return pdf.Bool(false), nil
		case "null":
			p.pos += len(tok)
			return nil, nil
		}
	}

	return nil, fmt.Errorf("unexpected character at position %d: %c", p.pos, c)
}

// parseNumber parses an integer or real number operand.
func (p *Parser) parseNumber() (pdf.Object, error) {
	start := p.pos
	hasDecimal := false

	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}

	numStr := string(p.data[start:p.pos])

	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", numStr, err)
		}
		return pdf.Real(val), nil
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", numStr, err)
	}
	return pdf.Integer(val), nil
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *Parser) parseString() (pdf.Object, error) {
	if p.data[p.pos] != '(' {
		return nil, fmt.Errorf("string must start with '('")
	}
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1 // parenthesis nesting

	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]

		if c == '\\' && p.pos+1 < len(p.data) {
			p.pos++
			next := p.data[p.pos]
			switch next {
			case 'n':
				result.WriteByte('\n')
				p.pos++
			case 'r':
				result.WriteByte('\r')
				p.pos++
			case 't':
				result.WriteByte('\t')
				p.pos++
			case 'b':
				result.WriteByte('\b')
				p.pos++
			case 'f':
				result.WriteByte('\f')
				p.pos++
			case '(':
				result.WriteByte('(')
				p.pos++
			case ')':
				result.WriteByte(')')
				p.pos++
			case '\\':
				result.WriteByte('\\')
				p.pos++
			case '\r':
				// Line continuation - skip the newline
				p.pos++
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
				// Line continuation - skip the newline
				p.pos++
			case '0', '1', '2', '3', '4', '5', '6', '7':
				// Octal escape sequence: \ddd (1-3 octal digits)
				octalVal := int(next - '0')
				p.pos++
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					digit := p.data[p.pos]
					if digit < '0' || digit > '7' {
						break
					}
					octalVal = octalVal*8 + int(digit-'0')
					p.pos++
				}
				result.WriteByte(byte(octalVal & 0xFF))
			default:
				// Unknown escape - drop the backslash, keep the character
				result.WriteByte(next)
				p.pos++
			}
		} else if c == '(' {
			depth++
			result.WriteByte(c)
			p.pos++
		} else if c == ')' {
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
			p.pos++
		} else {
			result.WriteByte(c)
			p.pos++
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unclosed string")
	}

	return pdf.String(result.Bytes()), nil
}

// parseHexString parses a hexadecimal string <...>.
func (p *Parser) parseHexString() (pdf.Object, error) {
	if p.data[p.pos] != '<' {
		return nil, fmt.Errorf("hex string must start with '<'")
	}
	p.pos++ // skip '<'

	var result bytes.Buffer

	for p.pos < len(p.data) {
		c := p.data[p.pos]

		if c == '>' {
			p.pos++
			break
		}

		if isWhitespace(c) {
			p.pos++
			continue
		}

		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit: %c", c)
		}

		p.pos++
		// Second hex digit; an odd count implies a trailing 0.
		if p.pos >= len(p.data) || p.data[p.pos] == '>' {
			result.WriteByte(hexValue(c) << 4)
			break
		}

		c2 := p.data[p.pos]
		if isWhitespace(c2) {
			p.skipWhitespace()
			if p.pos >= len(p.data) || p.data[p.pos] == '>' {
				result.WriteByte(hexValue(c) << 4)
				break
			}
			c2 = p.data[p.pos]
		}

		if !isHexDigit(c2) {
			return nil, fmt.Errorf("invalid hex digit: %c", c2)
		}

		result.WriteByte((hexValue(c) << 4) | hexValue(c2))
		p.pos++
	}

	return pdf.String(result.Bytes()), nil
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() (pdf.Object, error) {
	if p.data[p.pos] != '/' {
		return nil, fmt.Errorf("name must start with '/'")
	}
	p.pos++ // skip '/'

	var result bytes.Buffer

	for p.pos < len(p.data) {
		c := p.data[p.pos]

		if isWhitespace(c) || isDelimiter(c) {
			break
		}

		if c == '#' && p.pos+2 < len(p.data) {
			p.pos++
			hex1 := p.data[p.pos]
			hex2 := p.data[p.pos+1]
			if isHexDigit(hex1) && isHexDigit(hex2) {
				result.WriteByte((hexValue(hex1) << 4) | hexValue(hex2))
				p.pos += 2
				continue
			}
			// Invalid escape - keep #
			result.WriteByte('#')
			continue
		}

		result.WriteByte(c)
		p.pos++
	}

	return pdf.Name(result.String()), nil
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray() (pdf.Object, error) {
	if p.data[p.pos] != '[' {
		return nil, fmt.Errorf("array must start with '['")
	}
	p.pos++ // skip '['

	var arr pdf.Array

	for p.pos < len(p.data) {
		p.skipWhitespace()

		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}

		if p.data[p.pos] == ']' {
			p.pos++
			break
		}

		obj, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		arr = append(arr, obj)
	}

	return arr, nil
}

// parseDict parses a dictionary <<...>> (rare in content streams).
func (p *Parser) parseDict() (pdf.Object, error) {
	if p.pos+1 >= len(p.data) || p.data[p.pos] != '<' || p.data[p.pos+1] != '<' {
		return nil, fmt.Errorf("dictionary must start with '<<'")
	}
	p.pos += 2 // skip '<<'

	dict := make(pdf.Dict)

	for p.pos < len(p.data) {
		p.skipWhitespace()

		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			break
		}

		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}

		key, err := p.parseName()
		if err != nil {
			return nil, err
		}

		name, ok := key.(pdf.Name)
		if !ok {
			return nil, fmt.Errorf("expected name for dictionary key")
		}

		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		dict[name] = value
	}

	return dict, nil
}

// skipWhitespace advances past PDF whitespace characters.
func (p *Parser) skipWhitespace() {
	for p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	if c >= '0' && c <= '9' {
		return c - '0'
	}
	if c >= 'a' && c <= 'f' {
		return c - 'a' + 10
	}
	if c >= 'A' && c <= 'F' {
		return c - 'A' + 10
	}
	return 0
}
