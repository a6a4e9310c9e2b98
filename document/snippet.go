package document

import (
	"strings"

	"seehuhn.de/go/pdf"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/model"
)

// ExtractText returns the page text whose anchor point falls inside clip
// (top-down coordinates), in content stream order. Fragments are joined
// with single spaces.
//
// The extractor tracks text positioning operators only; it does not apply
// glyph metrics or the current transformation matrix, so the result is an
// approximation. Callers treat any error or empty result as "no snippet".
func (p *SourcePage) ExtractText(clip model.Rect) (string, error) {
	data, err := p.Content()
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", nil
	}

	ops, err := contentstream.NewParser(data).Parse()
	if err != nil {
		return "", err
	}

	var (
		frags   []string
		x, y    float64 // current text position, PDF coordinates
		lx, ly  float64 // start of the current text line
		leading float64
	)

	collect := func(obj pdf.Object) {
		text := showText(obj)
		if text == "" {
			return
		}
		if clip.Contains(p.flipPoint(x, y)) {
			frags = append(frags, text)
		}
	}

	for _, op := range ops {
		switch op.Operator {
		case "BT":
			x, y, lx, ly = 0, 0, 0, 0
		case "Tm":
			if len(op.Operands) == 6 {
				x = numOperand(op.Operands[4])
				y = numOperand(op.Operands[5])
				lx, ly = x, y
			}
		case "Td":
			if len(op.Operands) == 2 {
				lx += numOperand(op.Operands[0])
				ly += numOperand(op.Operands[1])
				x, y = lx, ly
			}
		case "TD":
			if len(op.Operands) == 2 {
				leading = -numOperand(op.Operands[1])
				lx += numOperand(op.Operands[0])
				ly += numOperand(op.Operands[1])
				x, y = lx, ly
			}
		case "TL":
			if len(op.Operands) == 1 {
				leading = numOperand(op.Operands[0])
			}
		case "T*":
			ly -= leading
			x, y = lx, ly
		case "Tj":
			if len(op.Operands) == 1 {
				collect(op.Operands[0])
			}
		case "'":
			ly -= leading
			x, y = lx, ly
			if len(op.Operands) == 1 {
				collect(op.Operands[0])
			}
		case "\"":
			ly -= leading
			x, y = lx, ly
			if len(op.Operands) == 3 {
				collect(op.Operands[2])
			}
		case "TJ":
			if len(op.Operands) == 1 {
				if arr, ok := op.Operands[0].(pdf.Array); ok {
					var b strings.Builder
					for _, item := range arr {
						if s, ok := item.(pdf.String); ok {
							b.WriteString(showText(s))
						}
					}
					if b.Len() > 0 && clip.Contains(p.flipPoint(x, y)) {
						frags = append(frags, b.String())
					}
				}
			}
		}
	}

	return strings.Join(frags, " "), nil
}

// numOperand converts a numeric operand, defaulting to 0.
func numOperand(obj pdf.Object) float64 {
	switch v := obj.(type) {
	case pdf.Integer:
		return float64(v)
	case pdf.Real:
		return float64(v)
	}
	return 0
}

// showText decodes a shown string assuming a one-byte Latin encoding.
// Fragments that come out mostly unprintable (composite-font codes, for
// example) are dropped rather than polluting the snippet.
func showText(obj pdf.Object) string {
	s, ok := obj.(pdf.String)
	if !ok || len(s) == 0 {
		return ""
	}

	var b strings.Builder
	printable := 0
	for _, c := range []byte(s) {
		switch {
		case c >= 32 && c <= 126:
			b.WriteByte(c)
			printable++
		case c >= 160:
			b.WriteRune(rune(c))
			printable++
		default:
			b.WriteByte(' ')
		}
	}

	if printable*2 < len(s) {
		return ""
	}
	return b.String()
}
