package contentstream

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/script"
	"github.com/tsawler/marginalia/textwrap"
)

// FontID names a font resource used by canvas text operators. The document
// layer maps each ID to an actual font dictionary when it assembles the
// page resources.
type FontID string

// The two font resources the canvas draws text with.
const (
	// FontHelvetica is a WinAnsi-encoded Type1 Helvetica for Latin text.
	FontHelvetica FontID = "FH"
	// FontCJK is a UTF-16BE encoded Type0 CJK font for ideographs and kana.
	FontCJK FontID = "FC"
)

// utf16be is the encoding of CJK show strings for the Type0 font.
// Encoders carry transform state, so each caller creates its own.
var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// Canvas accumulates content stream operators for one page surface.
// All drawing is append-only; nothing already drawn is read or altered.
//
// The coordinate system is top-down: the origin is the top-left page
// corner and y grows downward. The canvas flips y into PDF device space as
// it writes operators, so callers can lay out pages with a simple
// downward-moving cursor.
type Canvas struct {
	buf    bytes.Buffer
	width  float64
	height float64
	fonts  map[FontID]bool
	alphas map[string]float64
}

// NewCanvas returns an empty canvas for a page of the given size.
func NewCanvas(width, height float64) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		fonts:  make(map[FontID]bool),
		alphas: make(map[string]float64),
	}
}

// Width returns the page width the canvas was created with.
func (c *Canvas) Width() float64 { return c.width }

// Height returns the page height the canvas was created with.
func (c *Canvas) Height() float64 { return c.height }

// Empty reports whether nothing has been drawn yet.
func (c *Canvas) Empty() bool { return c.buf.Len() == 0 }

// Bytes returns the accumulated content stream.
func (c *Canvas) Bytes() []byte { return c.buf.Bytes() }

// Fonts returns the font resource IDs referenced by the drawn operators,
// in stable order.
func (c *Canvas) Fonts() []FontID {
	ids := make([]FontID, 0, len(c.fonts))
	for id := range c.fonts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Alphas returns the ExtGState resource names referenced by the drawn
// operators, mapped to their fill alpha values.
func (c *Canvas) Alphas() map[string]float64 {
	out := make(map[string]float64, len(c.alphas))
	for name, a := range c.alphas {
		out[name] = a
	}
	return out
}

// flip converts a top-down y coordinate to PDF device space.
func (c *Canvas) flip(y float64) float64 {
	return c.height - y
}

// num formats a coordinate or width for the content stream. PDF numbers
// must not use exponent notation.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func (c *Canvas) op(args ...string) {
	c.buf.WriteString(strings.Join(args, " "))
	c.buf.WriteByte('\n')
}

func (c *Canvas) setFill(col model.RGB) {
	c.op(num(col.R), num(col.G), num(col.B), "rg")
}

func (c *Canvas) setStroke(col model.RGB) {
	c.op(num(col.R), num(col.G), num(col.B), "RG")
}

// rectOp emits the re operator for a top-down rectangle.
func (c *Canvas) rectOp(r model.Rect) {
	c.op(num(r.X0), num(c.flip(r.Y1)), num(r.Width()), num(r.Height()), "re")
}

// alphaName registers (if needed) and returns the ExtGState resource name
// for a fill alpha value.
func (c *Canvas) alphaName(alpha float64) string {
	name := fmt.Sprintf("GS%d", int(alpha*100+0.5))
	c.alphas[name] = alpha
	return name
}

// FillRect fills a rectangle with a solid color.
func (c *Canvas) FillRect(r model.Rect, fill model.RGB) {
	c.setFill(fill)
	c.rectOp(r)
	c.op("f")
}

// FillRectAlpha fills a rectangle with constant fill transparency.
func (c *Canvas) FillRectAlpha(r model.Rect, fill model.RGB, alpha float64) {
	c.op("q")
	c.op("/"+c.alphaName(alpha), "gs")
	c.FillRect(r, fill)
	c.op("Q")
}

// StrokeRect strokes a rectangle outline.
func (c *Canvas) StrokeRect(r model.Rect, stroke model.RGB, width float64) {
	c.setStroke(stroke)
	c.op(num(width), "w")
	c.rectOp(r)
	c.op("S")
}

// StrokeFillRect fills a rectangle and strokes its outline.
func (c *Canvas) StrokeFillRect(r model.Rect, stroke, fill model.RGB, width float64) {
	c.setStroke(stroke)
	c.setFill(fill)
	c.op(num(width), "w")
	c.rectOp(r)
	c.op("B")
}

// DashedRect strokes a rectangle outline with a dash pattern.
func (c *Canvas) DashedRect(r model.Rect, stroke model.RGB, width float64, dash []float64) {
	c.op("q")
	parts := make([]string, len(dash))
	for i, d := range dash {
		parts[i] = num(d)
	}
	c.op("[" + strings.Join(parts, " ") + "] 0 d")
	c.setStroke(stroke)
	c.op(num(width), "w")
	c.rectOp(r)
	c.op("S")
	c.op("Q")
}

// Line strokes a single line segment.
func (c *Canvas) Line(p1, p2 model.Point, stroke model.RGB, width float64) {
	c.setStroke(stroke)
	c.op(num(width), "w")
	c.op(num(p1.X), num(c.flip(p1.Y)), "m")
	c.op(num(p2.X), num(c.flip(p2.Y)), "l")
	c.op("S")
}

// Polyline strokes an open polyline through the given points. Fewer than
// two points draw nothing.
func (c *Canvas) Polyline(points []model.Point, stroke model.RGB, width float64) {
	if len(points) < 2 {
		return
	}
	c.setStroke(stroke)
	c.op(num(width), "w")
	c.path(points)
	c.op("S")
}

// FillClosedPolyline closes the polyline, fills it, and strokes the
// outline.
func (c *Canvas) FillClosedPolyline(points []model.Point, stroke, fill model.RGB, width float64) {
	if len(points) < 2 {
		return
	}
	c.setStroke(stroke)
	c.setFill(fill)
	c.op(num(width), "w")
	c.path(points)
	c.op("b")
}

func (c *Canvas) path(points []model.Point) {
	c.op(num(points[0].X), num(c.flip(points[0].Y)), "m")
	for _, p := range points[1:] {
		c.op(num(p.X), num(c.flip(p.Y)), "l")
	}
}

// FillQuadAlpha fills one quadrilateral with constant transparency. The
// four corners arrive in QuadPoints order: upper-left, upper-right,
// lower-left, lower-right.
func (c *Canvas) FillQuadAlpha(ul, ur, ll, lr model.Point, fill model.RGB, alpha float64) {
	c.op("q")
	c.op("/"+c.alphaName(alpha), "gs")
	c.setFill(fill)
	c.path([]model.Point{ul, ur, lr, ll})
	c.op("h")
	c.op("f")
	c.op("Q")
}

// kappa is the Bézier circle approximation constant.
const kappa = 0.5522847498

// Circle fills and strokes a circle around a center point.
func (c *Canvas) Circle(center model.Point, radius float64, stroke, fill model.RGB, width float64) {
	c.ellipse(model.Rect{
		X0: center.X - radius,
		Y0: center.Y - radius,
		X1: center.X + radius,
		Y1: center.Y + radius,
	})
	c.setStroke(stroke)
	c.setFill(fill)
	c.op(num(width), "w")
	c.op("B")
}

// Oval strokes the ellipse inscribed in a rectangle.
func (c *Canvas) Oval(r model.Rect, stroke model.RGB, width float64) {
	c.ellipse(r)
	c.setStroke(stroke)
	c.op(num(width), "w")
	c.op("S")
}

// ellipse emits the four-arc Bézier path for the ellipse inscribed in a
// top-down rectangle.
func (c *Canvas) ellipse(r model.Rect) {
	cx := (r.X0 + r.X1) / 2
	cy := c.flip((r.Y0 + r.Y1) / 2)
	rx := r.Width() / 2
	ry := r.Height() / 2
	ox := rx * kappa
	oy := ry * kappa

	c.op(num(cx+rx), num(cy), "m")
	c.curve(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	c.curve(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	c.curve(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	c.curve(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
}

// curve emits a c operator with device-space coordinates.
func (c *Canvas) curve(x1, y1, x2, y2, x3, y3 float64) {
	c.op(num(x1), num(y1), num(x2), num(y2), num(x3), num(y3), "c")
}

// Text draws s with its baseline at p using a single font resource.
func (c *Canvas) Text(p model.Point, s string, font FontID, size float64, color model.RGB) {
	if s == "" {
		return
	}
	c.fonts[font] = true
	c.op("BT")
	c.op("/"+string(font), num(size), "Tf")
	c.setFill(color)
	c.op(num(p.X), num(c.flip(p.Y)), "Td")
	c.showString(font, s)
	c.op("ET")
}

// MixedText draws possibly mixed-script text at p, switching between the
// Latin and CJK font resources per script run so both share one visually
// continuous baseline. It returns the x coordinate where the text ends.
//
// Run advances use the same additive width model as wrapping (CJK 1.0,
// Latin 0.52 of the font size), with a small extra gap of a tenth of the
// font size at each script switch.
func (c *Canvas) MixedText(p model.Point, s string, size float64, color model.RGB) float64 {
	x := p.X
	runs := script.Split(s)
	for i, run := range runs {
		font := FontHelvetica
		if run.CJK {
			font = FontCJK
		}
		c.Text(model.Point{X: x, Y: p.Y}, run.Text, font, size, color)

		x += textwrap.StringWidth(run.Text, size)

		if i < len(runs)-1 && runs[i+1].CJK != run.CJK {
			x += size * 0.1
		}
	}
	return x
}

// showString emits a Tj with the encoding the font resource expects.
func (c *Canvas) showString(font FontID, s string) {
	if font == FontCJK {
		encoded, err := utf16be.NewEncoder().Bytes([]byte(s))
		if err != nil {
			// Unencodable input: fall back to dropping the run rather
			// than corrupting the stream.
			return
		}
		c.op("<" + strings.ToUpper(fmt.Sprintf("%x", encoded)) + "> Tj")
		return
	}
	c.op("(" + escapeLatin(s) + ") Tj")
}

// escapeLatin converts s to a WinAnsi-safe literal string body. Characters
// outside one byte are replaced with '?'; parentheses and backslashes are
// escaped; control and high bytes use octal escapes.
func escapeLatin(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r > 0xFF {
			b.WriteByte('?')
			continue
		}
		ch := byte(r)
		switch ch {
		case '(', ')', '\\':
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			if ch < 32 || ch > 126 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	return b.String()
}
