package marks

import (
	"fmt"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/document"
	"github.com/tsawler/marginalia/model"
)

// Fallback colors for annotations that carry no color of their own.
var (
	defaultHighlight = model.RGB{R: 1, G: 1, B: 0}
	defaultStroke    = model.RGB{R: 1, G: 0, B: 0}
	defaultInk       = model.RGB{R: 0, G: 0, B: 1}
	defaultUnderline = model.RGB{R: 0, G: 0, B: 1}
	freeTextBorder   = model.RGB{R: 0.8, G: 0.4, B: 0}
	caretStroke      = model.RGB{R: 0, G: 0.6, B: 0}
	caretFill        = model.RGB{R: 0.6, G: 1, B: 0.6}
)

// highlightAlpha is the fill transparency of highlight washes.
const highlightAlpha = 0.35

// Render draws the static mark for one annotation onto the page overlay,
// followed by its numbered badge. All geometry is in top-down page
// coordinates.
func Render(c *contentstream.Canvas, a document.Annotation, number int) {
	r := a.Rect

	switch a.Type {
	case model.TypeHighlight:
		fill := colorOr(a, defaultHighlight)
		for _, q := range quadGroups(a.QuadPoints) {
			c.FillQuadAlpha(q[0], q[1], q[2], q[3], fill, highlightAlpha)
		}
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypeStrikeOut:
		stroke := colorOr(a, defaultStroke)
		for _, q := range quadGroups(a.QuadPoints) {
			mid := (q[0].Y + q[2].Y) / 2
			c.Line(model.Point{X: q[0].X, Y: mid}, model.Point{X: q[1].X, Y: mid}, stroke, 1.5)
		}
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypeUnderline, model.TypeSquiggly:
		stroke := colorOr(a, defaultUnderline)
		for _, q := range quadGroups(a.QuadPoints) {
			y := q[2].Y + 1
			c.Line(model.Point{X: q[2].X, Y: y}, model.Point{X: q[3].X, Y: y}, stroke, 1)
		}
		NumberBadge(c, r.X1, r.Y1, number, badgeSize)

	case model.TypeSquare, model.TypeRectangle:
		c.StrokeRect(r, colorOr(a, defaultStroke), 1.5)
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypeCircle, model.TypeEllipse:
		c.Oval(r, colorOr(a, defaultStroke), 1.5)
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypeText:
		NumberBadge(c, r.X0, r.Y0, number, 12)

	case model.TypeFreeText:
		c.DashedRect(r, freeTextBorder, 1, []float64{2, 2})
		NumberBadge(c, r.X0-2, r.Y0, number, badgeSize)

	case model.TypeCaret:
		x, y := r.X0, r.Y0
		c.FillClosedPolyline([]model.Point{
			{X: x, Y: y + 5},
			{X: x + 4, Y: y},
			{X: x + 8, Y: y + 5},
		}, caretStroke, caretFill, 0.5)
		NumberBadge(c, x+10, y, number, badgeSize)

	case model.TypeInk:
		stroke := colorOr(a, defaultInk)
		for _, path := range a.InkPaths {
			c.Polyline(path, stroke, 1)
		}
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypeLine:
		if len(a.Vertices) >= 2 {
			c.Line(a.Vertices[0], a.Vertices[1], colorOr(a, defaultStroke), 1.5)
		}
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypePolyLine:
		c.Polyline(a.Vertices, colorOr(a, defaultStroke), 1.5)
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	case model.TypePolygon:
		if pts := a.Vertices; len(pts) >= 2 {
			closed := append(append([]model.Point(nil), pts...), pts[0])
			c.Polyline(closed, colorOr(a, defaultStroke), 1.5)
		}
		NumberBadge(c, r.X1, r.Y0, number, badgeSize)

	default:
		NumberBadge(c, r.X0, r.Y0, number, badgeSize)
	}
}

// badgeSize is the nominal badge diameter before padding.
const badgeSize = 10

// NumberBadge draws a small red circle with a white reference number whose
// top-left corner sits at (x, y), nudged inside the page if the mark runs
// off an edge.
func NumberBadge(c *contentstream.Canvas, x, y float64, number int, size float64) {
	x = clamp(x, 8, c.Width()-12)
	y = clamp(y, 8, c.Height()-12)

	radius := size/2 + 2
	center := model.Point{X: x + radius, Y: y + radius}
	c.Circle(center, radius,
		model.RGB{R: 0.8, G: 0, B: 0},
		model.RGB{R: 1, G: 0.3, B: 0.3},
		0.5)

	label := fmt.Sprintf("%d", number)
	c.Text(model.Point{
		X: center.X - float64(len(label))*2.5,
		Y: center.Y + 3,
	}, label, contentstream.FontHelvetica, size-2, model.RGB{R: 1, G: 1, B: 1})
}

// colorOr returns the annotation's own color, or def if it has none.
func colorOr(a document.Annotation, def model.RGB) model.RGB {
	if a.HasColor {
		return a.Color
	}
	return def
}

// quadGroups slices a QuadPoints list into word quads of four corners
// each, in the upper-left, upper-right, lower-left, lower-right order the
// annotation format uses. A trailing partial group is dropped.
func quadGroups(points []model.Point) [][4]model.Point {
	n := len(points) / 4
	groups := make([][4]model.Point, 0, n)
	for i := 0; i+3 < len(points); i += 4 {
		groups = append(groups, [4]model.Point{points[i], points[i+1], points[i+2], points[i+3]})
	}
	return groups
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
