package model

// AnnotationType is the PDF annotation subtype, e.g. "Highlight" or
// "Text". Types outside the styling tables below are still carried as-is;
// they render with the raw subtype as their label and the neutral default
// color.
type AnnotationType string

// Annotation subtypes with dedicated mark rendering or styling.
const (
	TypeText      AnnotationType = "Text"
	TypeFreeText  AnnotationType = "FreeText"
	TypeHighlight AnnotationType = "Highlight"
	TypeStrikeOut AnnotationType = "StrikeOut"
	TypeUnderline AnnotationType = "Underline"
	TypeSquiggly  AnnotationType = "Squiggly"
	TypeSquare    AnnotationType = "Square"
	TypeRectangle AnnotationType = "Rectangle"
	TypeCircle    AnnotationType = "Circle"
	TypeEllipse   AnnotationType = "Ellipse"
	TypeLine      AnnotationType = "Line"
	TypePolygon   AnnotationType = "Polygon"
	TypePolyLine  AnnotationType = "PolyLine"
	TypeCaret     AnnotationType = "Caret"
	TypeInk       AnnotationType = "Ink"
	TypePopup     AnnotationType = "Popup"
)

// typeLabels maps annotation subtypes to human-readable labels.
var typeLabels = map[AnnotationType]string{
	TypeText:      "Note",
	TypeFreeText:  "Text Box",
	TypeHighlight: "Highlight",
	TypeStrikeOut: "Strikeout",
	TypeUnderline: "Underline",
	TypeSquare:    "Rectangle",
	TypeRectangle: "Rectangle",
	TypeCircle:    "Ellipse",
	TypeEllipse:   "Ellipse",
	TypeLine:      "Line",
	TypePolygon:   "Polygon",
	TypePolyLine:  "Polyline",
	TypeCaret:     "Insert",
	TypeInk:       "Drawing",
	TypePopup:     "Popup",
}

// typeColors maps annotation subtypes to their tag colors on summary
// pages.
var typeColors = map[AnnotationType]RGB{
	TypeText:      {0.85, 0.45, 0.1},
	TypeFreeText:  {0.25, 0.65, 0.35},
	TypeHighlight: {0.92, 0.75, 0.15},
	TypeStrikeOut: {0.85, 0.25, 0.25},
	TypeUnderline: {0.25, 0.45, 0.85},
	TypeSquare:    {0.65, 0.35, 0.65},
	TypeRectangle: {0.65, 0.35, 0.65},
	TypeCircle:    {0.35, 0.65, 0.65},
	TypeCaret:     {0.25, 0.75, 0.35},
	TypeInk:       {0.45, 0.45, 0.75},
}

// defaultTypeColor is used for any subtype without a table entry.
var defaultTypeColor = RGB{0.5, 0.5, 0.5}

// Label returns the human-readable label for the annotation type, falling
// back to the raw subtype string for unknown types.
func (t AnnotationType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// TagColor returns the summary tag color for the annotation type, falling
// back to a neutral gray for unknown types.
func (t AnnotationType) TagColor() RGB {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return defaultTypeColor
}

// AnnotationRecord captures everything flattening needs to know about one
// source annotation. Records are built in a single pass over a page's
// annotation list and are never mutated afterward.
type AnnotationRecord struct {
	// Number is the 1-based sequence number of the annotation on its
	// source page. Numbering is dense and restarts on every page.
	Number int

	// Type is the PDF annotation subtype.
	Type AnnotationType

	// Content is the free-text comment body; may be empty.
	Content string

	// PageNum is the 1-based source page number.
	PageNum int

	// Rect is the annotation bounding rectangle in top-down page
	// coordinates.
	Rect Rect

	// Color is the display color: the stroke color when present,
	// otherwise the fill color.
	Color RGB

	// Snippet is the quoted source text under the annotation, whitespace
	// collapsed and truncated to 300 code points. Empty when extraction
	// failed or found nothing.
	Snippet string

	// Author is the annotation author (the /T entry); may be empty.
	Author string

	// QuadPoints holds highlight/strikeout/underline quads as a flat
	// point list in groups of four.
	QuadPoints []Point

	// InkPaths holds the stroke paths of an Ink annotation.
	InkPaths [][]Point

	// Vertices holds line endpoints or polygon/polyline vertices.
	Vertices []Point
}
