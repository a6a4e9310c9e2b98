package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf16"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/tsawler/marginalia/model"
)

// Source is a read-only view of the input document.
type Source struct {
	r        *pdf.Reader
	numPages int
}

// OpenBytes opens a PDF from raw bytes.
func OpenBytes(data []byte) (*Source, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	n, err := pagetree.NumPages(r)
	if err != nil {
		return nil, fmt.Errorf("reading page tree: %w", err)
	}
	return &Source{r: r, numPages: n}, nil
}

// OpenFile opens a PDF from a file path.
func OpenFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data)
}

// NumPages returns the page count of the document.
func (s *Source) NumPages() int {
	return s.numPages
}

// Getter exposes the underlying object reader, for copying objects into
// an output document.
func (s *Source) Getter() pdf.Getter {
	return s.r
}

// SourcePage is one page of the input document with its inherited
// attributes resolved.
type SourcePage struct {
	src  *Source
	dict pdf.Dict

	// Width and Height are the page dimensions from the MediaBox.
	Width  float64
	Height float64

	// llx and lly anchor the MediaBox origin for coordinate flips.
	llx float64
	lly float64
}

// Page loads the 0-based page number pageNo.
func (s *Source) Page(pageNo int) (*SourcePage, error) {
	dict, err := pagetree.GetPage(s.r, pageNo)
	if err != nil {
		return nil, fmt.Errorf("loading page %d: %w", pageNo+1, err)
	}

	box, err := pdf.GetRectangle(s.r, dict["MediaBox"])
	if err != nil || box == nil {
		// US Letter fallback for pages without a usable MediaBox.
		box = &pdf.Rectangle{LLx: 0, LLy: 0, URx: 612, URy: 792}
	}

	return &SourcePage{
		src:    s,
		dict:   dict,
		Width:  box.URx - box.LLx,
		Height: box.URy - box.LLy,
		llx:    box.LLx,
		lly:    box.LLy,
	}, nil
}

// Dict returns the page dictionary with inherited attributes merged in.
func (p *SourcePage) Dict() pdf.Dict {
	return p.dict
}

// flipRect converts a PDF bottom-up rectangle to top-down page
// coordinates.
func (p *SourcePage) flipRect(r *pdf.Rectangle) model.Rect {
	return model.Rect{
		X0: r.LLx - p.llx,
		Y0: p.Height - (r.URy - p.lly),
		X1: r.URx - p.llx,
		Y1: p.Height - (r.LLy - p.lly),
	}
}

// flipPoint converts a PDF bottom-up point to top-down page coordinates.
func (p *SourcePage) flipPoint(x, y float64) model.Point {
	return model.Point{X: x - p.llx, Y: p.Height - (y - p.lly)}
}

// Annotation is the raw annotation data read from a page, with geometry
// already converted to top-down coordinates.
type Annotation struct {
	Type       model.AnnotationType
	Content    string
	Author     string
	Rect       model.Rect
	Color      model.RGB
	HasColor   bool
	QuadPoints []model.Point
	InkPaths   [][]model.Point
	Vertices   []model.Point
}

// Annotations reads the page's interactive annotations in array order.
// Popup annotations are skipped: they are windows onto their parent
// annotation's content, not markup of their own.
func (p *SourcePage) Annotations() ([]Annotation, error) {
	arr, err := pdf.GetArray(p.src.r, p.dict["Annots"])
	if err != nil {
		return nil, fmt.Errorf("reading Annots: %w", err)
	}

	var annots []Annotation
	for _, obj := range arr {
		dict, err := pdf.GetDict(p.src.r, obj)
		if err != nil || dict == nil {
			continue
		}

		subtype, err := pdf.GetName(p.src.r, dict["Subtype"])
		if err != nil || subtype == "" || subtype == "Popup" || subtype == "Link" {
			continue
		}

		a := Annotation{Type: model.AnnotationType(subtype)}

		if s, err := pdf.GetString(p.src.r, dict["Contents"]); err == nil {
			a.Content = strings.TrimSpace(textString(s))
		}
		if s, err := pdf.GetString(p.src.r, dict["T"]); err == nil {
			a.Author = textString(s)
		}

		if rect, err := pdf.GetRectangle(p.src.r, dict["Rect"]); err == nil && rect != nil {
			a.Rect = p.flipRect(rect)
		}

		if c, ok := p.colorOf(dict["C"]); ok {
			a.Color = c
			a.HasColor = true
		} else if c, ok := p.colorOf(dict["IC"]); ok {
			a.Color = c
			a.HasColor = true
		}

		a.QuadPoints = p.pointList(dict["QuadPoints"])
		a.Vertices = p.pointList(dict["Vertices"])
		if a.Vertices == nil {
			a.Vertices = p.pointList(dict["L"])
		}
		a.InkPaths = p.pointListList(dict["InkList"])

		annots = append(annots, a)
	}

	return annots, nil
}

// colorOf converts an annotation color array (gray, RGB, or CMYK) to RGB.
func (p *SourcePage) colorOf(obj pdf.Object) (model.RGB, bool) {
	arr, err := pdf.GetArray(p.src.r, obj)
	if err != nil || arr == nil {
		return model.RGB{}, false
	}

	comps := make([]float64, 0, 4)
	for _, c := range arr {
		v, err := pdf.GetNumber(p.src.r, c)
		if err != nil {
			return model.RGB{}, false
		}
		comps = append(comps, float64(v))
	}

	switch len(comps) {
	case 1:
		return model.RGB{R: comps[0], G: comps[0], B: comps[0]}, true
	case 3:
		return model.RGB{R: comps[0], G: comps[1], B: comps[2]}, true
	case 4:
		// Naive CMYK to RGB.
		r := (1 - comps[0]) * (1 - comps[3])
		g := (1 - comps[1]) * (1 - comps[3])
		b := (1 - comps[2]) * (1 - comps[3])
		return model.RGB{R: r, G: g, B: b}, true
	}
	return model.RGB{}, false
}

// pointList reads a flat number array as top-down points.
func (p *SourcePage) pointList(obj pdf.Object) []model.Point {
	arr, err := pdf.GetArray(p.src.r, obj)
	if err != nil || len(arr) < 2 {
		return nil
	}

	points := make([]model.Point, 0, len(arr)/2)
	for i := 0; i+1 < len(arr); i += 2 {
		x, err1 := pdf.GetNumber(p.src.r, arr[i])
		y, err2 := pdf.GetNumber(p.src.r, arr[i+1])
		if err1 != nil || err2 != nil {
			return nil
		}
		points = append(points, p.flipPoint(float64(x), float64(y)))
	}
	return points
}

// pointListList reads an array of flat number arrays, as used by InkList.
func (p *SourcePage) pointListList(obj pdf.Object) [][]model.Point {
	arr, err := pdf.GetArray(p.src.r, obj)
	if err != nil || arr == nil {
		return nil
	}

	var paths [][]model.Point
	for _, sub := range arr {
		if pts := p.pointList(sub); len(pts) > 0 {
			paths = append(paths, pts)
		}
	}
	return paths
}

// Content returns the page's decoded content stream data. Multiple
// streams are concatenated with newline separators, as the page treats
// them as one stream.
func (p *SourcePage) Content() ([]byte, error) {
	resolve := func(obj pdf.Object) (pdf.Object, error) {
		return pdf.Resolve(p.src.r, obj)
	}

	contents, err := pdf.Resolve(p.src.r, p.dict["Contents"])
	if err != nil {
		return nil, err
	}

	var streams []*pdf.Stream
	switch x := contents.(type) {
	case *pdf.Stream:
		streams = []*pdf.Stream{x}
	case pdf.Array:
		for _, obj := range x {
			s, err := pdf.GetStream(p.src.r, obj)
			if err != nil || s == nil {
				continue
			}
			streams = append(streams, s)
		}
	default:
		return nil, nil
	}

	var buf bytes.Buffer
	for _, s := range streams {
		r, err := s.Decode(resolve)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, err
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// textString decodes a PDF text string: UTF-16BE with BOM, or PDFDoc
// encoding treated as Latin-1 otherwise.
func textString(s pdf.String) string {
	b := []byte(s)
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		units := make([]uint16, 0, (len(b)-2)/2)
		for i := 2; i+1 < len(b); i += 2 {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(units))
	}
	var sb strings.Builder
	for _, c := range b {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
