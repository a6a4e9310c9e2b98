package marginalia

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/document"
	"github.com/tsawler/marginalia/marks"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/summary"
)

// snippetMaxRunes caps the marked-text excerpt stored for each
// annotation.
const snippetMaxRunes = 300

// Flattener provides a fluent interface for flattening annotated PDFs.
// Each configuration method returns a new Flattener instance, making it
// safe for concurrent use and allowing method chaining.
type Flattener struct {
	// Source (exactly one is set)
	filename string
	data     []byte

	// Configuration
	options FlattenOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a copy of the Flattener with a copy of its options.
// This ensures immutability - each chain method returns a new instance.
func (f *Flattener) clone() *Flattener {
	return &Flattener{
		filename: f.filename,
		data:     f.data,
		options:  f.options.clone(),
		err:      f.err,
	}
}

// Progress sets a callback invoked before each source page is processed,
// with the 1-based page number and the total page count.
//
// Example:
//
//	out, _, err := marginalia.Open("doc.pdf").
//	    Progress(func(done, total int) { fmt.Printf("%d/%d\n", done, total) }).
//	    Flatten()
func (f *Flattener) Progress(fn func(done, total int)) *Flattener {
	nf := f.clone()
	nf.options.progress = fn
	return nf
}

// Flatten processes the document and returns the flattened PDF along with
// run statistics. This is a terminal operation.
func (f *Flattener) Flatten() ([]byte, model.Stats, error) {
	var buf bytes.Buffer
	stats, err := f.To(&buf)
	if err != nil {
		return nil, stats, err
	}
	return buf.Bytes(), stats, nil
}

// ToFile processes the document and writes the flattened PDF to path.
// The document is flattened in memory first, so a failed run never leaves
// a partial file behind at path. This is a terminal operation.
func (f *Flattener) ToFile(path string) (model.Stats, error) {
	out, stats, err := f.Flatten()
	if err != nil {
		return stats, err
	}
	return stats, os.WriteFile(path, out, 0o644)
}

// To processes the document and writes the flattened PDF to w. This is a
// terminal operation.
//
// Source pages appear in their original order, each followed by its
// summary pages when it carried annotations. Any error aborts the run;
// partial output already written to w must be discarded by the caller.
func (f *Flattener) To(w io.Writer) (model.Stats, error) {
	if f.err != nil {
		return model.Stats{}, f.err
	}

	src, err := f.openSource()
	if err != nil {
		return model.Stats{}, err
	}

	total := src.NumPages()
	stats := model.NewStats(total)

	builder, err := document.NewBuilder(w, src)
	if err != nil {
		return stats, err
	}

	for pageNo := 0; pageNo < total; pageNo++ {
		if f.options.progress != nil {
			f.options.progress(pageNo+1, total)
		}

		page, err := src.Page(pageNo)
		if err != nil {
			return stats, err
		}

		annots, err := page.Annotations()
		if err != nil {
			return stats, fmt.Errorf("page %d: %w", pageNo+1, err)
		}

		if len(annots) == 0 {
			if err := builder.AppendCopiedPage(page, nil); err != nil {
				return stats, fmt.Errorf("page %d: %w", pageNo+1, err)
			}
			continue
		}

		stats.AnnotatedPages++

		overlay := contentstream.NewCanvas(page.Width, page.Height)
		records := make([]model.AnnotationRecord, 0, len(annots))

		for i, a := range annots {
			number := i + 1
			stats.CountType(a.Type)

			records = append(records, buildRecord(page, a, number, pageNo+1))
			marks.Render(overlay, a, number)
		}

		if err := builder.AppendCopiedPage(page, overlay); err != nil {
			return stats, fmt.Errorf("page %d: %w", pageNo+1, err)
		}

		for _, canvas := range summary.Compose(pageNo+1, records, page.Width, page.Height) {
			if err := builder.AppendCanvasPage(canvas); err != nil {
				return stats, fmt.Errorf("page %d summary: %w", pageNo+1, err)
			}
		}

		stats.TotalAnnotations += len(records)
	}

	if err := builder.Close(); err != nil {
		return stats, err
	}
	return stats, nil
}

// openSource opens whichever input the flattener was created with.
func (f *Flattener) openSource() (*document.Source, error) {
	if f.data != nil {
		return document.OpenBytes(f.data)
	}
	if f.filename == "" {
		return nil, fmt.Errorf("no input specified")
	}
	return document.OpenFile(f.filename)
}

// buildRecord assembles the summary record for one annotation.
func buildRecord(page *document.SourcePage, a document.Annotation, number, pageNum int) model.AnnotationRecord {
	color := a.Color
	if !a.HasColor {
		color = model.RGB{R: 1, G: 0, B: 0}
	}

	return model.AnnotationRecord{
		Number:     number,
		Type:       a.Type,
		Content:    a.Content,
		PageNum:    pageNum,
		Rect:       a.Rect,
		Color:      color,
		Snippet:    extractSnippet(page, a),
		Author:     a.Author,
		QuadPoints: a.QuadPoints,
		InkPaths:   a.InkPaths,
		Vertices:   a.Vertices,
	}
}

// extractSnippet pulls the text the annotation marks: the bounding box of
// its quad or vertex points when it has at least four, otherwise its
// rectangle. Extraction failures simply yield an empty snippet.
func extractSnippet(page *document.SourcePage, a document.Annotation) string {
	clip, ok := snippetClip(a)
	if !ok {
		return ""
	}

	text, err := page.ExtractText(clip)
	if err != nil {
		return ""
	}

	text = strings.Join(strings.Fields(text), " ")
	if runes := []rune(text); len(runes) > snippetMaxRunes {
		text = string(runes[:snippetMaxRunes])
	}
	return text
}

// snippetClip picks the clip rectangle for snippet extraction.
func snippetClip(a document.Annotation) (model.Rect, bool) {
	points := a.QuadPoints
	if len(points) < 4 {
		points = a.Vertices
	}
	if len(points) >= 4 {
		return model.RectFromPoints(points), true
	}
	if a.Rect.IsValid() && !a.Rect.IsEmpty() {
		return a.Rect, true
	}
	return model.Rect{}, false
}
