package summary

import (
	"fmt"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/model"
)

// Page margins of summary pages, in points.
const (
	marginLeft   = 45
	marginRight  = 45
	marginTop    = 55
	marginBottom = 40
)

var (
	titleBarColor = model.RGB{R: 0.25, G: 0.35, B: 0.55}
	contBarColor  = model.RGB{R: 0.35, G: 0.45, B: 0.65}
	ruleColor     = model.RGB{R: 0.8, G: 0.8, B: 0.8}
)

// Compose lays out the summary for one source page's annotations onto as
// many canvases as needed, each the size of the source page. pageNum is
// the 1-based source page number shown in the title.
//
// Entries never straddle a page break: when an entry's estimated height
// does not fit above the bottom margin, a continuation page is started.
func Compose(pageNum int, records []model.AnnotationRecord, pageWidth, pageHeight float64) []*contentstream.Canvas {
	c := contentstream.NewCanvas(pageWidth, pageHeight)
	pages := []*contentstream.Canvas{c}

	contentWidth := pageWidth - marginLeft - marginRight
	cursor := float64(marginTop)

	c.FillRect(model.NewRect(0, 0, pageWidth, cursor+35), titleBarColor)

	title := fmt.Sprintf("Page %d - Comments Summary (%d items)", pageNum, len(records))
	titleX := (pageWidth - float64(len(title))*7) / 2
	c.Text(model.Point{X: titleX, Y: cursor + 22}, title, contentstream.FontHelvetica, 14, white)

	cursor += 45

	c.Line(model.Point{X: marginLeft, Y: cursor},
		model.Point{X: pageWidth - marginRight, Y: cursor}, ruleColor, 0.5)
	cursor += 12

	for _, rec := range records {
		needed := EstimateEntryHeight(rec, contentWidth)

		if cursor+needed > pageHeight-marginBottom {
			c = contentstream.NewCanvas(pageWidth, pageHeight)
			pages = append(pages, c)
			cursor = marginTop

			c.FillRect(model.NewRect(0, 0, pageWidth, cursor+25), contBarColor)

			cont := fmt.Sprintf("Page %d - Comments Summary (cont.)", pageNum)
			contX := (pageWidth - float64(len(cont))*6) / 2
			c.Text(model.Point{X: contX, Y: cursor + 17}, cont, contentstream.FontHelvetica, 11, white)

			cursor += 35
		}

		cursor = RenderEntry(c, rec, marginLeft, cursor, contentWidth)
		cursor += 8
	}

	return pages
}
