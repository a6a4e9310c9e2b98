package summary

import (
	"strconv"
	"strings"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/textwrap"
)

// snippetRuneLimit caps how much quoted source text an entry shows.
const snippetRuneLimit = 250

var (
	white = model.RGB{R: 1, G: 1, B: 1}

	numberStroke = model.RGB{R: 0.7, G: 0.1, B: 0.1}
	numberFill   = model.RGB{R: 0.9, G: 0.25, B: 0.25}

	snippetBG   = model.RGB{R: 0.94, G: 0.94, B: 0.94}
	snippetBar  = model.RGB{R: 0.6, G: 0.6, B: 0.6}
	snippetText = model.RGB{R: 0.35, G: 0.35, B: 0.35}

	commentBorder = model.RGB{R: 0.75, G: 0.82, B: 0.92}
	commentBG     = model.RGB{R: 0.95, G: 0.97, B: 1}
	commentBar    = model.RGB{R: 0.3, G: 0.5, B: 0.8}
	commentText   = model.RGB{R: 0.15, G: 0.15, B: 0.25}

	noCommentBG   = model.RGB{R: 0.92, G: 0.92, B: 0.92}
	noCommentText = model.RGB{R: 0.5, G: 0.5, B: 0.5}

	separatorGray = model.RGB{R: 0.88, G: 0.88, B: 0.88}
)

// RenderEntry draws one annotation entry with its top-left corner at
// (x, y), using width points of horizontal space, and returns the y
// coordinate where the next entry may start.
func RenderEntry(c *contentstream.Canvas, rec model.AnnotationRecord, x, y, width float64) float64 {
	const radius = 9

	c.Circle(model.Point{X: x + radius, Y: y + radius}, radius, numberStroke, numberFill, 0.5)

	numStr := strconv.Itoa(rec.Number)
	c.Text(model.Point{
		X: x + radius - float64(len(numStr))*2.5,
		Y: y + radius + 3.5,
	}, numStr, contentstream.FontHelvetica, 10, white)

	typeX := x + 2*radius + 8
	label := rec.Type.Label()
	tagWidth := float64(len(label))*6.5 + 12
	c.FillRect(model.NewRect(typeX, y+1, typeX+tagWidth, y+17), rec.Type.TagColor())
	c.Text(model.Point{X: typeX + 6, Y: y + 13}, label, contentstream.FontHelvetica, 9, white)

	contentX := x + 2*radius + 8
	currentY := y + 24

	if rec.Snippet != "" {
		currentY = renderSnippet(c, rec.Snippet, contentX, currentY, x+width, width)
	}

	if rec.Content != "" {
		currentY = renderComment(c, rec.Content, contentX, currentY, x+width, width)
	} else {
		c.FillRect(model.NewRect(contentX, currentY, contentX+85, currentY+18), noCommentBG)
		c.Text(model.Point{X: contentX + 8, Y: currentY + 13},
			"(no comment)", contentstream.FontHelvetica, 8.5, noCommentText)
		currentY += 22
	}

	c.Line(model.Point{X: x, Y: currentY}, model.Point{X: x + width, Y: currentY}, separatorGray, 0.3)

	return currentY + 3
}

// renderSnippet draws the quoted source text block and returns the y
// below it.
func renderSnippet(c *contentstream.Canvas, snippet string, x, y, right, width float64) float64 {
	text := snippet
	if runes := []rune(text); len(runes) > snippetRuneLimit {
		text = string(runes[:snippetRuneLimit]) + "..."
	}

	lines := textwrap.WrapMixed(`"`+text+`"`, width-25, 8.5)
	height := min(float64(len(lines))*11+8, 70)

	c.FillRect(model.NewRect(x, y, right, y+height), snippetBG)
	c.FillRect(model.NewRect(x, y, x+2, y+height), snippetBar)

	textY := y + 10
	maxLines := int((height - 8) / 11)
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		c.MixedText(model.Point{X: x + 6, Y: textY}, line, 8.5, snippetText)
		textY += 11
	}

	return y + height + 6
}

// renderComment draws the reviewer comment block and returns the y below
// it.
func renderComment(c *contentstream.Canvas, content string, x, y, right, width float64) float64 {
	text := strings.TrimSpace(content)

	lines := textwrap.WrapMixed(text, width-25, 9.5)
	height := min(float64(len(lines))*12+12, 180)

	c.StrokeFillRect(model.NewRect(x, y, right, y+height), commentBorder, commentBG, 0.5)
	c.FillRect(model.NewRect(x, y, x+3, y+height), commentBar)

	textY := y + 12
	maxLines := int((height - 10) / 12)
	for i, line := range lines {
		if i >= maxLines {
			break
		}
		c.MixedText(model.Point{X: x + 8, Y: textY}, line, 9.5, commentText)
		textY += 12
	}

	return y + height + 6
}
