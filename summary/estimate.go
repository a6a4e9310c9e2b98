package summary

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/script"
	"github.com/tsawler/marginalia/textwrap"
)

// EstimateEntryHeight predicts the vertical space an entry will take when
// rendered into the given content width. The estimate is intentionally
// generous: the composer uses it to decide page breaks before the entry is
// drawn, and running slightly long would push the entry into the bottom
// margin.
func EstimateEntryHeight(rec model.AnnotationRecord, width float64) float64 {
	height := 30.0

	if rec.Snippet != "" {
		factor := textwrap.Ratio(script.ContainsCJK(rec.Snippet))
		lines := float64(utf8.RuneCountInString(rec.Snippet))/(width/(8.5*factor)) + 1
		height += min(lines*11+12, 75)
	}

	if rec.Content != "" {
		factor := textwrap.Ratio(script.ContainsCJK(rec.Content))
		lines := float64(utf8.RuneCountInString(rec.Content))/(width/(9.5*factor)) +
			float64(strings.Count(rec.Content, "\n")) +
			float64(strings.Count(rec.Content, "\r")) + 1
		height += min(lines*12+14, 200)
	} else {
		height += 25
	}

	return height + 15
}
