package summary

import (
	"strings"
	"testing"

	"github.com/tsawler/marginalia/contentstream"
	"github.com/tsawler/marginalia/model"
)

func TestEstimateEntryHeightBareEntry(t *testing.T) {
	rec := model.AnnotationRecord{Number: 1, Type: model.TypeText}
	// 30 base + 25 for the no-comment placeholder + 15 trailing.
	if got := EstimateEntryHeight(rec, 522); got != 70 {
		t.Errorf("EstimateEntryHeight = %v, want 70", got)
	}
}

func TestEstimateEntryHeightCaps(t *testing.T) {
	long := strings.Repeat("x", 10000)

	rec := model.AnnotationRecord{Content: long}
	// Comment block caps at 200.
	if got := EstimateEntryHeight(rec, 522); got != 30+200+15 {
		t.Errorf("long comment: EstimateEntryHeight = %v, want 245", got)
	}

	rec = model.AnnotationRecord{Snippet: long}
	// Snippet block caps at 75; no comment adds 25.
	if got := EstimateEntryHeight(rec, 522); got != 30+75+25+15 {
		t.Errorf("long snippet: EstimateEntryHeight = %v, want 145", got)
	}
}

func TestEstimateEntryHeightCJKWiderChars(t *testing.T) {
	latin := model.AnnotationRecord{Content: strings.Repeat("a", 200)}
	cjk := model.AnnotationRecord{Content: strings.Repeat("中", 200)}

	if EstimateEntryHeight(cjk, 522) <= EstimateEntryHeight(latin, 522) {
		t.Error("CJK content should estimate taller than Latin content of equal length")
	}
}

func TestEstimateEntryHeightCountsHardBreaks(t *testing.T) {
	flat := model.AnnotationRecord{Content: "one two three"}
	broken := model.AnnotationRecord{Content: "one\ntwo\nthree"}

	if EstimateEntryHeight(broken, 522) <= EstimateEntryHeight(flat, 522) {
		t.Error("embedded newlines should raise the estimate")
	}
}

func TestRenderEntryNoComment(t *testing.T) {
	c := contentstream.NewCanvas(612, 792)
	rec := model.AnnotationRecord{Number: 3, Type: model.TypeText}

	got := RenderEntry(c, rec, 45, 100, 522)

	// 100 + 24 header + 22 placeholder + 3 after the separator.
	if got != 149 {
		t.Errorf("RenderEntry returned %v, want 149", got)
	}

	out := string(c.Bytes())
	if !strings.Contains(out, `\(no comment\)`) {
		t.Errorf("placeholder text missing:\n%s", out)
	}
	if !strings.Contains(out, "(3) Tj") {
		t.Errorf("entry number missing:\n%s", out)
	}
	if !strings.Contains(out, "(Note) Tj") {
		t.Errorf("type tag label missing:\n%s", out)
	}
}

func TestRenderEntryShortComment(t *testing.T) {
	c := contentstream.NewCanvas(612, 792)
	rec := model.AnnotationRecord{
		Number:  1,
		Type:    model.TypeHighlight,
		Content: "Fix this.",
	}

	got := RenderEntry(c, rec, 45, 100, 522)

	// One comment line: block height 1*12+12 = 24, plus 6 below, plus the
	// 24-point header and 3 after the separator.
	if got != 100+24+24+6+3 {
		t.Errorf("RenderEntry returned %v, want %v", got, 100+24+24+6+3)
	}

	out := string(c.Bytes())
	if !strings.Contains(out, "(Fix this.) Tj") {
		t.Errorf("comment text missing:\n%s", out)
	}
	if !strings.Contains(out, "0.95 0.97 1 rg") {
		t.Errorf("comment background missing:\n%s", out)
	}
	if !strings.Contains(out, "(Highlight) Tj") {
		t.Errorf("type tag missing:\n%s", out)
	}
}

func TestRenderEntrySnippetQuotedAndTruncated(t *testing.T) {
	c := contentstream.NewCanvas(612, 792)
	rec := model.AnnotationRecord{
		Number:  2,
		Type:    model.TypeUnderline,
		Snippet: "short snippet",
	}
	RenderEntry(c, rec, 45, 100, 522)

	out := string(c.Bytes())
	if !strings.Contains(out, `("short snippet") Tj`) {
		t.Errorf("quoted snippet missing:\n%s", out)
	}
	if !strings.Contains(out, "0.94 0.94 0.94 rg") {
		t.Errorf("snippet background missing:\n%s", out)
	}

	c2 := contentstream.NewCanvas(612, 792)
	rec.Snippet = strings.Repeat("z", 300)
	RenderEntry(c2, rec, 45, 100, 522)
	if !strings.Contains(string(c2.Bytes()), "...") {
		t.Error("long snippet should be truncated with an ellipsis")
	}
}

func TestComposeSinglePage(t *testing.T) {
	records := []model.AnnotationRecord{
		{Number: 1, Type: model.TypeHighlight, Content: "First."},
		{Number: 2, Type: model.TypeText, Content: "Second."},
	}

	pages := Compose(3, records, 612, 792)
	if len(pages) != 1 {
		t.Fatalf("Compose returned %d pages, want 1", len(pages))
	}

	out := string(pages[0].Bytes())
	if !strings.Contains(out, `(Page 3 - Comments Summary \(2 items\)) Tj`) {
		t.Errorf("title missing:\n%s", out)
	}
	if !strings.Contains(out, "0.25 0.35 0.55 rg") {
		t.Errorf("title bar missing:\n%s", out)
	}
	if !strings.Contains(out, "(1) Tj") || !strings.Contains(out, "(2) Tj") {
		t.Errorf("entry numbers missing:\n%s", out)
	}
}

func TestComposeOverflowsToContinuationPages(t *testing.T) {
	records := make([]model.AnnotationRecord, 40)
	for i := range records {
		records[i] = model.AnnotationRecord{Number: i + 1, Type: model.TypeText}
	}

	pages := Compose(1, records, 612, 792)
	if len(pages) < 2 {
		t.Fatalf("Compose returned %d pages, want at least 2", len(pages))
	}

	cont := string(pages[1].Bytes())
	if !strings.Contains(cont, `(Page 1 - Comments Summary \(cont.\)) Tj`) {
		t.Errorf("continuation title missing:\n%s", cont)
	}
	if !strings.Contains(cont, "0.35 0.45 0.65 rg") {
		t.Errorf("continuation bar missing:\n%s", cont)
	}

	// Every entry is drawn exactly once across all pages.
	total := 0
	for _, p := range pages {
		total += strings.Count(string(p.Bytes()), `\(no comment\)`)
	}
	if total != len(records) {
		t.Errorf("rendered %d entries across pages, want %d", total, len(records))
	}
}

func TestComposeEntriesKeepOrder(t *testing.T) {
	records := []model.AnnotationRecord{
		{Number: 1, Type: model.TypeText, Content: "alpha"},
		{Number: 2, Type: model.TypeText, Content: "beta"},
	}

	out := string(Compose(1, records, 612, 792)[0].Bytes())
	if strings.Index(out, "(alpha) Tj") > strings.Index(out, "(beta) Tj") {
		t.Error("entries rendered out of order")
	}
}
