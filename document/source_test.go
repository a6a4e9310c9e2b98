package document

import (
	"testing"

	"seehuhn.de/go/pdf"

	"github.com/tsawler/marginalia/model"
)

func TestTextString(t *testing.T) {
	tests := []struct {
		name string
		in   pdf.String
		want string
	}{
		{"ascii", pdf.String("Reviewer"), "Reviewer"},
		{"latin1", pdf.String{0x63, 0x61, 0x66, 0xE9}, "café"},
		{"utf16be", pdf.String{0xFE, 0xFF, 0x4E, 0x2D, 0x65, 0x87}, "中文"},
		{"utf16be surrogate", pdf.String{0xFE, 0xFF, 0xD8, 0x3D, 0xDE, 0x00}, "\U0001F600"},
		{"empty", pdf.String{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textString(tt.in); got != tt.want {
				t.Errorf("textString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorOf(t *testing.T) {
	p := &SourcePage{src: &Source{}}

	tests := []struct {
		name   string
		in     pdf.Object
		want   model.RGB
		wantOK bool
	}{
		{"rgb", pdf.Array{pdf.Real(1), pdf.Real(0.5), pdf.Integer(0)}, model.RGB{R: 1, G: 0.5, B: 0}, true},
		{"gray", pdf.Array{pdf.Real(0.25)}, model.RGB{R: 0.25, G: 0.25, B: 0.25}, true},
		{"cmyk", pdf.Array{pdf.Real(0), pdf.Real(1), pdf.Real(1), pdf.Real(0)}, model.RGB{R: 1, G: 0, B: 0}, true},
		{"empty array", pdf.Array{}, model.RGB{}, false},
		{"missing", nil, model.RGB{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := p.colorOf(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("colorOf = %v, %v; want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFlipGeometry(t *testing.T) {
	p := &SourcePage{Width: 612, Height: 792}

	got := p.flipRect(&pdf.Rectangle{LLx: 100, LLy: 700, URx: 200, URy: 720})
	want := model.Rect{X0: 100, Y0: 72, X1: 200, Y1: 92}
	if got != want {
		t.Errorf("flipRect = %+v, want %+v", got, want)
	}

	if pt := p.flipPoint(50, 792); pt != (model.Point{X: 50, Y: 0}) {
		t.Errorf("flipPoint = %+v", pt)
	}
}

func TestFlipGeometryOffsetMediaBox(t *testing.T) {
	// A page whose MediaBox does not start at the origin.
	p := &SourcePage{Width: 612, Height: 792, llx: 10, lly: 20}

	got := p.flipRect(&pdf.Rectangle{LLx: 10, LLy: 20, URx: 622, URy: 812})
	want := model.Rect{X0: 0, Y0: 0, X1: 612, Y1: 792}
	if got != want {
		t.Errorf("flipRect = %+v, want %+v", got, want)
	}
}

func TestShowTextDropsBinaryFragments(t *testing.T) {
	if got := showText(pdf.String("plain words")); got != "plain words" {
		t.Errorf("showText = %q", got)
	}

	// Mostly low bytes: composite-font codes, not readable text.
	binary := pdf.String{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 'a'}
	if got := showText(binary); got != "" {
		t.Errorf("showText should drop binary input, got %q", got)
	}
}
