package model

import (
	"testing"
)

func TestRectFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Rect
	}{
		{"empty", nil, Rect{}},
		{"single point", []Point{{3, 4}}, Rect{3, 4, 3, 4}},
		{"two points ordered", []Point{{1, 2}, {5, 6}}, Rect{1, 2, 5, 6}},
		{"two points reversed", []Point{{5, 6}, {1, 2}}, Rect{1, 2, 5, 6}},
		{"quad", []Point{{10, 20}, {30, 20}, {10, 25}, {30, 25}}, Rect{10, 20, 30, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectFromPoints(tt.points); got != tt.want {
				t.Errorf("RectFromPoints(%v) = %v, want %v", tt.points, got, tt.want)
			}
		})
	}
}

func TestRectValidity(t *testing.T) {
	tests := []struct {
		name    string
		rect    Rect
		valid   bool
		empty   bool
	}{
		{"normal", Rect{0, 0, 10, 10}, true, false},
		{"zero", Rect{}, false, true},
		{"inverted", Rect{10, 10, 0, 0}, false, true},
		{"zero width", Rect{5, 0, 5, 10}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rect.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
			if got := tt.rect.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestTypeLabel(t *testing.T) {
	tests := []struct {
		typ  AnnotationType
		want string
	}{
		{TypeText, "Note"},
		{TypeFreeText, "Text Box"},
		{TypeHighlight, "Highlight"},
		{TypeStrikeOut, "Strikeout"},
		{TypeCaret, "Insert"},
		{TypeInk, "Drawing"},
		{TypeSquare, "Rectangle"},
		{TypeCircle, "Ellipse"},
		// Unknown types keep their raw subtype as the label.
		{AnnotationType("Watermark"), "Watermark"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			if got := tt.typ.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTypeTagColor(t *testing.T) {
	if got := TypeHighlight.TagColor(); got != (RGB{0.92, 0.75, 0.15}) {
		t.Errorf("TagColor(Highlight) = %v", got)
	}
	// Unknown types get the neutral default.
	if got := AnnotationType("Watermark").TagColor(); got != (RGB{0.5, 0.5, 0.5}) {
		t.Errorf("TagColor(unknown) = %v, want neutral gray", got)
	}
	// Popup is labeled but has no dedicated color.
	if got := TypePopup.TagColor(); got != (RGB{0.5, 0.5, 0.5}) {
		t.Errorf("TagColor(Popup) = %v, want neutral gray", got)
	}
}

func TestStatsCountType(t *testing.T) {
	s := NewStats(3)
	s.CountType(TypeHighlight)
	s.CountType(TypeHighlight)
	s.CountType(TypeText)
	s.CountType(AnnotationType("Watermark"))

	want := map[string]int{"Highlight": 2, "Note": 1, "Watermark": 1}
	for label, count := range want {
		if s.ByType[label] != count {
			t.Errorf("ByType[%q] = %d, want %d", label, s.ByType[label], count)
		}
	}
	if s.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", s.TotalPages)
	}
}
