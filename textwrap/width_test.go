package textwrap

import (
	"math"
	"testing"
)

func TestCharWidth(t *testing.T) {
	tests := []struct {
		name     string
		char     rune
		fontSize float64
		want     float64
	}{
		{"Latin at 10pt", 'a', 10, 5.2},
		{"digit at 10pt", '7', 10, 5.2},
		{"space at 10pt", ' ', 10, 5.2},
		{"CJK at 10pt", '中', 10, 10},
		{"kana at 10pt", 'あ', 10, 10},
		{"fullwidth at 10pt", 'Ａ', 10, 10},
		{"Latin at 8.5pt", 'x', 8.5, 8.5 * 0.52},
		{"CJK at 9.5pt", '文', 9.5, 9.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CharWidth(tt.char, tt.fontSize)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CharWidth(%q, %v) = %v, want %v", tt.char, tt.fontSize, got, tt.want)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fontSize float64
		want     float64
	}{
		{"empty", "", 10, 0},
		{"pure Latin", "abc", 10, 3 * 5.2},
		{"pure CJK", "中文", 10, 20},
		{"mixed", "a中", 10, 5.2 + 10},
		{"mixed with space", "hi 你好", 10, 3*5.2 + 2*10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StringWidth(tt.text, tt.fontSize)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StringWidth(%q, %v) = %v, want %v", tt.text, tt.fontSize, got, tt.want)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(true); got != 1.0 {
		t.Errorf("Ratio(true) = %v, want 1.0", got)
	}
	if got := Ratio(false); got != 0.52 {
		t.Errorf("Ratio(false) = %v, want 0.52", got)
	}
}
