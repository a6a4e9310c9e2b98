package textwrap

import "github.com/tsawler/marginalia/script"

// Width ratios relative to font size. These two constants are the entire
// font metric model: every width estimate, wrap decision, and height
// estimate derives from them, so they live here and nowhere else.
const (
	cjkRatio   = 1.0
	latinRatio = 0.52
)

// Ratio returns the per-character width ratio for a script class.
func Ratio(cjk bool) float64 {
	if cjk {
		return cjkRatio
	}
	return latinRatio
}

// CharWidth returns the approximate rendered width of a single character
// at the given font size.
func CharWidth(r rune, fontSize float64) float64 {
	return fontSize * Ratio(script.IsCJK(r))
}

// StringWidth returns the approximate rendered width of s at the given
// font size: the sum of per-character widths. No kerning, no font-specific
// metrics.
func StringWidth(s string, fontSize float64) float64 {
	var width float64
	for _, r := range s {
		width += CharWidth(r, fontSize)
	}
	return width
}
