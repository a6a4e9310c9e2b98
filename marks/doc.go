// Package marks draws the static replacements for interactive
// annotations: highlight washes, strikeout and underline rules, shape
// outlines, ink paths, and a numbered badge next to each mark that keys
// it to the summary pages.
package marks
