// Package textwrap estimates rendered text widths and wraps text into
// display lines for summary-page layout.
//
// Widths use a fixed additive model rather than real glyph metrics: a CJK
// character is one font size wide, anything else 0.52 of the font size.
// The same two ratios drive wrapping and the entry height estimator, so
// layout decisions made before rendering agree with the rendered result.
//
// Two wrapping disciplines are provided. [Wrap] handles single-script text
// with a character-count budget per line (word-aware for Latin text,
// per-character for CJK). [WrapMixed] walks the text character by character
// with a running pixel width, which stays width-accurate when Latin and CJK
// segments share a line.
package textwrap
