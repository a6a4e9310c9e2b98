package textwrap

import (
	"strings"

	"github.com/tsawler/marginalia/script"
)

// splitParagraphs normalizes line endings and splits text into paragraphs.
// All of \r\n, \r and \n count as one paragraph break.
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Wrap breaks text into display lines no wider than maxWidth at the given
// font size, using a character-count budget per line. The budget assumes a
// uniform script: cjk selects the 1.0 ratio and per-character breaking,
// otherwise the 0.52 ratio and word-boundary breaking apply. A single word
// longer than the budget is hard-split at the budget boundary.
//
// Paragraphs (explicit line breaks) are wrapped independently; an empty
// paragraph yields exactly one empty line so blank-line spacing survives.
func Wrap(text string, maxWidth, fontSize float64, cjk bool) []string {
	charsPerLine := int(maxWidth / (fontSize * Ratio(cjk)))

	var lines []string
	for _, para := range splitParagraphs(text) {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		if cjk {
			lines = appendWrappedChars(lines, para, charsPerLine)
		} else {
			lines = appendWrappedWords(lines, para, charsPerLine)
		}
	}
	return lines
}

// appendWrappedChars wraps a paragraph one character at a time against a
// character-count budget.
func appendWrappedChars(lines []string, para string, charsPerLine int) []string {
	var current []rune
	for _, r := range para {
		if len(current) >= charsPerLine {
			lines = append(lines, string(current))
			current = current[:0]
		}
		current = append(current, r)
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	return lines
}

// appendWrappedWords wraps a paragraph by accumulating space-separated
// words against a character-count budget, hard-splitting overlong words.
func appendWrappedWords(lines []string, para string, charsPerLine int) []string {
	current := ""
	for _, word := range strings.Split(para, " ") {
		test := current
		if test != "" {
			test += " "
		}
		test += word
		if runeLen(test) <= charsPerLine {
			current = test
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		w := []rune(word)
		for len(w) > charsPerLine {
			lines = append(lines, string(w[:charsPerLine]))
			w = w[charsPerLine:]
		}
		current = string(w)
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// WrapMixed breaks possibly mixed-script text into display lines no wider
// than maxWidth at the given font size. Unlike [Wrap] it tracks a running
// pixel width per character, so a line holding both Latin and CJK segments
// still respects the width budget. Paragraphs wrap independently and an
// empty paragraph yields one empty line.
//
// No punctuation rules are applied at break points: a line may start with
// a closing quote or CJK full stop. That matches the width-only contract;
// proper CJK line-breaking rules are out of scope.
func WrapMixed(text string, maxWidth, fontSize float64) []string {
	var lines []string
	for _, para := range splitParagraphs(text) {
		if para == "" {
			lines = append(lines, "")
			continue
		}

		var current []rune
		var currentWidth float64
		for _, r := range para {
			charWidth := fontSize * Ratio(script.IsCJK(r))
			if currentWidth+charWidth > maxWidth {
				if len(current) > 0 {
					lines = append(lines, string(current))
				}
				current = append(current[:0], r)
				currentWidth = charWidth
			} else {
				current = append(current, r)
				currentWidth += charWidth
			}
		}
		if len(current) > 0 {
			lines = append(lines, string(current))
		}
	}
	return lines
}

// runeLen returns the length of s in code points, which is the unit the
// character-count budget is expressed in.
func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
