package script

// Run is a maximal substring whose characters all belong to the same
// script class. Runs are produced by [Split] and are never persisted.
type Run struct {
	Text string
	CJK  bool
}

// IsCJK reports whether r is a CJK character for width and wrapping
// purposes. This includes:
//   - CJK Unified Ideographs: U+4E00–U+9FFF
//   - CJK Extension A: U+3400–U+4DBF
//   - CJK Symbols and Punctuation: U+3000–U+303F
//   - Fullwidth Forms: U+FF00–U+FFEF
//   - Hiragana: U+3040–U+309F
//   - Katakana: U+30A0–U+30FF
//
// The exact range set gates every downstream width and wrapping decision,
// so it must not be extended or narrowed casually.
func IsCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) ||
		(r >= 0x3400 && r <= 0x4DBF) ||
		(r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0x3040 && r <= 0x309F) ||
		(r >= 0x30A0 && r <= 0x30FF)
}

// ContainsCJK reports whether any character of s classifies as CJK.
func ContainsCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}

// Split partitions s into maximal same-class runs in original order.
// Empty input yields a nil slice; single-script input yields one run.
// Concatenating the run texts in order reproduces s exactly.
func Split(s string) []Run {
	if s == "" {
		return nil
	}

	var runs []Run
	var current []rune
	currentCJK := false

	for i, r := range s {
		cjk := IsCJK(r)
		if i == 0 {
			currentCJK = cjk
			current = append(current, r)
			continue
		}
		if cjk == currentCJK {
			current = append(current, r)
			continue
		}
		runs = append(runs, Run{Text: string(current), CJK: currentCJK})
		current = current[:0]
		current = append(current, r)
		currentCJK = cjk
	}

	if len(current) > 0 {
		runs = append(runs, Run{Text: string(current), CJK: currentCJK})
	}

	return runs
}
