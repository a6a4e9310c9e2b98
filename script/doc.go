// Package script classifies text by writing system for layout purposes.
//
// The classifier distinguishes CJK characters (Chinese ideographs, kana,
// CJK punctuation, fullwidth forms) from everything else, because the two
// classes have very different rendered widths and wrapping rules:
//
//	cjk := script.IsCJK('中')            // true
//	mixed := script.ContainsCJK("a中b")  // true
//	runs := script.Split("Hello 世界")   // [{Hello , false} {世界, true}]
//
// [Split] partitions text into maximal same-class runs; concatenating the
// runs in order always reproduces the input exactly.
package script
