// Package contentstream reads and writes PDF content streams at the
// operator level.
//
// The [Parser] tokenizes an existing content stream into operator +
// operand tuples; it is used to locate text under annotation rectangles.
// The [Canvas] emits new content stream bytes for vector marks and
// summary-page drawing:
//
//	c := contentstream.NewCanvas(612, 792)
//	c.FillRect(model.NewRect(10, 10, 100, 30), model.RGB{R: 0.9, G: 0.9, B: 0.9})
//	c.Text(model.Point{X: 14, Y: 24}, "hello", contentstream.FontHelvetica, 9, black)
//	stream := c.Bytes()
//
// Canvas coordinates are top-down (y grows toward the page bottom); the
// canvas converts to the PDF bottom-up device space when emitting
// operators. Latin text is shown with a WinAnsi-encoded Type1 font and CJK
// text with a UTF-16BE encoded Type0 font; [Canvas.MixedText] switches
// between the two per script run on a shared baseline.
package contentstream
