// Package marginalia provides a fluent API for flattening PDF annotations
// into static page content with numbered summary pages.
//
// Each annotation is replaced by a permanent vector mark (a highlight
// wash, an underline, a shape outline, and so on) plus a small numbered
// badge. After every page that carried annotations, one or more summary
// pages list the annotations by number with their type, the text they
// marked, and the reviewer's comment. The result renders identically in
// any PDF viewer, including ones that cannot display interactive
// annotations.
//
// Basic usage:
//
//	out, stats, err := marginalia.Open("reviewed.pdf").Flatten()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("flattened %d annotations\n", stats.TotalAnnotations)
//
// With a progress callback:
//
//	out, stats, err := marginalia.FromBytes(data).
//	    Progress(func(done, total int) {
//	        fmt.Printf("page %d/%d\n", done, total)
//	    }).
//	    Flatten()
package marginalia

// Open prepares a flattener for a PDF file. No work is done until a
// terminal operation like Flatten is called.
//
// Example:
//
//	out, stats, err := marginalia.Open("reviewed.pdf").Flatten()
func Open(filename string) *Flattener {
	return &Flattener{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes prepares a flattener for an in-memory PDF.
//
// Example:
//
//	out, stats, err := marginalia.FromBytes(data).Flatten()
func FromBytes(data []byte) *Flattener {
	return &Flattener{
		data:    data,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
