// Command marginalia flattens PDF annotations into static page content
// with numbered summary pages.
//
// Usage:
//
//	marginalia [-o output.pdf] [-q] [-json] input.pdf
//	marginalia -addr :8080
//
// In file mode the flattened document is written next to the input as
// <input>_flattened.pdf unless -o names another path. In serve mode the
// same pipeline runs behind an HTTP upload endpoint.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/web"
)

func main() {
	var (
		output    = flag.String("o", "", "output file path (default: <input>_flattened.pdf)")
		quiet     = flag.Bool("q", false, "suppress per-page progress")
		jsonStats = flag.Bool("json", false, "print run statistics as JSON")
		addr      = flag.String("addr", "", "serve over HTTP on this address instead of processing a file")
	)
	flag.Parse()

	log := logrus.New()

	if *addr != "" {
		if err := web.NewServer(log).ListenAndServe(*addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: marginalia [-o output.pdf] [-q] [-json] input.pdf")
		fmt.Fprintln(os.Stderr, "       marginalia -addr :8080")
		os.Exit(1)
	}
	input := flag.Arg(0)

	outPath := *output
	if outPath == "" {
		outPath = defaultOutput(input)
	}

	f := marginalia.Open(input)
	if !*quiet {
		f = f.Progress(func(done, total int) {
			fmt.Fprintf(os.Stderr, "page %d/%d\n", done, total)
		})
	}

	stats, err := f.ToFile(outPath)
	if err != nil {
		log.WithError(err).WithField("input", input).Fatal("flattening failed")
	}

	if *jsonStats {
		data, err := sonic.Marshal(stats)
		if err != nil {
			log.WithError(err).Fatal("encoding stats")
		}
		fmt.Println(string(data))
		return
	}

	log.WithFields(logrus.Fields{
		"output":      outPath,
		"pages":       stats.TotalPages,
		"annotated":   stats.AnnotatedPages,
		"annotations": stats.TotalAnnotations,
	}).Info("done")
}

// defaultOutput derives the output path from the input path.
func defaultOutput(in string) string {
	if strings.HasSuffix(strings.ToLower(in), ".pdf") {
		return in[:len(in)-len(".pdf")] + "_flattened.pdf"
	}
	return in + "_flattened.pdf"
}
