package document

import (
	"fmt"
	"io"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
	"seehuhn.de/go/pdf/pdfcopy"

	"github.com/tsawler/marginalia/contentstream"
)

// Builder assembles the output document page by page. Pages appear in the
// order they are appended, which is how summary pages end up directly
// behind the source page they describe.
type Builder struct {
	out    *pdf.Writer
	rm     *pdf.ResourceManager
	tree   *pagetree.Writer
	copier *pdfcopy.Copier

	fontRefs  map[contentstream.FontID]pdf.Reference
	alphaRefs map[string]pdf.Reference
}

// NewBuilder creates a builder writing a new PDF to w, copying objects
// from src as pages are appended.
func NewBuilder(w io.Writer, src *Source) (*Builder, error) {
	out, err := pdf.NewWriter(w, pdf.V1_7, nil)
	if err != nil {
		return nil, fmt.Errorf("creating writer: %w", err)
	}
	rm := pdf.NewResourceManager(out)

	return &Builder{
		out:       out,
		rm:        rm,
		tree:      pagetree.NewWriter(out, rm),
		copier:    pdfcopy.NewCopier(out, src.r),
		fontRefs:  make(map[contentstream.FontID]pdf.Reference),
		alphaRefs: make(map[string]pdf.Reference),
	}, nil
}

// AppendCopiedPage copies a source page into the output without its
// interactive annotations. If overlay is non-empty, its content stream is
// appended after the page's own content, bracketed by a graphics state
// save/restore so leftover state from the original stream cannot leak
// into the overlay.
func (b *Builder) AppendCopiedPage(p *SourcePage, overlay *contentstream.Canvas) error {
	filtered := pdf.Dict{}
	for key, val := range p.dict {
		switch key {
		case "Parent", "Annots", "Resources", "Contents":
			// Parent is supplied by the new page tree; Annots are
			// stripped by design; Resources and Contents get special
			// handling below.
		default:
			filtered[key] = val
		}
	}

	copied, err := b.copier.CopyDict(filtered)
	if err != nil {
		return fmt.Errorf("copying page dict: %w", err)
	}
	copied["Type"] = pdf.Name("Page")

	resources, err := b.copyResources(p)
	if err != nil {
		return fmt.Errorf("copying page resources: %w", err)
	}

	contents, err := b.copyContents(p)
	if err != nil {
		return fmt.Errorf("copying page contents: %w", err)
	}

	if overlay != nil && !overlay.Empty() {
		contents, err = b.appendOverlay(contents, overlay)
		if err != nil {
			return fmt.Errorf("appending overlay: %w", err)
		}
		if err := b.addCanvasResources(resources, overlay); err != nil {
			return err
		}
	}

	copied["Resources"] = resources
	if contents != nil {
		copied["Contents"] = contents
	}

	return b.tree.AppendPageDict(b.out.Alloc(), copied)
}

// AppendCanvasPage appends a freshly drawn page of the given size.
func (b *Builder) AppendCanvasPage(c *contentstream.Canvas) error {
	contentRef := b.out.Alloc()
	stream, err := b.out.OpenStream(contentRef, nil, pdf.FilterCompress{})
	if err != nil {
		return fmt.Errorf("opening content stream: %w", err)
	}
	if _, err := stream.Write(c.Bytes()); err != nil {
		return err
	}
	if err := stream.Close(); err != nil {
		return err
	}

	resources := pdf.Dict{}
	if err := b.addCanvasResources(resources, c); err != nil {
		return err
	}

	dict := pdf.Dict{
		"Type":      pdf.Name("Page"),
		"MediaBox":  &pdf.Rectangle{LLx: 0, LLy: 0, URx: c.Width(), URy: c.Height()},
		"Contents":  contentRef,
		"Resources": resources,
	}

	return b.tree.AppendPageDict(b.out.Alloc(), dict)
}

// Close finishes the page tree and the document. No pages can be added
// afterwards.
func (b *Builder) Close() error {
	treeRef, err := b.tree.Close()
	if err != nil {
		return fmt.Errorf("closing page tree: %w", err)
	}
	b.out.GetMeta().Catalog.Pages = treeRef

	if err := b.rm.Close(); err != nil {
		return fmt.Errorf("closing resources: %w", err)
	}
	if err := b.out.Close(); err != nil {
		return fmt.Errorf("closing writer: %w", err)
	}
	return nil
}

// copyResources deep-copies the source page's resource dictionary as a
// direct dictionary, so overlay resources can be merged in. The Font and
// ExtGState sub-dictionaries are likewise materialized as direct objects.
func (b *Builder) copyResources(p *SourcePage) (pdf.Dict, error) {
	srcRes, err := pdf.GetDict(p.src.r, p.dict["Resources"])
	if err != nil {
		return nil, err
	}

	resources := pdf.Dict{}
	for key, val := range srcRes {
		switch key {
		case "Font", "ExtGState":
			sub, err := pdf.GetDict(p.src.r, val)
			if err != nil {
				return nil, err
			}
			copiedSub, err := b.copier.CopyDict(sub)
			if err != nil {
				return nil, err
			}
			resources[key] = copiedSub
		default:
			copied, err := b.copier.Copy(val.AsPDF(b.out.GetOptions()))
			if err != nil {
				return nil, err
			}
			resources[key] = copied
		}
	}
	return resources, nil
}

// copyContents copies the page's content stream object(s), returning a
// reference or an array of references.
func (b *Builder) copyContents(p *SourcePage) (pdf.Object, error) {
	contents := p.dict["Contents"]
	if contents == nil {
		return nil, nil
	}
	copied, err := b.copier.Copy(contents.AsPDF(b.out.GetOptions()))
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// appendOverlay turns the page contents into an array wrapping the
// original stream(s) in q/Q and appending the overlay stream.
func (b *Builder) appendOverlay(contents pdf.Object, overlay *contentstream.Canvas) (pdf.Object, error) {
	arr := pdf.Array{}

	saveRef, err := b.writeStream([]byte("q\n"))
	if err != nil {
		return nil, err
	}
	arr = append(arr, saveRef)

	switch x := contents.(type) {
	case pdf.Array:
		arr = append(arr, x...)
	case nil:
		// Page without content: the overlay is all there is.
	default:
		arr = append(arr, x)
	}

	overlayData := append([]byte("Q\n"), overlay.Bytes()...)
	overlayRef, err := b.writeStream(overlayData)
	if err != nil {
		return nil, err
	}
	arr = append(arr, overlayRef)

	return arr, nil
}

// writeStream writes a compressed content stream and returns its
// reference.
func (b *Builder) writeStream(data []byte) (pdf.Reference, error) {
	ref := b.out.Alloc()
	stream, err := b.out.OpenStream(ref, nil, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	if _, err := stream.Write(data); err != nil {
		return 0, err
	}
	return ref, stream.Close()
}

// addCanvasResources merges the font and ExtGState entries a canvas
// depends on into a page resource dictionary.
func (b *Builder) addCanvasResources(resources pdf.Dict, c *contentstream.Canvas) error {
	if fonts := c.Fonts(); len(fonts) > 0 {
		fontDict, _ := resources["Font"].(pdf.Dict)
		if fontDict == nil {
			fontDict = pdf.Dict{}
			resources["Font"] = fontDict
		}
		for _, id := range fonts {
			ref, err := b.fontRef(id)
			if err != nil {
				return err
			}
			fontDict[pdf.Name(id)] = ref
		}
	}

	if alphas := c.Alphas(); len(alphas) > 0 {
		gsDict, _ := resources["ExtGState"].(pdf.Dict)
		if gsDict == nil {
			gsDict = pdf.Dict{}
			resources["ExtGState"] = gsDict
		}
		for name, alpha := range alphas {
			ref, err := b.alphaRef(name, alpha)
			if err != nil {
				return err
			}
			gsDict[pdf.Name(name)] = ref
		}
	}

	return nil
}

// fontRef returns (writing it on first use) the font dictionary for a
// canvas font resource.
func (b *Builder) fontRef(id contentstream.FontID) (pdf.Reference, error) {
	if ref, ok := b.fontRefs[id]; ok {
		return ref, nil
	}

	var dict pdf.Dict
	switch id {
	case contentstream.FontCJK:
		// A non-embedded CID font: viewers substitute a system font for
		// the Adobe-GB1 ordering, which is how CJK summary text renders
		// without shipping font programs.
		cidRef := b.out.Alloc()
		cidFont := pdf.Dict{
			"Type":     pdf.Name("Font"),
			"Subtype":  pdf.Name("CIDFontType0"),
			"BaseFont": pdf.Name("STSong-Light"),
			"CIDSystemInfo": pdf.Dict{
				"Registry":   pdf.String("Adobe"),
				"Ordering":   pdf.String("GB1"),
				"Supplement": pdf.Integer(5),
			},
			"DW": pdf.Integer(1000),
		}
		if err := b.out.Put(cidRef, cidFont); err != nil {
			return 0, err
		}
		dict = pdf.Dict{
			"Type":            pdf.Name("Font"),
			"Subtype":         pdf.Name("Type0"),
			"BaseFont":        pdf.Name("STSong-Light"),
			"Encoding":        pdf.Name("UniGB-UCS2-H"),
			"DescendantFonts": pdf.Array{cidRef},
		}
	default:
		dict = pdf.Dict{
			"Type":     pdf.Name("Font"),
			"Subtype":  pdf.Name("Type1"),
			"BaseFont": pdf.Name("Helvetica"),
			"Encoding": pdf.Name("WinAnsiEncoding"),
		}
	}

	ref := b.out.Alloc()
	if err := b.out.Put(ref, dict); err != nil {
		return 0, err
	}
	b.fontRefs[id] = ref
	return ref, nil
}

// alphaRef returns (writing it on first use) the ExtGState dictionary for
// a fill alpha value.
func (b *Builder) alphaRef(name string, alpha float64) (pdf.Reference, error) {
	if ref, ok := b.alphaRefs[name]; ok {
		return ref, nil
	}

	ref := b.out.Alloc()
	dict := pdf.Dict{
		"Type": pdf.Name("ExtGState"),
		"ca":   pdf.Real(alpha),
	}
	if err := b.out.Put(ref, dict); err != nil {
		return 0, err
	}
	b.alphaRefs[name] = ref
	return ref, nil
}
