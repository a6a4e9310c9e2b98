// Package document wraps the PDF object layer for annotation flattening.
//
// A [Source] reads an existing document: page count, per-page geometry,
// the annotation list with its colors and vertex data, and the text under
// a clip rectangle for quoted snippets. A [Builder] writes the output
// document: it copies source pages (with their interactive annotations
// stripped and a mark overlay appended) and appends freshly drawn summary
// pages.
//
// All geometry crossing this boundary uses top-down page coordinates; the
// conversion from the PDF bottom-up convention happens here and nowhere
// else.
package document
