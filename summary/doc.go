// Package summary composes the per-page comment summary: a title bar,
// then one entry per annotation with its number, type tag, quoted source
// snippet, and comment body, overflowing onto continuation pages when a
// page fills up.
package summary
