// Package web serves the flattener over HTTP: an upload form at / and a
// POST /flatten endpoint that returns the flattened PDF as an attachment
// with run statistics in the X-Flatten-Stats response header.
package web
