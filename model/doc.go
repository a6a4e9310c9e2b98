// Package model defines the data types shared across annotation
// flattening: page geometry, annotation records, type styling tables, and
// run statistics.
//
// Coordinates follow the top-down page convention (origin at the top-left
// corner, y growing downward), matching how summary layout reasons about
// vertical cursors. The document layer converts to and from native PDF
// bottom-up coordinates at the boundary.
package model
