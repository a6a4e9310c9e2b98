package model

// Stats summarizes one flattening run.
type Stats struct {
	// TotalPages is the page count of the source document.
	TotalPages int `json:"total_pages"`

	// AnnotatedPages counts source pages bearing at least one annotation.
	AnnotatedPages int `json:"annotated_pages"`

	// TotalAnnotations counts all annotations across the document.
	TotalAnnotations int `json:"total_annotations"`

	// ByType maps human-readable type labels to occurrence counts.
	ByType map[string]int `json:"annotation_types"`
}

// NewStats returns a Stats with an initialized type counter.
func NewStats(totalPages int) Stats {
	return Stats{
		TotalPages: totalPages,
		ByType:     make(map[string]int),
	}
}

// CountType records one occurrence of the given annotation type.
func (s *Stats) CountType(t AnnotationType) {
	s.ByType[t.Label()]++
}
