package marginalia

// FlattenOptions holds configuration for a flatten run.
type FlattenOptions struct {
	// Progress callback, invoked before each page is processed.
	progress func(done, total int)
}

// defaultOptions returns the default flatten options.
func defaultOptions() FlattenOptions {
	return FlattenOptions{
		progress: nil, // nil means no progress reporting
	}
}

// clone creates a copy of FlattenOptions.
func (o FlattenOptions) clone() FlattenOptions {
	return FlattenOptions{
		progress: o.progress,
	}
}
