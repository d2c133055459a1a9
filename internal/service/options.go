package service

// Options toggles behaviors that are kept for compatibility but may be
// tightened per deployment.
type Options struct {
	// EmptyListNotFound reports an empty list result as NotFoundError.
	EmptyListNotFound bool
	// StrictUpdates enforces the per-role ticket capability table on PATCH.
	StrictUpdates bool
}

func DefaultOptions() Options {
	return Options{EmptyListNotFound: true}
}

// isEmptyTreatedAsNotFound is the one place list endpoints consult before
// turning "no rows" into a 404.
func (o Options) isEmptyTreatedAsNotFound(n int) bool {
	return n == 0 && o.EmptyListNotFound
}
