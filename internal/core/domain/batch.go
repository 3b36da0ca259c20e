package domain

// DocumentStatus is the per-file outcome of a batch indexing run.
type DocumentStatus struct {
	// Filename is the original name of the processed file.
	Filename string

	// DocumentID is set when the file was indexed (or previously was).
	DocumentID string

	// Segments is the number of segments inserted into the index.
	Segments int

	// Skipped is true when the file was already indexed for the
	// session and was not re-embedded.
	Skipped bool

	// Err records why the file could not be indexed, nil on success.
	Err error
}

// BatchResult reports the outcome of indexing a batch of uploads.
// A failed file never aborts the batch; earlier successes are not
// rolled back.
type BatchResult struct {
	// Statuses holds one entry per file, in input order.
	Statuses []DocumentStatus
}

// Indexed returns the number of files successfully indexed.
func (r *BatchResult) Indexed() int {
	n := 0
	for _, s := range r.Statuses {
		if s.Err == nil && !s.Skipped {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be indexed.
func (r *BatchResult) Failed() int {
	n := 0
	for _, s := range r.Statuses {
		if s.Err != nil {
			n++
		}
	}
	return n
}
