package pipeline

import "errors"

var (
	// ErrExtractionFailed marks a file whose extraction raised an unexpected
	// failure. The file is skipped; the run continues.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrUnsafeClean indicates output.clean was requested for a path that must
	// never be removed.
	ErrUnsafeClean = errors.New("refusing to clean output root")
)
