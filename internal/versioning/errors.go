package versioning

import "errors"

var (
	// ErrRepositoryUnavailable is returned when the git repository cannot be
	// opened or has no HEAD commit.
	ErrRepositoryUnavailable = errors.New("git repository unavailable")
	// ErrTagsUnreadable is returned when the tag list cannot be read.
	ErrTagsUnreadable = errors.New("cannot read tags")
	// ErrContentDirMissing is returned when the content directory does not exist.
	ErrContentDirMissing = errors.New("content directory not found")
)
