package sources

import "errors"

var (
	// ErrRootUnreadable indicates the source root exists but cannot be inspected or listed.
	ErrRootUnreadable = errors.New("source root unreadable")

	// ErrRootNotDirectory indicates the source root is a regular file.
	ErrRootNotDirectory = errors.New("source root is not a directory")

	// ErrInvalidIgnorePattern indicates an ignore glob failed to compile.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrAlreadyWalked indicates Files was iterated more than once.
	ErrAlreadyWalked = errors.New("walker already consumed")

	// ErrFileReadFailed indicates reading a discovered source file failed.
	ErrFileReadFailed = errors.New("source file read failed")
)
