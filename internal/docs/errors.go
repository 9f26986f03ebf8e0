package docs

import "errors"

// Sentinel errors for content discovery.
var (
	// ErrSourcePathNotFound indicates a configured source directory does not exist.
	ErrSourcePathNotFound = errors.New("content source path not found")

	// ErrDirWalkFailed indicates filesystem traversal of a source directory failed.
	ErrDirWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered file failed.
	ErrFileReadFailed = errors.New("content file read failed")
)
