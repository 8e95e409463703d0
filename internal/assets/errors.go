package assets

import "errors"

// Sentinel errors for defaults loading.
var (
	// ErrAssetNotFound indicates the requested file does not exist in the loader.
	ErrAssetNotFound = errors.New("defaults file not found")

	// ErrInvalidAssetName indicates the file name contains path separators
	// or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid defaults file name")

	// ErrInvalidBasePath indicates the defaults directory is not a readable directory.
	ErrInvalidBasePath = errors.New("invalid defaults directory")

	// ErrAssetRead indicates an I/O error occurred while reading a file.
	ErrAssetRead = errors.New("failed to read defaults file")

	// ErrPathTraversal indicates an attempt to read outside the defaults directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
