// Package store implements the entity store: typed read/write access to the
// content tree (products, categories, blog posts, codex entries) persisted as
// front-matter + body files. The file system is the only source of truth;
// every list call re-scans the backing directory, so results always reflect
// the latest on-disk state rather than a cached snapshot.
package store

import "time"

// FileInfo is lightweight metadata about one content file.
type FileInfo struct {
	Path      string    // relative to the content root
	Checksum  string    // hex-encoded SHA-256 of the file contents
	UpdatedAt time.Time // file modification time
}

// Provider is the interface for content file operations. All paths are
// relative to the content root.
type Provider interface {
	// List walks dir and returns metadata for every file whose name has the
	// given suffix. An empty suffix matches every file.
	List(dir, suffix string) ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories.
	Write(path string, content []byte) error
	// Delete removes a single file.
	Delete(path string) error
	// RemoveAll removes a directory and everything beneath it.
	RemoveAll(path string) error
	// ModTime returns the modification time of the file at path.
	ModTime(path string) (time.Time, error)
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
}
