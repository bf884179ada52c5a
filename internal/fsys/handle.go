// Package fsys exposes files and directories as capability-typed handles.
package fsys

import "io"

// DefaultEncoding is the character encoding reported when none is configured.
const DefaultEncoding = "utf-8"

// FileHandle identifies a file or directory of the underlying file system.
// Two handles denote the same entity iff their keys are equal.
type FileHandle interface {
	Key() string
	Name() string
	// Extension returns the text after the last dot of the name, without the dot.
	Extension() string
	Path() string
	Length() int64
	IsDirectory() bool
	IsValid() bool
	Children() ([]FileHandle, error)
	Open() (io.ReadCloser, error)
	ReadBytes() ([]byte, error)
	CharacterEncoding() string
}

// SameEntity reports whether both handles denote the same file system entity.
func SameEntity(first FileHandle, second FileHandle) bool {
	if first == nil || second == nil {
		return first == nil && second == nil
	}
	return first.Key() == second.Key()
}
