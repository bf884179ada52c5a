// Package filter decides which files and directories are excluded from a selection.
//
// ShouldIgnore is a structural check that never reads content and is applied
// while selection trees are built. IsProbablyBinary samples file content and is
// only evaluated for files that are about to be bundled.
package filter

import (
	"errors"
	"io"
	"strings"

	"github.com/temirov/snippetbundle/internal/fsys"
)

const (
	// DefaultMaxFileBytes is the largest file length that is not ignored.
	DefaultMaxFileBytes int64 = 512 * 1024
	// SampleLength is the number of leading bytes inspected by IsProbablyBinary.
	SampleLength = 4096
	// weirdRatioThreshold is the control-byte share above which a sample is binary.
	weirdRatioThreshold = 0.15
)

var defaultIgnoredDirectoryNames = []string{
	".git", ".idea", ".gradle", ".mvn",
	"node_modules", "dist", "build", "out", "target",
	".next", ".nuxt", ".cache", ".sass-cache",
	".pytest_cache", "__pycache__",
	".vscode",
}

var defaultBinaryExtensions = []string{
	"class", "jar", "war", "zip", "7z", "rar", "tar", "gz",
	"png", "jpg", "jpeg", "gif", "webp", "bmp", "ico",
	"pdf",
	"mp3", "mp4", "wav", "avi", "mov",
	"exe", "dll", "so", "dylib",
}

// Rules holds the denylists and the size cap used by a Filter.
type Rules struct {
	IgnoredDirectoryNames map[string]struct{}
	BinaryExtensions      map[string]struct{}
	MaxFileBytes          int64
}

// DefaultRules returns the built-in denylists and the 512 KiB size cap.
func DefaultRules() Rules {
	rules := Rules{
		IgnoredDirectoryNames: make(map[string]struct{}, len(defaultIgnoredDirectoryNames)),
		BinaryExtensions:      make(map[string]struct{}, len(defaultBinaryExtensions)),
		MaxFileBytes:          DefaultMaxFileBytes,
	}
	for _, name := range defaultIgnoredDirectoryNames {
		rules.IgnoredDirectoryNames[name] = struct{}{}
	}
	for _, extension := range defaultBinaryExtensions {
		rules.BinaryExtensions[extension] = struct{}{}
	}
	return rules
}

// WithDirectoryNames returns a copy of rules that additionally ignores the named directories.
func (rules Rules) WithDirectoryNames(names ...string) Rules {
	result := rules.clone()
	for _, name := range names {
		trimmedName := strings.TrimSpace(name)
		if trimmedName == "" {
			continue
		}
		result.IgnoredDirectoryNames[trimmedName] = struct{}{}
	}
	return result
}

// WithBinaryExtensions returns a copy of rules that additionally treats the extensions as binary.
// Extensions are matched case-insensitively; a leading dot is optional.
func (rules Rules) WithBinaryExtensions(extensions ...string) Rules {
	result := rules.clone()
	for _, extension := range extensions {
		normalized := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
		if normalized == "" {
			continue
		}
		result.BinaryExtensions[normalized] = struct{}{}
	}
	return result
}

func (rules Rules) clone() Rules {
	result := Rules{
		IgnoredDirectoryNames: make(map[string]struct{}, len(rules.IgnoredDirectoryNames)),
		BinaryExtensions:      make(map[string]struct{}, len(rules.BinaryExtensions)),
		MaxFileBytes:          rules.MaxFileBytes,
	}
	for name := range rules.IgnoredDirectoryNames {
		result.IgnoredDirectoryNames[name] = struct{}{}
	}
	for extension := range rules.BinaryExtensions {
		result.BinaryExtensions[extension] = struct{}{}
	}
	return result
}

// Filter applies Rules to file handles. Its methods never mutate state and never fail.
type Filter struct {
	rules Rules
}

// New constructs a Filter. A non-positive MaxFileBytes selects DefaultMaxFileBytes.
func New(rules Rules) *Filter {
	if rules.MaxFileBytes <= 0 {
		rules.MaxFileBytes = DefaultMaxFileBytes
	}
	if rules.IgnoredDirectoryNames == nil || rules.BinaryExtensions == nil {
		defaults := DefaultRules()
		if rules.IgnoredDirectoryNames == nil {
			rules.IgnoredDirectoryNames = defaults.IgnoredDirectoryNames
		}
		if rules.BinaryExtensions == nil {
			rules.BinaryExtensions = defaults.BinaryExtensions
		}
	}
	return &Filter{rules: rules}
}

// NewDefault constructs a Filter using DefaultRules.
func NewDefault() *Filter {
	return New(DefaultRules())
}

// ShouldIgnore reports whether handle is excluded by name, extension, or size.
func (filter *Filter) ShouldIgnore(handle fsys.FileHandle) bool {
	if handle == nil || !handle.IsValid() {
		return true
	}
	if handle.IsDirectory() {
		_, ignored := filter.rules.IgnoredDirectoryNames[handle.Name()]
		return ignored
	}
	if handle.Length() > filter.rules.MaxFileBytes {
		return true
	}
	return filter.hasBinaryExtension(handle)
}

// IsProbablyBinary reports whether the file looks binary by extension or by its leading bytes.
// Files that cannot be read are reported as binary.
func (filter *Filter) IsProbablyBinary(handle fsys.FileHandle) bool {
	if handle == nil || handle.IsDirectory() {
		return false
	}
	if filter.hasBinaryExtension(handle) {
		return true
	}
	reader, openError := handle.Open()
	if openError != nil {
		return true
	}
	defer reader.Close()

	buffer := make([]byte, SampleLength)
	bytesRead, readError := io.ReadFull(reader, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return true
	}
	return ClassifySample(buffer[:bytesRead])
}

func (filter *Filter) hasBinaryExtension(handle fsys.FileHandle) bool {
	extension := strings.ToLower(handle.Extension())
	if extension == "" {
		return false
	}
	_, listed := filter.rules.BinaryExtensions[extension]
	return listed
}

// ClassifySample reports whether sample looks binary: any NUL byte, or more than
// 15% control bytes other than tab, line feed, and carriage return. An empty sample is text.
func ClassifySample(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	zeros := 0
	weird := 0
	for _, byteValue := range sample {
		if byteValue == 0x00 {
			zeros++
		}
		if isWeirdByte(byteValue) {
			weird++
		}
	}
	if zeros > 0 {
		return true
	}
	return float64(weird)/float64(len(sample)) > weirdRatioThreshold
}

func isWeirdByte(byteValue byte) bool {
	return byteValue < 0x09 || (byteValue > 0x0D && byteValue < 0x20) || byteValue == 0x7F
}
