package fsys

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Options configures a Provider.
type Options struct {
	Encoding string
}

// Provider resolves paths of an afero file system into handles.
type Provider struct {
	fileSystem afero.Fs
	encoding   string
}

// NewProvider constructs a Provider over fileSystem. A nil file system selects the OS file system.
func NewProvider(fileSystem afero.Fs, options Options) *Provider {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	encoding := strings.TrimSpace(options.Encoding)
	if encoding == "" {
		encoding = DefaultEncoding
	}
	return &Provider{fileSystem: fileSystem, encoding: encoding}
}

// FileSystem returns the file system backing the provider.
func (provider *Provider) FileSystem() afero.Fs {
	return provider.fileSystem
}

// Resolve returns a handle for path or an error when the path cannot be inspected.
func (provider *Provider) Resolve(path string) (FileHandle, error) {
	cleanPath := filepath.Clean(path)
	info, statError := provider.fileSystem.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return nil, fmt.Errorf("path '%s' does not exist", path)
		}
		return nil, fmt.Errorf("stat failed for '%s': %w", path, statError)
	}
	return provider.newHandle(cleanPath, info.IsDir()), nil
}

func (provider *Provider) newHandle(cleanPath string, directory bool) *aferoHandle {
	return &aferoHandle{provider: provider, path: cleanPath, directory: directory}
}

// aferoHandle is a FileHandle backed by a path of an afero file system.
// Directory-ness is fixed when the handle is created; length and validity are
// re-read from the file system on every call.
type aferoHandle struct {
	provider  *Provider
	path      string
	directory bool
}

func (handle *aferoHandle) Key() string {
	return filepath.ToSlash(handle.path)
}

func (handle *aferoHandle) Name() string {
	return filepath.Base(handle.path)
}

func (handle *aferoHandle) Extension() string {
	name := handle.Name()
	dotIndex := strings.LastIndex(name, ".")
	if dotIndex < 0 {
		return ""
	}
	return name[dotIndex+1:]
}

func (handle *aferoHandle) Path() string {
	return handle.path
}

func (handle *aferoHandle) Length() int64 {
	if handle.directory {
		return 0
	}
	info, statError := handle.provider.fileSystem.Stat(handle.path)
	if statError != nil {
		return 0
	}
	return info.Size()
}

func (handle *aferoHandle) IsDirectory() bool {
	return handle.directory
}

func (handle *aferoHandle) IsValid() bool {
	info, statError := handle.provider.fileSystem.Stat(handle.path)
	if statError != nil {
		return false
	}
	return info.IsDir() == handle.directory
}

func (handle *aferoHandle) Children() ([]FileHandle, error) {
	if !handle.directory {
		return nil, nil
	}
	entries, readError := afero.ReadDir(handle.provider.fileSystem, handle.path)
	if readError != nil {
		return nil, fmt.Errorf("list %s: %w", handle.path, readError)
	}
	children := make([]FileHandle, 0, len(entries))
	for _, entry := range entries {
		children = append(children, handle.provider.newHandle(filepath.Join(handle.path, entry.Name()), entry.IsDir()))
	}
	return children, nil
}

func (handle *aferoHandle) Open() (io.ReadCloser, error) {
	if handle.directory {
		return nil, fmt.Errorf("%s is a directory", handle.path)
	}
	return handle.provider.fileSystem.Open(handle.path)
}

func (handle *aferoHandle) ReadBytes() ([]byte, error) {
	if handle.directory {
		return nil, fmt.Errorf("%s is a directory", handle.path)
	}
	return afero.ReadFile(handle.provider.fileSystem, handle.path)
}

func (handle *aferoHandle) CharacterEncoding() string {
	return handle.provider.encoding
}

var _ FileHandle = (*aferoHandle)(nil)
