// Package config loads application configuration and ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/temirov/snippetbundle/internal/utils"
)

const (
	// directoriesSectionHeader identifies the section listing directory names to ignore.
	directoriesSectionHeader = "[directories]"
	// extensionsSectionHeader identifies the section listing binary file extensions.
	extensionsSectionHeader = "[extensions]"
	commentPrefix           = "#"
)

// IgnoreFile holds the entries read from an ignore file.
type IgnoreFile struct {
	Directories []string
	Extensions  []string
}

// LoadIgnoreFile reads the ignore file at ignoreFilePath. Lines before any
// section header are directory names. A missing file yields an empty IgnoreFile.
//
// #nosec G304
func LoadIgnoreFile(ignoreFilePath string) (IgnoreFile, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return IgnoreFile{}, nil
		}
		return IgnoreFile{}, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignoreFile IgnoreFile
	currentSectionHeader := directoriesSectionHeader
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		if strings.EqualFold(trimmedLine, directoriesSectionHeader) {
			currentSectionHeader = directoriesSectionHeader
			continue
		}
		if strings.EqualFold(trimmedLine, extensionsSectionHeader) {
			currentSectionHeader = extensionsSectionHeader
			continue
		}
		if currentSectionHeader == extensionsSectionHeader {
			ignoreFile.Extensions = append(ignoreFile.Extensions, trimmedLine)
			continue
		}
		ignoreFile.Directories = append(ignoreFile.Directories, strings.TrimSuffix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnoreFile{}, fmt.Errorf("read %s: %w", ignoreFilePath, scanError)
	}
	ignoreFile.Directories = utils.DeduplicatePatterns(ignoreFile.Directories)
	ignoreFile.Extensions = utils.DeduplicatePatterns(ignoreFile.Extensions)
	return ignoreFile, nil
}
