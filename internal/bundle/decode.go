package bundle

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/temirov/snippetbundle/internal/fsys"
)

// readText reads the whole file and decodes it with the handle's character encoding.
// A leading byte order mark is decoded like any other character and kept.
func readText(handle fsys.FileHandle) (string, error) {
	data, readError := handle.ReadBytes()
	if readError != nil {
		return "", readError
	}
	textEncoding, lookupError := lookupEncoding(handle.CharacterEncoding())
	if lookupError != nil {
		return "", lookupError
	}
	decoded, _, decodeError := transform.Bytes(textEncoding.NewDecoder(), data)
	if decodeError != nil {
		return "", fmt.Errorf("decode %s: %w", handle.Path(), decodeError)
	}
	return strings.ToValidUTF8(string(decoded), string(utf8Replacement)), nil
}

const (
	utf8Replacement           = '\uFFFD'
	unsupportedEncodingFormat = "unsupported character encoding %q"
)

func lookupEncoding(name string) (encoding.Encoding, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		trimmedName = fsys.DefaultEncoding
	}
	// IANA names are matched exactly, so iso-8859-1 is not widened to windows-1252.
	textEncoding, lookupError := ianaindex.IANA.Encoding(trimmedName)
	if lookupError != nil || textEncoding == nil {
		return nil, fmt.Errorf(unsupportedEncodingFormat, trimmedName)
	}
	return textEncoding, nil
}
