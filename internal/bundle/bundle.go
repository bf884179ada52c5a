// Package bundle serializes a selection forest into a single Markdown document.
package bundle

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/snippetbundle/internal/fsys"
	"github.com/temirov/snippetbundle/internal/selection"
)

const (
	// DefaultMaxTotalChars is the default character budget of a bundle.
	DefaultMaxTotalChars = 1_200_000

	// TruncationMarker is the line written where content was cut by the budget.
	TruncationMarker = "[TRUNCATED: exceeded MAX_TOTAL_CHARS]"

	blockSeparator  = "\n\n"
	headingPrefix   = "### "
	readErrorFormat = "[Error reading file: %s]\n"
	pathSeparator   = "/"
	newline         = "\n"
	truncationSlack = 64

	// closingFenceAllowance is reserved beyond the closing fence when deciding
	// whether a file fits whole.
	closingFenceAllowance = 2
)

// Classifier combines the structural and the content-sensitive exclusion checks.
type Classifier interface {
	ShouldIgnore(handle fsys.FileHandle) bool
	IsProbablyBinary(handle fsys.FileHandle) bool
}

// Result summarizes one bundling run.
type Result struct {
	CopiedFiles    int  `json:"copiedFiles" xml:"copiedFiles,attr"`
	SkippedIgnored int  `json:"skippedIgnored" xml:"skippedIgnored,attr"`
	SkippedBinary  int  `json:"skippedBinary" xml:"skippedBinary,attr"`
	Truncated      bool `json:"truncated" xml:"truncated,attr"`
	TotalChars     int  `json:"totalChars" xml:"totalChars,attr"`
}

// Options configures a Bundler.
type Options struct {
	MaxTotalChars int
	Classifier    Classifier
	Logger        *zap.Logger
}

// Bundler turns a selection forest into Markdown under a global character budget.
type Bundler struct {
	maxTotalChars int
	classifier    Classifier
	logger        *zap.Logger
}

// New constructs a Bundler. A non-positive MaxTotalChars selects DefaultMaxTotalChars.
func New(options Options) *Bundler {
	maxTotalChars := options.MaxTotalChars
	if maxTotalChars <= 0 {
		maxTotalChars = DefaultMaxTotalChars
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bundler{maxTotalChars: maxTotalChars, classifier: options.Classifier, logger: logger}
}

// Entry is a file collected from a forest with its slash-separated path relative to its root's parent.
type Entry struct {
	Handle       fsys.FileHandle
	RelativePath string
}

// Collect flattens roots into their files, ordered case-insensitively by relative path.
func Collect(roots []*selection.Node) []Entry {
	var entries []Entry
	for _, root := range roots {
		entries = collectNode(entries, root, "")
	}
	sort.SliceStable(entries, func(first, second int) bool {
		return strings.ToLower(entries[first].RelativePath) < strings.ToLower(entries[second].RelativePath)
	})
	return entries
}

func collectNode(entries []Entry, node *selection.Node, parentPath string) []Entry {
	nodePath := node.Handle().Name()
	if parentPath != "" {
		nodePath = parentPath + pathSeparator + nodePath
	}
	if !node.IsDirectory() {
		return append(entries, Entry{Handle: node.Handle(), RelativePath: nodePath})
	}
	children := node.Children()
	sort.SliceStable(children, func(first, second int) bool {
		if children[first].IsDirectory() != children[second].IsDirectory() {
			return children[first].IsDirectory()
		}
		return strings.ToLower(children[first].Handle().Name()) < strings.ToLower(children[second].Handle().Name())
	})
	for _, child := range children {
		entries = collectNode(entries, child, nodePath)
	}
	return entries
}

// Bundle renders every file of roots as a fenced Markdown block, in Collect
// order. The run halts at the first file that does not fit the character budget.
func (bundler *Bundler) Bundle(roots []*selection.Node) (string, Result) {
	var result Result
	var doc document

	for _, entry := range Collect(roots) {
		if bundler.classifier != nil && bundler.classifier.ShouldIgnore(entry.Handle) {
			bundler.logger.Debug("skipping ignored file", zap.String("path", entry.RelativePath))
			result.SkippedIgnored++
			continue
		}
		if bundler.classifier != nil && bundler.classifier.IsProbablyBinary(entry.Handle) {
			bundler.logger.Debug("skipping binary file", zap.String("path", entry.RelativePath))
			result.SkippedBinary++
			continue
		}
		outcome := bundler.appendFile(&doc, entry)
		if outcome == outcomeCopied {
			result.CopiedFiles++
			continue
		}
		if outcome == outcomeTruncated {
			result.Truncated = true
			break
		}
	}

	result.TotalChars = doc.chars
	return doc.buffer.String(), result
}

type appendOutcome int

const (
	outcomeCopied appendOutcome = iota
	outcomeUnreadable
	outcomeTruncated
)

// appendFile writes one block for entry. A block whose truncation marker and
// closing fence cannot fit the remaining budget is removed again, so the
// document never grows past the budget.
func (bundler *Bundler) appendFile(doc *document, entry Entry) appendOutcome {
	blockStart := doc.mark()
	if doc.chars > 0 {
		doc.write(blockSeparator)
	}
	doc.write(headingPrefix + entry.RelativePath + newline)

	content, readError := readText(entry.Handle)
	if readError != nil {
		bundler.logger.Warn("unable to read file", zap.String("path", entry.RelativePath), zap.Error(readError))
		doc.write(fmt.Sprintf(readErrorFormat, readError.Error()))
		if doc.chars > bundler.maxTotalChars {
			doc.rollback(blockStart)
			return outcomeTruncated
		}
		return outcomeUnreadable
	}

	fence := SafeFence(content)
	doc.write(fence + LanguageTag(entry.Handle.Extension()) + newline)

	remaining := bundler.maxTotalChars - doc.chars
	overhead := utf8.RuneCountInString(fence) + closingFenceAllowance
	if utf8.RuneCountInString(content)+overhead <= remaining {
		doc.write(content)
		if !strings.HasSuffix(content, newline) {
			doc.write(newline)
		}
		doc.write(fence)
		return outcomeCopied
	}

	truncationTail := TruncationMarker + newline + fence
	tailChars := utf8.RuneCountInString(truncationTail)
	if remaining < tailChars {
		doc.rollback(blockStart)
		return outcomeTruncated
	}
	reserve := max(truncationSlack, tailChars+1)
	doc.write(runePrefix(content, max(0, remaining-reserve)))
	if !doc.endsWithNewline() {
		doc.write(newline)
	}
	doc.write(truncationTail)
	return outcomeTruncated
}

// runePrefix returns the first count characters of text.
func runePrefix(text string, count int) string {
	if count <= 0 {
		return ""
	}
	seen := 0
	for byteIndex := range text {
		if seen == count {
			return text[:byteIndex]
		}
		seen++
	}
	return text
}

// document is the output buffer with its length tracked in characters.
type document struct {
	buffer bytes.Buffer
	chars  int
}

type documentMark struct {
	bytes int
	chars int
}

func (doc *document) write(text string) {
	doc.buffer.WriteString(text)
	doc.chars += utf8.RuneCountInString(text)
}

func (doc *document) mark() documentMark {
	return documentMark{bytes: doc.buffer.Len(), chars: doc.chars}
}

func (doc *document) rollback(mark documentMark) {
	doc.buffer.Truncate(mark.bytes)
	doc.chars = mark.chars
}

func (doc *document) endsWithNewline() bool {
	return bytes.HasSuffix(doc.buffer.Bytes(), []byte(newline))
}
