// Package types defines every cross‑package data structure used by the snip CLI.
package types

import "encoding/xml"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	CommandBundle  = "bundle"
	CommandTree    = "tree"
	CommandSession = "session"
	CommandInit    = "init"

	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// TreeOutputNode represents one node of the selection forest rendered by the tree command.
type TreeOutputNode struct {
	XMLName    xml.Name          `json:"-" xml:"node"`
	Path       string            `json:"path" xml:"path"`
	Name       string            `json:"name" xml:"name"`
	Type       string            `json:"type" xml:"type"`
	Size       string            `json:"size,omitempty" xml:"size,omitempty"`
	SizeBytes  int64             `json:"-" xml:"-"`
	Children   []*TreeOutputNode `json:"children,omitempty" xml:"children>node,omitempty"`
	TotalFiles int               `json:"totalFiles,omitempty" xml:"totalFiles,omitempty"`
	TotalSize  string            `json:"totalSize,omitempty" xml:"totalSize,omitempty"`
}

// SelectionOutput is the structured rendering of a whole selection forest.
type SelectionOutput struct {
	XMLName xml.Name          `json:"-" xml:"selection"`
	Roots   []*TreeOutputNode `json:"roots" xml:"node"`
	Summary OutputSummary     `json:"summary" xml:"summary"`
}

// OutputSummary captures aggregate information about rendered files.
type OutputSummary struct {
	TotalFiles  int    `json:"totalFiles" xml:"totalFiles"`
	TotalSize   string `json:"totalSize" xml:"totalSize"`
	TotalTokens int    `json:"totalTokens,omitempty" xml:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty" xml:"model,omitempty"`
}

// BundleReport is surfaced to the user after a bundle has been produced.
type BundleReport struct {
	CopiedFiles    int    `json:"copiedFiles"`
	SkippedIgnored int    `json:"skippedIgnored"`
	SkippedBinary  int    `json:"skippedBinary"`
	Truncated      bool   `json:"truncated"`
	TotalChars     int    `json:"totalChars"`
	Tokens         int    `json:"tokens,omitempty"`
	Model          string `json:"model,omitempty"`
	Destination    string `json:"destination,omitempty"`
}
