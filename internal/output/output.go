// Package output renders selection forests and bundle reports for the snip CLI.
package output

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/temirov/snippetbundle/internal/types"
	"github.com/temirov/snippetbundle/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	xmlHeader = xml.Header

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	fileLabel          = "[File] "
	directorySuffix    = "/"
	emptySelectionLine = "(nothing selected)"

	// ClipboardDestination labels bundles delivered to the system clipboard.
	ClipboardDestination = "clipboard"
)

// RenderJSON marshals a selection forest as indented JSON.
func RenderJSON(selection *types.SelectionOutput) (string, error) {
	if selection == nil {
		selection = &types.SelectionOutput{}
	}
	if selection.Roots == nil {
		selection.Roots = []*types.TreeOutputNode{}
	}
	encoded, jsonEncodeError := json.MarshalIndent(selection, indentPrefix, indentSpacer)
	return string(encoded), jsonEncodeError
}

// RenderXML marshals a selection forest as an XML document.
func RenderXML(selection *types.SelectionOutput) (string, error) {
	if selection == nil {
		selection = &types.SelectionOutput{}
	}
	encoded, xmlMarshalError := xml.MarshalIndent(selection, indentPrefix, indentSpacer)
	if xmlMarshalError != nil {
		return "", xmlMarshalError
	}
	return xmlHeader + string(encoded), nil
}

// FormatSummaryLine formats an OutputSummary into the raw summary line.
func FormatSummaryLine(summary *types.OutputSummary) string {
	if summary == nil {
		summary = &types.OutputSummary{}
	}
	label := "files"
	if summary.TotalFiles == 1 {
		label = "file"
	}
	size := summary.TotalSize
	if size == "" {
		size = utils.FormatFileSize(0)
	}
	extra := ""
	if summary.TotalTokens > 0 {
		extra = fmt.Sprintf(", %d tokens", summary.TotalTokens)
	}
	modelSuffix := ""
	if summary.Model != "" {
		modelSuffix = fmt.Sprintf(" (model: %s)", summary.Model)
	}
	return fmt.Sprintf("Summary: %d %s, %s%s%s", summary.TotalFiles, label, size, extra, modelSuffix)
}

// FormatSelectionLine describes the current selection in one line.
func FormatSelectionLine(rootCount int, fileCount int) string {
	if rootCount == 0 {
		return "Selection: " + emptySelectionLine
	}
	return fmt.Sprintf("Selection: %d root%s, %d file%s", rootCount, utils.PluralSuffix(rootCount), fileCount, utils.PluralSuffix(fileCount))
}

// FormatBundleReport formats the end-of-operation notice for a produced bundle.
func FormatBundleReport(report types.BundleReport) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Bundle: %d file%s copied", report.CopiedFiles, utils.PluralSuffix(report.CopiedFiles))
	if report.SkippedIgnored > 0 || report.SkippedBinary > 0 {
		fmt.Fprintf(&builder, ", skipped %d ignored and %d binary", report.SkippedIgnored, report.SkippedBinary)
	}
	fmt.Fprintf(&builder, ", %d chars", report.TotalChars)
	if report.Tokens > 0 {
		fmt.Fprintf(&builder, ", %d tokens", report.Tokens)
		if report.Model != "" {
			fmt.Fprintf(&builder, " (model: %s)", report.Model)
		}
	}
	if report.Truncated {
		builder.WriteString(", truncated")
	}
	if report.Destination != "" {
		fmt.Fprintf(&builder, " to %s", report.Destination)
	}
	return builder.String()
}
