package output

import (
	"github.com/temirov/snippetbundle/internal/bundle"
	"github.com/temirov/snippetbundle/internal/selection"
	"github.com/temirov/snippetbundle/internal/types"
	"github.com/temirov/snippetbundle/internal/utils"
)

// BuildSelectionOutput converts a selection forest into its renderable form.
func BuildSelectionOutput(roots []*selection.Node) *types.SelectionOutput {
	result := &types.SelectionOutput{Roots: make([]*types.TreeOutputNode, 0, len(roots))}
	var totalBytes int64
	for _, root := range roots {
		node, bytes := buildTreeNode(root)
		if node == nil {
			continue
		}
		result.Roots = append(result.Roots, node)
		result.Summary.TotalFiles += selection.FileCount(root)
		totalBytes += bytes
	}
	result.Summary.TotalSize = utils.FormatFileSize(totalBytes)
	return result
}

func buildTreeNode(node *selection.Node) (*types.TreeOutputNode, int64) {
	if node == nil || node.Handle() == nil {
		return nil, 0
	}
	handle := node.Handle()
	outputNode := &types.TreeOutputNode{
		Path: handle.Path(),
		Name: handle.Name(),
	}
	if !node.IsDirectory() {
		outputNode.Type = types.NodeTypeFile
		outputNode.SizeBytes = handle.Length()
		outputNode.Size = utils.FormatFileSize(outputNode.SizeBytes)
		return outputNode, outputNode.SizeBytes
	}

	outputNode.Type = types.NodeTypeDirectory
	var totalBytes int64
	for _, child := range node.Children() {
		childNode, childBytes := buildTreeNode(child)
		if childNode == nil {
			continue
		}
		outputNode.Children = append(outputNode.Children, childNode)
		totalBytes += childBytes
	}
	outputNode.SizeBytes = totalBytes
	outputNode.TotalFiles = selection.FileCount(node)
	outputNode.TotalSize = utils.FormatFileSize(totalBytes)
	return outputNode, totalBytes
}

// NewBundleReport copies the counters of a bundling run into a report.
func NewBundleReport(result bundle.Result) types.BundleReport {
	return types.BundleReport{
		CopiedFiles:    result.CopiedFiles,
		SkippedIgnored: result.SkippedIgnored,
		SkippedBinary:  result.SkippedBinary,
		Truncated:      result.Truncated,
		TotalChars:     result.TotalChars,
	}
}
