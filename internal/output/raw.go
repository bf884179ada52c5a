package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/snippetbundle/internal/types"
)

// TreeStyles colors the raw tree. The zero value renders plain text.
type TreeStyles struct {
	enabled   bool
	directory lipgloss.Style
	file      lipgloss.Style
	detail    lipgloss.Style
	summary   lipgloss.Style
}

// NewTreeStyles returns styles bound to writer's color profile. Styling is
// applied only when enabled is true, which callers set for terminals.
func NewTreeStyles(writer io.Writer, enabled bool) TreeStyles {
	if !enabled {
		return TreeStyles{}
	}
	renderer := lipgloss.NewRenderer(writer)
	return TreeStyles{
		enabled:   true,
		directory: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		file:      renderer.NewStyle().Foreground(lipgloss.Color("252")),
		detail:    renderer.NewStyle().Foreground(lipgloss.Color("240")),
		summary:   renderer.NewStyle().Foreground(lipgloss.Color("62")),
	}
}

func (styles TreeStyles) render(style lipgloss.Style, text string) string {
	if !styles.enabled {
		return text
	}
	return style.Render(text)
}

// WriteSelectionRaw renders a selection forest with tree connectors.
func WriteSelectionRaw(writer io.Writer, selection *types.SelectionOutput, includeSummary bool, styles TreeStyles) {
	if selection == nil {
		selection = &types.SelectionOutput{}
	}
	if includeSummary {
		fmt.Fprintln(writer, styles.render(styles.summary, FormatSummaryLine(&selection.Summary)))
		fmt.Fprintln(writer)
	}
	if len(selection.Roots) == 0 {
		fmt.Fprintln(writer, emptySelectionLine)
		return
	}
	for index, root := range selection.Roots {
		if index > 0 {
			fmt.Fprintln(writer)
		}
		renderTreeNode(writer, root, "", true, true, styles)
	}
}

func treeNodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return "", ""
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderTreeNode(writer io.Writer, node *types.TreeOutputNode, prefix string, isRoot bool, isLast bool, styles TreeStyles) {
	if node == nil {
		return
	}
	linePrefix, childPrefix := treeNodeLinePrefix(prefix, isRoot, isLast)
	label := node.Name
	if isRoot {
		label = node.Path
	}
	if node.Type == types.NodeTypeFile {
		fmt.Fprintf(writer, "%s%s %s\n", linePrefix, styles.render(styles.file, fileLabel+label), styles.render(styles.detail, "("+node.Size+")"))
		return
	}
	fmt.Fprintf(writer, "%s%s\n", linePrefix, styles.render(styles.directory, label+directorySuffix))
	for index, child := range node.Children {
		renderTreeNode(writer, child, childPrefix, false, index == len(node.Children)-1, styles)
	}
}
