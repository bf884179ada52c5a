package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/temirov/snippetbundle/internal/filter"
	"github.com/temirov/snippetbundle/internal/fsys"
	"github.com/temirov/snippetbundle/internal/output"
	"github.com/temirov/snippetbundle/internal/selection"
	"github.com/temirov/snippetbundle/internal/types"
)

const projectTreeExpected = "Summary: 2 files, 18b\n" +
	"\n" +
	"/proj/\n" +
	"├── [File] README.md (5b)\n" +
	"└── src/\n" +
	"    └── [File] main.go (13b)\n"

func buildProjectSelection(t *testing.T) *types.SelectionOutput {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/README.md":         "hello",
		"/proj/src/main.go":       "package main\n",
		"/proj/node_modules/x.js": "ignored",
	}
	for path, content := range files {
		if err := afero.WriteFile(fileSystem, path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	provider := fsys.NewProvider(fileSystem, fsys.Options{})
	handle, err := provider.Resolve("/proj")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	store := selection.NewStore(filter.NewDefault(), nil)
	store.AddFiles([]fsys.FileHandle{handle})
	return output.BuildSelectionOutput(store.Snapshot())
}

func TestWriteSelectionRaw(t *testing.T) {
	selectionOutput := buildProjectSelection(t)
	testCases := []struct {
		name           string
		includeSummary bool
		expected       string
	}{
		{name: "with summary", includeSummary: true, expected: projectTreeExpected},
		{name: "without summary", includeSummary: false, expected: strings.TrimPrefix(projectTreeExpected, "Summary: 2 files, 18b\n\n")},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buffer bytes.Buffer
			output.WriteSelectionRaw(&buffer, selectionOutput, testCase.includeSummary, output.TreeStyles{})
			if buffer.String() != testCase.expected {
				t.Fatalf("unexpected tree:\n%s", buffer.String())
			}
		})
	}
}

func TestWriteSelectionRawStyledWithoutTerminal(t *testing.T) {
	var buffer bytes.Buffer
	output.WriteSelectionRaw(&buffer, buildProjectSelection(t), false, output.NewTreeStyles(&buffer, true))
	for _, fragment := range []string{"/proj/", "[File] README.md", "(13b)"} {
		if !strings.Contains(buffer.String(), fragment) {
			t.Fatalf("expected %q in styled output %q", fragment, buffer.String())
		}
	}
}

func TestWriteSelectionRawEmpty(t *testing.T) {
	var buffer bytes.Buffer
	output.WriteSelectionRaw(&buffer, output.BuildSelectionOutput(nil), false, output.TreeStyles{})
	if buffer.String() != "(nothing selected)\n" {
		t.Fatalf("unexpected empty rendering %q", buffer.String())
	}
}

func TestRenderJSON(t *testing.T) {
	rendered, err := output.RenderJSON(buildProjectSelection(t))
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}
	var decoded struct {
		Roots []struct {
			Path       string `json:"path"`
			Type       string `json:"type"`
			TotalFiles int    `json:"totalFiles"`
			Children   []struct {
				Name string `json:"name"`
				Size string `json:"size"`
			} `json:"children"`
		} `json:"roots"`
		Summary types.OutputSummary `json:"summary"`
	}
	if err := json.Unmarshal([]byte(rendered), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", rendered, err)
	}
	if len(decoded.Roots) != 1 {
		t.Fatalf("expected one root, got %d", len(decoded.Roots))
	}
	root := decoded.Roots[0]
	if root.Path != "/proj" || root.Type != types.NodeTypeDirectory || root.TotalFiles != 2 {
		t.Fatalf("unexpected root %+v", root)
	}
	if len(root.Children) != 2 || root.Children[0].Name != "README.md" || root.Children[0].Size != "5b" {
		t.Fatalf("unexpected children %+v", root.Children)
	}
	if decoded.Summary.TotalFiles != 2 || decoded.Summary.TotalSize != "18b" {
		t.Fatalf("unexpected summary %+v", decoded.Summary)
	}
}

func TestRenderJSONEmptyForest(t *testing.T) {
	rendered, err := output.RenderJSON(nil)
	if err != nil {
		t.Fatalf("RenderJSON error: %v", err)
	}
	if !strings.Contains(rendered, "\"roots\": []") {
		t.Fatalf("expected empty roots array, got %s", rendered)
	}
}

func TestRenderXML(t *testing.T) {
	rendered, err := output.RenderXML(buildProjectSelection(t))
	if err != nil {
		t.Fatalf("RenderXML error: %v", err)
	}
	for _, fragment := range []string{
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>",
		"<selection>",
		"<path>/proj</path>",
		"<name>main.go</name>",
		"<totalFiles>2</totalFiles>",
	} {
		if !strings.Contains(rendered, fragment) {
			t.Fatalf("expected %q in %s", fragment, rendered)
		}
	}
}

func TestFormatSummaryLine(t *testing.T) {
	testCases := []struct {
		name     string
		summary  *types.OutputSummary
		expected string
	}{
		{name: "nil", summary: nil, expected: "Summary: 0 files, 0b"},
		{name: "single", summary: &types.OutputSummary{TotalFiles: 1, TotalSize: "4b"}, expected: "Summary: 1 file, 4b"},
		{name: "tokens", summary: &types.OutputSummary{TotalFiles: 2, TotalSize: "1kb", TotalTokens: 7, Model: "gpt-4o"}, expected: "Summary: 2 files, 1kb, 7 tokens (model: gpt-4o)"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := output.FormatSummaryLine(testCase.summary); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestFormatSelectionLine(t *testing.T) {
	if actual := output.FormatSelectionLine(0, 0); actual != "Selection: (nothing selected)" {
		t.Fatalf("unexpected empty line %q", actual)
	}
	if actual := output.FormatSelectionLine(1, 3); actual != "Selection: 1 root, 3 files" {
		t.Fatalf("unexpected line %q", actual)
	}
}

func TestFormatBundleReport(t *testing.T) {
	testCases := []struct {
		name     string
		report   types.BundleReport
		expected string
	}{
		{
			name:     "plain",
			report:   types.BundleReport{CopiedFiles: 1, TotalChars: 40},
			expected: "Bundle: 1 file copied, 40 chars",
		},
		{
			name:     "skips tokens truncation and destination",
			report:   types.BundleReport{CopiedFiles: 3, SkippedIgnored: 1, SkippedBinary: 2, TotalChars: 100, Tokens: 25, Model: "gpt-4o", Truncated: true, Destination: output.ClipboardDestination},
			expected: "Bundle: 3 files copied, skipped 1 ignored and 2 binary, 100 chars, 25 tokens (model: gpt-4o), truncated to clipboard",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if actual := output.FormatBundleReport(testCase.report); actual != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}
