package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/temirov/snippetbundle/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	expectFormat    string
	expectBudget    *int
	expectCopy      *bool
	expectTokens    *bool
	expectModel     string
	expectDirectory []string
	expectEncoding  string
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "bundle:\n  max_total_chars: 5000\n  copy: true\ntree:\n  format: json\nfilter:\n  directories: [vendor]\n",
			localContent:    "bundle:\n  copy: false\n  tokens:\n    enabled: true\n    model: custom\ntree:\n  format: xml\nfilter:\n  directories: [third_party, third_party]\n  encoding: latin1\n",
			expectFormat:    "xml",
			expectBudget:    intPointer(5000),
			expectCopy:      boolPointer(false),
			expectTokens:    boolPointer(true),
			expectModel:     "custom",
			expectDirectory: []string{"third_party"},
			expectEncoding:  "latin1",
		},
		{
			name:          "explicit_path_only",
			globalContent: "tree:\n  format: json\n",
			localContent:  "",
			explicitPath:  "custom.yaml",
			expectFormat:  "raw",
		},
		{
			name:            "global_only",
			globalContent:   "filter:\n  directories: [vendor, \" \"]\n",
			expectDirectory: []string{"vendor"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				if err := os.WriteFile(filepath.Join(configDir, utils.GlobalConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				if err := os.WriteFile(filepath.Join(workingDir, utils.ConfigFileName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				if err := os.WriteFile(filepath.Join(workingDir, testCase.explicitPath), []byte("tree:\n  format: raw\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}
			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loaded, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir, ExplicitFilePath: testCase.explicitPath})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.Tree.Format != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loaded.Tree.Format)
			}
			assertIntPointer(t, "budget", testCase.expectBudget, loaded.Bundle.MaxTotalChars)
			assertBoolPointer(t, "copy", testCase.expectCopy, loaded.Bundle.Clipboard)
			assertBoolPointer(t, "tokens", testCase.expectTokens, loaded.Bundle.Tokens.Enabled)
			if loaded.Bundle.Tokens.Model != testCase.expectModel {
				t.Fatalf("expected model %q, got %q", testCase.expectModel, loaded.Bundle.Tokens.Model)
			}
			if len(loaded.Filter.Directories) != len(testCase.expectDirectory) {
				t.Fatalf("expected directories %v, got %v", testCase.expectDirectory, loaded.Filter.Directories)
			}
			for index, directory := range testCase.expectDirectory {
				if loaded.Filter.Directories[index] != directory {
					t.Fatalf("expected directories %v, got %v", testCase.expectDirectory, loaded.Filter.Directories)
				}
			}
			if loaded.Filter.Encoding != testCase.expectEncoding {
				t.Fatalf("expected encoding %q, got %q", testCase.expectEncoding, loaded.Filter.Encoding)
			}
		})
	}
}

func TestLoadApplicationConfigurationRejectsDirectoryPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	workingDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error when configuration path is a directory")
	}
}

func TestFilterConfigurationRules(t *testing.T) {
	maxBytes := int64(10)
	configuration := FilterConfiguration{
		MaxFileBytes: &maxBytes,
		Directories:  []string{"vendor"},
		Extensions:   []string{".psd"},
	}
	rules := configuration.Rules(IgnoreFile{Directories: []string{"generated"}, Extensions: []string{"BIN"}})
	for _, name := range []string{"vendor", "generated", ".git"} {
		if _, ok := rules.IgnoredDirectoryNames[name]; !ok {
			t.Fatalf("expected %s to be ignored", name)
		}
	}
	for _, extension := range []string{"psd", "bin", "png"} {
		if _, ok := rules.BinaryExtensions[extension]; !ok {
			t.Fatalf("expected %s to be a binary extension", extension)
		}
	}
	if rules.MaxFileBytes != 10 {
		t.Fatalf("expected configured size cap, got %d", rules.MaxFileBytes)
	}
	if !configuration.IgnoreFileEnabled() {
		t.Fatalf("expected ignore file to be enabled by default")
	}
}

func assertBoolPointer(t *testing.T, label string, expected *bool, actual *bool) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected %s to be nil, got %v", label, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("expected %s %v, got %v", label, *expected, actual)
	}
}

func assertIntPointer(t *testing.T, label string, expected *int, actual *int) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected %s to be nil, got %v", label, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("expected %s %v, got %v", label, *expected, actual)
	}
}
