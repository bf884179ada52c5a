package session

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/temirov/snippetbundle/internal/bundle"
	"github.com/temirov/snippetbundle/internal/filter"
	"github.com/temirov/snippetbundle/internal/fsys"
	"github.com/temirov/snippetbundle/internal/selection"
)

type recordingCopier struct {
	copied  []string
	failure error
}

func (copier *recordingCopier) Copy(text string) error {
	if copier.failure != nil {
		return copier.failure
	}
	copier.copied = append(copier.copied, text)
	return nil
}

type stubCounter struct{}

func (stubCounter) Name() string { return "stub" }

func (stubCounter) CountString(input string) (int, error) { return len(strings.Fields(input)), nil }

func newTestShell(t *testing.T, script string, copier *recordingCopier) (*Shell, *selection.Store, *bytes.Buffer) {
	t.Helper()
	fileSystem := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/a.txt":       "alpha",
		"/proj/b.txt":       "beta",
		"/proj/src/main.go": "package main",
	}
	for filePath, content := range files {
		if err := afero.WriteFile(fileSystem, filePath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", filePath, err)
		}
	}
	provider := fsys.NewProvider(fileSystem, fsys.Options{})
	ignoreFilter := filter.NewDefault()
	store := selection.NewStore(ignoreFilter, nil)
	transcript := &bytes.Buffer{}
	options := Options{
		Store: store,
		Resolve: func(input string) (fsys.FileHandle, error) {
			return provider.Resolve(path.Join("/proj", input))
		},
		Bundler: bundle.New(bundle.Options{Classifier: ignoreFilter}),
		Input:   strings.NewReader(script),
		Output:  transcript,
	}
	if copier != nil {
		options.Copier = copier
	}
	return NewShell(options), store, transcript
}

func TestShellTranscript(t *testing.T) {
	script := strings.Join([]string{
		"add a.txt missing.txt",
		"add a.txt",
		"",
		"list",
		"remove a.txt",
		"remove b.txt",
		"bogus",
		"bundle",
		"quit",
		"add b.txt",
	}, "\n")
	shell, store, transcript := newTestShell(t, script, nil)
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	expected := "Warning: skipping missing.txt: path '/proj/missing.txt' does not exist\n" +
		"Selection: 1 root, 1 file\n" +
		"No new paths added\n" +
		"Summary: 1 file, 5b\n" +
		"\n" +
		"[File] /proj/a.txt (5b)\n" +
		"Selection: (nothing selected)\n" +
		"Not selected: b.txt\n" +
		"Unknown command \"bogus\"; type help for a list of commands\n" +
		"Nothing selected\n"
	if transcript.String() != expected {
		t.Fatalf("unexpected transcript:\n%s", transcript.String())
	}
	if len(store.Snapshot()) != 0 {
		t.Fatalf("expected commands after quit to be ignored")
	}
}

func TestShellBundlePrintsDocumentAndReport(t *testing.T) {
	shell, _, transcript := newTestShell(t, "add b.txt a.txt\nbundle\n", nil)
	shell.options.Counter = stubCounter{}
	shell.options.Model = "stub-model"
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	document := "### a.txt\n```\nalpha\n```\n\n### b.txt\n```\nbeta\n```"
	expected := "Selection: 2 roots, 2 files\n" +
		document + "\n" +
		"Bundle: 2 files copied, 47 chars, 10 tokens (model: stub-model)\n"
	if transcript.String() != expected {
		t.Fatalf("unexpected transcript:\n%s", transcript.String())
	}
}

func TestShellCopy(t *testing.T) {
	testCases := []struct {
		name           string
		copier         *recordingCopier
		expectedSuffix string
		expectedCopies int
	}{
		{name: "copies to clipboard", copier: &recordingCopier{}, expectedSuffix: "Bundle: 1 file copied, 23 chars to clipboard\n", expectedCopies: 1},
		{name: "copy failure reported", copier: &recordingCopier{failure: errors.New("no display")}, expectedSuffix: "Error: no display\n"},
		{name: "no clipboard configured", copier: nil, expectedSuffix: "Clipboard is not configured\n"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			shell, _, transcript := newTestShell(t, "add a.txt\ncopy\nexit\n", testCase.copier)
			if err := shell.Run(context.Background()); err != nil {
				t.Fatalf("Run error: %v", err)
			}
			if !strings.HasSuffix(transcript.String(), testCase.expectedSuffix) {
				t.Fatalf("unexpected transcript:\n%s", transcript.String())
			}
			if testCase.copier != nil && len(testCase.copier.copied) != testCase.expectedCopies {
				t.Fatalf("expected %d copies, got %d", testCase.expectedCopies, len(testCase.copier.copied))
			}
			if testCase.expectedCopies > 0 && testCase.copier.copied[0] != "### a.txt\n```\nalpha\n```" {
				t.Fatalf("unexpected clipboard content %q", testCase.copier.copied[0])
			}
		})
	}
}

func TestShellRemovesNestedNode(t *testing.T) {
	shell, store, _ := newTestShell(t, "add .\nrm src/main.go\nclear\n", nil)
	notifications := 0
	store.AddListener(func() { notifications++ })
	if err := shell.Execute("add ."); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if store.FileCount() != 3 {
		t.Fatalf("expected 3 files, got %d", store.FileCount())
	}
	if err := shell.Execute("rm src/main.go"); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if store.FileCount() != 2 {
		t.Fatalf("expected nested file to be removed, got %d files", store.FileCount())
	}
	if err := shell.Execute("clear"); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(store.Snapshot()) != 0 || notifications != 3 {
		t.Fatalf("expected cleared store after 3 notifications, got %d roots and %d notifications", len(store.Snapshot()), notifications)
	}
}

func TestShellQuitAndCancellation(t *testing.T) {
	shell, _, _ := newTestShell(t, "", nil)
	if err := shell.Execute("QUIT"); !errors.Is(err, errQuit) {
		t.Fatalf("expected quit sentinel, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cancelledShell, _, _ := newTestShell(t, "add a.txt\n", nil)
	if err := cancelledShell.Run(ctx); err != nil {
		t.Fatalf("expected cancellation to end the session quietly, got %v", err)
	}
}

func TestShellCancellationWithBlockedInput(t *testing.T) {
	shell, _, _ := newTestShell(t, "", nil)
	inputReader, inputWriter := io.Pipe()
	t.Cleanup(func() { _ = inputWriter.Close() })
	shell.options.Input = inputReader

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	finished := make(chan error, 1)
	go func() { finished <- shell.Run(ctx) }()
	select {
	case err := <-finished:
		if err != nil {
			t.Fatalf("expected quiet cancellation, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop after cancellation")
	}
}

func TestShellPromptAndHelp(t *testing.T) {
	shell, _, transcript := newTestShell(t, "help\n", nil)
	shell.options.Prompt = true
	if err := shell.Run(context.Background()); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if !strings.HasPrefix(transcript.String(), promptText+"Commands:\n") {
		t.Fatalf("expected prompt before help, got %q", transcript.String())
	}
	if !strings.HasSuffix(transcript.String(), promptText) {
		t.Fatalf("expected trailing prompt, got %q", transcript.String())
	}
}
