package clipboard

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestServiceCopy(t *testing.T) {
	var written string
	writeFailure := errors.New("xclip missing")
	testCases := []struct {
		name          string
		usable        bool
		writeError    error
		expectedError error
		expectedText  string
	}{
		{name: "copies text", usable: true, expectedText: "bundle"},
		{name: "unsupported platform", usable: false, expectedError: ErrUnavailable},
		{name: "write failure wrapped", usable: true, writeError: writeFailure, expectedError: writeFailure},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			written = ""
			service := &Service{
				logger: zap.NewNop(),
				write: func(text string) error {
					if testCase.writeError != nil {
						return testCase.writeError
					}
					written = text
					return nil
				},
				usable: func() bool { return testCase.usable },
			}
			err := service.Copy("bundle")
			if testCase.expectedError != nil {
				if !errors.Is(err, testCase.expectedError) {
					t.Fatalf("expected %v, got %v", testCase.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Copy error: %v", err)
			}
			if written != testCase.expectedText {
				t.Fatalf("expected %q to be written, got %q", testCase.expectedText, written)
			}
		})
	}
}
