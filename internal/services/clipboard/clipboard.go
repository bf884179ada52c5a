// Package clipboard delivers produced bundles to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the platform offers no clipboard utility.
var ErrUnavailable = errors.New("system clipboard is not available")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct {
	logger *zap.Logger
	write  func(string) error
	usable func() bool
}

// NewService constructs a clipboard service backed by the system clipboard.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger: logger,
		write:  clipboard.WriteAll,
		usable: func() bool { return !clipboard.Unsupported },
	}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if !service.usable() {
		return ErrUnavailable
	}
	if err := service.write(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	service.logger.Debug("copied bundle to clipboard", zap.Int("bytes", len(text)))
	return nil
}

var _ Copier = (*Service)(nil)
