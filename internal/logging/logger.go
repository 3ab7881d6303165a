// Package logging configures the application logger. The TUI owns the
// terminal, so logs go to a file (or nowhere) instead of stderr.
package logging

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrsinham/intakeforge/internal/config"
)

// New builds a zerolog logger from the configuration. With no LOG_FILE set
// it returns a disabled logger. The returned closer flushes and releases the
// log file; callers should defer it.
func New(cfg *config.Config) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}

	logger := zerolog.New(f).Level(level).With().
		Timestamp().
		Str("service", "intakeforge").
		Logger()

	return logger, func() { _ = f.Close() }, nil
}
