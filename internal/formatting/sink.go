package formatting

import (
	"fmt"
	"io"
	"os"
)

// Option customises a formatter.
type Option func(*sink)

// WithStreams redirects stdout and stderr, mainly for tests.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(s *sink) {
		if stdout != nil {
			s.stdout = stdout
		}
		if stderr != nil {
			s.stderr = stderr
		}
	}
}

// sink holds the output half of the formatter contract shared by all formats.
type sink struct {
	config Config
	stdout io.Writer
	stderr io.Writer
}

func newSink(cfg Config, opts ...Option) sink {
	s := sink{config: cfg, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Config returns the configuration the formatter was built with.
func (s *sink) Config() Config {
	return s.config
}

// FormatError prints message to stderr. Quiet mode drops it entirely.
func (s *sink) FormatError(message string) {
	if s.config.Quiet {
		return
	}
	fmt.Fprintln(s.stderr, message)
}

// Write prints rendered to stdout, or replaces the configured file's
// content with it in a single write.
func (s *sink) Write(rendered string) error {
	if s.config.File == "" {
		_, err := fmt.Fprintln(s.stdout, rendered)
		return err
	}
	if err := os.WriteFile(s.config.File, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", s.config.File, err)
	}
	return nil
}
