package smoke

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/eventwise/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initializes the logger on stdout, teeing into logFile when
// one is given. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	level := "info"
	if verbose {
		level = "debug"
	}
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}
	if err := logger.Init(logger.WithOutput(out), logger.WithLevel(level)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return closer, nil
}

// ShowHelp prints usage information for the smoke tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Eventwise Smoke Tool
====================

Runs one recommend, refine and summarize cycle against a running server
and verifies every response.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -prompt string
        Refinement prompt (default "Show me more technical events")
  -timeout duration
        HTTP request timeout (default 30s)
  -log string
        Also write log output to this file
  -verbose
        Log every recommendation
  -help
        Show this help

The process exits non-zero when any check fails.
`)
}
