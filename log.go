package main

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog configures the global logger. Logs go to the file named by
// ASCIIFORGE_LOGFILE, or nowhere when it is unset.
func setupLog() (func() error, error) {
	if logFile := os.Getenv("ASCIIFORGE_LOGFILE"); logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
		if err != nil {
			return nil, err //nolint:wrapcheck
		}
		log.SetOutput(f)
		log.SetLevel(log.DebugLevel)
		return f.Close, nil
	}
	log.SetOutput(io.Discard)
	return func() error { return nil }, nil
}
