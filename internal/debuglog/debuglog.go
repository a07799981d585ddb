// Package debuglog provides the process-wide debug logger.
//
// The interactive TUI owns the terminal, so logs never go to stdout/stderr:
// they go to the file named by TASKDECK_DEBUG_LOG, or nowhere.
package debuglog

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	once   sync.Once
	logger *logrus.Logger
)

// Logger returns the shared logger. Safe for concurrent use.
func Logger() *logrus.Logger {
	once.Do(func() {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		path := strings.TrimSpace(os.Getenv("TASKDECK_DEBUG_LOG"))
		if path == "" {
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			// Logging is best-effort; a bad path must not break the app.
			return
		}
		logger.SetOutput(f)
	})
	return logger
}
