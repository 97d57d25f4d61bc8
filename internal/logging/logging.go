package logging

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// New creates the run logger. With an empty path the logger discards its
// output: the terminal belongs to the progress renderer and the prompt, and
// the log is strictly opt-in.
func New(filePath string) *log.Logger {
	if filePath == "" {
		return log.New(io.Discard, "", 0)
	}

	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("failed to ensure log directory %s: %v", dir, err)
		}
	}

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", filePath, err)
		return log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds)
	}

	return log.New(f, "", log.LstdFlags|log.Lmicroseconds)
}
