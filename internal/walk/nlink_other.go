//go:build !unix

package walk

import "os"

// No cheap entry-count hint without a stat link count; report the fallback so
// large directories stream unsorted rather than risking a full read.
func entryCountHint(info os.FileInfo, fallback int) int {
	return fallback
}
