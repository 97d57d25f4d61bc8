//go:build unix

package walk

import (
	"os"
	"syscall"
)

// entryCountHint reads the directory's link count, a cheap upper bound on its
// subdirectory count and a good proxy for "is this directory huge".
func entryCountHint(info os.FileInfo, fallback int) int {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(st.Nlink)
	}
	return fallback
}
