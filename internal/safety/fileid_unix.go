//go:build unix

package safety

import (
	"os"
	"syscall"
)

// fileID extracts the device and inode identity of a file.
func fileID(info os.FileInfo) (dev, ino uint64, ok bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}
