//go:build !unix

package safety

import "os"

// Without a device+inode identity the root and mount-root policies cannot
// apply; the dot check still does.
func fileID(info os.FileInfo) (dev, ino uint64, ok bool) {
	return 0, 0, false
}
