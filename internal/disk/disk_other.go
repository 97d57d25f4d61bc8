//go:build !linux

package disk

import "errors"

var errUnsupported = errors.New("disk usage not supported on this platform")

func GetDiskUsage(path string) (usedPercent float64, freeBytes int64, totalBytes int64, err error) {
	return 0, 0, 0, errUnsupported
}

func FilesystemID(path string) (uint64, error) {
	return 0, errUnsupported
}
