package fsops

import "time"

// Removal latencies simulated by dry-run so progress telemetry behaves the
// same as a real run. A file unlink costs more than an rmdir of an
// already-emptied directory.
const (
	dryRunFileDelay = 1000 * time.Microsecond
	dryRunDirDelay  = 80 * time.Microsecond
)

// DryRunDeleter implements Deleter without touching the filesystem.
type DryRunDeleter struct{}

func (DryRunDeleter) RemoveFile(path string) error {
	time.Sleep(dryRunFileDelay)
	return nil
}

func (DryRunDeleter) RemoveDir(path string) error {
	time.Sleep(dryRunDirDelay)
	return nil
}
