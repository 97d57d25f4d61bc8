package pipeline

import (
	"rm-rfp/internal/fsops"
	"rm-rfp/internal/stats"
	"rm-rfp/internal/walk"
)

// Consumer is the deletion half of the pipeline. It pulls events in strict
// FIFO order until the queue is closed and drained, never reordering and
// never parallelizing removals: a directory's event only ever arrives after
// all of its children's, and that ordering is the correctness guarantee.
type Consumer struct {
	Deleter  fsops.Deleter
	Totals   *stats.Totals
	Reporter Reporter
	History  Recorder
	Metrics  Metrics
	DryRun   bool

	done stats.Stats
}

// Run drains the queue and returns the final done totals. A removal failing
// is per-item recoverable: it goes to the error stream and the run continues,
// so one permission-denied entry can't abort a multi-million-file deletion.
func (c *Consumer) Run(events <-chan walk.Event) stats.Stats {
	for ev := range events {
		switch e := ev.(type) {
		case walk.FileEvent:
			objectType := objectTypeFile
			if e.Symlink {
				objectType = objectTypeSymlink
			}
			if err := c.Deleter.RemoveFile(e.Path); err != nil {
				c.fail(e.Path, objectType, int64(e.Size), err)
				break
			}
			c.done.Files++
			c.done.Bytes += e.Size
			c.Reporter.ItemRemoved("rm", e.Path)
			c.recorded(e.Path, objectType, int64(e.Size))
			if c.Metrics != nil {
				c.Metrics.FilesRemovedTotal().Inc()
				c.Metrics.BytesFreedTotal().Add(float64(e.Size))
			}
		case walk.DirEvent:
			if err := c.Deleter.RemoveDir(e.Path); err != nil {
				c.fail(e.Path, objectTypeDir, 0, err)
				break
			}
			c.done.Dirs++
			c.Reporter.ItemRemoved("rmdir", e.Path)
			c.recorded(e.Path, objectTypeDir, 0)
			if c.Metrics != nil {
				c.Metrics.DirsRemovedTotal().Inc()
			}
		case walk.ErrorEvent:
			c.fail(e.Path, "", 0, e.Err)
		}

		c.Reporter.Progress(c.done, c.Totals.Snapshot(), c.Totals.Done())
	}
	return c.done
}

const (
	objectTypeFile    = "file"
	objectTypeSymlink = "symlink"
	objectTypeDir     = "directory"

	actionDelete = "DELETE"
	actionDryRun = "DRY_RUN"
	actionError  = "ERROR"
)

func (c *Consumer) action() string {
	if c.DryRun {
		return actionDryRun
	}
	return actionDelete
}

func (c *Consumer) recorded(path, objectType string, size int64) {
	if c.History == nil {
		return
	}
	if err := c.History.RecordDeletion(c.action(), path, objectType, size, ""); err != nil {
		c.Reporter.Error(path, err)
	}
}

func (c *Consumer) fail(path, objectType string, size int64, err error) {
	c.Reporter.Error(path, err)
	if c.Metrics != nil {
		c.Metrics.ErrorsTotal().Inc()
	}
	if c.History != nil {
		// History write errors are already the error path; drop them.
		_ = c.History.RecordDeletion(actionError, path, objectType, size, err.Error())
	}
}
