package walk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"rm-rfp/internal/confirm"
	"rm-rfp/internal/stats"
)

// SortThreshold is the directory-size cutoff below which entries are
// materialized and sorted before recursing. Sorting gives the operator a
// predictable, human-legible order; past the cutoff entries are streamed
// unsorted so a huge directory costs neither the memory nor the up-front
// latency of reading it whole.
const SortThreshold = 5000

const streamBatch = 1024

// ErrPipelineClosed is reported when the consumer stopped pulling events
// while the walker still had data to deliver.
var ErrPipelineClosed = errors.New("delete pipeline closed")

// PathError is a walk failure pinned to the path that caused it.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Err) }
func (e *PathError) Unwrap() error { return e.Err }

// Finder enumerates a root path depth-first, post-order, consulting the
// confirmation engine per item and emitting one event per deletable item.
type Finder struct {
	ctx           context.Context
	events        chan<- Event
	confirm       *confirm.Engine
	totals        *stats.Totals
	sortThreshold int
}

// NewFinder wires a walker to its event queue, confirmation engine, and the
// shared discovered-totals aggregate. sortThreshold <= 0 uses SortThreshold.
func NewFinder(ctx context.Context, events chan<- Event, engine *confirm.Engine, totals *stats.Totals, sortThreshold int) *Finder {
	if sortThreshold <= 0 {
		sortThreshold = SortThreshold
	}
	return &Finder{
		ctx:           ctx,
		events:        events,
		confirm:       engine,
		totals:        totals,
		sortThreshold: sortThreshold,
	}
}

// Find walks one root argument. The returned error is fatal for the whole
// run: failures beneath the root are absorbed as ErrorEvents instead.
func (f *Finder) Find(root string) error {
	_, err := f.find(root)
	return err
}

// find returns whether anything in the subtree was skipped. An error return
// means this subtree could not be processed at all; the caller converts it to
// an ErrorEvent, except at the root where it is fatal.
func (f *Finder) find(path string) (skipped bool, err error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, &PathError{Path: path, Err: fmt.Errorf("stat: %w", err)}
	}

	directive, err := f.confirm.Ask(path, info, true)
	if err != nil {
		return false, &PathError{Path: path, Err: err}
	}
	if directive == confirm.Skip {
		return true, nil
	}

	if !info.IsDir() {
		// Symlinks and special files are leaves of their own size.
		size := uint64(info.Size())
		ev := FileEvent{Path: path, Size: size, Symlink: info.Mode()&os.ModeSymlink != 0}
		if err := f.send(ev); err != nil {
			return false, err
		}
		f.totals.AddFile(size)
		return false, nil
	}

	skippedAny := false
	walkChild := func(child string) error {
		childSkipped, childErr := f.find(child)
		if childErr != nil {
			if errors.Is(childErr, confirm.ErrInput) {
				// No answer means no mandate to keep deleting.
				return childErr
			}
			// One bad entry must not abort its siblings.
			pe := asPathError(child, childErr)
			if sendErr := f.send(ErrorEvent{Path: pe.Path, Err: pe.Err}); sendErr != nil {
				return sendErr
			}
			return nil
		}
		if childSkipped {
			skippedAny = true
		}
		return nil
	}
	if err := f.eachEntry(path, info, walkChild); err != nil {
		return false, err
	}

	if skippedAny {
		// Something below survived, so the directory is not removable;
		// don't ask about it and tell the parent.
		return true, nil
	}

	directive, err = f.confirm.Ask(path, info, false)
	if err != nil {
		return false, &PathError{Path: path, Err: err}
	}
	if directive == confirm.Skip {
		return true, nil
	}

	f.totals.AddDir()
	if err := f.send(DirEvent{Path: path}); err != nil {
		return false, err
	}
	return false, nil
}

// eachEntry enumerates a directory's immediate entries. The entry count hint
// from the directory's link count decides between the sorted and the
// streaming path.
func (f *Finder) eachEntry(dir string, info os.FileInfo, fn func(child string) error) error {
	if entryCountHint(info, f.sortThreshold) < f.sortThreshold {
		entries, err := os.ReadDir(dir) // sorted by name
		if err != nil {
			return &PathError{Path: dir, Err: fmt.Errorf("read dir: %w", err)}
		}
		for _, ent := range entries {
			if err := fn(filepath.Join(dir, ent.Name())); err != nil {
				return err
			}
		}
		return nil
	}

	d, err := os.Open(dir)
	if err != nil {
		return &PathError{Path: dir, Err: fmt.Errorf("read dir: %w", err)}
	}
	defer d.Close()
	for {
		entries, err := d.ReadDir(streamBatch)
		for _, ent := range entries {
			if ferr := fn(filepath.Join(dir, ent.Name())); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &PathError{Path: dir, Err: fmt.Errorf("read dir: %w", err)}
		}
	}
}

// send enqueues an event, giving up if the consumer side of the pipeline has
// gone away.
func (f *Finder) send(ev Event) error {
	select {
	case f.events <- ev:
		return nil
	case <-f.ctx.Done():
		return &PathError{Path: eventPath(ev), Err: ErrPipelineClosed}
	}
}

func eventPath(ev Event) string {
	switch e := ev.(type) {
	case FileEvent:
		return e.Path
	case DirEvent:
		return e.Path
	case ErrorEvent:
		return e.Path
	}
	return ""
}

func asPathError(path string, err error) *PathError {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe
	}
	return &PathError{Path: path, Err: err}
}
