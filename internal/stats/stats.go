package stats

import "sync/atomic"

// Stats is a plain aggregate of deletion accounting. The consumer owns one
// instance (its "done" totals) and mutates it without synchronization.
type Stats struct {
	Bytes uint64
	Files uint64
	Dirs  uint64
}

// Totals is the discovered-so-far aggregate shared between the walker and the
// reporting layer. The walker increments it while enumerating; once the walk
// finishes it sets the done flag and the values are frozen.
type Totals struct {
	bytes atomic.Uint64
	files atomic.Uint64
	dirs  atomic.Uint64
	done  atomic.Bool
}

// NewTotals creates a zeroed aggregate owned by the run.
func NewTotals() *Totals {
	return &Totals{}
}

func (t *Totals) AddFile(size uint64) {
	t.files.Add(1)
	t.bytes.Add(size)
}

func (t *Totals) AddDir() {
	t.dirs.Add(1)
}

// MarkDone records that enumeration finished. Set exactly once, by the walker.
func (t *Totals) MarkDone() {
	t.done.Store(true)
}

func (t *Totals) Done() bool {
	return t.done.Load()
}

func (t *Totals) Files() uint64 {
	return t.files.Load()
}

// Snapshot returns a point-in-time copy of the discovered totals.
func (t *Totals) Snapshot() Stats {
	return Stats{
		Bytes: t.bytes.Load(),
		Files: t.files.Load(),
		Dirs:  t.dirs.Load(),
	}
}
