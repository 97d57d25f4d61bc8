package stats

import (
	"sync"
	"testing"
)

func TestTotalsAccumulate(t *testing.T) {
	totals := NewTotals()
	totals.AddFile(100)
	totals.AddFile(50)
	totals.AddDir()

	want := Stats{Bytes: 150, Files: 2, Dirs: 1}
	if got := totals.Snapshot(); got != want {
		t.Errorf("Snapshot = %+v, want %+v", got, want)
	}
	if totals.Files() != 2 {
		t.Errorf("Files = %d, want 2", totals.Files())
	}
	if totals.Done() {
		t.Error("Done before MarkDone")
	}
	totals.MarkDone()
	if !totals.Done() {
		t.Error("Done not set after MarkDone")
	}
}

func TestTotalsConcurrentWriters(t *testing.T) {
	totals := NewTotals()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				totals.AddFile(1)
				totals.AddDir()
			}
		}()
	}
	wg.Wait()

	want := Stats{Bytes: 8000, Files: 8000, Dirs: 8000}
	if got := totals.Snapshot(); got != want {
		t.Errorf("Snapshot = %+v, want %+v", got, want)
	}
}
