package progress

import (
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"rm-rfp/internal/stats"
)

const refreshInterval = 100 * time.Millisecond

// Renderer turns the pipeline's counters and per-item events into a single
// rewriting terminal status line, with error lines printed above it. It
// implements pipeline.Reporter.
type Renderer struct {
	mu         sync.Mutex
	w          io.Writer
	start      time.Time
	lastRender time.Time
	status     string
	lastItem   string
	suspended  bool
	pending    []string // error lines held back while a prompt is open
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, start: time.Now()}
}

func (r *Renderer) ItemRemoved(prefix, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastItem = prefix + " " + path
}

func (r *Renderer) Progress(done stats.Stats, total stats.Stats, walkComplete bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if walkComplete {
		r.status = fmt.Sprintf("Total: freed: %s/%s, directories removed: %d/%d, files removed: %d/%d",
			humanize.IBytes(done.Bytes), humanize.IBytes(total.Bytes),
			done.Dirs, total.Dirs,
			done.Files, total.Files)
	} else {
		r.status = fmt.Sprintf("Total: freed: %s, directories removed: %d, files removed: %d",
			humanize.IBytes(done.Bytes), done.Dirs, done.Files)
	}
	r.status += ", elapsed: " + formatElapsed(time.Since(r.start))

	if r.suspended || time.Since(r.lastRender) < refreshInterval {
		return
	}
	r.render()
}

// Error prints a per-item error line as it occurs, above the status line.
func (r *Renderer) Error(path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	line := strconv.Quote(path) + ": " + err.Error()
	if r.suspended {
		r.pending = append(r.pending, line)
		return
	}
	fmt.Fprintf(r.w, "\r\x1b[2K%s\n", line)
	r.render()
}

// Suspend clears the status line, runs fn (typically an interactive prompt),
// then resumes rendering. The consumer keeps updating counters while fn
// blocks; its output is held back so the prompt line stays intact.
func (r *Renderer) Suspend(fn func()) {
	r.mu.Lock()
	r.suspended = true
	fmt.Fprint(r.w, "\r\x1b[2K")
	r.mu.Unlock()

	fn()

	r.mu.Lock()
	r.suspended = false
	for _, line := range r.pending {
		fmt.Fprintf(r.w, "%s\n", line)
	}
	r.pending = nil
	r.render()
	r.mu.Unlock()
}

// Finish forces a final render and moves off the status line.
func (r *Renderer) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.render()
	fmt.Fprintln(r.w)
}

// render rewrites the status line in place. Callers hold r.mu.
func (r *Renderer) render() {
	line := r.status
	if r.lastItem != "" {
		line = r.lastItem + "  |  " + line
	}
	fmt.Fprintf(r.w, "\r\x1b[2K%s", line)
	r.lastRender = time.Now()
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
