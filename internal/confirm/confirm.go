package confirm

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Directive is the binary outcome of asking about one item.
type Directive int

const (
	Delete Directive = iota
	Skip
)

// ErrInput marks a failure to read the operator's answer, closed stdin
// included. Unlike a bad removal this poisons every later question too, so
// callers treat it as fatal for the whole run.
var ErrInput = errors.New("reading confirmation input")

// Prompter obtains one raw line of operator input for a rendered question.
// The surrounding UI supplies this so it can suspend its own rendering while
// the prompt is open.
type Prompter func(question string) (string, error)

// Cached operator decisions that pre-answer future questions.
type stateKind int

const (
	stateUnset stateKind = iota
	stateDeleteAll // "a": delete everything from now on
	stateQuit      // "q": skip everything from now on
	stateDeleteDir // "d": delete the rest of stateDir's directory
	stateSkipDir   // "s": skip the rest of stateDir's directory
)

// Engine turns the raw prompt capability into Delete/Skip decisions,
// remembering scope-wide overrides between questions.
type Engine struct {
	enabled  bool
	prompt   Prompter
	state    stateKind
	stateDir string
}

// NewEngine creates an engine. When enabled is false every Ask answers
// Delete without consulting the prompter.
func NewEngine(enabled bool, prompt Prompter) *Engine {
	return &Engine{enabled: enabled, prompt: prompt}
}

// ResetState is called between root arguments. It clears the directory-scoped
// overrides ("d"/"s") but keeps the global ones ("a"/"q"): arguments are
// separate trees, and "everything in this dir" must not bleed into an
// unrelated argument, while "delete everything" and "quit" must.
func (e *Engine) ResetState() {
	switch e.state {
	case stateDeleteAll, stateQuit:
	default:
		e.state = stateUnset
		e.stateDir = ""
	}
}

// Ask decides the fate of one item. traverse distinguishes the question asked
// before descending into a directory from the one asked before removing it.
func (e *Engine) Ask(path string, info os.FileInfo, traverse bool) (Directive, error) {
	if !e.enabled {
		return Delete, nil
	}

	switch e.state {
	case stateDeleteAll:
		return Delete, nil
	case stateDeleteDir:
		if withinDirScope(e.stateDir, path) {
			return Delete, nil
		}
	case stateSkipDir:
		if withinDirScope(e.stateDir, path) {
			return Skip, nil
		}
	case stateQuit:
		// Quitting suppresses deletion but lets the walk finish so the
		// counters settle cleanly.
		return Skip, nil
	}

	// A directory's traversal question exists so cached skips can prune the
	// whole subtree; descending is not itself confirmed, the items inside
	// are. Files take their one prompt here, directories only at removal.
	if traverse && info.IsDir() {
		return Delete, nil
	}

	return e.promptLoop(path, info, traverse)
}

const helpText = `y - Yes, delete it
n - No, don't delete it
a - Delete this and everything else (without any further prompts)
q - Quit without deleting this nor anything else
d - Delete this and the rest of its directory without further prompts
s - Don't delete this or anything else in its directory, but continue asking about other items
? - Show help`

func (e *Engine) promptLoop(path string, info os.FileInfo, traverse bool) (Directive, error) {
	base := renderQuestion(path, info, traverse) + "? (y/N/a/q/d/s/?) "
	question := base
	for {
		raw, err := e.prompt(question)
		if err != nil {
			return Skip, fmt.Errorf("%w: %v", ErrInput, err)
		}
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "y":
			return Delete, nil
		case "", "n": // empty input defaults to no
			return Skip, nil
		case "a":
			e.state = stateDeleteAll
			return Delete, nil
		case "q":
			e.state = stateQuit
			return Skip, nil
		case "d":
			e.state, e.stateDir = stateDeleteDir, path
			return Delete, nil
		case "s":
			e.state, e.stateDir = stateSkipDir, path
			return Skip, nil
		case "?":
			question = helpText + "\n" + base
		default:
			question = "Bad input. Enter \"?\" for help\n" + base
		}
	}
}

// renderQuestion words the prompt by item kind and by traversal versus
// deletion question.
func renderQuestion(path string, info os.FileInfo, traverse bool) string {
	if info.IsDir() {
		if traverse {
			return "descend into directory " + strconv.Quote(path)
		}
		return "remove directory " + strconv.Quote(path)
	}

	mode := info.Mode()
	switch {
	case mode.IsRegular() && info.Size() == 0:
		return "remove empty file " + strconv.Quote(path)
	case mode.IsRegular():
		return "remove file " + strconv.Quote(path) + " [" + humanize.IBytes(uint64(info.Size())) + "]"
	case mode&os.ModeSymlink != 0:
		return "remove symbolic link " + strconv.Quote(path)
	case mode&os.ModeNamedPipe != 0:
		return "remove fifo " + strconv.Quote(path)
	case mode&os.ModeSocket != 0:
		return "remove socket " + strconv.Quote(path)
	case mode&os.ModeCharDevice != 0:
		return "remove character device " + strconv.Quote(path)
	case mode&os.ModeDevice != 0:
		return "remove block device " + strconv.Quote(path)
	}
	return "remove unknown file " + strconv.Quote(path)
}

// withinDirScope reports whether path falls under the "rest of this
// directory" meaning of an override taken on dir: dir's parent is the
// boundary, and everything nested beneath it (dir itself and its siblings
// included) is in scope.
func withinDirScope(dir, path string) bool {
	boundary := filepath.Dir(filepath.Clean(dir))
	if boundary == filepath.Clean(dir) {
		return false // dir has no parent
	}
	for cur := filepath.Clean(path); ; {
		if cur == boundary {
			return true
		}
		next := filepath.Dir(cur)
		if next == cur {
			return false
		}
		cur = next
	}
}
