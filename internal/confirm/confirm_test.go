package confirm

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

type fakeInfo struct {
	name string
	size int64
	mode os.FileMode
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return f.size }
func (f fakeInfo) Mode() os.FileMode  { return f.mode }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.mode.IsDir() }
func (f fakeInfo) Sys() any           { return nil }

var (
	fileInfo = fakeInfo{name: "f", size: 10, mode: 0o644}
	dirInfo  = fakeInfo{name: "d", mode: os.ModeDir | 0o755}
)

// script feeds canned answers and records every question asked.
type script struct {
	answers   []string
	questions []string
}

func (s *script) prompt(q string) (string, error) {
	s.questions = append(s.questions, q)
	if len(s.answers) == 0 {
		return "", errors.New("out of answers")
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func scripted(answers ...string) (*Engine, *script) {
	s := &script{answers: answers}
	return NewEngine(true, s.prompt), s
}

func mustAsk(t *testing.T, e *Engine, path string, info os.FileInfo, traverse bool) Directive {
	t.Helper()
	d, err := e.Ask(path, info, traverse)
	if err != nil {
		t.Fatalf("Ask(%q): %v", path, err)
	}
	return d
}

func TestDisabledEngineNeverPrompts(t *testing.T) {
	e := NewEngine(false, nil) // a prompt call would panic
	if got := mustAsk(t, e, "/x/f", fileInfo, true); got != Delete {
		t.Errorf("file = %v, want Delete", got)
	}
	if got := mustAsk(t, e, "/x", dirInfo, false); got != Delete {
		t.Errorf("dir = %v, want Delete", got)
	}
}

func TestAnswerDirectives(t *testing.T) {
	tests := []struct {
		answer string
		want   Directive
	}{
		{"y", Delete},
		{"Y", Delete},
		{" y ", Delete},
		{"n", Skip},
		{"N", Skip},
		{"", Skip},
		{"a", Delete},
		{"q", Skip},
		{"d", Delete},
		{"s", Skip},
	}
	for _, tt := range tests {
		t.Run("answer="+tt.answer, func(t *testing.T) {
			e, s := scripted(tt.answer)
			if got := mustAsk(t, e, "/x/f", fileInfo, true); got != tt.want {
				t.Errorf("Ask = %v, want %v", got, tt.want)
			}
			if len(s.questions) != 1 {
				t.Errorf("asked %d questions, want 1", len(s.questions))
			}
		})
	}
}

func TestDirectoryTraversalDoesNotPrompt(t *testing.T) {
	e, s := scripted()
	if got := mustAsk(t, e, "/x", dirInfo, true); got != Delete {
		t.Errorf("Ask = %v, want Delete", got)
	}
	if len(s.questions) != 0 {
		t.Errorf("traversal question consumed a prompt: %q", s.questions)
	}
}

func TestDeleteAllSticks(t *testing.T) {
	e, s := scripted("a")
	mustAsk(t, e, "/x/f1", fileInfo, true)
	for _, path := range []string{"/x/f2", "/y/f3"} {
		if got := mustAsk(t, e, path, fileInfo, true); got != Delete {
			t.Errorf("Ask(%q) = %v, want Delete", path, got)
		}
	}
	if got := mustAsk(t, e, "/x", dirInfo, false); got != Delete {
		t.Errorf("dir removal = %v, want Delete", got)
	}
	if len(s.questions) != 1 {
		t.Errorf("asked %d questions, want 1", len(s.questions))
	}
}

func TestQuitSticks(t *testing.T) {
	e, s := scripted("q")
	mustAsk(t, e, "/x/f1", fileInfo, true)
	for _, path := range []string{"/x/f2", "/y/f3"} {
		if got := mustAsk(t, e, path, fileInfo, true); got != Skip {
			t.Errorf("Ask(%q) = %v, want Skip", path, got)
		}
	}
	// Quit also suppresses descending into anything further.
	if got := mustAsk(t, e, "/y", dirInfo, true); got != Skip {
		t.Errorf("dir traversal after quit = %v, want Skip", got)
	}
	if len(s.questions) != 1 {
		t.Errorf("asked %d questions, want 1", len(s.questions))
	}
}

func TestDeleteWithinDirScope(t *testing.T) {
	e, s := scripted("d", "n")
	mustAsk(t, e, "/a/b/c/bb", fileInfo, true)

	// The rest of /a/b/c is covered, the directory itself included.
	for _, path := range []string{"/a/b/c/cc", "/a/b/c/d/ee"} {
		if got := mustAsk(t, e, path, fileInfo, true); got != Delete {
			t.Errorf("Ask(%q) = %v, want Delete without prompt", path, got)
		}
	}
	if got := mustAsk(t, e, "/a/b/c", dirInfo, false); got != Delete {
		t.Errorf("in-scope dir removal = %v, want Delete", got)
	}

	// A sibling of /a/b/c is out of scope and prompts again.
	if got := mustAsk(t, e, "/a/b/cc", fileInfo, true); got != Skip {
		t.Errorf("out-of-scope Ask = %v, want Skip from answer n", got)
	}
	if len(s.questions) != 2 {
		t.Errorf("asked %d questions, want 2", len(s.questions))
	}
}

func TestSkipWithinDirScope(t *testing.T) {
	e, s := scripted("s", "y")
	mustAsk(t, e, "/a/b/c/bb", fileInfo, true)

	if got := mustAsk(t, e, "/a/b/c/cc", fileInfo, true); got != Skip {
		t.Errorf("in-scope file = %v, want Skip", got)
	}
	// Skips prune whole subtrees at the traversal question.
	if got := mustAsk(t, e, "/a/b/c/d", dirInfo, true); got != Skip {
		t.Errorf("in-scope dir traversal = %v, want Skip", got)
	}

	if got := mustAsk(t, e, "/a/b/cc", fileInfo, true); got != Delete {
		t.Errorf("out-of-scope Ask = %v, want Delete from answer y", got)
	}
	if len(s.questions) != 2 {
		t.Errorf("asked %d questions, want 2", len(s.questions))
	}
}

func TestLaterOverrideReplacesEarlier(t *testing.T) {
	e, _ := scripted("s", "d")
	mustAsk(t, e, "/a/b/c/bb", fileInfo, true) // s: skip within /a/b/c
	mustAsk(t, e, "/a/b/cc", fileInfo, true)   // d: delete within /a/b

	// The old skip scope no longer applies; /a/b/c now falls under the
	// delete scope through /a/b.
	if got := mustAsk(t, e, "/a/b/c/cc", fileInfo, true); got != Delete {
		t.Errorf("Ask = %v, want Delete under the replacing scope", got)
	}
}

func TestResetStateClearsDirScopesOnly(t *testing.T) {
	t.Run("dir scope cleared", func(t *testing.T) {
		e, s := scripted("s", "y")
		mustAsk(t, e, "/a/b", fileInfo, true)
		e.ResetState()
		if got := mustAsk(t, e, "/a/c", fileInfo, true); got != Delete {
			t.Errorf("Ask after reset = %v, want a fresh prompt answering Delete", got)
		}
		if len(s.questions) != 2 {
			t.Errorf("asked %d questions, want 2", len(s.questions))
		}
	})
	t.Run("delete-all survives", func(t *testing.T) {
		e, s := scripted("a")
		mustAsk(t, e, "/a/b", fileInfo, true)
		e.ResetState()
		if got := mustAsk(t, e, "/other/f", fileInfo, true); got != Delete {
			t.Errorf("Ask after reset = %v, want Delete without prompt", got)
		}
		if len(s.questions) != 1 {
			t.Errorf("asked %d questions, want 1", len(s.questions))
		}
	})
	t.Run("quit survives", func(t *testing.T) {
		e, s := scripted("q")
		mustAsk(t, e, "/a/b", fileInfo, true)
		e.ResetState()
		if got := mustAsk(t, e, "/other/f", fileInfo, true); got != Skip {
			t.Errorf("Ask after reset = %v, want Skip without prompt", got)
		}
		if len(s.questions) != 1 {
			t.Errorf("asked %d questions, want 1", len(s.questions))
		}
	})
}

func TestHelpShowsChoicesAndReprompts(t *testing.T) {
	e, s := scripted("?", "y")
	if got := mustAsk(t, e, "/x/f", fileInfo, true); got != Delete {
		t.Errorf("Ask = %v, want Delete", got)
	}
	if len(s.questions) != 2 {
		t.Fatalf("asked %d questions, want 2", len(s.questions))
	}
	if strings.Contains(s.questions[0], "Yes, delete it") {
		t.Error("first question already contained the help text")
	}
	if !strings.Contains(s.questions[1], "Yes, delete it") {
		t.Errorf("reprompt lacks help text: %q", s.questions[1])
	}
}

func TestBadInputReprompts(t *testing.T) {
	e, s := scripted("x", "whatever", "n")
	if got := mustAsk(t, e, "/x/f", fileInfo, true); got != Skip {
		t.Errorf("Ask = %v, want Skip", got)
	}
	if len(s.questions) != 3 {
		t.Fatalf("asked %d questions, want 3", len(s.questions))
	}
	for _, q := range s.questions[1:] {
		if !strings.Contains(q, "Bad input") {
			t.Errorf("reprompt lacks bad-input notice: %q", q)
		}
	}
}

func TestPromptFailureIsInputError(t *testing.T) {
	e, _ := scripted() // immediately exhausted
	_, err := e.Ask("/x/f", fileInfo, true)
	if !errors.Is(err, ErrInput) {
		t.Fatalf("Ask error = %v, want ErrInput", err)
	}
}

func TestRenderQuestion(t *testing.T) {
	tests := []struct {
		name     string
		info     fakeInfo
		traverse bool
		want     string
	}{
		{"dir traversal", dirInfo, true, `descend into directory "/x"`},
		{"dir removal", dirInfo, false, `remove directory "/x"`},
		{"empty file", fakeInfo{mode: 0o644}, true, `remove empty file "/x"`},
		{"sized file", fakeInfo{size: 2048, mode: 0o644}, true, `remove file "/x" [2.0 KiB]`},
		{"symlink", fakeInfo{mode: os.ModeSymlink}, true, `remove symbolic link "/x"`},
		{"fifo", fakeInfo{mode: os.ModeNamedPipe}, true, `remove fifo "/x"`},
		{"socket", fakeInfo{mode: os.ModeSocket}, true, `remove socket "/x"`},
		{"char device", fakeInfo{mode: os.ModeDevice | os.ModeCharDevice}, true, `remove character device "/x"`},
		{"block device", fakeInfo{mode: os.ModeDevice}, true, `remove block device "/x"`},
		{"irregular", fakeInfo{mode: os.ModeIrregular}, true, `remove unknown file "/x"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderQuestion("/x", tt.info, tt.traverse); got != tt.want {
				t.Errorf("renderQuestion = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestQuestionCarriesChoiceSuffix(t *testing.T) {
	e, s := scripted("n")
	mustAsk(t, e, "/x/f", fakeInfo{size: 10, mode: 0o644}, true)
	want := `remove file "/x/f" [10 B]? (y/N/a/q/d/s/?) `
	if s.questions[0] != want {
		t.Errorf("question = %q, want %q", s.questions[0], want)
	}
}

func TestWithinDirScope(t *testing.T) {
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/a/b/c/bb", "/a/b/c/cc", true},
		{"/a/b/c/bb", "/a/b/c", true},
		{"/a/b/c/bb", "/a/b/c/d/e", true},
		{"/a/b/c/bb", "/a/b/cc", false},
		{"/a/b/c/bb", "/a/b", false},
		{"/a/b/c/bb", "/other", false},
		{"/a", "/a/x", true},
		{"/", "/anything", false}, // "/" has no parent to scope to
	}
	for _, tt := range tests {
		if got := withinDirScope(tt.dir, tt.path); got != tt.want {
			t.Errorf("withinDirScope(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}
