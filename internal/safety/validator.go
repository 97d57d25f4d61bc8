package safety

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Rejection sentinels. The wording keeps the "refusing" + override-flag
// contract that downstream tooling greps for.
var (
	ErrPreservedRoot = errors.New(`refusing to delete "/"; you can override with --no-preserve-root`)
	ErrRootAlias     = errors.New(`refusing to delete (same as "/"); you can override with --no-preserve-root`)
	ErrMountRoot     = errors.New(`refusing to delete the root of a mounted filesystem; you can override with --no-preserve-all-roots`)
	ErrDotPath       = errors.New(`refusing to remove "." or ".." directory`)
)

// Validator enforces the pre-flight safety contract on root arguments.
// These are the checks coreutils applies before `rm -rf`: the "/" identity
// check, the GNU preserve-all-roots mount check, and the POSIX "."/".."
// rejection. It is stateless apart from the recorded identity of "/", so
// Validate is idempotent and side-effect free.
type Validator struct {
	rootDev    uint64
	rootIno    uint64
	haveRootID bool

	preserveMountRoots bool
}

// NewValidator captures the on-disk identity of the filesystem root when
// preserveRoot is on. Disabling either policy must be an explicit caller
// choice; there is no implicit fallback.
func NewValidator(preserveRoot, preserveMountRoots bool) (*Validator, error) {
	v := &Validator{preserveMountRoots: preserveMountRoots}
	if preserveRoot {
		info, err := os.Lstat("/")
		if err != nil {
			return nil, fmt.Errorf("stat /: %w", err)
		}
		if dev, ino, ok := fileID(info); ok {
			v.rootDev, v.rootIno = dev, ino
			v.haveRootID = true
		}
	}
	return v, nil
}

// Validate runs all checks against one root argument. It is called once per
// argument, before any deletion starts anywhere.
func (v *Validator) Validate(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	dev, ino, haveID := fileID(info)

	if v.haveRootID && haveID && dev == v.rootDev && ino == v.rootIno {
		// Distinguish a literal "/" argument from a hard link or bind
		// mount that resolves to the same identity.
		if filepath.Clean(path) == "/" {
			return fmt.Errorf("%q: %w", path, ErrPreservedRoot)
		}
		return fmt.Errorf("%q: %w", path, ErrRootAlias)
	}

	if v.preserveMountRoots && haveID {
		if err := v.checkMountRoot(path, info, dev); err != nil {
			return err
		}
	}

	if c := lastComponent(path); c == "." || c == ".." {
		return fmt.Errorf("%q: %w", path, ErrDotPath)
	}

	return nil
}

// checkMountRoot rejects paths that sit at the root of a separately mounted
// filesystem: their device id differs from their parent's.
func (v *Validator) checkMountRoot(path string, info os.FileInfo, dev uint64) error {
	var parent string
	if info.IsDir() {
		parent = filepath.Join(path, "..")
	} else {
		parent = filepath.Join(filepath.Dir(path), "..")
	}

	pinfo, err := os.Lstat(parent)
	if err != nil {
		return fmt.Errorf("%q: stat parent %q: %w", path, parent, err)
	}
	pdev, _, ok := fileID(pinfo)
	if ok && pdev != dev {
		return fmt.Errorf("%q: %w", path, ErrMountRoot)
	}
	return nil
}

// lastComponent returns the final path component of the raw argument text,
// ignoring trailing separators. filepath.Clean silently folds "." components
// away, so a bare "." argument has to be caught on the raw bytes.
func lastComponent(path string) string {
	end := len(path)
	for end > 0 && os.IsPathSeparator(path[end-1]) {
		end--
	}
	start := end
	for start > 0 && !os.IsPathSeparator(path[start-1]) {
		start--
	}
	return path[start:end]
}
