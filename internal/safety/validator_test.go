package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateRejectsFilesystemRoot(t *testing.T) {
	v, err := NewValidator(true, false)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	for _, path := range []string{"/", "//", "/.."} {
		err := v.Validate(path)
		if !errors.Is(err, ErrPreservedRoot) {
			t.Errorf("Validate(%q) = %v, want ErrPreservedRoot", path, err)
			continue
		}
		msg := err.Error()
		if !strings.Contains(msg, "refusing") {
			t.Errorf("Validate(%q) message %q lacks \"refusing\"", path, msg)
		}
		if !strings.Contains(msg, "--no-preserve-root") {
			t.Errorf("Validate(%q) message %q does not name the override flag", path, msg)
		}
	}
}

func TestValidateRootAllowedWhenDisabled(t *testing.T) {
	v, err := NewValidator(false, false)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if err := v.Validate("/"); err != nil {
		t.Errorf("Validate(\"/\") with preservation off = %v, want nil", err)
	}
}

func TestValidateRejectsDotPaths(t *testing.T) {
	v, err := NewValidator(false, false)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	tmp := t.TempDir()
	paths := []string{
		".",
		"..",
		"./",
		"../",
		// Join would fold the dot away, so build the raw text by hand.
		tmp + "/.",
		tmp + "/..",
		tmp + "/../",
	}
	for _, path := range paths {
		if err := v.Validate(path); !errors.Is(err, ErrDotPath) {
			t.Errorf("Validate(%q) = %v, want ErrDotPath", path, err)
		}
	}
}

func TestValidateAcceptsOrdinaryPaths(t *testing.T) {
	v, err := NewValidator(true, true)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "victim.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{dir, dir + "/", file} {
		if err := v.Validate(path); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", path, err)
		}
		// Validation must be repeatable without side effects.
		if err := v.Validate(path); err != nil {
			t.Errorf("second Validate(%q) = %v, want nil", path, err)
		}
	}
}

func TestValidateMissingPath(t *testing.T) {
	v, err := NewValidator(true, true)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	err = v.Validate(filepath.Join(t.TempDir(), "no-such-entry"))
	if err == nil {
		t.Fatal("Validate on a missing path succeeded")
	}
	if errors.Is(err, ErrPreservedRoot) || errors.Is(err, ErrMountRoot) || errors.Is(err, ErrDotPath) {
		t.Errorf("missing path reported as a policy rejection: %v", err)
	}
}

func TestValidateRejectsMountRoot(t *testing.T) {
	mount := findMountPoint(t)
	if mount == "" {
		t.Skip("no mount point distinct from its parent found")
	}

	v, err := NewValidator(false, true)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	err = v.Validate(mount)
	if !errors.Is(err, ErrMountRoot) {
		t.Fatalf("Validate(%q) = %v, want ErrMountRoot", mount, err)
	}
	if !strings.Contains(err.Error(), "--no-preserve-all-roots") {
		t.Errorf("message %q does not name the override flag", err.Error())
	}

	relaxed, err := NewValidator(false, false)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if err := relaxed.Validate(mount); err != nil {
		t.Errorf("Validate(%q) with mount preservation off = %v, want nil", mount, err)
	}
}

// findMountPoint probes common mount locations for one whose device differs
// from its parent's.
func findMountPoint(t *testing.T) string {
	t.Helper()
	for _, path := range []string{"/proc", "/sys", "/dev", "/dev/shm", "/run", "/tmp", "/boot"} {
		info, err := os.Lstat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		dev, _, ok := fileID(info)
		if !ok {
			continue
		}
		pinfo, err := os.Lstat(filepath.Join(path, ".."))
		if err != nil {
			continue
		}
		pdev, _, ok := fileID(pinfo)
		if ok && pdev != dev {
			return path
		}
	}
	return ""
}

func TestLastComponent(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b", "b"},
		{"a/b/", "b"},
		{"a//", "a"},
		{"a", "a"},
		{".", "."},
		{"./", "."},
		{"..", ".."},
		{"../", ".."},
		{"x/..", ".."},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := lastComponent(tt.path); got != tt.want {
			t.Errorf("lastComponent(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
