package fsops

import "os"

// OSDeleter implements Deleter using real os package calls.
// RemoveDir is only ever handed a directory the walker has finished emptying,
// so plain os.Remove is correct and anything still inside is a hard error.
type OSDeleter struct{}

func (OSDeleter) RemoveFile(path string) error {
	return os.Remove(path)
}

func (OSDeleter) RemoveDir(path string) error {
	return os.Remove(path)
}
