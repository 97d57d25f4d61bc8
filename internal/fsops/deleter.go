package fsops

// Deleter abstracts the two filesystem removal primitives the pipeline uses.
// Enables the dry-run implementation and mocking in tests to prove dry-run
// never deletes.
type Deleter interface {
	RemoveFile(path string) error
	RemoveDir(path string) error
}
