package walk

// Event is the unit passed from the walker to the deletion pipeline. Each
// discovered item yields exactly one event, owned by the consumer once sent.
type Event interface {
	event()
}

// FileEvent schedules removal of a file or symlink. Size is the item's own
// metadata length; symlink targets are never consulted.
type FileEvent struct {
	Path    string
	Size    uint64
	Symlink bool
}

// DirEvent schedules removal of a directory whose contents have all been
// emitted ahead of it.
type DirEvent struct {
	Path string
}

// ErrorEvent reports a per-item failure without stopping the walk.
type ErrorEvent struct {
	Path string
	Err  error
}

func (FileEvent) event()  {}
func (DirEvent) event()   {}
func (ErrorEvent) event() {}
