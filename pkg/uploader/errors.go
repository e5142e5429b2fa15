package uploader

import "fmt"

// LocalIOError means a source file could not be read. Terminal for that
// file only; the run continues.
type LocalIOError struct {
	Path string
	Err  error
}

func (e *LocalIOError) Error() string { return fmt.Sprintf("read %s: %v", e.Path, e.Err) }
func (e *LocalIOError) Unwrap() error { return e.Err }
