package textsnap

import "fmt"

// IOError reports a failure to read or write a snapshot archive. It is fatal
// to the run: without a trustworthy store no comparison result can be
// believed.
type IOError struct {
	Op   string // "read", "write" or "remove"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("snapshot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
