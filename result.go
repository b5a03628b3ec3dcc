package textsnap

import (
	"github.com/google/go-cmp/cmp"
)

// Outcome classifies the result of a single snapshot comparison.
type Outcome int

const (
	// Match means the fresh text is identical to the stored record.
	Match Outcome = iota
	// Mismatch means a record exists but its text differs from the fresh
	// text. The record on disk is left untouched.
	Mismatch
	// New means no record existed for this identity; the fresh text has been
	// queued and will be written at Flush.
	New
	// Preview means the comparator ran in interactive mode and only rendered
	// what the snapshot text would be. No real check was performed.
	Preview
	// UnexpectedError means the operation under test returned an error while
	// the store was configured to disallow errors.
	UnexpectedError
)

func (o Outcome) String() string {
	switch o {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case New:
		return "new"
	case Preview:
		return "preview"
	case UnexpectedError:
		return "unexpected error"
	}
	return "unknown"
}

// Result is the outcome of one comparison.
type Result struct {
	Kind     Outcome
	Label    string // effective label, including any variant suffix
	Position int    // 1-based call order under Label
	Old      string // stored text, set for Match and Mismatch
	New      string // fresh text after transform and newline normalization
	Err      error  // cause, set for UnexpectedError
}

// Diff renders the stored text against the fresh text for presentation.
// Empty unless the result is a Mismatch.
func (r Result) Diff() string {
	if r.Kind != Mismatch {
		return ""
	}
	return cmp.Diff(r.Old, r.New)
}
