package textsnap

import (
	"fmt"
	"regexp"
)

// Transform rewrites snapshot text to neutralize volatile substrings such as
// temp paths, timestamps or secrets. A Transform must be idempotent: applying
// it twice yields the same text as applying it once, so repeated runs stay
// stable. It is applied identically before storing a new record and before
// comparing a fresh result.
type Transform func(string) string

// Identity returns its input unchanged.
func Identity(s string) string { return s }

// maxTransformPasses bounds fixpoint iteration. A transform that has not
// stabilized by then returns the last value.
const maxTransformPasses = 100

// fixpoint reapplies step until the text stops changing. A single
// replacement pass can create a fresh match at a boundary it just rewrote;
// iterating to a fixpoint makes the resulting transform idempotent
// regardless.
func fixpoint(step func(string) string) Transform {
	return func(s string) string {
		for i := 0; i < maxTransformPasses; i++ {
			next := step(s)
			if next == s {
				return s
			}
			s = next
		}
		return s
	}
}

// Replace builds a Transform that replaces every match of pattern with
// replacement, repeating until no match remains. The replacement must not
// itself match the pattern; that rewrite would never terminate.
func Replace(pattern, replacement string) (Transform, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad transform pattern %q: %w", pattern, err)
	}
	if re.MatchString(replacement) {
		return nil, fmt.Errorf("transform replacement %q matches its own pattern %q", replacement, pattern)
	}
	return fixpoint(func(s string) string {
		return re.ReplaceAllString(s, replacement)
	}), nil
}

// Chain composes transforms, applied left to right until the text is stable
// under the whole sequence, so a chain of idempotent transforms stays
// idempotent even when a later transform feeds new matches to an earlier
// one.
func Chain(ts ...Transform) Transform {
	if len(ts) == 1 {
		return ts[0]
	}
	return fixpoint(func(s string) string {
		for _, t := range ts {
			s = t(s)
		}
		return s
	})
}
