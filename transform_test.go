package textsnap

import "testing"

func TestReplaceIsIdempotent(t *testing.T) {
	tests := []struct {
		pattern string
		replace string
		inputs  []string
	}{
		{`\d{4}-\d{2}-\d{2}`, "<date>", []string{
			"built on 2026-08-26 at noon",
			"no dates here",
			"<date> already redacted",
			"2026-08-26 2026-08-27",
		}},
		// One pass over "aab" yields "ab", which matches again: the
		// replacement boundary creates a fresh match that a single
		// ReplaceAllString would leave behind.
		{`ab`, "b", []string{"aab", "aaab", "abab"}},
		{`xx`, "x", []string{"xxxx", "xxx", "x"}},
	}
	for _, tt := range tests {
		redact, err := Replace(tt.pattern, tt.replace)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range tt.inputs {
			once := redact(in)
			twice := redact(once)
			if once != twice {
				t.Errorf("Replace(%q, %q) not idempotent on %q: %q != %q",
					tt.pattern, tt.replace, in, once, twice)
			}
		}
	}
}

func TestReplaceRejectsSelfMatchingReplacement(t *testing.T) {
	if _, err := Replace(`secret-\w+`, "secret-redacted"); err == nil {
		t.Error("expected error for replacement matching its own pattern")
	}
}

func TestReplaceRejectsBadPattern(t *testing.T) {
	if _, err := Replace(`(unclosed`, "x"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestChainAppliesInOrder(t *testing.T) {
	a, err := Replace(`aaa`, "bbb")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Replace(`bbb`, "ccc")
	if err != nil {
		t.Fatal(err)
	}
	chained := Chain(a, b)
	if got := chained("aaa"); got != "ccc" {
		t.Errorf("Chain(a, b)(aaa) = %q, want ccc", got)
	}
}

func TestChainIsIdempotent(t *testing.T) {
	// The second transform produces text the first one matches, so one pass
	// over the sequence is not enough.
	bc, err := Replace(`b`, "c")
	if err != nil {
		t.Fatal(err)
	}
	ab, err := Replace(`a`, "b")
	if err != nil {
		t.Fatal(err)
	}
	chained := Chain(bc, ab)
	once := chained("a")
	twice := chained(once)
	if once != twice {
		t.Errorf("Chain not idempotent: chained(a) = %q, chained again = %q", once, twice)
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity("unchanged\n"); got != "unchanged\n" {
		t.Errorf("Identity = %q", got)
	}
}
