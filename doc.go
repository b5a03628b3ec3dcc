// Package textsnap records human-readable expected outputs in txtar archives
// and compares freshly produced text against them.
//
// A snapshot archive holds one section per test-group label, each section an
// ordered sequence of text blocks. The first time a comparison runs, the text
// is recorded and the run continues with a warning. On later runs the fresh
// text must match the stored text exactly; a mismatch fails the test but
// never overwrites the archive. Intentional changes are taken over with an
// explicit accept step, either in code or with the textsnap command.
//
// Example:
//
//	store, err := textsnap.Open("testdata/snaps/parser.snap", textsnap.Config{})
//	if err != nil {
//		t.Fatal(err)
//	}
//	res := store.Compare("lexes comments", render(tokens))
//	if res.Kind == textsnap.Mismatch {
//		t.Errorf("snapshot mismatch:\n%s", res.Diff())
//	}
//	if err := store.Flush(); err != nil {
//		t.Fatal(err)
//	}
package textsnap
