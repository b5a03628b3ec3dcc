package textsnap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNameSplitsOnLastSlash(t *testing.T) {
	tests := []struct {
		name  string
		label string
		pos   int
		ok    bool
	}{
		{"basic/1", "basic", 1, true},
		{"nested/label/12", "nested/label", 12, true},
		{"noposition", "", 0, false},
		{"basic/0", "", 0, false},
		{"basic/x", "", 0, false},
	}
	for _, tt := range tests {
		label, pos, err := parseName(tt.name)
		if tt.ok != (err == nil) {
			t.Errorf("parseName(%q) err = %v, want ok=%v", tt.name, err, tt.ok)
			continue
		}
		if tt.ok && (label != tt.label || pos != tt.pos) {
			t.Errorf("parseName(%q) = (%q, %d), want (%q, %d)", tt.name, label, pos, tt.label, tt.pos)
		}
	}
}

func TestReadArchiveMissingFileIsEmptyStore(t *testing.T) {
	recs, comment, err := readArchive(filepath.Join(t.TempDir(), "absent.snap"))
	if err != nil {
		t.Fatalf("missing archive: %v", err)
	}
	if recs != nil || comment != nil {
		t.Errorf("missing archive yielded records %v, comment %q", recs, comment)
	}
}

func TestReadArchiveRejectsDuplicateEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.snap")
	data := "-- basic/1 --\naaa\n-- basic/1 --\nbbb\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := readArchive(path); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("err = %v, want duplicate entry error", err)
	}
}

func TestArchiveRoundTripPreservesCommentAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit.snap")
	comment := []byte("snapshots for the widget renderer\n")
	recs := []record{
		{label: "zulu", pos: 1, text: "last label first\n"},
		{label: "alpha", pos: 1, text: "ordering is insertion order\n"},
		{label: "alpha", pos: 2, text: "not sorted\n"},
	}
	if err := writeArchive(path, comment, recs); err != nil {
		t.Fatal(err)
	}
	got, gotComment, err := readArchive(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(gotComment) != string(comment) {
		t.Errorf("comment = %q, want %q", gotComment, comment)
	}
	if diff := cmp.Diff(recs, got, cmp.AllowUnexported(record{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEnsureNL(t *testing.T) {
	if got := ensureNL("aaa"); got != "aaa\n" {
		t.Errorf("ensureNL(aaa) = %q", got)
	}
	if got := ensureNL("aaa\n"); got != "aaa\n" {
		t.Errorf("ensureNL(aaa\\n) = %q", got)
	}
	if got := ensureNL(""); got != "" {
		t.Errorf("ensureNL(empty) = %q", got)
	}
}
