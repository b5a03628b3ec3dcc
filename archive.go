package textsnap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"
)

// A record is one stored snapshot block: the accepted text for a label at a
// position.
type record struct {
	label string
	pos   int
	text  string
}

func (r record) name() string {
	return recordName(r.label, r.pos)
}

func recordName(label string, pos int) string {
	return fmt.Sprintf("%s/%d", label, pos)
}

// parseName splits a txtar entry name into label and position. The position
// is the segment after the last slash, so labels may themselves contain
// slashes.
func parseName(name string) (string, int, error) {
	i := strings.LastIndex(name, "/")
	if i < 0 {
		return "", 0, fmt.Errorf("snapshot entry %q: missing position", name)
	}
	pos, err := strconv.Atoi(name[i+1:])
	if err != nil || pos < 1 {
		return "", 0, fmt.Errorf("snapshot entry %q: bad position", name)
	}
	return name[:i], pos, nil
}

// readArchive loads the records of a snapshot archive in file order, along
// with its leading comment. A missing file is an empty store, not an error.
func readArchive(path string) ([]record, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, &IOError{Op: "read", Path: path, Err: err}
	}
	arc := txtar.Parse(data)
	recs := make([]record, 0, len(arc.Files))
	seen := make(map[string]bool, len(arc.Files))
	for _, f := range arc.Files {
		label, pos, err := parseName(f.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		if seen[f.Name] {
			return nil, nil, fmt.Errorf("%s: duplicate snapshot entry %q", path, f.Name)
		}
		seen[f.Name] = true
		recs = append(recs, record{label: label, pos: pos, text: string(f.Data)})
	}
	return recs, arc.Comment, nil
}

// writeArchive persists records in order, one txtar entry per record.
func writeArchive(path string, comment []byte, recs []record) error {
	arc := &txtar.Archive{
		Comment: comment,
		Files:   make([]txtar.File, 0, len(recs)),
	}
	for _, r := range recs {
		arc.Files = append(arc.Files, txtar.File{Name: r.name(), Data: []byte(r.text)})
	}
	if err := os.WriteFile(path, txtar.Format(arc), 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// ensureNL adds the trailing newline every txtar block carries. Snapshot
// texts are normalized with it before both comparison and storage, so a
// missing final newline never causes a mismatch.
func ensureNL(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
