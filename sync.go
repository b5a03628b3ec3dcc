package textsnap

import "os"

// A PendingChange is one record whose fresh text, recorded in a sibling .new
// archive by a previous batch run, differs from the stored text.
type PendingChange struct {
	Label    string
	Position int
	Old      string
	New      string
}

// ReviewArchive compares the archive at path with its sibling .new archive
// and returns every changed or added record, in archive order. A missing
// .new file means there is nothing to review.
func ReviewArchive(path string) ([]PendingChange, error) {
	recs, _, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	newRecs, _, err := readArchive(path + ".new")
	if err != nil {
		return nil, err
	}
	stored := make(map[string]string, len(recs))
	for _, r := range recs {
		stored[r.name()] = r.text
	}
	var out []PendingChange
	for _, r := range newRecs {
		if old, ok := stored[r.name()]; !ok || old != r.text {
			out = append(out, PendingChange{Label: r.label, Position: r.pos, Old: old, New: r.text})
		}
	}
	return out, nil
}

// AcceptArchive folds the fresh texts of the sibling .new archive into the
// archive at path. A non-empty label restricts acceptance to that label
// (with or without variant suffix); empty accepts everything. The .new file
// is removed once no pending changes remain. Returns the number of records
// accepted.
func AcceptArchive(path, label string) (int, error) {
	recs, comment, err := readArchive(path)
	if err != nil {
		return 0, err
	}
	newPath := path + ".new"
	newRecs, _, err := readArchive(newPath)
	if err != nil {
		return 0, err
	}
	if len(newRecs) == 0 {
		return 0, nil
	}

	index := make(map[string]int, len(recs))
	for i, r := range recs {
		index[r.name()] = i
	}

	accepted := 0
	for _, nr := range newRecs {
		if label != "" && nr.label != label && baseLabel(nr.label) != label {
			continue
		}
		if i, ok := index[nr.name()]; ok {
			if recs[i].text != nr.text {
				recs[i].text = nr.text
				accepted++
			}
		} else {
			recs = append(recs, nr)
			index[nr.name()] = len(recs) - 1
			accepted++
		}
	}
	if accepted == 0 {
		return 0, nil
	}
	if err := writeArchive(path, comment, recs); err != nil {
		return 0, err
	}

	// Drop the .new file when nothing is left to review; otherwise it keeps
	// carrying the labels that were not accepted.
	remaining := false
	for _, nr := range newRecs {
		if i, ok := index[nr.name()]; !ok || recs[i].text != nr.text {
			remaining = true
			break
		}
	}
	if !remaining {
		if err := os.Remove(newPath); err != nil && !os.IsNotExist(err) {
			return accepted, &IOError{Op: "remove", Path: newPath, Err: err}
		}
	}
	return accepted, nil
}
