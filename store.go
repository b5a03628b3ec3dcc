package textsnap

import (
	"os"
	"sort"
	"strings"
)

// Store owns the snapshot archive for one test-source unit. During a run it
// accumulates newly recorded snapshots in memory and writes them once, at
// Flush; a run aborted before Flush persists nothing.
//
// A Store is not safe for concurrent use.
type Store struct {
	path    string
	cfg     Config
	comment []byte

	records []record       // archive contents, file order
	index   map[string]int // record name -> index into records

	seen    map[string]int    // effective label -> comparisons so far this run
	pending []record          // New outcomes queued for Flush
	fresh   map[string]string // record name -> fresh text for mismatched records

	matched int
	added   int // pending records already flushed
	errored int
}

// Open loads the snapshot archive at path. A missing file yields an empty
// store; any other read failure is an *IOError. In Interactive mode the
// archive is never read: the store only renders previews.
func Open(path string, cfg Config) (*Store, error) {
	cfg.defaults()
	s := &Store{
		path:  path,
		cfg:   cfg,
		index: make(map[string]int),
		seen:  make(map[string]int),
		fresh: make(map[string]string),
	}
	if cfg.Mode == Interactive {
		return s, nil
	}
	recs, comment, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	s.records = recs
	s.comment = comment
	for i, r := range recs {
		s.index[r.name()] = i
	}
	return s, nil
}

// Path returns the location of the snapshot archive.
func (s *Store) Path() string { return s.path }

// effective applies the configured variant to a label.
func (s *Store) effective(label string) string {
	if s.cfg.Variant == "" {
		return label
	}
	return label + "@" + s.cfg.Variant
}

// baseLabel strips a variant suffix.
func baseLabel(label string) string {
	if i := strings.LastIndex(label, "@"); i >= 0 {
		return label[:i]
	}
	return label
}

// Compare checks fresh text against the stored record for label at the next
// position. Positions are assigned by call order, so an identity stays
// stable across runs as long as labels and call order are unchanged.
//
// In Interactive mode Compare performs no real check: it returns a Preview
// carrying the text that would be stored, and touches no files.
func (s *Store) Compare(label, text string) Result {
	eff := s.effective(label)
	text = ensureNL(s.cfg.Transform(text))
	s.seen[eff]++
	pos := s.seen[eff]

	if s.cfg.Mode == Interactive {
		return Result{Kind: Preview, Label: eff, Position: pos, New: text}
	}

	name := recordName(eff, pos)
	if i, ok := s.index[name]; ok {
		old := s.records[i].text
		if old == text {
			s.matched++
			return Result{Kind: Match, Label: eff, Position: pos, Old: old, New: text}
		}
		s.fresh[name] = text
		return Result{Kind: Mismatch, Label: eff, Position: pos, Old: old, New: text}
	}

	s.pending = append(s.pending, record{label: eff, pos: pos, text: text})
	return Result{Kind: New, Label: eff, Position: pos, New: text}
}

// CompareError handles an error produced by the operation under test. With
// AllowErrors set, the error's rendering is snapshotted like any other
// output. Otherwise the error was not supposed to occur at all and is
// reported as its own failure kind, distinct from a mismatch.
func (s *Store) CompareError(label string, err error) Result {
	if s.cfg.AllowErrors {
		return s.Compare(label, "Error: "+err.Error())
	}
	s.errored++
	return Result{Kind: UnexpectedError, Label: s.effective(label), Err: err}
}

// Flush writes queued new records to the archive and, when mismatches were
// observed, a sibling "<path>.new" archive carrying the fresh texts for the
// between-runs review/accept workflow. A clean run removes a stale .new
// file. Flush is called once, at end-of-run; failures are *IOError and
// fatal.
func (s *Store) Flush() error {
	if s.cfg.Mode == Interactive {
		return nil
	}
	if len(s.pending) > 0 {
		names := make([]string, 0, len(s.pending))
		for _, p := range s.pending {
			s.insert(p)
			names = append(names, p.name())
		}
		if err := writeArchive(s.path, s.comment, s.records); err != nil {
			return err
		}
		s.added += len(s.pending)
		s.pending = nil
		s.cfg.Logger.Warn("new snapshots recorded, review and commit them",
			"file", s.path, "count", len(names), "entries", names)
	}
	if err := s.syncNew(); err != nil {
		return err
	}
	if n := len(s.fresh); n > 0 {
		s.cfg.Logger.Warn("snapshot mismatches",
			"file", s.path, "count", n, "review", s.path+".new")
	}
	return nil
}

// insert places a new record after the last existing record of its label, so
// a label's section stays contiguous; a label's first record goes at the
// end.
func (s *Store) insert(r record) {
	at := len(s.records)
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].label == r.label {
			at = i + 1
			break
		}
	}
	s.records = append(s.records, record{})
	copy(s.records[at+1:], s.records[at:])
	s.records[at] = r
	s.reindex()
}

func (s *Store) reindex() {
	clear(s.index)
	for i, r := range s.records {
		s.index[r.name()] = i
	}
}

// syncNew writes or removes the sibling .new archive so it exactly reflects
// this run's mismatches.
func (s *Store) syncNew() error {
	path := s.path + ".new"
	if len(s.fresh) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &IOError{Op: "remove", Path: path, Err: err}
		}
		return nil
	}
	recs := make([]record, len(s.records))
	copy(recs, s.records)
	for i, r := range recs {
		if text, ok := s.fresh[r.name()]; ok {
			recs[i].text = text
		}
	}
	return writeArchive(path, s.comment, recs)
}

// Accept replaces every currently-mismatched record under label with its
// freshly computed text and rewrites the archive immediately. Irreversible
// except through version control.
func (s *Store) Accept(label string) error {
	eff := s.effective(label)
	changed := false
	for i, r := range s.records {
		if r.label != eff {
			continue
		}
		if text, ok := s.fresh[r.name()]; ok {
			s.records[i].text = text
			delete(s.fresh, r.name())
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := writeArchive(s.path, s.comment, s.records); err != nil {
		return err
	}
	return s.syncNew()
}

// A MismatchRecord pairs a mismatched position with its stored and fresh
// texts, for a human to accept or reject individually.
type MismatchRecord struct {
	Position int
	Old      string
	New      string
}

// Review returns the mismatches observed under label this run, in position
// order. It never mutates state.
func (s *Store) Review(label string) []MismatchRecord {
	eff := s.effective(label)
	var out []MismatchRecord
	for _, r := range s.records {
		if r.label != eff {
			continue
		}
		if text, ok := s.fresh[r.name()]; ok {
			out = append(out, MismatchRecord{Position: r.pos, Old: r.text, New: text})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// Prune drops every record whose label is absent from activeLabels and
// rewrites the archive, keeping the file synchronized with the test source.
// Records of active labels are left byte-identical. A label's variants count
// as active when their base label is. Returns the number of records removed.
func (s *Store) Prune(activeLabels []string) (int, error) {
	active := make(map[string]bool, len(activeLabels))
	for _, l := range activeLabels {
		active[l] = true
	}
	kept := make([]record, 0, len(s.records))
	for _, r := range s.records {
		if active[r.label] || active[baseLabel(r.label)] {
			kept = append(kept, r)
		}
	}
	removed := len(s.records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	// Write first: on failure the in-memory store must keep matching the
	// archive on disk.
	if err := writeArchive(s.path, s.comment, kept); err != nil {
		return 0, err
	}
	s.records = kept
	s.reindex()
	return removed, nil
}

// Summary reports this run's comparison counts for end-of-run reporting.
type Summary struct {
	Matched    int
	Mismatched int
	Added      int // new snapshots, queued or flushed
	Errored    int // unexpected errors
}

func (s *Store) Summary() Summary {
	return Summary{
		Matched:    s.matched,
		Mismatched: len(s.fresh),
		Added:      s.added + len(s.pending),
		Errored:    s.errored,
	}
}
