// textsnap maintains snapshot archives between test runs.
//
// A batch run that hits mismatches leaves a sibling <archive>.new file next
// to each affected archive. textsnap reviews those pending changes, folds
// them into the archives once a human has approved them, and prunes records
// whose tests no longer exist.
//
// Usage:
//
//	textsnap review [-snaps dir] [label]
//	textsnap accept [-snaps dir] [label]
//	textsnap prune -file archive.snap -keep label1,label2,...
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/term"

	"github.com/tmc/textsnap"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  textsnap review [-snaps dir] [label]   show pending snapshot changes
  textsnap accept [-snaps dir] [label]   fold pending changes into the archives
  textsnap prune -file archive.snap -keep label1,label2,...
`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "review":
		err = runReview(os.Args[2:])
	case "accept":
		err = runAccept(os.Args[2:])
	case "prune":
		err = runPrune(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "textsnap: unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "textsnap:", err)
		os.Exit(1)
	}
}

// snapsDir resolves the snapshot directory: an explicit flag wins, then a
// .textsnap.yaml in the working directory, then the default layout.
func snapsDir(flagVal string) string {
	if flagVal != "" {
		return flagVal
	}
	if _, fc, err := textsnap.LoadConfig(".textsnap.yaml"); err == nil {
		return fc.SnapsDir
	} else if !errors.Is(err, os.ErrNotExist) {
		slog.Debug("ignoring .textsnap.yaml", "err", err)
	}
	return "testdata/snaps"
}

func findArchives(dir string) ([]string, error) {
	archives, err := filepath.Glob(filepath.Join(dir, "*.snap"))
	if err != nil {
		return nil, err
	}
	if len(archives) == 0 {
		return nil, fmt.Errorf("no snapshot archives under %s", dir)
	}
	return archives, nil
}

func runReview(args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	dir := fs.String("snaps", "", "snapshot directory (default from .textsnap.yaml, else testdata/snaps)")
	fs.Parse(args)
	label := fs.Arg(0)

	archives, err := findArchives(snapsDir(*dir))
	if err != nil {
		return err
	}

	total := 0
	for _, path := range archives {
		changes, err := textsnap.ReviewArchive(path)
		if err != nil {
			return err
		}
		printed := false
		for _, c := range changes {
			if label != "" && c.Label != label && !strings.HasPrefix(c.Label, label+"@") {
				continue
			}
			if !printed {
				fmt.Printf("%s\n%s\n", path, rule())
				printed = true
			}
			total++
			fmt.Printf("✗ %s [%d] (-stored +fresh):\n%s\n", c.Label, c.Position, cmp.Diff(c.Old, c.New))
		}
	}
	if total == 0 {
		fmt.Println("✓ no pending snapshot changes")
		return nil
	}
	fmt.Printf("\n%d pending change(s); run 'textsnap accept' to take them over\n", total)
	return nil
}

func runAccept(args []string) error {
	fs := flag.NewFlagSet("accept", flag.ExitOnError)
	dir := fs.String("snaps", "", "snapshot directory (default from .textsnap.yaml, else testdata/snaps)")
	fs.Parse(args)
	label := fs.Arg(0)

	archives, err := findArchives(snapsDir(*dir))
	if err != nil {
		return err
	}

	total := 0
	for _, path := range archives {
		n, err := textsnap.AcceptArchive(path, label)
		if err != nil {
			return err
		}
		if n > 0 {
			fmt.Printf("✓ %s: accepted %d record(s)\n", path, n)
			total += n
		}
	}
	if total == 0 {
		fmt.Println("nothing to accept")
	}
	return nil
}

func runPrune(args []string) error {
	fs := flag.NewFlagSet("prune", flag.ExitOnError)
	file := fs.String("file", "", "snapshot archive to prune")
	keep := fs.String("keep", "", "comma-separated labels still in use")
	fs.Parse(args)
	if *file == "" || *keep == "" {
		return fmt.Errorf("prune requires -file and -keep")
	}

	store, err := textsnap.Open(*file, textsnap.Config{})
	if err != nil {
		return err
	}
	removed, err := store.Prune(strings.Split(*keep, ","))
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s: pruned %d stale record(s)\n", *file, removed)
	return nil
}

// rule draws a separator sized to the terminal, for readable diff blocks.
func rule() string {
	width := 72
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	return strings.Repeat("─", width)
}
