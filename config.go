package textsnap

import (
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Mode selects between a real check against the archive and a preview-only
// render.
type Mode int

const (
	// Batch performs real comparisons against the snapshot archive.
	Batch Mode = iota
	// Interactive skips all archive I/O and renders previews only.
	Interactive
)

// Config configures a Store.
type Config struct {
	// Mode gates whether comparisons touch the archive. Defaults to Batch.
	Mode Mode

	// Variant extends every label to "label@variant", keeping separate
	// snapshot sets per OS or dependency version. Empty means no variant.
	Variant string

	// AllowErrors makes CompareError snapshot the error text instead of
	// reporting an unexpected error.
	AllowErrors bool

	// Transform neutralizes volatile substrings before storing and
	// comparing. Defaults to the identity.
	Transform Transform

	// Logger receives the end-of-run warnings about new and mismatched
	// snapshots.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Transform == nil {
		c.Transform = Identity
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// DetectMode reports Interactive when stdout is a terminal. It is a
// convenience for callers wiring up a Config; the comparator itself never
// consults ambient state.
func DetectMode() Mode {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return Interactive
	}
	return Batch
}

// FileConfig is the on-disk form of the configuration, read from a
// .textsnap.yaml file at the root of a test-source tree.
type FileConfig struct {
	// SnapsDir is where snapshot archives live, relative to the config
	// file. Defaults to testdata/snaps.
	SnapsDir string `yaml:"snaps_dir"`

	Variant     string `yaml:"variant"`
	AllowErrors bool   `yaml:"allow_errors"`

	// Redact lists pattern/replacement pairs applied in order before
	// storing and comparing.
	Redact []RedactRule `yaml:"redact"`
}

// RedactRule is one pattern/replacement pair in a FileConfig.
type RedactRule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
}

func (fc *FileConfig) defaults() {
	if fc.SnapsDir == "" {
		fc.SnapsDir = "testdata/snaps"
	}
}

// LoadConfig reads a .textsnap.yaml file and builds the Config it describes.
func LoadConfig(path string) (Config, FileConfig, error) {
	var fc FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fc, &IOError{Op: "read", Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fc, fmt.Errorf("parsing %s: %w", path, err)
	}
	fc.defaults()
	cfg := Config{Variant: fc.Variant, AllowErrors: fc.AllowErrors}
	if len(fc.Redact) > 0 {
		ts := make([]Transform, 0, len(fc.Redact))
		for _, r := range fc.Redact {
			t, err := Replace(r.Pattern, r.Replace)
			if err != nil {
				return Config{}, fc, fmt.Errorf("%s: %w", path, err)
			}
			ts = append(ts, t)
		}
		cfg.Transform = Chain(ts...)
	}
	return cfg, fc, nil
}
