// Package progress keeps player progress in small YAML documents: a profile
// with personal bests per level and a shared table of level records.
//
// A missing or unreadable document opens as an empty store. Every change is
// written back atomically.
package progress

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultPlayerName is used until the player picks a name.
const DefaultPlayerName = "Player"

// MaxNameLength is the longest player name, in characters.
const MaxNameLength = 12

// ErrEmptyName is returned for blank player names.
var ErrEmptyName = errors.New("progress: player name is empty")

// Policy decides when a profile replaces a level's stats.
type Policy string

const (
	// PolicyBest replaces only on a strictly better result.
	PolicyBest Policy = "best"
	// PolicyLatest replaces on every completion.
	PolicyLatest Policy = "latest"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyBest, PolicyLatest:
		return p, nil
	}
	return "", fmt.Errorf("progress: unknown policy %q", s)
}

// Result is one completion of a level.
type Result struct {
	Steps   int
	Elapsed time.Duration
}

// Better reports whether r beats other: fewer steps, or equal steps and
// less time.
func (r Result) Better(other Result) bool {
	return r.Steps < other.Steps ||
		(r.Steps == other.Steps && r.Elapsed < other.Elapsed)
}

// NormalizeName trims a player name and cuts it to MaxNameLength characters.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:MaxNameLength]))
	}
	return name, nil
}

// loadYAML decodes the document at path into v.
// A missing file leaves v untouched and is not an error.
func loadYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("progress: cannot read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("progress: cannot parse %s: %w", path, err)
	}
	return nil
}

// saveYAML writes v to path through a temporary file and a rename, so a
// crash never leaves a half-written document behind.
func saveYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("progress: cannot encode %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("progress: cannot create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("progress: cannot create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("progress: cannot write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("progress: cannot write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("progress: cannot replace %s: %w", path, err)
	}
	return nil
}
