// Package registry discovers sokoban levels and loads them by ID.
// Levels are plain text files; an optional levels.yaml manifest in the root
// gives them display names and a play order.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-sokoban/internal/sokoban"
)

// ErrUnknownLevel is returned when a level ID is not registered.
var ErrUnknownLevel = errors.New("registry: unknown level")

// ErrNoGoals is returned for a level without goals. Such a board counts as
// solved before the first move, so it cannot be played.
var ErrNoGoals = errors.New("registry: level has no goals")

// ManifestName is the optional manifest file looked up in the registry root.
const ManifestName = "levels.yaml"

// LevelInfo describes one available level.
type LevelInfo struct {
	ID   string // File name without extension
	Name string // Display name
	Path string // Location inside the registry's file system
}

// Entry is a level together with its parsed board.
type Entry struct {
	Info  LevelInfo
	Level *sokoban.Level
}

// Registry is an ordered, read-only set of levels backed by a file system.
// It is safe for concurrent use.
type Registry struct {
	fsys   fs.FS
	levels []LevelInfo
	byID   map[string]int
}

type manifest struct {
	Levels []manifestEntry `yaml:"levels"`
}

type manifestEntry struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// New scans root in fsys for level files (*.txt, *.sok).
// Levels listed in the manifest come first, in manifest order; the rest
// follow sorted by ID with a name derived from the ID.
func New(fsys fs.FS, root string) (*Registry, error) {
	found := make(map[string]string) // id -> path

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLevelFile(p) {
			return nil
		}

		id := levelID(p)
		if prev, dup := found[id]; dup {
			return fmt.Errorf("registry: level %q defined twice (%s, %s)", id, prev, p)
		}
		found[id] = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("registry: scanning %s: %w", root, err)
	}

	m, err := readManifest(fsys, root)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		fsys: fsys,
		byID: make(map[string]int, len(found)),
	}

	for _, e := range m.Levels {
		p, ok := found[e.ID]
		if !ok {
			return nil, fmt.Errorf("registry: %s lists %q: %w", ManifestName, e.ID, ErrUnknownLevel)
		}
		if _, dup := r.byID[e.ID]; dup {
			return nil, fmt.Errorf("registry: %s lists %q twice", ManifestName, e.ID)
		}
		name := e.Name
		if name == "" {
			name = displayName(e.ID)
		}
		r.add(LevelInfo{ID: e.ID, Name: name, Path: p})
	}

	var rest []string
	for id := range found {
		if _, listed := r.byID[id]; !listed {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	for _, id := range rest {
		r.add(LevelInfo{ID: id, Name: displayName(id), Path: found[id]})
	}

	return r, nil
}

// Open creates a registry over a directory on disk.
func Open(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("registry: %w", err)
	}
	return New(os.DirFS(dir), ".")
}

func (r *Registry) add(info LevelInfo) {
	r.byID[info.ID] = len(r.levels)
	r.levels = append(r.levels, info)
}

// List returns information about all levels in play order.
func (r *Registry) List() []LevelInfo {
	out := make([]LevelInfo, len(r.levels))
	copy(out, r.levels)
	return out
}

// Len returns the number of levels.
func (r *Registry) Len() int {
	return len(r.levels)
}

// Lookup returns the level with the given ID.
func (r *Registry) Lookup(id string) (LevelInfo, error) {
	i, ok := r.byID[id]
	if !ok {
		return LevelInfo{}, fmt.Errorf("%w %q", ErrUnknownLevel, id)
	}
	return r.levels[i], nil
}

// Exists checks if a level with the given ID is registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Next returns the level after id in play order, if any.
func (r *Registry) Next(id string) (LevelInfo, bool) {
	i, ok := r.byID[id]
	if !ok || i+1 >= len(r.levels) {
		return LevelInfo{}, false
	}
	return r.levels[i+1], true
}

// Source returns the raw text of a level file.
func (r *Registry) Source(id string) (string, error) {
	info, err := r.Lookup(id)
	if err != nil {
		return "", err
	}
	data, err := fs.ReadFile(r.fsys, info.Path)
	if err != nil {
		return "", fmt.Errorf("registry: reading level %q: %w", id, err)
	}
	return string(data), nil
}

// Load parses the level with the given ID. Every call returns a fresh board.
// Parse failures wrap sokoban.ErrMalformedLevel; a level without goals
// fails with ErrNoGoals.
func (r *Registry) Load(id string) (*sokoban.Level, error) {
	text, err := r.Source(id)
	if err != nil {
		return nil, err
	}
	lvl, err := sokoban.ParseString(text)
	if err != nil {
		return nil, fmt.Errorf("registry: level %q: %w", id, err)
	}
	if lvl.GoalCount() == 0 {
		return nil, fmt.Errorf("registry: level %q: %w", id, ErrNoGoals)
	}
	return lvl, nil
}

// LoadAll parses every level. Levels that fail to load are left out and
// reported together in the returned error.
func (r *Registry) LoadAll() ([]Entry, error) {
	entries := make([]Entry, 0, len(r.levels))
	var errs []error
	for _, info := range r.levels {
		lvl, err := r.Load(info.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, Entry{Info: info, Level: lvl})
	}
	return entries, errors.Join(errs...)
}

func readManifest(fsys fs.FS, root string) (manifest, error) {
	var m manifest
	data, err := fs.ReadFile(fsys, path.Join(root, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("registry: reading %s: %w", ManifestName, err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("registry: parsing %s: %w", ManifestName, err)
	}
	return m, nil
}

func isLevelFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".txt", ".sok":
		return true
	}
	return false
}

// levelID is the file name without extension.
func levelID(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

// displayName turns "cave_02" into "Cave 02".
func displayName(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return id
	}
	return strings.Join(words, " ")
}
