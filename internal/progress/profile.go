package progress

import (
	"sort"
	"sync"
	"time"
)

// LevelStats is a player's stored result for one level.
type LevelStats struct {
	Steps       int           `yaml:"steps"`
	Elapsed     time.Duration `yaml:"elapsed"`
	CompletedAt time.Time     `yaml:"completed_at"`
}

// Result returns the steps and time of the stats.
func (s LevelStats) Result() Result {
	return Result{Steps: s.Steps, Elapsed: s.Elapsed}
}

type profileDoc struct {
	PlayerName string                `yaml:"player_name"`
	Levels     map[string]LevelStats `yaml:"levels"`
}

// Profile is one player's name and per-level stats.
// It is safe for concurrent use.
type Profile struct {
	mu      sync.Mutex
	path    string
	policy  Policy
	doc     profileDoc
	loadErr error
	now     func() time.Time
}

// OpenProfile opens the profile document at path.
// If the document cannot be read the profile starts empty and LoadErr
// reports why.
func OpenProfile(path string, policy Policy) *Profile {
	if policy == "" {
		policy = PolicyBest
	}
	p := &Profile{
		path:   path,
		policy: policy,
		now:    time.Now,
	}
	if err := loadYAML(path, &p.doc); err != nil {
		p.loadErr = err
		p.doc = profileDoc{}
	}
	if p.doc.Levels == nil {
		p.doc.Levels = make(map[string]LevelStats)
	}
	return p
}

// LoadErr returns the error hit while reading the document, if any.
func (p *Profile) LoadErr() error {
	return p.loadErr
}

// Path returns the document location.
func (p *Profile) Path() string {
	return p.path
}

// Policy returns the update policy.
func (p *Profile) Policy() Policy {
	return p.policy
}

// HasName reports whether a player name was ever stored.
func (p *Profile) HasName() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.PlayerName != ""
}

// PlayerName returns the stored name, or DefaultPlayerName.
func (p *Profile) PlayerName() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc.PlayerName == "" {
		return DefaultPlayerName
	}
	return p.doc.PlayerName
}

// SetPlayerName normalizes and stores the player name.
func (p *Profile) SetPlayerName(name string) error {
	name, err := NormalizeName(name)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.doc.PlayerName = name
	return saveYAML(p.path, p.doc)
}

// Stats returns the stored stats for a level.
func (p *Profile) Stats(levelID string) (LevelStats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.doc.Levels[levelID]
	return s, ok
}

// All returns a copy of every level's stats.
func (p *Profile) All() map[string]LevelStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]LevelStats, len(p.doc.Levels))
	for id, s := range p.doc.Levels {
		out[id] = s
	}
	return out
}

// Completed returns the IDs of completed levels, sorted.
func (p *Profile) Completed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ids := make([]string, 0, len(p.doc.Levels))
	for id := range p.doc.Levels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Update stores a completion according to the profile's policy and reports
// whether the stored stats changed. When saving fails the stats are left as
// they were.
func (p *Profile) Update(levelID string, steps int, elapsed time.Duration) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := Result{Steps: steps, Elapsed: elapsed}
	prev, had := p.doc.Levels[levelID]
	if had && p.policy == PolicyBest && !next.Better(prev.Result()) {
		return false, nil
	}

	p.doc.Levels[levelID] = LevelStats{
		Steps:       steps,
		Elapsed:     elapsed,
		CompletedAt: p.now().UTC(),
	}
	if err := saveYAML(p.path, p.doc); err != nil {
		// Memory must match what is on disk.
		if had {
			p.doc.Levels[levelID] = prev
		} else {
			delete(p.doc.Levels, levelID)
		}
		return false, err
	}
	return true, nil
}

// defaultName sets the name in memory when none is stored yet.
func (p *Profile) defaultName(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc.PlayerName == "" {
		p.doc.PlayerName = name
	}
}
