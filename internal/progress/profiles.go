package progress

import (
	"path/filepath"
	"strings"
	"sync"
)

// Profiles hands out one Profile per player name, each stored in its own
// file under a directory. Servers use it to keep remote players apart.
type Profiles struct {
	dir    string
	policy Policy

	mu   sync.Mutex
	open map[string]*Profile
}

// NewProfiles creates a manager for profiles stored under dir.
func NewProfiles(dir string, policy Policy) *Profiles {
	return &Profiles{
		dir:    dir,
		policy: policy,
		open:   make(map[string]*Profile),
	}
}

// For returns the profile of the named player, opening it on first use.
// Repeated calls with the same name return the same Profile.
func (ps *Profiles) For(player string) *Profile {
	name, err := NormalizeName(player)
	if err != nil {
		name = DefaultPlayerName
	}
	file := sanitizeFileName(name)

	ps.mu.Lock()
	defer ps.mu.Unlock()

	if p, ok := ps.open[file]; ok {
		return p
	}
	p := OpenProfile(filepath.Join(ps.dir, file+".yaml"), ps.policy)
	p.defaultName(name)
	ps.open[file] = p
	return p
}

// sanitizeFileName keeps letters, digits, '-' and '_' and replaces anything
// else with '_'.
func sanitizeFileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
