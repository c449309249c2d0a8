package progress

import (
	"sort"
	"sync"
	"time"
)

// Record is the best known completion of one level across all players.
type Record struct {
	PlayerName string        `yaml:"player_name"`
	Steps      int           `yaml:"steps"`
	Elapsed    time.Duration `yaml:"elapsed"`
	SetAt      time.Time     `yaml:"set_at"`
}

// Result returns the steps and time of the record.
func (r Record) Result() Result {
	return Result{Steps: r.Steps, Elapsed: r.Elapsed}
}

// LevelRecord pairs a record with its level.
type LevelRecord struct {
	LevelID string
	Record
}

type recordsDoc struct {
	Records map[string]Record `yaml:"records"`
}

// Records is the table of level records. It is safe for concurrent use, so
// every session of a server can share one instance.
type Records struct {
	mu      sync.Mutex
	path    string
	doc     recordsDoc
	loadErr error
	now     func() time.Time
}

// OpenRecords opens the records document at path.
// If the document cannot be read the table starts empty and LoadErr
// reports why.
func OpenRecords(path string) *Records {
	r := &Records{
		path: path,
		now:  time.Now,
	}
	if err := loadYAML(path, &r.doc); err != nil {
		r.loadErr = err
		r.doc = recordsDoc{}
	}
	if r.doc.Records == nil {
		r.doc.Records = make(map[string]Record)
	}
	return r
}

// LoadErr returns the error hit while reading the document, if any.
func (r *Records) LoadErr() error {
	return r.loadErr
}

// RecordUpdate is the result of Records.TryUpdate.
type RecordUpdate struct {
	Previous *Record // Record before the update, nil if the level had none
	Set      bool    // The completion is the new record
}

// TryUpdate stores the completion if it beats the level's record, or if the
// level has none. The previous record is read under the same lock, so it is
// the one the completion was compared against. When saving fails the record
// is left as it was.
func (r *Records) TryUpdate(levelID, player string, steps int, elapsed time.Duration) (RecordUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var upd RecordUpdate
	best, had := r.doc.Records[levelID]
	if had {
		upd.Previous = &best
	}

	next := Result{Steps: steps, Elapsed: elapsed}
	if had && !next.Better(best.Result()) {
		return upd, nil
	}

	r.doc.Records[levelID] = Record{
		PlayerName: player,
		Steps:      steps,
		Elapsed:    elapsed,
		SetAt:      r.now().UTC(),
	}
	if err := saveYAML(r.path, r.doc); err != nil {
		if had {
			r.doc.Records[levelID] = best
		} else {
			delete(r.doc.Records, levelID)
		}
		return upd, err
	}
	upd.Set = true
	return upd, nil
}

// Best returns the record for a level.
func (r *Records) Best(levelID string) (Record, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.doc.Records[levelID]
	return rec, ok
}

// All returns every record, sorted by level ID.
func (r *Records) All() []LevelRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]LevelRecord, 0, len(r.doc.Records))
	for id, rec := range r.doc.Records {
		out = append(out, LevelRecord{LevelID: id, Record: rec})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LevelID < out[j].LevelID
	})
	return out
}
