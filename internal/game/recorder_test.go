package game

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

type fakeHistory struct {
	saved []storage.Completion
	err   error
}

func (h *fakeHistory) SaveCompletion(c storage.Completion) (int64, error) {
	if h.err != nil {
		return 0, h.err
	}
	h.saved = append(h.saved, c)
	return int64(len(h.saved)), nil
}

func newStores(t *testing.T) (*progress.Records, *progress.Profiles) {
	t.Helper()
	dir := t.TempDir()
	return progress.OpenRecords(filepath.Join(dir, "records.yaml")),
		progress.NewProfiles(filepath.Join(dir, "profiles"), progress.PolicyBest)
}

func TestRecorderRecord(t *testing.T) {
	records, profiles := newStores(t)
	history := &fakeHistory{}
	var logs bytes.Buffer
	rec := NewRecorder(records, history, log.New(&logs))

	ann := profiles.For("ann")
	out, err := rec.Record(ann, "easy", 10, 5*time.Second)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if !out.NewRecord || !out.PersonalBest {
		t.Errorf("first completion outcome = %+v", out)
	}
	if out.PreviousBest != nil || out.PreviousRecord != nil {
		t.Error("first completion should have no previous results")
	}
	if out.Player != "ann" {
		t.Errorf("Player = %q", out.Player)
	}

	// Bob beats ann's record; ann's profile is untouched.
	bob := profiles.For("bob")
	out, _ = rec.Record(bob, "easy", 8, 9*time.Second)
	if !out.NewRecord || out.PreviousRecord == nil || out.PreviousRecord.PlayerName != "ann" {
		t.Errorf("bob's outcome = %+v", out)
	}
	if best, _ := records.Best("easy"); best.PlayerName != "bob" {
		t.Errorf("record holder = %q", best.PlayerName)
	}

	// Ann improves her own best but not the record.
	out, _ = rec.Record(ann, "easy", 9, time.Second)
	if out.NewRecord || !out.PersonalBest {
		t.Errorf("ann's second outcome = %+v", out)
	}
	if out.PreviousBest == nil || out.PreviousBest.Steps != 10 {
		t.Errorf("PreviousBest = %+v", out.PreviousBest)
	}

	if len(history.saved) != 3 {
		t.Errorf("history has %d completions, want 3", len(history.saved))
	}
	if !strings.Contains(logs.String(), "level completed") {
		t.Errorf("completion not logged: %s", logs.String())
	}
}

func TestRecorderHistoryFailureIsNotFatal(t *testing.T) {
	records, profiles := newStores(t)
	var logs bytes.Buffer
	rec := NewRecorder(records, &fakeHistory{err: errors.New("disk full")}, log.New(&logs))

	out, err := rec.Record(profiles.For("ann"), "easy", 3, time.Second)
	if err != nil {
		t.Fatalf("history failure should not fail Record: %v", err)
	}
	if !out.NewRecord {
		t.Error("record should still be saved")
	}
	if !strings.Contains(logs.String(), "disk full") {
		t.Errorf("history failure not logged: %s", logs.String())
	}
}

func TestRecorderWithoutHistory(t *testing.T) {
	records, profiles := newStores(t)
	rec := NewRecorder(records, nil, log.New(&bytes.Buffer{}))

	if _, err := rec.Record(profiles.For("ann"), "easy", 3, time.Second); err != nil {
		t.Errorf("Record without history failed: %v", err)
	}
}

func TestRecorderWithSQLiteHistory(t *testing.T) {
	records, profiles := newStores(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	defer store.Close()

	rec := NewRecorder(records, store, log.New(&bytes.Buffer{}))
	rec.Record(profiles.For("ann"), "hard", 40, time.Minute)

	top, err := store.TopCompletions("hard", 5)
	if err != nil {
		t.Fatalf("TopCompletions failed: %v", err)
	}
	if len(top) != 1 || top[0].PlayerName != "ann" || top[0].Elapsed != time.Minute {
		t.Errorf("history = %+v", top)
	}
}
