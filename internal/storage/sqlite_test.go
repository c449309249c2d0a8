package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func save(t *testing.T, s *Store, level, player string, steps int, elapsed time.Duration) int64 {
	t.Helper()
	id, err := s.SaveCompletion(Completion{LevelID: level, PlayerName: player, Steps: steps, Elapsed: elapsed})
	if err != nil {
		t.Fatalf("SaveCompletion() failed: %v", err)
	}
	return id
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	save(t, store, "easy", "ann", 1, time.Second)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	entries, err := store.TopCompletions("easy", 10)
	if err != nil {
		t.Fatalf("TopCompletions() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 completion after reopen, got %d", len(entries))
	}
}

func TestStoreSaveRejectsMissingLevel(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveCompletion(Completion{PlayerName: "ann", Steps: 3}); err == nil {
		t.Error("expected error for completion without level id")
	}
}

func TestStoreTopCompletionsOrder(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "middle", "ann", 30, 40*time.Second)
	save(t, store, "middle", "bob", 25, 90*time.Second)
	save(t, store, "middle", "cid", 25, 60*time.Second)
	save(t, store, "middle", "dan", 40, 10*time.Second)
	save(t, store, "easy", "eve", 1, time.Second)

	entries, err := store.TopCompletions("middle", 10)
	if err != nil {
		t.Fatalf("TopCompletions() failed: %v", err)
	}

	want := []string{"cid", "bob", "ann", "dan"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %d completions, got %d", len(want), len(entries))
	}
	for i, name := range want {
		if entries[i].PlayerName != name {
			t.Errorf("entry %d = %s, expected %s", i, entries[i].PlayerName, name)
		}
	}

	if entries[0].Elapsed != 60*time.Second {
		t.Errorf("Elapsed = %v, expected 1m0s", entries[0].Elapsed)
	}
	if entries[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestStoreTopCompletionsLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		save(t, store, "test", "p", (i+1)*10, time.Second)
	}

	entries, err := store.TopCompletions("test", 3)
	if err != nil {
		t.Fatalf("TopCompletions() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 completions with limit, got %d", len(entries))
	}
	if entries[0].Steps != 10 || entries[1].Steps != 20 || entries[2].Steps != 30 {
		t.Errorf("Completions not in expected order: %v", entries)
	}

	// Non-positive limits fall back to the default.
	all, _ := store.TopCompletions("test", 0)
	if len(all) != 5 {
		t.Errorf("Expected 5 completions with default limit, got %d", len(all))
	}
}

func TestStoreMillisecondPrecision(t *testing.T) {
	store := openTestStore(t)
	save(t, store, "easy", "ann", 1, 1234567*time.Microsecond)

	entries, _ := store.TopCompletions("easy", 1)
	if len(entries) != 1 || entries[0].Elapsed != 1234*time.Millisecond {
		t.Errorf("Elapsed = %v, expected 1.234s", entries)
	}
}

func TestStoreRecentAndPlayerCompletions(t *testing.T) {
	store := openTestStore(t)

	first := save(t, store, "easy", "ann", 1, time.Second)
	save(t, store, "middle", "bob", 20, time.Second)
	last := save(t, store, "hard", "ann", 30, time.Second)

	recent, err := store.RecentCompletions(2)
	if err != nil {
		t.Fatalf("RecentCompletions() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != last {
		t.Errorf("RecentCompletions(2) = %+v, expected newest first", recent)
	}

	mine, err := store.PlayerCompletions("ann", 10)
	if err != nil {
		t.Fatalf("PlayerCompletions() failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != last || mine[1].ID != first {
		t.Errorf("PlayerCompletions(ann) = %+v", mine)
	}
}

func TestStoreClearLevel(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "easy", "ann", 1, time.Second)
	save(t, store, "easy", "bob", 1, time.Second)
	save(t, store, "hard", "ann", 30, time.Second)

	if err := store.ClearLevel("easy"); err != nil {
		t.Fatalf("ClearLevel() failed: %v", err)
	}

	easy, _ := store.TopCompletions("easy", 10)
	if len(easy) != 0 {
		t.Errorf("Expected 0 easy completions after clear, got %d", len(easy))
	}

	hard, _ := store.TopCompletions("hard", 10)
	if len(hard) != 1 {
		t.Errorf("hard completions should not be affected by clearing easy")
	}
}

func TestStoreLevelStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.LevelStats("easy")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if empty.Completions != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected zero stats for unplayed level, got %+v", empty)
	}

	save(t, store, "easy", "ann", 4, 5*time.Second)
	save(t, store, "easy", "ann", 2, 9*time.Second)
	save(t, store, "easy", "bob", 6, 3*time.Second)

	stats, err := store.LevelStats("easy")
	if err != nil {
		t.Fatalf("LevelStats() failed: %v", err)
	}
	if stats.Completions != 3 || stats.Players != 2 {
		t.Errorf("Completions/Players = %d/%d, expected 3/2", stats.Completions, stats.Players)
	}
	if stats.BestSteps != 2 || stats.BestElapsed != 3*time.Second {
		t.Errorf("BestSteps/BestElapsed = %d/%v", stats.BestSteps, stats.BestElapsed)
	}
	if stats.AvgSteps != 4 {
		t.Errorf("AvgSteps = %v, expected 4", stats.AvgSteps)
	}
}

func TestStoreAllLevelStats(t *testing.T) {
	store := openTestStore(t)

	save(t, store, "easy", "ann", 1, time.Second)
	save(t, store, "hard", "ann", 30, time.Minute)
	save(t, store, "hard", "bob", 28, 2*time.Minute)

	all, err := store.AllLevelStats()
	if err != nil {
		t.Fatalf("AllLevelStats() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected stats for 2 levels, got %d", len(all))
	}
	if hard := all["hard"]; hard == nil || hard.Completions != 2 || hard.BestSteps != 28 {
		t.Errorf("hard stats = %+v", all["hard"])
	}
}

func TestStoreNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
