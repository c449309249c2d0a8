package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// History stores every completion. *storage.Store implements it.
type History interface {
	SaveCompletion(c storage.Completion) (int64, error)
}

// Outcome reports what a finished run changed.
type Outcome struct {
	LevelID      string
	Player       string
	Steps        int
	Elapsed      time.Duration
	PersonalBest bool // the player's profile stats changed
	NewRecord    bool // the level record changed

	PreviousBest   *progress.LevelStats // profile stats before this run
	PreviousRecord *progress.Record     // level record before this run
}

// Recorder saves finished runs: the level record first, then the player's
// profile, then the completion history.
type Recorder struct {
	records *progress.Records
	history History
	logger  *log.Logger
}

// NewRecorder creates a recorder. history may be nil when no database is
// available; logger may be nil to use the default logger.
func NewRecorder(records *progress.Records, history History, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		records: records,
		history: history,
		logger:  logger,
	}
}

// Record saves a completion of levelID by the owner of profile.
// Failing to save the record or the profile is returned; a history failure
// is only logged.
func (r *Recorder) Record(profile *progress.Profile, levelID string, steps int, elapsed time.Duration) (Outcome, error) {
	player := profile.PlayerName()
	out := Outcome{
		LevelID: levelID,
		Player:  player,
		Steps:   steps,
		Elapsed: elapsed,
	}

	if prev, ok := profile.Stats(levelID); ok {
		out.PreviousBest = &prev
	}

	var errs []error

	upd, err := r.records.TryUpdate(levelID, player, steps, elapsed)
	out.PreviousRecord = upd.Previous
	out.NewRecord = upd.Set
	if err != nil {
		errs = append(errs, fmt.Errorf("game: saving record: %w", err))
	}

	personal, err := profile.Update(levelID, steps, elapsed)
	out.PersonalBest = personal
	if err != nil {
		errs = append(errs, fmt.Errorf("game: saving profile: %w", err))
	}

	if r.history != nil {
		_, err := r.history.SaveCompletion(storage.Completion{
			LevelID:    levelID,
			PlayerName: player,
			Steps:      steps,
			Elapsed:    elapsed,
		})
		if err != nil {
			r.logger.Warn("could not save completion", "level", levelID, "player", player, "error", err)
		}
	}

	r.logger.Info("level completed",
		"level", levelID,
		"player", player,
		"steps", steps,
		"elapsed", elapsed.Round(time.Millisecond),
		"record", out.NewRecord,
	)

	return out, errors.Join(errs...)
}
