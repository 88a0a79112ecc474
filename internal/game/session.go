// Package game runs the daily guessing round and records its outcome.
//
// A Session owns the round state (Idle, InProgress, Solved) for one player.
// On a correct guess it updates the score ledger if the score is a new best,
// writes the day's activity record and asks the sync gate whether a batch
// push is due. Rules about streaks and heatmaps live in package activity and
// read the same store independently.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/width"

	"github.com/mesh-intelligence/puzzlelog/internal/observability"
	"github.com/mesh-intelligence/puzzlelog/internal/puzzle"
	"github.com/mesh-intelligence/puzzlelog/internal/syncgate"
	"github.com/mesh-intelligence/puzzlelog/pkg/types"
)

// State is the round state of a session.
type State int

// Round states.
const (
	Idle State = iota
	InProgress
	Solved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case InProgress:
		return "in_progress"
	case Solved:
		return "solved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SyncChecker is the part of the sync gate a session calls after a solve.
type SyncChecker interface {
	Check() (syncgate.Signal, bool, error)
}

// Config wires a session to its collaborators. Store, Ledger, Targets and
// Identity are required.
type Config struct {
	Store    types.ActivityStore
	Ledger   types.ScoreLedger
	Gate     SyncChecker
	Targets  puzzle.TargetSource
	Range    puzzle.Range
	Identity *types.Identity
	Clock    func() time.Time
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Result describes one accepted submission.
type Result struct {
	Date         string           `json:"date"`
	Guess        int              `json:"guess"`
	Correct      bool             `json:"correct"`
	Attempts     int              `json:"attempts"`
	Score        int              `json:"score"`
	TimeTaken    int              `json:"timeTaken,omitempty"`
	NewHighScore bool             `json:"newHighScore,omitempty"`
	Sync         *syncgate.Signal `json:"sync,omitempty"`
}

// Status is a point-in-time view of the session.
type Status struct {
	Player   string `json:"player"`
	Date     string `json:"date"`
	State    string `json:"state"`
	Attempts int    `json:"attempts"`
	Score    int    `json:"score"`
}

// Session is the per-player round orchestrator. It is safe for concurrent
// use; overlapping submissions are rejected rather than queued.
type Session struct {
	store    types.ActivityStore
	ledger   types.ScoreLedger
	gate     SyncChecker
	targets  puzzle.TargetSource
	bounds   puzzle.Range
	identity *types.Identity
	clock    func() time.Time
	logger   *slog.Logger
	metrics  *observability.Metrics

	inFlight sync.Mutex // held for the whole of Submit

	mu       sync.RWMutex
	day      string
	target   int
	state    State
	attempts int
	score    int
	started  time.Time
}

// New validates cfg, builds a session and restores it from storage.
func New(cfg Config) (*Session, error) {
	if cfg.Identity == nil {
		return nil, types.ErrNoIdentity
	}
	if cfg.Store == nil || cfg.Ledger == nil {
		return nil, fmt.Errorf("%w: activity store and score ledger are required", types.ErrStorageUnavailable)
	}
	if cfg.Targets == nil {
		return nil, errors.New("target source is required")
	}
	if cfg.Range == (puzzle.Range{}) {
		cfg.Range = puzzle.DefaultRange()
	}
	if err := cfg.Range.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	s := &Session{
		store:    cfg.Store,
		ledger:   cfg.Ledger,
		gate:     cfg.Gate,
		targets:  cfg.Targets,
		bounds:   cfg.Range,
		identity: cfg.Identity,
		clock:    cfg.Clock,
		logger:   cfg.Logger.With("player", cfg.Identity.DisplayName),
		metrics:  cfg.Metrics,
	}
	if err := s.Restore(); err != nil {
		s.logger.Warn("session restored from memory only", "error", err)
	}
	return s, nil
}

// Restore reloads the session from storage: the score resumes from the
// highest persisted score, and a solved record for today puts the session
// straight into Solved. The round is reset even when storage cannot be
// read; the returned error reports what was missing and the session plays
// on from memory.
func (s *Session) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := types.FormatDate(s.clock())
	var errs []error

	score, err := s.ledger.CurrentHighScore()
	if err != nil {
		s.metrics.StorageError("scores.high")
		errs = append(errs, fmt.Errorf("restoring high score: %w", err))
	}
	records, err := s.store.All()
	if err != nil {
		s.metrics.StorageError("activity.all")
		errs = append(errs, fmt.Errorf("restoring activity: %w", err))
	}
	solvedToday := false
	for _, r := range records {
		score = max(score, r.Score)
		if r.Date == today && r.Solved {
			solvedToday = true
		}
	}

	s.resetDay(today)
	s.score = score
	if solvedToday {
		s.state = Solved
	}
	s.metrics.HighScore(score)
	s.logger.Debug("session restored", "date", today, "state", s.state, "score", score)
	return errors.Join(errs...)
}

// Status returns the current round state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Player:   s.identity.DisplayName,
		Date:     s.day,
		State:    s.state.String(),
		Attempts: s.attempts,
		Score:    s.score,
	}
}

// Range returns the accepted guess interval.
func (s *Session) Range() puzzle.Range { return s.bounds }

// Submit evaluates one guess.
//
// It returns ErrSubmissionInFlight if another Submit is running,
// ErrAlreadySolvedToday once today's record is solved, and ErrInvalidInput
// for anything that is not an integer in range. None of these mutate state.
// Failed storage reads are logged and the round continues in memory. A
// storage failure while writing the solve leaves the session InProgress so
// the same guess can be retried.
func (s *Session) Submit(input string) (Result, error) {
	if !s.inFlight.TryLock() {
		return Result{}, types.ErrSubmissionInFlight
	}
	defer s.inFlight.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if today := types.FormatDate(now); today != s.day {
		s.logger.Info("new day", "previous", s.day, "date", today)
		s.resetDay(today)
	}

	if s.solvedToday() {
		s.state = Solved
		s.metrics.Guess(observability.OutcomeRejected)
		return Result{}, types.ErrAlreadySolvedToday
	}

	guess, err := s.parse(input)
	if err != nil {
		s.metrics.Guess(observability.OutcomeInvalid)
		return Result{}, err
	}

	if s.state == Idle {
		s.state = InProgress
		s.started = now
	}
	s.attempts++

	res := Result{Date: s.day, Guess: guess, Attempts: s.attempts, Score: s.score}
	if guess != s.target {
		s.metrics.Guess(observability.OutcomeIncorrect)
		s.logger.Debug("incorrect guess", "date", s.day, "attempts", s.attempts)
		return res, nil
	}
	return s.solve(now, res)
}

// solve persists a correct guess. The caller holds mu.
func (s *Session) solve(now time.Time, res Result) (Result, error) {
	timeTaken := max(int(now.Sub(s.started)/time.Second), 0)
	s.score++

	// The ledger is written first and is not undone if Put fails below. A
	// retry that then succeeds finds its best already recorded and reports
	// NewHighScore=false.
	recorded, err := s.ledger.RecordIfHigher(s.day, s.score)
	if err != nil {
		s.metrics.StorageError("scores.record")
		s.logger.Warn("high score not recorded", "date", s.day, "score", s.score, "error", err)
	}

	rec := types.ActivityRecord{
		Date:       s.day,
		Solved:     true,
		Score:      s.score,
		TimeTaken:  timeTaken,
		Difficulty: types.DefaultDifficulty,
		Synced:     false,
	}
	if err := s.store.Put(&rec); err != nil {
		s.score--
		s.metrics.StorageError("activity.put")
		s.logger.Error("solve not persisted", "date", s.day, "error", err)
		return res, fmt.Errorf("recording solve for %s: %w", s.day, err)
	}

	s.state = Solved
	s.attempts = 0
	s.metrics.Guess(observability.OutcomeCorrect)
	s.metrics.Solved()
	if recorded {
		s.metrics.HighScore(s.score)
	}

	res.Correct = true
	res.Score = s.score
	res.TimeTaken = timeTaken
	res.NewHighScore = recorded

	if s.gate != nil {
		sig, due, err := s.gate.Check()
		switch {
		case err != nil:
			s.logger.Warn("sync check failed", "error", err)
		case due:
			res.Sync = &sig
		}
	}

	s.logger.Info("puzzle solved", "date", s.day, "score", s.score, "attempts", res.Attempts, "time_taken", timeTaken)
	return res, nil
}

// solvedToday consults the store, not only the in-memory state, so a solve
// made by another process on the same database is honoured. When the store
// cannot be read the in-memory state decides and the round goes on; the
// write on a correct guess is what guards Solved.
func (s *Session) solvedToday() bool {
	if s.state == Solved {
		return true
	}
	rec, err := s.store.Get(s.day)
	if errors.Is(err, types.ErrNotFound) {
		return false
	}
	if err != nil {
		s.metrics.StorageError("activity.get")
		s.logger.Warn("solved check failed, continuing in memory", "date", s.day, "error", err)
		return false
	}
	return rec.Solved
}

func (s *Session) parse(input string) (int, error) {
	text := width.Narrow.String(strings.TrimSpace(input))
	if text == "" {
		return 0, fmt.Errorf("%w: empty guess", types.ErrInvalidInput)
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", types.ErrInvalidInput, input)
	}
	if !s.bounds.Contains(n) {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", types.ErrInvalidInput, n, s.bounds.Min, s.bounds.Max)
	}
	return n, nil
}

// resetDay starts a fresh round for date. The caller holds mu.
func (s *Session) resetDay(date string) {
	s.day = date
	s.target = s.targets.Target(date)
	s.state = Idle
	s.attempts = 0
	s.started = time.Time{}
}
