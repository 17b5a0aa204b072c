package reading

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/readingrally/readingrally/internal/archive"
	"github.com/readingrally/readingrally/internal/profile"
	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

// Result reports what applying one session changed.
type Result struct {
	Record        progress.SessionRecord
	Progress      progress.Update
	SessionPoints int
	PointsEarned  int
	TotalPoints   int
	Milestones    []rewards.Milestone
	Badges        []rewards.Badge
	ArchivedAt    string
}

// Service owns the loaded profile and is the single writer of both
// aggregates. All mutations go through Finish or Record.
type Service struct {
	mu      sync.Mutex
	profile *profile.Profile
	repo    *profile.Repo
	events  store.EventRepo
	archive archive.Archive
	log     *zap.Logger
	clock   func() time.Time
	newID   func() string
}

var _ profile.Viewer = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithArchive keeps a copy of every finished recording.
func WithArchive(a archive.Archive) ServiceOption {
	return func(s *Service) { s.archive = a }
}

// WithEventRepo persists reward audit events.
func WithEventRepo(r store.EventRepo) ServiceOption {
	return func(s *Service) { s.events = r }
}

// WithLogger sets the logger for archive and audit failures, which only
// warn.
func WithLogger(l *zap.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// WithClock replaces time.Now for session dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.clock = now }
}

// WithIDs replaces the session id generator.
func WithIDs(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

// NewService wraps a loaded profile. repo may be nil to keep state in
// memory only.
func NewService(p *profile.Profile, repo *profile.Repo, opts ...ServiceOption) *Service {
	s := &Service{
		profile: p,
		repo:    repo,
		log:     zap.NewNop(),
		clock:   time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View runs fn with the profile while holding the writer lock. fn must not
// retain the profile.
func (s *Service) View(fn func(p *profile.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.profile)
}

// Finish applies a scored session: it records progress, awards points,
// streak and milestones, archives the clip and saves the profile.
func (s *Service) Finish(ctx context.Context, o *Outcome) (*Result, error) {
	if o == nil || o.Analysis == nil {
		return nil, fmt.Errorf("finish session: no analysis")
	}
	date := o.StartedAt
	if date.IsZero() {
		date = s.clock()
	}
	rec := progress.SessionRecord{
		Date:            date,
		WordsPerMinute:  o.Analysis.WordsPerMinute,
		Accuracy:        o.Analysis.Accuracy,
		Fluency:         o.Analysis.Fluency,
		DurationSeconds: int(math.Round(o.Elapsed.Seconds())),
		BookID:          o.Passage.ID,
		Completed:       o.Analysis.Completed(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.apply(rec)
	if s.archive != nil && !o.Clip.Empty() {
		key := archive.Key(res.Record.ID, rec.Date, o.Clip)
		loc, err := s.archive.Put(ctx, key, o.Clip)
		if err != nil {
			s.log.Warn("failed to archive recording", zap.String("session", res.Record.ID), zap.Error(err))
		} else {
			res.ArchivedAt = loc
		}
	}
	return res, s.persist(ctx, res.Record.ID)
}

// Record applies a session entered by hand, without a recording.
func (s *Service) Record(ctx context.Context, rec progress.SessionRecord) (*Result, error) {
	if rec.Date.IsZero() {
		rec.Date = s.clock()
	}
	rec.WordsPerMinute = bound(rec.WordsPerMinute, math.Inf(1))
	rec.Accuracy = bound(rec.Accuracy, 100)
	rec.Fluency = bound(rec.Fluency, 100)

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.apply(rec)
	return res, s.persist(ctx, res.Record.ID)
}

// bound clamps v to [0, hi]. NaN and infinities become 0 since one such
// value in the history would poison averages and fail every later save.
func bound(v, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(hi, v))
}

func (s *Service) apply(rec progress.SessionRecord) *Result {
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	tracker, ledger := s.profile.Progress, s.profile.Rewards

	before := ledger.Points()
	held := make(map[string]bool)
	for _, b := range ledger.Badges() {
		held[b.ID] = true
	}

	upd := tracker.AddSession(rec)

	pts := rewards.SessionPoints(rec.WordsPerMinute, rec.Accuracy)
	ledger.AddPoints(pts, fmt.Sprintf("Reading session: %.0f WPM, %.0f%% accuracy", rec.WordsPerMinute, rec.Accuracy))

	var ms []rewards.Milestone
	ms = append(ms, ledger.UpdateStreak(rec.Date)...)
	ms = append(ms, ledger.UpdateMilestoneProgress(rewards.MilestoneWPM, rec.WordsPerMinute)...)
	ms = append(ms, ledger.UpdateMilestoneProgress(rewards.MilestoneBooks, float64(tracker.BooksCompleted()))...)

	res := &Result{
		Record:        rec,
		Progress:      upd,
		SessionPoints: pts,
		PointsEarned:  ledger.Points() - before,
		TotalPoints:   ledger.Points(),
		Milestones:    ms,
	}
	for _, b := range ledger.Badges() {
		if !held[b.ID] {
			res.Badges = append(res.Badges, b)
		}
	}

	s.log.Info("session applied",
		zap.String("session", rec.ID),
		zap.String("book", rec.BookID),
		zap.Bool("completed", rec.Completed),
		zap.Int("points", res.PointsEarned),
		zap.Int("level", upd.Level),
	)
	return res
}

// persist saves the profile and flushes the reward journal. Audit failures
// are logged; only a failed profile save is returned.
func (s *Service) persist(ctx context.Context, sessionID string) error {
	events := s.profile.Rewards.DrainEvents()
	if err := rewards.PersistEvents(ctx, s.events, sessionID, events); err != nil {
		s.log.Warn("failed to persist reward events", zap.String("session", sessionID), zap.Error(err))
	}
	if s.repo == nil {
		return nil
	}
	if err := s.repo.Save(ctx, s.profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
