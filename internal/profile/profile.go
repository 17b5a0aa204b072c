// Package profile loads and saves a reader's two aggregates, progress and
// rewards, as versioned snapshots.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/readingrally/readingrally/internal/progress"
	"github.com/readingrally/readingrally/internal/rewards"
	"github.com/readingrally/readingrally/internal/store"
)

// DefaultKeep is how many snapshots of each aggregate survive a prune.
const DefaultKeep = 20

// ErrUnsupportedVersion is returned for a snapshot written by a newer build.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Profile is the in-memory state of one reader.
type Profile struct {
	Progress *progress.Tracker
	Rewards  *rewards.Ledger
}

// New returns an empty profile.
func New(now func() time.Time) *Profile {
	return &Profile{
		Progress: progress.NewTracker(progress.WithClock(now)),
		Rewards:  rewards.NewLedger(rewards.WithClock(now)),
	}
}

// Viewer gives read access to a profile that may be shared with a writer.
// fn must not retain p or mutate it.
type Viewer interface {
	View(fn func(p *Profile))
}

// View calls fn with p. A bare Profile has no writer to guard against.
func (p *Profile) View(fn func(p *Profile)) {
	fn(p)
}

// Repo persists profiles through a SnapshotRepo.
type Repo struct {
	snaps store.SnapshotRepo
	keep  int
	clock func() time.Time
}

// Option configures a Repo.
type Option func(*Repo)

// WithKeep sets how many snapshots per aggregate are retained. Zero or
// less disables pruning.
func WithKeep(n int) Option {
	return func(r *Repo) { r.keep = n }
}

// WithClock sets the time source for snapshot stamps and restored
// aggregates.
func WithClock(now func() time.Time) Option {
	return func(r *Repo) { r.clock = now }
}

func NewRepo(snaps store.SnapshotRepo, opts ...Option) *Repo {
	r := &Repo{snaps: snaps, keep: DefaultKeep, clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load restores the latest saved profile. Missing snapshots yield empty
// aggregates.
func (r *Repo) Load(ctx context.Context) (*Profile, error) {
	var ps progress.Snapshot
	okP, err := r.load(ctx, progress.SnapshotName, progress.SnapshotVersion, &ps)
	if err != nil {
		return nil, err
	}
	var rs rewards.Snapshot
	okR, err := r.load(ctx, rewards.SnapshotName, rewards.SnapshotVersion, &rs)
	if err != nil {
		return nil, err
	}

	p := New(r.clock)
	if okP {
		p.Progress = progress.Restore(ps, progress.WithClock(r.clock))
	}
	if okR {
		p.Rewards = rewards.Restore(rs, rewards.WithClock(r.clock))
	}
	return p, nil
}

func (r *Repo) load(ctx context.Context, name string, maxVersion int, into any) (bool, error) {
	snap, err := r.snaps.Latest(ctx, name)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	if snap == nil {
		return false, nil
	}
	if snap.Version > maxVersion {
		return false, fmt.Errorf("load %s: version %d: %w", name, snap.Version, ErrUnsupportedVersion)
	}
	if err := json.Unmarshal(snap.Data, into); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}

// Save writes both aggregates and prunes old snapshots.
func (r *Repo) Save(ctx context.Context, p *Profile) error {
	now := r.clock()
	if err := r.save(ctx, progress.SnapshotName, progress.SnapshotVersion, p.Progress.Snapshot(), now); err != nil {
		return err
	}
	return r.save(ctx, rewards.SnapshotName, rewards.SnapshotVersion, p.Rewards.Snapshot(), now)
}

func (r *Repo) save(ctx context.Context, name string, version int, v any, now time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	snap := &store.Snapshot{
		Name:      name,
		Version:   version,
		Timestamp: now,
		Data:      data,
	}
	if err := r.snaps.Save(ctx, snap); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if r.keep > 0 {
		if err := r.snaps.Prune(ctx, name, r.keep); err != nil {
			return fmt.Errorf("prune %s: %w", name, err)
		}
	}
	return nil
}
