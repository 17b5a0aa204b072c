package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// snapshotRepo implements SnapshotRepo with raw SQL.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Name == "" {
		return errors.New("save snapshot: name is required")
	}
	if !json.Valid(snap.Data) {
		return fmt.Errorf("save snapshot %q: data is not valid JSON", snap.Name)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now()
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (name, version, sequence, saved_at, data) VALUES (?, ?, ?, ?, ?)`,
		snap.Name, snap.Version, seqNum, formatTime(snap.Timestamp), string(snap.Data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("snapshot id: %w", err)
	}
	snap.ID = id
	snap.Sequence = seqNum
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, name string) (*Snapshot, error) {
	var snap Snapshot
	var savedAt, data string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, version, sequence, saved_at, data FROM snapshots
		 WHERE name = ? ORDER BY sequence DESC LIMIT 1`, name,
	).Scan(&snap.ID, &snap.Name, &snap.Version, &snap.Sequence, &savedAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot %q: %w", name, err)
	}
	if snap.Timestamp, err = parseTime(savedAt); err != nil {
		return nil, err
	}
	snap.Data = json.RawMessage(data)
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, name string, keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE name = ? AND sequence NOT IN (
			SELECT sequence FROM snapshots WHERE name = ? ORDER BY sequence DESC LIMIT ?
		)`, name, name, keep)
	if err != nil {
		return fmt.Errorf("prune snapshots %q: %w", name, err)
	}
	return nil
}
