package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendRewardEvent(ctx context.Context, data RewardEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reward_events
			(sequence, timestamp, kind, points, total, badge_id, milestone_id, session_id, reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, formatTime(time.Now()), data.Kind, data.Points, data.Total,
		data.BadgeID, data.MilestoneID, data.SessionID, data.Reason,
	)
	if err != nil {
		return fmt.Errorf("save reward event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error) {
	suffix, args := opts.whereClause()
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sequence, timestamp, kind, points, total, badge_id, milestone_id, session_id, reason
		 FROM reward_events`+suffix, args...)
	if err != nil {
		return nil, fmt.Errorf("query reward events: %w", err)
	}
	defer rows.Close()

	var records []RewardEventRecord
	for rows.Next() {
		var rec RewardEventRecord
		var ts string
		if err := rows.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Kind, &rec.Points, &rec.Total,
			&rec.BadgeID, &rec.MilestoneID, &rec.SessionID, &rec.Reason); err != nil {
			return nil, fmt.Errorf("scan reward event: %w", err)
		}
		if rec.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
