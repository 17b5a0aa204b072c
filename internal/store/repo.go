package store

import (
	"context"
	"encoding/json"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Snapshot is one saved copy of a named aggregate. Data is opaque JSON
// whose layout is identified by Version.
type Snapshot struct {
	ID        int64
	Name      string
	Version   int
	Sequence  int64
	Timestamp time.Time
	Data      json.RawMessage
}

// SnapshotRepo stores versioned snapshots keyed by aggregate name.
type SnapshotRepo interface {
	// Save stores a new snapshot and assigns its sequence number.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for name, or nil if none exist.
	Latest(ctx context.Context, name string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots for name.
	Prune(ctx context.Context, name string, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// RewardEventData is an audit entry for a points, badge or milestone change.
type RewardEventData struct {
	Kind        string
	Points      int
	Total       int
	BadgeID     string
	MilestoneID string
	SessionID   string
	Reason      string
}

// RewardEventRecord is a stored reward event.
type RewardEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RewardEventData
}

// EventRepo provides append and query access to the event log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
	// GetLLMEvent returns nil when no event has the id.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)

	// AppendRewardEvent records a rewards ledger change.
	AppendRewardEvent(ctx context.Context, data RewardEventData) error
	QueryRewardEvents(ctx context.Context, opts QueryOpts) ([]RewardEventRecord, error)
}
