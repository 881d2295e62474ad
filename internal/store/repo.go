package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("not found")

// QueryOpts configures history queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // LLM events only; empty matches all
}

// RunStatus says what a fill run did with its dataset.
type RunStatus string

const (
	RunWritten   RunStatus = "written"   // dataset rewritten on disk
	RunUnchanged RunStatus = "unchanged" // nothing to append
	RunDryRun    RunStatus = "dry-run"   // computed but not written
	RunAborted   RunStatus = "aborted"   // refused, e.g. strict mode with a shortfall
)

// Run is the persisted summary of one fill invocation.
type Run struct {
	ID          string
	Sequence    int64
	Timestamp   time.Time
	DatasetPath string
	Quota       int
	Skills      int
	Satisfied   int
	Added       int
	Conflicts   int
	Shortfall   int
	Status      RunStatus

	// Outcomes is only populated by RunRepo.Get.
	Outcomes []RunSkill
}

// RunSkill records one below-quota skill of a run.
type RunSkill struct {
	SkillID   string
	Prior     int
	Post      int
	Added     []string
	Conflicts []string
	Shortfall int
}

// RunRepo persists fill run history.
type RunRepo interface {
	// Append stores a run and its outcomes. ID, Sequence and Timestamp
	// are assigned when zero.
	Append(ctx context.Context, run *Run) error

	// List returns runs newest first, without outcomes.
	List(ctx context.Context, opts QueryOpts) ([]Run, error)

	// Get returns the run whose ID equals or starts with idPrefix.
	// Returns ErrNotFound when nothing matches and an error when the
	// prefix is ambiguous.
	Get(ctx context.Context, idPrefix string) (*Run, error)

	// Prune deletes all but the keep most recent runs and returns the
	// number removed.
	Prune(ctx context.Context, keep int) (int, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	Subject      string // the item the request drafts, e.g. "skill/exercise-adv-007"
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
