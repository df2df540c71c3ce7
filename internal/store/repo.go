package store

import (
	"context"
	"time"

	"github.com/madan-d/classmos/internal/progression"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// LearnerRepo persists learner records keyed by id.
type LearnerRepo interface {
	// Load returns the learner with id or ErrNotFound.
	Load(ctx context.Context, id string) (*progression.Learner, error)

	// LoadVersioned returns the learner and its row version for a later
	// conditional write.
	LoadVersioned(ctx context.Context, id string) (*progression.Learner, int64, error)

	// Save writes l under id unconditionally.
	Save(ctx context.Context, id string, l progression.Learner) error

	// SaveIfVersion writes l only when the stored version still equals
	// expected, returning the new version. Expected 0 means the learner
	// must not exist yet. A mismatch returns ErrConflict.
	SaveIfVersion(ctx context.Context, id string, l progression.Learner, expected int64) (int64, error)

	// List returns every learner ordered by id.
	List(ctx context.Context) ([]progression.Learner, error)

	// Delete removes the learner and all of its lesson paths.
	Delete(ctx context.Context, id string) error
}

// LessonRepo persists one lesson path per learner and course.
type LessonRepo interface {
	// Load returns the path or ErrNotFound.
	Load(ctx context.Context, learnerID, courseID string) (progression.Path, error)

	// Save replaces the stored path.
	Save(ctx context.Context, learnerID, courseID string, path progression.Path) error

	// Courses lists the course ids the learner has a path for.
	Courses(ctx context.Context, learnerID string) ([]string, error)
}

// Course is an authored course with its unit structure.
type Course struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Flag      string                `json:"flag"`
	Code      string                `json:"code"`
	OwnerID   string                `json:"owner_id"`
	Structure progression.Structure `json:"structure"`
	CreatedAt time.Time             `json:"created_at"`
}

// CourseRepo persists courses.
type CourseRepo interface {
	Save(ctx context.Context, c Course) error
	Load(ctx context.Context, id string) (*Course, error)
	FindByCode(ctx context.Context, code string) (*Course, error)
	List(ctx context.Context) ([]Course, error)
}

// ProgressEventData captures one committed session.
type ProgressEventData struct {
	SessionID           string
	LearnerID           string
	CourseID            string
	LessonID            int
	Score               int
	TotalQuestions      int
	Passed              bool
	Practice            bool
	EffectiveExperience int
	RatingDelta         float64
	LeveledUp           []string
	Timestamp           time.Time
}

// ProgressEvent is a stored ProgressEventData.
type ProgressEvent struct {
	ID       int
	Sequence int64
	ProgressEventData
}

// LifeReason labels a change to a learner's lives.
type LifeReason string

const (
	LifeRegenerated LifeReason = "regenerated"
	LifeLost        LifeReason = "lost"
	LifeRecovered   LifeReason = "recovered"
)

// LifeEventData captures a change to a learner's lives.
type LifeEventData struct {
	LearnerID   string
	Reason      LifeReason
	LivesBefore int
	LivesAfter  int
	Timestamp   time.Time
}

// LifeEvent is a stored LifeEventData.
type LifeEvent struct {
	ID       int
	Sequence int64
	LifeEventData
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

// LLMEvent is a stored LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendProgress records a committed session outside of SaveProgress.
	AppendProgress(ctx context.Context, data ProgressEventData) error

	// QueryProgress returns a learner's session events, newest first.
	// An empty learnerID returns events for everyone.
	QueryProgress(ctx context.Context, learnerID string, opts QueryOpts) ([]ProgressEvent, error)

	// AppendLife records a change to a learner's lives.
	AppendLife(ctx context.Context, data LifeEventData) error

	// QueryLife returns a learner's life events, newest first.
	QueryLife(ctx context.Context, learnerID string, opts QueryOpts) ([]LifeEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}
