package ledger

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a transformation request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// Outcome records how a completed request produced its output file.
type Outcome string

const (
	// OutcomeTransformed means the processor produced a genre-shifted file.
	OutcomeTransformed Outcome = "transformed"
	// OutcomeFallbackCopy means the processor failed and the output is a
	// verbatim copy of the source artifact.
	OutcomeFallbackCopy Outcome = "fallback_copy"
)

// Artifact is an uploaded audio file persisted in SQLite.
type Artifact struct {
	ID            int64
	StoredName    string
	OriginalName  string
	Path          string
	SizeBytes     int64
	ContentType   string
	DetectedGenre string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Request is a transformation request persisted in SQLite.
type Request struct {
	ID           int64
	ArtifactID   int64
	Genre        string
	Status       Status
	Outcome      Outcome
	OutputPath   string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// HealthSummary describes aggregated request counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Fallbacks  int
}

// DatabaseHealth captures diagnostic information about the ledger database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalRequests    int
	Error            string
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether the status ends the request lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// IsProcessing returns true while the request is in flight.
func (r Request) IsProcessing() bool {
	return r.Status == StatusProcessing
}

// ReusableOutput reports whether a request's output can satisfy a later
// request for the same artifact and genre without re-running the processor.
func (r Request) ReusableOutput() bool {
	return r.Status == StatusCompleted && strings.TrimSpace(r.OutputPath) != ""
}

// SetProcessing marks the request as in flight.
func (r *Request) SetProcessing(now time.Time) {
	r.Status = StatusProcessing
	r.ErrorMessage = ""
	started := now.UTC()
	r.StartedAt = &started
}

// SetCompleted marks the request as finished with the given output and outcome.
func (r *Request) SetCompleted(outputPath string, outcome Outcome, now time.Time) {
	r.Status = StatusCompleted
	r.Outcome = outcome
	r.OutputPath = outputPath
	finished := now.UTC()
	r.FinishedAt = &finished
}

// SetFailed marks the request as failed with the given error message.
func (r *Request) SetFailed(message string, now time.Time) {
	r.Status = StatusFailed
	r.Outcome = ""
	r.OutputPath = ""
	r.ErrorMessage = message
	finished := now.UTC()
	r.FinishedAt = &finished
}
