package job

import (
	"strings"

	"github.com/tanhanwei/steamseek/internal/domain"
)

// State is the lifecycle state of a deep-search job.
type State string

// Job states.
const (
	Idle      State = "idle"
	Running   State = "running"
	Completed State = "completed"
	Failed    State = "failed"
)

// Terminal reports whether the state is Completed or Failed.
func (s State) Terminal() bool {
	return s == Completed || s == Failed
}

// Record tracks one deep-search execution. Records are owned exclusively by
// the job store; callers only ever see snapshot copies. SessionID is the
// sole authority for staleness: a background task whose captured session id
// no longer matches the stored record must abandon work.
type Record struct {
	SessionID     string
	OriginalQuery string
	State         State
	Progress      int
	CurrentStep   string
	Results       []domain.GameResult
	Narrative     string
	Err           string
	ResultsServed bool
}

// Clone returns a deep copy safe to hand to a caller.
func (r Record) Clone() Record {
	out := r
	if r.Results != nil {
		out.Results = make([]domain.GameResult, len(r.Results))
		copy(out.Results, r.Results)
	}
	return out
}

// MatchesQuery reports whether the record was created for the given query,
// compared case-insensitively on the trimmed text.
func (r Record) MatchesQuery(query string) bool {
	return strings.EqualFold(strings.TrimSpace(r.OriginalQuery), strings.TrimSpace(query))
}

// Status is the poll-friendly view of a record. Result payloads are never
// included, only a count, to keep poll responses small.
type Status struct {
	State           State  `json:"state"`
	Progress        int    `json:"progress"`
	CurrentStep     string `json:"current_step"`
	ResultCount     int    `json:"result_count"`
	NarrativeReady  bool   `json:"narrative_ready"`
	ReadyForViewing bool   `json:"ready_for_viewing"`
	Err             string `json:"error,omitempty"`
}

// StatusOf builds the poll snapshot for a record.
func StatusOf(r Record) Status {
	return Status{
		State:           r.State,
		Progress:        r.Progress,
		CurrentStep:     r.CurrentStep,
		ResultCount:     len(r.Results),
		NarrativeReady:  r.Narrative != "",
		ReadyForViewing: r.State == Completed && !r.ResultsServed,
		Err:             r.Err,
	}
}
