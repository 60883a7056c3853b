package operations

import (
	"sync"
	"time"
)

// RunStatus represents the overall status of a pipeline run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// Context keys for data passed between steps
const (
	ContextKeyRawTeams  = "raw_teams"
	ContextKeyRawGames  = "raw_games"
	ContextKeyTeams     = "clean_teams"
	ContextKeyGames     = "clean_games"
	ContextKeyEnriched  = "enriched_games"
	ContextKeyTeamStats = "team_stats"
)

// RunState represents the complete state of a pipeline run
type RunState struct {
	mu sync.RWMutex

	ID        string     `json:"id"`
	Status    RunStatus  `json:"status"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Step states keyed by step ID
	Steps map[string]*StepState `json:"steps"`

	// Run context for passing tables between steps
	Context map[string]interface{} `json:"-"`

	// Error if the run failed
	Error error `json:"error,omitempty"`
}

// NewRunState creates a new run state
func NewRunState(id string) *RunState {
	return &RunState{
		ID:        id,
		Status:    RunStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		Context:   make(map[string]interface{}),
	}
}

// Start marks the run as running
func (r *RunState) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = RunStatusRunning
	r.StartTime = time.Now()
}

// Complete marks the run as completed
func (r *RunState) Complete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCompleted
}

// Fail marks the run as failed
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusFailed
	r.Error = err
}

// Cancel marks the run as cancelled
func (r *RunState) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.EndTime = &now
	r.Status = RunStatusCancelled
}

// GetStep returns the state of a specific step
func (r *RunState) GetStep(stepID string) *StepState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Steps[stepID]
}

// SetStep updates the state of a specific step
func (r *RunState) SetStep(stepID string, state *StepState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Steps[stepID] = state
}

// GetContext retrieves a value from the run context
func (r *RunState) GetContext(key string) (interface{}, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	val, ok := r.Context[key]
	return val, ok
}

// SetContext sets a value in the run context
func (r *RunState) SetContext(key string, value interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Context[key] = value
}

// Duration returns the duration of the run
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.EndTime != nil {
		return r.EndTime.Sub(r.StartTime)
	}
	return time.Since(r.StartTime)
}

// CurrentStatus returns the run status under the read lock
func (r *RunState) CurrentStatus() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Status
}

// RunSnapshot is an immutable copy of a run's state, safe to serialize
// while the run is still in progress
type RunSnapshot struct {
	ID        string                  `json:"id"`
	Status    RunStatus               `json:"status"`
	StartTime time.Time               `json:"start_time"`
	EndTime   *time.Time              `json:"end_time,omitempty"`
	Duration  string                  `json:"duration"`
	Steps     map[string]StepSnapshot `json:"steps"`
	Error     string                  `json:"error,omitempty"`
}

// Snapshot copies the run state under the read lock
func (r *RunState) Snapshot() RunSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := RunSnapshot{
		ID:        r.ID,
		Status:    r.Status,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Steps:     make(map[string]StepSnapshot, len(r.Steps)),
	}
	if r.EndTime != nil {
		snap.Duration = r.EndTime.Sub(r.StartTime).String()
	} else {
		snap.Duration = time.Since(r.StartTime).String()
	}
	if r.Error != nil {
		snap.Error = r.Error.Error()
	}
	for id, step := range r.Steps {
		snap.Steps[id] = step.Snapshot()
	}
	return snap
}

// HasFailures returns true if any step has failed
func (r *RunState) HasFailures() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, step := range r.Steps {
		if step.CurrentStatus() == StepStatusFailed {
			return true
		}
	}
	return false
}
