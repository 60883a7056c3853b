package operations

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nflpulse/internal/infrastructure"
)

// Manager orchestrates pipeline runs. Steps execute sequentially in
// registration order; a step that fails or panics marks its dependents
// skipped, and failures do not abort unrelated steps unless they depend on
// the failed one.
type Manager struct {
	registry *Registry
	logger   *slog.Logger

	mu     sync.RWMutex
	runs   map[string]*RunState
	active string
}

// RunResult summarises a finished run
type RunResult struct {
	ID       string                `json:"id"`
	Status   RunStatus             `json:"status"`
	Duration time.Duration         `json:"duration"`
	Steps    map[string]*StepState `json:"steps"`
	Error    string                `json:"error,omitempty"`
}

// NewManager creates a new run manager
func NewManager(registry *Registry, logger *slog.Logger) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		registry: registry,
		logger:   logger.With(slog.String("component", "run_manager")),
		runs:     make(map[string]*RunState),
	}
}

// RegisterStep registers a step with the manager
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRun returns the state of a run by ID
func (m *Manager) GetRun(id string) (*RunState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[id]
	return run, ok
}

// ActiveRun returns the currently running pipeline, if any
func (m *Manager) ActiveRun() (*RunState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == "" {
		return nil, false
	}
	return m.runs[m.active], true
}

// Execute runs the registered steps as a single pipeline run and blocks
// until it finishes. Only one run may be active at a time.
func (m *Manager) Execute(ctx context.Context) (*RunResult, error) {
	state, err := m.begin()
	if err != nil {
		return nil, err
	}
	return m.run(ctx, state)
}

// Start launches a run in the background and returns its ID immediately.
// Cancelling the supplied context cancels the run.
func (m *Manager) Start(ctx context.Context) (string, error) {
	state, err := m.begin()
	if err != nil {
		return "", err
	}
	go m.run(ctx, state)
	return state.ID, nil
}

// Runs returns a snapshot of every run the manager knows about
func (m *Manager) Runs() []RunSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshots := make([]RunSnapshot, 0, len(m.runs))
	for _, state := range m.runs {
		snapshots = append(snapshots, state.Snapshot())
	}
	return snapshots
}

// begin reserves the active run slot and registers the run state
func (m *Manager) begin() (*RunState, error) {
	runID := uuid.New().String()
	state := NewRunState(runID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != "" {
		return nil, fmt.Errorf("conflict: run %s is already in progress", m.active)
	}
	m.active = runID
	m.runs[runID] = state
	return state, nil
}

func (m *Manager) run(ctx context.Context, state *RunState) (*RunResult, error) {
	runID := state.ID

	defer func() {
		m.mu.Lock()
		m.active = ""
		m.mu.Unlock()
	}()

	steps := m.registry.Steps()

	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.logger.InfoContext(ctx, "run started",
		slog.String("run_id", runID),
		slog.Int("step_count", len(steps)))

	state.Start()

	err := m.executeSequential(ctx, state, steps)

	if err != nil {
		if state.CurrentStatus() != RunStatusCancelled {
			state.Fail(err)
		}
		m.logger.ErrorContext(ctx, "run failed",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
			slog.Duration("duration", state.Duration()))
	} else {
		state.Complete()
		m.logger.InfoContext(ctx, "run completed",
			slog.String("run_id", runID),
			slog.Duration("duration", state.Duration()))
	}

	infrastructure.PipelineRunsTotal.WithLabelValues(string(state.CurrentStatus())).Inc()

	return m.result(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *RunState, steps []Step) error {
	var firstErr error

	for i, step := range steps {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "run cancelled",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "run cancelled")
			state.Cancel()
			return NewCancellationError(step.ID())
		default:
		}

		stepState := state.GetStep(step.ID())
		if stepState.CurrentStatus() == StepStatusSkipped {
			continue
		}

		if dep, ok := m.unmetDependency(state, step); ok {
			m.logger.WarnContext(ctx, "step skipped",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("depends_on", dep))
			stepState.Skip(fmt.Sprintf("dependency %s did not complete", dep))
			continue
		}

		m.logger.InfoContext(ctx, "executing step",
			slog.String("run_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.logger.ErrorContext(ctx, "step failed",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// executeStep runs a single step with panic recovery so a defect in one
// step cannot take down the whole run
func (m *Manager) executeStep(ctx context.Context, state *RunState, step Step) (err error) {
	stepState := state.GetStep(step.ID())

	defer func() {
		if recovered := recover(); recovered != nil {
			err = NewPanicError(step.ID(), recovered)
			stepState.Fail(err)
			m.logger.ErrorContext(ctx, "step panicked",
				slog.String("run_id", state.ID),
				slog.String("step", step.ID()),
				slog.Any("panic", recovered))
		}
	}()

	if verr := step.Validate(state); verr != nil {
		err = NewValidationError(step.ID(), verr.Error())
		stepState.Fail(err)
		return err
	}

	stepState.Start()
	start := time.Now()

	if exErr := step.Execute(ctx, state); exErr != nil {
		err = NewExecutionError(step.ID(), exErr)
		stepState.Fail(err)
		return err
	}

	stepState.Complete()
	infrastructure.PipelineStepDuration.WithLabelValues(step.ID()).Observe(time.Since(start).Seconds())
	m.logger.InfoContext(ctx, "step completed",
		slog.String("run_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", time.Since(start)))

	return nil
}

// unmetDependency reports the first dependency of step that has not completed
func (m *Manager) unmetDependency(state *RunState, step Step) (string, bool) {
	for _, dep := range step.Dependencies() {
		depState := state.GetStep(dep)
		if depState == nil || depState.CurrentStatus() != StepStatusCompleted {
			return dep, true
		}
	}
	return "", false
}

// skipRemaining marks all not yet finished steps as skipped
func (m *Manager) skipRemaining(state *RunState, steps []Step, reason string) {
	for _, step := range steps {
		stepState := state.GetStep(step.ID())
		status := stepState.CurrentStatus()
		if status == StepStatusPending || status == StepStatusActive {
			stepState.Skip(reason)
		}
	}
}

// result builds the response snapshot for a finished run
func (m *Manager) result(state *RunState) *RunResult {
	result := &RunResult{
		ID:       state.ID,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    state.Steps,
	}
	if state.Error != nil {
		result.Error = state.Error.Error()
	}
	return result
}
