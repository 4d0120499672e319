package stores

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pacfix/pacfix/pkg/engine"
)

// Recorder adapts a Store to the engine's Recorder interface, binding
// one resolution run to one runs row.
type Recorder struct {
	store Store
	runID string
}

// NewRecorder creates a recorder writing to the given store. The run ID
// is allocated up front so it can also label the report header.
func NewRecorder(store Store) *Recorder {
	return &Recorder{
		store: store,
		runID: uuid.NewString(),
	}
}

// RunID returns the identifier of the recorded run.
func (r *Recorder) RunID() string {
	return r.runID
}

// RunStarted implements engine.Recorder.
func (r *Recorder) RunStarted(ctx context.Context, target string) error {
	now := time.Now().UTC()
	return r.store.CreateRun(ctx, &Run{
		ID:        r.runID,
		Target:    target,
		Status:    RunStatusRunning,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Event implements engine.Recorder.
func (r *Recorder) Event(ctx context.Context, level, message string) error {
	return r.store.AppendEvent(ctx, &Event{
		RunID:     r.runID,
		Level:     EventLevel(level),
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// RunFinished implements engine.Recorder.
func (r *Recorder) RunFinished(ctx context.Context, status engine.ProcedureStatus, runErr error) error {
	final := string(status)
	runStatus := RunStatusCompleted
	var errText *string
	if runErr != nil {
		runStatus = RunStatusFailed
		msg := runErr.Error()
		errText = &msg
	}
	return r.store.FinishRun(ctx, r.runID, runStatus, &final, errText)
}
