package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/observability"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type sessionState struct {
	status    Status
	updatedAt time.Time
}

// Orchestrator runs the configured stage list over a turn context.
// The per-session status map is the only shared mutable state; it is
// guarded by a mutex so concurrent turns on different sessions are
// safe. Stage lists and configuration are read-only after construction.
type Orchestrator struct {
	log    *logger.Logger
	stages []Stage

	mu       sync.Mutex
	sessions map[uuid.UUID]sessionState
}

func NewOrchestrator(log *logger.Logger, stages []Stage) *Orchestrator {
	return &Orchestrator{
		log:      log.With("component", "PipelineOrchestrator"),
		stages:   stages,
		sessions: make(map[uuid.UUID]sessionState),
	}
}

// Process runs every stage in order over the turn. A failing stage
// moves the session to Error and the partial response is discarded.
// A false gate verdict moves the session to SafetyBlocked and the
// redirect text already placed in the context becomes the response.
func (o *Orchestrator) Process(ctx context.Context, turn *Context) (response string, meta map[string]any, err error) {
	metrics := observability.Get()
	o.setStatus(turn.SessionID, StatusProcessing)
	metrics.TurnStarted()
	defer metrics.TurnFinished()

	defer func() {
		if r := recover(); r != nil {
			o.setStatus(turn.SessionID, StatusError)
			metrics.IncTurn(string(StatusError))
			o.log.Error("pipeline panic", "session_id", turn.SessionID, "panic", fmt.Sprint(r))
			response, meta = "", nil
			err = &StageExecutionError{Stage: "unknown", Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for _, stage := range o.stages {
		started := time.Now()
		if applyErr := stage.Apply(ctx, turn); applyErr != nil {
			metrics.ObserveStage(stage.Name(), "error", time.Since(started).Seconds())
			o.setStatus(turn.SessionID, StatusError)
			metrics.IncTurn(string(StatusError))
			o.log.Error("stage failed",
				"session_id", turn.SessionID,
				"stage", stage.Name(),
				"error", applyErr.Error(),
			)
			return "", nil, &StageExecutionError{Stage: stage.Name(), Err: applyErr}
		}
		metrics.ObserveStage(stage.Name(), "ok", time.Since(started).Seconds())

		if gate, ok := stage.(Gate); ok && !gate.Verdict(turn) {
			o.setStatus(turn.SessionID, StatusSafetyBlocked)
			metrics.IncTurn(string(StatusSafetyBlocked))
			o.log.Warn("turn blocked",
				"session_id", turn.SessionID,
				"stage", stage.Name(),
				"flags", turn.SafetyFlags,
			)
			return turn.ResponseText, turn.Metadata, nil
		}
	}

	o.setStatus(turn.SessionID, StatusCompleted)
	metrics.IncTurn(string(StatusCompleted))
	return turn.ResponseText, turn.Metadata, nil
}

// GetSessionStatus returns the pipeline state for a session, Idle when
// the session has never been processed or was cleaned up.
func (o *Orchestrator) GetSessionStatus(sessionID uuid.UUID) Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	if s, ok := o.sessions[sessionID]; ok {
		return s.status
	}
	return StatusIdle
}

// CleanupSession drops a session's status entry. Long-lived servers
// call this when a session ends to keep the map bounded.
func (o *Orchestrator) CleanupSession(sessionID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.sessions, sessionID)
}

func (o *Orchestrator) setStatus(sessionID uuid.UUID, status Status) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sessions[sessionID] = sessionState{status: status, updatedAt: time.Now().UTC()}
}
