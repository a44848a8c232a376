package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type fakeStage struct {
	name  string
	apply func(turn *Context) error
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Apply(_ context.Context, turn *Context) error {
	return s.apply(turn)
}

type fakeGate struct {
	fakeStage
	verdict func(turn *Context) bool
}

func (g *fakeGate) Verdict(turn *Context) bool { return g.verdict(turn) }

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

func newTurn(session uuid.UUID) *Context {
	return NewContext(session, uuid.New(), "Mia", 8, "how do magnets work?")
}

func TestProcess_RunsAllStagesInOrder(t *testing.T) {
	var order []string
	mk := func(name string) Stage {
		return &fakeStage{name: name, apply: func(turn *Context) error {
			order = append(order, name)
			turn.ResponseText += name + ";"
			return nil
		}}
	}
	o := NewOrchestrator(newTestLogger(t), []Stage{mk("a"), mk("b"), mk("c")})

	session := uuid.New()
	resp, _, err := o.Process(context.Background(), newTurn(session))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "a;b;c;" {
		t.Fatalf("unexpected response %q", resp)
	}
	if len(order) != 3 || order[0] != "a" || order[2] != "c" {
		t.Fatalf("stages ran out of order: %v", order)
	}
	if got := o.GetSessionStatus(session); got != StatusCompleted {
		t.Fatalf("status = %s, want %s", got, StatusCompleted)
	}
}

func TestProcess_GateBlocksAndSkipsLaterStages(t *testing.T) {
	sideEffects := 0
	gate := &fakeGate{
		fakeStage: fakeStage{name: "safety", apply: func(turn *Context) error {
			turn.ResponseText = "Let's talk about something fun instead!"
			turn.SafetyFlags = append(turn.SafetyFlags, "dangerous:blocked_term")
			return nil
		}},
		verdict: func(*Context) bool { return false },
	}
	tracker := &fakeStage{name: "progress_tracker", apply: func(turn *Context) error {
		sideEffects++
		return nil
	}}
	o := NewOrchestrator(newTestLogger(t), []Stage{gate, tracker})

	session := uuid.New()
	resp, _, err := o.Process(context.Background(), newTurn(session))
	if err != nil {
		t.Fatalf("blocked turn must not error: %v", err)
	}
	if resp != "Let's talk about something fun instead!" {
		t.Fatalf("expected redirect as response, got %q", resp)
	}
	if sideEffects != 0 {
		t.Fatalf("later stage ran %d times after block", sideEffects)
	}
	if got := o.GetSessionStatus(session); got != StatusSafetyBlocked {
		t.Fatalf("status = %s, want %s", got, StatusSafetyBlocked)
	}
}

func TestProcess_StageErrorDiscardsPartialResponse(t *testing.T) {
	boom := errors.New("collaborator offline")
	ok := &fakeStage{name: "model_respond", apply: func(turn *Context) error {
		turn.ResponseText = "half-finished answer"
		return nil
	}}
	bad := &fakeStage{name: "adaptation", apply: func(*Context) error { return boom }}
	o := NewOrchestrator(newTestLogger(t), []Stage{ok, bad})

	session := uuid.New()
	resp, meta, err := o.Process(context.Background(), newTurn(session))
	if resp != "" || meta != nil {
		t.Fatalf("partial results leaked: %q %v", resp, meta)
	}
	var stageErr *StageExecutionError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageExecutionError, got %v", err)
	}
	if stageErr.Stage != "adaptation" || !errors.Is(err, boom) {
		t.Fatalf("error lost stage or cause: %v", err)
	}
	if got := o.GetSessionStatus(session); got != StatusError {
		t.Fatalf("status = %s, want %s", got, StatusError)
	}
}

func TestProcess_PanicFailsClosed(t *testing.T) {
	panicky := &fakeStage{name: "safety", apply: func(*Context) error {
		panic("regex blew up")
	}}
	o := NewOrchestrator(newTestLogger(t), []Stage{panicky})

	session := uuid.New()
	resp, _, err := o.Process(context.Background(), newTurn(session))
	if err == nil {
		t.Fatal("panicking stage must surface an error, never safe")
	}
	if resp != "" {
		t.Fatalf("panicking turn returned a response: %q", resp)
	}
	if got := o.GetSessionStatus(session); got != StatusError {
		t.Fatalf("status = %s, want %s", got, StatusError)
	}
}

func TestSessionStatus_Lifecycle(t *testing.T) {
	o := NewOrchestrator(newTestLogger(t), nil)
	if got := o.GetSessionStatus(uuid.New()); got != StatusIdle {
		t.Fatalf("unknown session status = %s, want %s", got, StatusIdle)
	}

	session := uuid.New()
	if _, _, err := o.Process(context.Background(), newTurn(session)); err != nil {
		t.Fatalf("empty pipeline should complete: %v", err)
	}
	if got := o.GetSessionStatus(session); got != StatusCompleted {
		t.Fatalf("status = %s, want %s", got, StatusCompleted)
	}

	o.CleanupSession(session)
	if got := o.GetSessionStatus(session); got != StatusIdle {
		t.Fatalf("cleaned session status = %s, want %s", got, StatusIdle)
	}
}

func TestProcess_ConcurrentSessionsAreIndependent(t *testing.T) {
	gate := &fakeGate{
		fakeStage: fakeStage{name: "safety", apply: func(turn *Context) error {
			if turn.InputText == "blocked" {
				turn.ResponseText = "redirect"
			}
			return nil
		}},
		verdict: func(turn *Context) bool { return turn.InputText != "blocked" },
	}
	o := NewOrchestrator(newTestLogger(t), []Stage{gate})

	okSession := uuid.New()
	blockedSession := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		session, input := okSession, "fine"
		if i%2 == 1 {
			session, input = blockedSession, "blocked"
		}
		go func(session uuid.UUID, input string) {
			defer wg.Done()
			turn := newTurn(session)
			turn.InputText = input
			_, _, _ = o.Process(context.Background(), turn)
		}(session, input)
	}
	wg.Wait()

	if got := o.GetSessionStatus(okSession); got != StatusCompleted {
		t.Fatalf("ok session status = %s, want %s", got, StatusCompleted)
	}
	if got := o.GetSessionStatus(blockedSession); got != StatusSafetyBlocked {
		t.Fatalf("blocked session status = %s, want %s", got, StatusSafetyBlocked)
	}
}
