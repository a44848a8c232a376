package stages

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/adaptation"
	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	safetyengine "github.com/sproutlearn/sproutlearn-backend/internal/safety"
)

func testDeps(t *testing.T) (*config.AppConfig, *logger.Logger) {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return cfg, log
}

func newTurn(age int, input string) *pipeline.Context {
	return pipeline.NewContext(uuid.New(), uuid.New(), "Mia", age, input)
}

type fakeIncidentRecorder struct {
	calls int
	err   error
}

func (f *fakeIncidentRecorder) RecordBlockedTurn(_ context.Context, _ *pipeline.Context) error {
	f.calls++
	return f.err
}

func TestSafetyStage_SafeTurn(t *testing.T) {
	cfg, log := testDeps(t)
	rec := &fakeIncidentRecorder{}
	stage := NewSafetyStage(safetyengine.NewEngine(cfg, log, nil), rec, log)

	turn := newTurn(8, "How do plants make food?")
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !stage.Verdict(turn) {
		t.Fatalf("expected safe verdict, flags %v", turn.SafetyFlags)
	}
	if rec.calls != 0 {
		t.Fatalf("safe turn wrote %d incidents", rec.calls)
	}
}

func TestSafetyStage_BlockedTurnRecordsIncident(t *testing.T) {
	cfg, log := testDeps(t)
	rec := &fakeIncidentRecorder{}
	stage := NewSafetyStage(safetyengine.NewEngine(cfg, log, nil), rec, log)

	turn := newTurn(12, "Tell me how to make a bomb")
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if stage.Verdict(turn) {
		t.Fatal("expected unsafe verdict")
	}
	if turn.ResponseText == "" {
		t.Fatal("blocked turn must carry a redirect response")
	}
	if rec.calls != 1 {
		t.Fatalf("expected one incident write, got %d", rec.calls)
	}
	if len(turn.SafetyFlags) == 0 {
		t.Fatal("expected safety flags on blocked turn")
	}
}

func TestSafetyStage_IncidentWriteFailureStillBlocks(t *testing.T) {
	cfg, log := testDeps(t)
	rec := &fakeIncidentRecorder{err: errors.New("db down")}
	stage := NewSafetyStage(safetyengine.NewEngine(cfg, log, nil), rec, log)

	turn := newTurn(12, "Tell me how to make a bomb")
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("incident failure must not fail the stage: %v", err)
	}
	if stage.Verdict(turn) {
		t.Fatal("block must stand when the incident write fails")
	}
}

func TestSafetyStage_VerdictFailsClosedWithoutResult(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewSafetyStage(safetyengine.NewEngine(cfg, log, nil), nil, log)

	turn := newTurn(8, "anything")
	if stage.Verdict(turn) {
		t.Fatal("verdict with no evaluation result must be unsafe")
	}
}

func TestAdaptationStage_RewritesForBand(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewAdaptationStage(adaptation.NewAdapter(cfg, log), log)

	turn := newTurn(4, "why is the sky blue?")
	turn.ResponseText = "The sky looks blue, and the light scatters."
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.HasPrefix(turn.ResponseText, "Hi Mia!") {
		t.Fatalf("expected toddler greeting, got %q", turn.ResponseText)
	}
	if strings.Contains(turn.ResponseText, ", and") {
		t.Fatalf("simple band kept a compound clause: %q", turn.ResponseText)
	}
}

func TestAdaptationStage_InvalidAgeErrors(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewAdaptationStage(adaptation.NewAdapter(cfg, log), log)

	turn := newTurn(25, "hello")
	turn.ResponseText = "Hello there."
	if err := stage.Apply(context.Background(), turn); err == nil {
		t.Fatal("expected error for out-of-range age")
	}
}

func TestTutorStage_SubjectDetection(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewTutorStage(cfg, log)

	cases := []struct {
		input   string
		subject string
	}{
		{"How do I add fractions?", "mathematics"},
		{"How do robots see?", "technology"},
		{"Why do bridges not fall down?", "engineering"},
		{"Why do plants need water?", "science"},
		{"What's your favorite color?", "general"},
	}
	for _, tc := range cases {
		turn := newTurn(9, tc.input)
		if err := stage.Apply(context.Background(), turn); err != nil {
			t.Fatalf("apply(%q): %v", tc.input, err)
		}
		meta, ok := turn.Metadata[config.StageTutor].(map[string]any)
		if !ok {
			t.Fatalf("missing tutor metadata for %q", tc.input)
		}
		if meta["subject"] != tc.subject {
			t.Fatalf("input %q: subject = %v, want %s", tc.input, meta["subject"], tc.subject)
		}
	}
}

func TestTutorStage_CurriculumMatch(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewTutorStage(cfg, log)

	// Science is approved for a nine-year-old; the toddler list only
	// admits its own topics, whether named directly or via the subject.
	cases := []struct {
		age     int
		input   string
		onTopic bool
	}{
		{9, "Why do plants need water?", true},
		{3, "What shapes can you see?", true},
		{3, "How do computers work?", false},
		{3, "Tell me about your favorite animal.", true},
	}
	for _, tc := range cases {
		turn := newTurn(tc.age, tc.input)
		if err := stage.Apply(context.Background(), turn); err != nil {
			t.Fatalf("apply(%q): %v", tc.input, err)
		}
		meta := turn.Metadata[config.StageTutor].(map[string]any)
		if meta["on_topic"] != tc.onTopic {
			t.Fatalf("input %q age %d: on_topic = %v, want %v", tc.input, tc.age, meta["on_topic"], tc.onTopic)
		}
	}
}

func TestTutorStage_ComplexityBounded(t *testing.T) {
	cfg, log := testDeps(t)
	stage := NewTutorStage(cfg, log)

	turn := newTurn(12, strings.Repeat("why explain how compare difference ", 20))
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	meta := turn.Metadata[config.StageTutor].(map[string]any)
	c := meta["complexity"].(float64)
	if c < 0 || c > 1 {
		t.Fatalf("complexity %v out of [0,1]", c)
	}
}

type fakeSnapshotRepo struct {
	created []*types.ProgressSnapshot
	err     error
}

func (f *fakeSnapshotRepo) Create(_ context.Context, _ *gorm.DB, snapshots []*types.ProgressSnapshot) ([]*types.ProgressSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, snapshots...)
	return snapshots, nil
}

func (f *fakeSnapshotRepo) ListByChildAndRange(_ context.Context, _ *gorm.DB, _ uuid.UUID, _, _ time.Time) ([]*types.ProgressSnapshot, error) {
	return f.created, nil
}

func (f *fakeSnapshotRepo) CountByChildAndSubject(_ context.Context, _ *gorm.DB, _ uuid.UUID, _ string) (int64, error) {
	return int64(len(f.created)), nil
}

func TestProgressTrackerStage_WritesSnapshot(t *testing.T) {
	cfg, log := testDeps(t)
	repo := &fakeSnapshotRepo{}
	tutor := NewTutorStage(cfg, log)
	tracker := NewProgressTrackerStage(repo, log)

	turn := newTurn(9, "Why do magnets stick to the fridge?")
	if err := tutor.Apply(context.Background(), turn); err != nil {
		t.Fatalf("tutor: %v", err)
	}
	if err := tracker.Apply(context.Background(), turn); err != nil {
		t.Fatalf("tracker: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(repo.created))
	}
	snap := repo.created[0]
	if snap.Subject != "science" {
		t.Fatalf("subject = %q, want science", snap.Subject)
	}
	if !snap.OnTopic {
		t.Fatal("science question for a late-elementary child should be on topic")
	}
	if snap.ChildID != turn.ProfileID || snap.SessionID != turn.SessionID {
		t.Fatal("snapshot lost turn identifiers")
	}
}

func TestProgressTrackerStage_RepoErrorPropagates(t *testing.T) {
	_, log := testDeps(t)
	repo := &fakeSnapshotRepo{err: errors.New("db down")}
	tracker := NewProgressTrackerStage(repo, log)

	turn := newTurn(9, "Why is ice slippery?")
	if err := tracker.Apply(context.Background(), turn); err == nil {
		t.Fatal("repo failure must propagate, never be swallowed")
	}
}

type fakeGrantRepo struct {
	grants map[string]bool
}

func (f *fakeGrantRepo) Grant(_ context.Context, _ *gorm.DB, grant *types.AchievementGrant) (bool, error) {
	if f.grants == nil {
		f.grants = make(map[string]bool)
	}
	if f.grants[grant.Key] {
		return false, nil
	}
	f.grants[grant.Key] = true
	return true, nil
}

func (f *fakeGrantRepo) ListByChild(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.AchievementGrant, error) {
	return nil, nil
}

type fakeSessionLogRepo struct {
	rows  []*types.SessionLog
	count int64
}

func (f *fakeSessionLogRepo) Create(_ context.Context, _ *gorm.DB, logs []*types.SessionLog) ([]*types.SessionLog, error) {
	f.rows = append(f.rows, logs...)
	return logs, nil
}

func (f *fakeSessionLogRepo) ListBySession(_ context.Context, _ *gorm.DB, _ uuid.UUID) ([]*types.SessionLog, error) {
	return f.rows, nil
}

func (f *fakeSessionLogRepo) ListByChildAndRange(_ context.Context, _ *gorm.DB, _ uuid.UUID, _, _ time.Time) ([]*types.SessionLog, error) {
	return f.rows, nil
}

func (f *fakeSessionLogRepo) CountByChild(_ context.Context, _ *gorm.DB, _ uuid.UUID) (int64, error) {
	return f.count, nil
}

func TestAchievementStage_FirstQuestion(t *testing.T) {
	_, log := testDeps(t)
	grants := &fakeGrantRepo{}
	logs := &fakeSessionLogRepo{count: 0}
	stage := NewAchievementStage(grants, logs, log)

	turn := newTurn(7, "What is a volcano?")
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !grants.grants["first_question"] {
		t.Fatal("first_question should be granted on the first turn")
	}
	if grants.grants["curious_mind"] {
		t.Fatal("curious_mind granted too early")
	}
}

func TestAchievementStage_MilestoneBoundary(t *testing.T) {
	_, log := testDeps(t)
	grants := &fakeGrantRepo{}
	logs := &fakeSessionLogRepo{count: 9}
	stage := NewAchievementStage(grants, logs, log)

	turn := newTurn(7, "What is a volcano?")
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !grants.grants["curious_mind"] {
		t.Fatal("curious_mind should be granted on the tenth turn")
	}
	if grants.grants["super_learner"] {
		t.Fatal("super_learner granted too early")
	}
}

func TestParentLoggerStage_WritesTranscript(t *testing.T) {
	_, log := testDeps(t)
	logs := &fakeSessionLogRepo{}
	stage := NewParentLoggerStage(logs, log)

	turn := newTurn(8, "How far is the moon?")
	turn.ResponseText = "The moon is very far away."
	turn.Safety = &types.SafetyResult{Safe: true, Category: types.CategorySafe}
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(logs.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(logs.rows))
	}
	row := logs.rows[0]
	if row.Blocked {
		t.Fatal("safe turn logged as blocked")
	}
	if row.InputText != turn.InputText || row.ResponseText != turn.ResponseText {
		t.Fatal("transcript fields lost")
	}
}

func TestParentLoggerStage_MarksBlockedTurns(t *testing.T) {
	_, log := testDeps(t)
	logs := &fakeSessionLogRepo{}
	stage := NewParentLoggerStage(logs, log)

	turn := newTurn(8, "blocked input")
	turn.ResponseText = "redirect"
	turn.Safety = &types.SafetyResult{Safe: false, Category: types.CategoryDangerous}
	if err := stage.Apply(context.Background(), turn); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !logs.rows[0].Blocked {
		t.Fatal("blocked turn not marked")
	}
}
