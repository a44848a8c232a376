package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

type fakeChildRepo struct {
	byID map[uuid.UUID]*types.ChildProfile
}

func newFakeChildRepo(children ...*types.ChildProfile) *fakeChildRepo {
	m := make(map[uuid.UUID]*types.ChildProfile)
	for _, c := range children {
		m[c.ID] = c
	}
	return &fakeChildRepo{byID: m}
}

func (f *fakeChildRepo) Create(_ context.Context, _ *gorm.DB, profiles []*types.ChildProfile) ([]*types.ChildProfile, error) {
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return profiles, nil
}

func (f *fakeChildRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.ChildProfile, error) {
	var out []*types.ChildProfile
	for _, id := range ids {
		if c, ok := f.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChildRepo) ListByParent(_ context.Context, _ *gorm.DB, parentID uuid.UUID) ([]*types.ChildProfile, error) {
	var out []*types.ChildProfile
	for _, c := range f.byID {
		if c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChildRepo) UpdateAge(_ context.Context, _ *gorm.DB, id uuid.UUID, age int) error {
	if c, ok := f.byID[id]; ok {
		c.Age = age
	}
	return nil
}

func (f *fakeChildRepo) UpdateName(_ context.Context, _ *gorm.DB, id uuid.UUID, name string) error {
	if c, ok := f.byID[id]; ok {
		c.Name = name
	}
	return nil
}

func (f *fakeChildRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type echoStage struct{}

func (echoStage) Name() string { return config.StageModelRespond }

func (echoStage) Apply(_ context.Context, turn *pipeline.Context) error {
	turn.ResponseText = "echo: " + turn.InputText
	return nil
}

func TestTurnService_ProcessTurn(t *testing.T) {
	log := testLogger(t)
	child := &types.ChildProfile{ID: uuid.New(), ParentID: uuid.New(), Name: "Mia", Age: 8}
	repo := newFakeChildRepo(child)
	orch := pipeline.NewOrchestrator(log, []pipeline.Stage{echoStage{}})
	svc := NewTurnService(log, repo, orch)

	res, err := svc.ProcessTurn(context.Background(), TurnRequest{
		SessionID: uuid.New(),
		ProfileID: child.ID,
		InputText: "How do magnets work?",
	})
	if err != nil {
		t.Fatalf("process turn: %v", err)
	}
	if res.ResponseText != "echo: How do magnets work?" {
		t.Fatalf("unexpected response %q", res.ResponseText)
	}
	if res.Blocked {
		t.Fatal("turn should not be blocked")
	}
	if res.Status != pipeline.StatusCompleted {
		t.Fatalf("status = %s, want %s", res.Status, pipeline.StatusCompleted)
	}
}

func TestTurnService_EmptyInputRejected(t *testing.T) {
	log := testLogger(t)
	svc := NewTurnService(log, newFakeChildRepo(), pipeline.NewOrchestrator(log, nil))

	_, err := svc.ProcessTurn(context.Background(), TurnRequest{
		SessionID: uuid.New(),
		ProfileID: uuid.New(),
		InputText: "   ",
	})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestTurnService_UnknownProfile(t *testing.T) {
	log := testLogger(t)
	svc := NewTurnService(log, newFakeChildRepo(), pipeline.NewOrchestrator(log, nil))

	_, err := svc.ProcessTurn(context.Background(), TurnRequest{
		SessionID: uuid.New(),
		ProfileID: uuid.New(),
		InputText: "hello",
	})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProfileService_AgeValidation(t *testing.T) {
	log := testLogger(t)
	svc := NewProfileService(log, newFakeChildRepo())
	parentID := uuid.New()

	if _, err := svc.CreateChild(context.Background(), parentID, "Sam", 1); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("age 1 should be rejected, got %v", err)
	}
	if _, err := svc.CreateChild(context.Background(), parentID, "Sam", 19); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("age 19 should be rejected, got %v", err)
	}
	child, err := svc.CreateChild(context.Background(), parentID, "Sam", 2)
	if err != nil {
		t.Fatalf("age 2 should be accepted: %v", err)
	}
	if child.Age != 2 {
		t.Fatalf("age = %d", child.Age)
	}
}

func TestProfileService_OwnershipEnforced(t *testing.T) {
	log := testLogger(t)
	repo := newFakeChildRepo()
	svc := NewProfileService(log, repo)

	owner := uuid.New()
	child, err := svc.CreateChild(context.Background(), owner, "Mia", 9)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetChild(context.Background(), uuid.New(), child.ID); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for other parent, got %v", err)
	}
	if err := svc.UpdateChildAge(context.Background(), uuid.New(), child.ID, 10); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized update, got %v", err)
	}
	if err := svc.UpdateChildAge(context.Background(), owner, child.ID, 10); err != nil {
		t.Fatalf("owner update: %v", err)
	}
}

type fakeParentRepo struct {
	byEmail map[string]*types.ParentAccount
}

func newFakeParentRepo() *fakeParentRepo {
	return &fakeParentRepo{byEmail: make(map[string]*types.ParentAccount)}
}

func (f *fakeParentRepo) Create(_ context.Context, _ *gorm.DB, accounts []*types.ParentAccount) ([]*types.ParentAccount, error) {
	for _, a := range accounts {
		f.byEmail[a.Email] = a
	}
	return accounts, nil
}

func (f *fakeParentRepo) GetByIDs(_ context.Context, _ *gorm.DB, ids []uuid.UUID) ([]*types.ParentAccount, error) {
	var out []*types.ParentAccount
	for _, a := range f.byEmail {
		for _, id := range ids {
			if a.ID == id {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func (f *fakeParentRepo) GetByEmail(_ context.Context, _ *gorm.DB, email string) (*types.ParentAccount, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeParentRepo) EmailExists(_ context.Context, _ *gorm.DB, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeParentRepo) UpdatePINHash(_ context.Context, _ *gorm.DB, id uuid.UUID, pinHash string) error {
	for _, a := range f.byEmail {
		if a.ID == id {
			a.PINHash = pinHash
		}
	}
	return nil
}

func TestParentAuth_RegisterLoginRoundTrip(t *testing.T) {
	log := testLogger(t)
	svc, err := NewParentAuthService(log, newFakeParentRepo(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	account, err := svc.Register(context.Background(), "Parent@Example.com", "1234")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if account.Email != "parent@example.com" {
		t.Fatalf("email not normalized: %q", account.Email)
	}

	token, err := svc.Login(context.Background(), "parent@example.com", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	parentID, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if parentID != account.ID {
		t.Fatalf("token subject %s, want %s", parentID, account.ID)
	}
}

func TestParentAuth_WrongPIN(t *testing.T) {
	log := testLogger(t)
	svc, err := NewParentAuthService(log, newFakeParentRepo(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Register(context.Background(), "p@example.com", "1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(context.Background(), "p@example.com", "9999"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "missing@example.com", "1234"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}
}

func TestParentAuth_InvalidPINFormat(t *testing.T) {
	log := testLogger(t)
	svc, err := NewParentAuthService(log, newFakeParentRepo(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if _, err := svc.Register(context.Background(), "p@example.com", "12"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("short pin accepted: %v", err)
	}
	if _, err := svc.Register(context.Background(), "p@example.com", "abcd"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("alpha pin accepted: %v", err)
	}
}

func TestParentAuth_TamperedTokenRejected(t *testing.T) {
	log := testLogger(t)
	svc, err := NewParentAuthService(log, newFakeParentRepo(), "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	other, err := NewParentAuthService(log, newFakeParentRepo(), "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Register(context.Background(), "p@example.com", "1234"); err != nil {
		t.Fatalf("register: %v", err)
	}
	token, err := svc.Login(context.Background(), "p@example.com", "1234")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := other.ParseToken(token); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("token from other secret accepted: %v", err)
	}
}
