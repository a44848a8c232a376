package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	apperrors "github.com/sproutlearn/sproutlearn-backend/internal/pkg/errors"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type TurnRequest struct {
	SessionID uuid.UUID
	ProfileID uuid.UUID
	InputText string
}

type TurnResult struct {
	ResponseText string          `json:"response_text"`
	Blocked      bool            `json:"blocked"`
	Status       pipeline.Status `json:"status"`
	SafetyFlags  []string        `json:"safety_flags,omitempty"`
	Metadata     map[string]any  `json:"metadata,omitempty"`
}

// TurnService resolves the child profile and runs one turn through the
// pipeline. It is the single entry point the HTTP layer calls.
type TurnService interface {
	ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error)
	SessionStatus(sessionID uuid.UUID) pipeline.Status
	EndSession(sessionID uuid.UUID)
}

type turnService struct {
	log          *logger.Logger
	children     repos.ChildProfileRepo
	orchestrator *pipeline.Orchestrator
}

func NewTurnService(log *logger.Logger, children repos.ChildProfileRepo, orchestrator *pipeline.Orchestrator) TurnService {
	return &turnService{
		log:          log.With("service", "TurnService"),
		children:     children,
		orchestrator: orchestrator,
	}
}

func (s *turnService) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	input := strings.TrimSpace(req.InputText)
	if input == "" {
		return nil, fmt.Errorf("%w: input text required", apperrors.ErrInvalidArgument)
	}
	if req.SessionID == uuid.Nil || req.ProfileID == uuid.Nil {
		return nil, fmt.Errorf("%w: session and profile ids required", apperrors.ErrInvalidArgument)
	}

	children, err := s.children.GetByIDs(ctx, nil, []uuid.UUID{req.ProfileID})
	if err != nil {
		return nil, fmt.Errorf("load child profile: %w", err)
	}
	if len(children) == 0 {
		return nil, fmt.Errorf("%w: child profile %s", apperrors.ErrNotFound, req.ProfileID)
	}
	child := children[0]

	turn := pipeline.NewContext(req.SessionID, child.ID, child.Name, child.Age, input)
	response, meta, err := s.orchestrator.Process(ctx, turn)
	if err != nil {
		return nil, err
	}

	blocked := turn.Safety != nil && !turn.Safety.Safe
	return &TurnResult{
		ResponseText: response,
		Blocked:      blocked,
		Status:       s.orchestrator.GetSessionStatus(req.SessionID),
		SafetyFlags:  turn.SafetyFlags,
		Metadata:     meta,
	}, nil
}

func (s *turnService) SessionStatus(sessionID uuid.UUID) pipeline.Status {
	return s.orchestrator.GetSessionStatus(sessionID)
}

func (s *turnService) EndSession(sessionID uuid.UUID) {
	s.orchestrator.CleanupSession(sessionID)
}
