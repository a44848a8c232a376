package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/sproutlearn/sproutlearn-backend/internal/config"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
	"github.com/sproutlearn/sproutlearn-backend/internal/pipeline"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

const incidentAction = "blocked_redirect"

// IncidentReport aggregates a child's incidents over a window for the
// parent dashboard.
type IncidentReport struct {
	ChildID      uuid.UUID                    `json:"child_id"`
	From         time.Time                    `json:"from"`
	To           time.Time                    `json:"to"`
	Total        int                          `json:"total"`
	ParentAlerts int                          `json:"parent_alerts"`
	ByCategory   map[types.SafetyCategory]int `json:"by_category"`
	BySeverity   map[string]int               `json:"by_severity"`
	Incidents    []*types.SafetyIncident      `json:"incidents"`
}

type IncidentService interface {
	RecordBlockedTurn(ctx context.Context, turn *pipeline.Context) error
	ListByChildAndRange(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]*types.SafetyIncident, error)
	Report(ctx context.Context, childID uuid.UUID, from, to time.Time) (*IncidentReport, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type incidentService struct {
	cfg       *config.AppConfig
	log       *logger.Logger
	incidents repos.SafetyIncidentRepo
}

func NewIncidentService(cfg *config.AppConfig, log *logger.Logger, incidents repos.SafetyIncidentRepo) IncidentService {
	return &incidentService{
		cfg:       cfg,
		log:       log.With("service", "IncidentService"),
		incidents: incidents,
	}
}

func (s *incidentService) RecordBlockedTurn(ctx context.Context, turn *pipeline.Context) error {
	if turn.Safety == nil {
		return fmt.Errorf("turn has no safety result")
	}

	flagsJSON, err := json.Marshal(turn.SafetyFlags)
	if err != nil {
		return fmt.Errorf("marshal flags: %w", err)
	}

	incident := &types.SafetyIncident{
		ID:             uuid.New(),
		ChildID:        turn.ProfileID,
		SessionID:      turn.SessionID,
		ChildAge:       turn.ChildAge,
		InputText:      truncateRunes(turn.InputText, s.cfg.IncidentInputMax),
		Category:       turn.Safety.Category,
		Severity:       turn.Safety.Severity,
		Flags:          datatypes.JSON(flagsJSON),
		ActionTaken:    incidentAction,
		ParentNotified: turn.Safety.ParentAlert,
		CreatedAt:      time.Now().UTC(),
	}

	if _, err := s.incidents.Create(ctx, nil, []*types.SafetyIncident{incident}); err != nil {
		return fmt.Errorf("create incident: %w", err)
	}

	s.log.Warn("safety incident recorded",
		"incident_id", incident.ID,
		"profile_id", incident.ChildID,
		"session_id", incident.SessionID,
		"category", string(incident.Category),
		"severity", int(incident.Severity),
		"parent_notified", incident.ParentNotified,
	)
	return nil
}

func (s *incidentService) ListByChildAndRange(ctx context.Context, childID uuid.UUID, from, to time.Time) ([]*types.SafetyIncident, error) {
	return s.incidents.ListByChildAndRange(ctx, nil, childID, from, to)
}

func (s *incidentService) Report(ctx context.Context, childID uuid.UUID, from, to time.Time) (*IncidentReport, error) {
	incidents, err := s.incidents.ListByChildAndRange(ctx, nil, childID, from, to)
	if err != nil {
		return nil, err
	}

	report := &IncidentReport{
		ChildID:    childID,
		From:       from,
		To:         to,
		Total:      len(incidents),
		ByCategory: make(map[types.SafetyCategory]int),
		BySeverity: make(map[string]int),
		Incidents:  incidents,
	}
	for _, inc := range incidents {
		report.ByCategory[inc.Category]++
		report.BySeverity[inc.Severity.String()]++
		if inc.ParentNotified {
			report.ParentAlerts++
		}
	}
	return report, nil
}

// PurgeExpired enforces the incident retention window.
func (s *incidentService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.IncidentRetentionDays)
	purged, err := s.incidents.PurgeOlderThan(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Info("purged expired incidents", "purged", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
