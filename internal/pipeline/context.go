package pipeline

import (
	"time"

	"github.com/google/uuid"

	types "github.com/sproutlearn/sproutlearn-backend/internal/domain"
)

// Context carries one turn through the stage list. It is created fresh
// per call to Process and never shared across concurrent turns. Stages
// may rewrite ResponseText and add to Metadata and SafetyFlags, but
// must treat InputText as read-only and SafetyFlags as append-only.
type Context struct {
	SessionID uuid.UUID
	ProfileID uuid.UUID
	ChildName string
	ChildAge  int

	InputText    string
	ResponseText string

	Safety      *types.SafetyResult
	SafetyFlags []string
	Metadata    map[string]any

	StartedAt time.Time
}

func NewContext(sessionID, profileID uuid.UUID, childName string, childAge int, inputText string) *Context {
	return &Context{
		SessionID: sessionID,
		ProfileID: profileID,
		ChildName: childName,
		ChildAge:  childAge,
		InputText: inputText,
		Metadata:  make(map[string]any),
		StartedAt: time.Now().UTC(),
	}
}

// SetStageMeta records a stage's metadata under its name.
func (c *Context) SetStageMeta(stage string, meta map[string]any) {
	c.Metadata[stage] = meta
}
