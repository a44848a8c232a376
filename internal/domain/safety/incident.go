package safety

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SafetyIncident is the persisted record for a blocked turn. It is the
// artifact the parent dashboard reads; the row format is stable and
// queryable by child and time range.
type SafetyIncident struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID        uuid.UUID      `gorm:"type:uuid;not null;index:idx_incident_child_time" json:"child_id"`
	SessionID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	ChildAge       int            `gorm:"column:child_age;not null" json:"child_age"`
	InputText      string         `gorm:"column:input_text;type:text" json:"input_text"`
	Category       Category       `gorm:"column:category;not null;index" json:"category"`
	Severity       Severity       `gorm:"column:severity;not null" json:"severity"`
	Flags          datatypes.JSON `gorm:"column:flags;type:jsonb" json:"flags,omitempty"`
	ActionTaken    string         `gorm:"column:action_taken;not null" json:"action_taken"`
	ParentNotified bool           `gorm:"column:parent_notified;not null;default:false" json:"parent_notified"`
	CreatedAt      time.Time      `gorm:"not null;index:idx_incident_child_time" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SafetyIncident) TableName() string { return "safety_incident" }
