package sessions

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionLog is one completed (or blocked) pipeline turn, written by the
// parent-logger stage for dashboard transparency.
type SessionLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	ChildID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"child_id"`
	ChildAge     int            `gorm:"column:child_age;not null" json:"child_age"`
	InputText    string         `gorm:"column:input_text;type:text" json:"input_text"`
	ResponseText string         `gorm:"column:response_text;type:text" json:"response_text"`
	Blocked      bool           `gorm:"column:blocked;not null;default:false;index" json:"blocked"`
	SafetyFlags  datatypes.JSON `gorm:"column:safety_flags;type:jsonb" json:"safety_flags,omitempty"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SessionLog) TableName() string { return "session_log" }
