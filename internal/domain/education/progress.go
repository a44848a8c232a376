package education

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgressSnapshot records one learning interaction for skill tracking.
type ProgressSnapshot struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"child_id"`
	SessionID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"session_id"`
	Subject         string         `gorm:"column:subject;not null;index" json:"subject"`
	InteractionType string         `gorm:"column:interaction_type;not null" json:"interaction_type"`
	Complexity      float64        `gorm:"column:complexity;not null;default:0" json:"complexity"`
	OnTopic         bool           `gorm:"column:on_topic;not null;default:false" json:"on_topic"`
	Concepts        datatypes.JSON `gorm:"column:concepts;type:jsonb" json:"concepts,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ProgressSnapshot) TableName() string { return "progress_snapshot" }

// AchievementGrant is one earned achievement; the (child, key) pair is
// unique so a grant is idempotent.
type AchievementGrant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChildID   uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_grant_child_key" json:"child_id"`
	Key       string         `gorm:"column:key;not null;uniqueIndex:idx_grant_child_key" json:"key"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AchievementGrant) TableName() string { return "achievement_grant" }
