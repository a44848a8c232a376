package profiles

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ParentAccount owns one or more child profiles and authenticates with
// a bcrypt-hashed PIN for the dashboard endpoints.
type ParentAccount struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PINHash   string         `gorm:"column:pin_hash;not null" json:"-"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ParentAccount) TableName() string { return "parent_account" }

// ChildProfile is the per-child record the pipeline resolves a turn
// against. Age is the source of truth for band classification; the band
// itself is never stored so a birthday cannot leave a stale band behind.
type ChildProfile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ParentID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"parent_id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Age       int            `gorm:"column:age;not null" json:"age"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChildProfile) TableName() string { return "child_profile" }
