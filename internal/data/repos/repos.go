package repos

import (
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos/education"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos/profiles"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos/safety"
	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos/sessions"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
	"gorm.io/gorm"
)

type SafetyIncidentRepo = safety.SafetyIncidentRepo

type ParentAccountRepo = profiles.ParentAccountRepo
type ChildProfileRepo = profiles.ChildProfileRepo

type SessionLogRepo = sessions.SessionLogRepo

type ProgressSnapshotRepo = education.ProgressSnapshotRepo
type AchievementGrantRepo = education.AchievementGrantRepo

func NewSafetyIncidentRepo(db *gorm.DB, baseLog *logger.Logger) SafetyIncidentRepo {
	return safety.NewSafetyIncidentRepo(db, baseLog)
}

func NewParentAccountRepo(db *gorm.DB, baseLog *logger.Logger) ParentAccountRepo {
	return profiles.NewParentAccountRepo(db, baseLog)
}

func NewChildProfileRepo(db *gorm.DB, baseLog *logger.Logger) ChildProfileRepo {
	return profiles.NewChildProfileRepo(db, baseLog)
}

func NewSessionLogRepo(db *gorm.DB, baseLog *logger.Logger) SessionLogRepo {
	return sessions.NewSessionLogRepo(db, baseLog)
}

func NewProgressSnapshotRepo(db *gorm.DB, baseLog *logger.Logger) ProgressSnapshotRepo {
	return education.NewProgressSnapshotRepo(db, baseLog)
}

func NewAchievementGrantRepo(db *gorm.DB, baseLog *logger.Logger) AchievementGrantRepo {
	return education.NewAchievementGrantRepo(db, baseLog)
}
