package app

import (
	"gorm.io/gorm"

	"github.com/sproutlearn/sproutlearn-backend/internal/data/repos"
	"github.com/sproutlearn/sproutlearn-backend/internal/pkg/logger"
)

type Repos struct {
	ParentAccounts    repos.ParentAccountRepo
	ChildProfiles     repos.ChildProfileRepo
	SessionLogs       repos.SessionLogRepo
	SafetyIncidents   repos.SafetyIncidentRepo
	ProgressSnapshots repos.ProgressSnapshotRepo
	AchievementGrants repos.AchievementGrantRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("wiring repos")
	return Repos{
		ParentAccounts:    repos.NewParentAccountRepo(db, log),
		ChildProfiles:     repos.NewChildProfileRepo(db, log),
		SessionLogs:       repos.NewSessionLogRepo(db, log),
		SafetyIncidents:   repos.NewSafetyIncidentRepo(db, log),
		ProgressSnapshots: repos.NewProgressSnapshotRepo(db, log),
		AchievementGrants: repos.NewAchievementGrantRepo(db, log),
	}
}
