package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Review{},
		&models.Conversation{},
		&models.Message{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()

	user := models.User{
		FullName: name,
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()),
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createPendingSession(t *testing.T, db *gorm.DB, teacher, learner models.User, skill string) models.Session {
	t.Helper()

	session, err := RequestSession(db, learner.ID, teacher.ID, skill)
	require.NoError(t, err)
	return *session
}

func createConfirmedSession(t *testing.T, db *gorm.DB, teacher, learner models.User, skill string) models.Session {
	t.Helper()

	session := createPendingSession(t, db, teacher, learner, skill)
	confirmed, err := ConfirmSingle(db, session.ID, teacher.ID, SingleSchedule{
		ScheduledTime: time.Now().Add(24 * time.Hour),
		DurationHours: 1,
	})
	require.NoError(t, err)
	return *confirmed
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, "id = ?", id).Error)
	return user
}

func reloadSession(t *testing.T, db *gorm.DB, id uuid.UUID) models.Session {
	t.Helper()

	var session models.Session
	require.NoError(t, db.First(&session, "id = ?", id).Error)
	return session
}
