package services

import (
	"errors"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpdateStreak advances a user's consecutive-day counter after a session
// completion. Idempotent within a calendar day: a second completion on the
// same day is a no-op.
func UpdateStreak(db *gorm.DB, userID uuid.UUID) error {
	return updateStreakAt(db, userID, time.Now())
}

func updateStreakAt(db *gorm.DB, userID uuid.UUID, now time.Time) error {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	today := startOfDay(now)
	newStreak := 1
	if user.LastSessionCompleted != nil {
		// Normalize to the caller's location: the driver may round-trip
		// timestamps in a different zone, and day boundaries must agree.
		last := startOfDay(user.LastSessionCompleted.In(now.Location()))
		if last.Equal(today) {
			return nil
		}
		if last.AddDate(0, 0, 1).Equal(today) {
			newStreak = user.CurrentStreak + 1
		}
	}

	// Targeted update: touching only the streak columns keeps an unrelated
	// invalid profile field from swallowing this write.
	return db.Model(&models.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak":         newStreak,
			"last_session_completed": now,
		}).Error
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
