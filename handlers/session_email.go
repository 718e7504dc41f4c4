package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/notifications"
	"github.com/google/uuid"
)

func confirmationEmailSubject(skill string) string {
	return fmt.Sprintf("Your %s session is confirmed!", skill)
}

func confirmationEmailBody(session *models.Session) string {
	when := "a time to be announced"
	if session.ScheduledTime != nil {
		when = session.ScheduledTime.Format(time.RFC1123)
	}
	return fmt.Sprintf(
		"<h1>Session Confirmed</h1><p>Hi there,</p><p>Your %s session has been confirmed for %s.</p><p>You will receive a meeting link before the session starts.</p>",
		session.Skill,
		when,
	)
}

func declineEmailSubject(skill string) string {
	return fmt.Sprintf("Your %s session request was declined", skill)
}

func declineEmailBody(session *models.Session) string {
	return fmt.Sprintf(
		"<h1>Session Request Declined</h1><p>Hi there,</p><p>Unfortunately your %s session request was declined. Browse other members offering this skill to find another teacher.</p>",
		session.Skill,
	)
}

// sendSessionEmail looks up the recipient and sends in the caller's
// goroutine; callers run it with `go`, matching the reminder job.
func sendSessionEmail(userID uuid.UUID, subject, body string) {
	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("🔥 Failed to load user %s for session email: %v", userID, err)
		return
	}
	notifications.SendEmail(user.FullName, user.Email, subject, body)
}
