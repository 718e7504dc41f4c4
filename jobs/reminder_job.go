package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/notifications"
)

func SendSessionReminders() {
	log.Println("Running job: SendSessionReminders...")

	now := time.Now()
	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	var upcomingSessions []models.Session

	err := database.DB.
		Preload("Teacher").
		Preload("Learner").
		Where("status = ? AND scheduled_time BETWEEN ? AND ?", models.SessionStatusConfirmed, lowerBound, upperBound).
		Find(&upcomingSessions).Error

	if err != nil {
		log.Printf("Error checking for upcoming sessions: %v", err)
		return
	}

	if len(upcomingSessions) == 0 {
		return
	}

	for _, session := range upcomingSessions {
		log.Printf("Sending reminder for session ID: %s", session.ID)

		meetingLine := "<p>Your teacher has not created a meeting link yet.</p>"
		if session.MeetingLink != nil {
			meetingLine = fmt.Sprintf("<p><b>Meeting Link:</b> <a href='%s'>Join Session</a></p>", *session.MeetingLink)
		}

		emailSubject := "Reminder: Your Session Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Session Reminder</h1><p>Hi there,</p><p>Your %s session is scheduled to start in one hour at %s.</p>%s",
			session.Skill,
			session.ScheduledTime.Format(time.Kitchen),
			meetingLine,
		)

		go notifications.SendEmail(session.Learner.FullName, session.Learner.Email, emailSubject, emailBody)
		go notifications.SendEmail(session.Teacher.FullName, session.Teacher.Email, emailSubject, emailBody)
	}
}
