package handlers

import (
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/stretchr/testify/assert"
)

func TestConfirmationEmailContent(t *testing.T) {
	scheduled := time.Date(2026, time.September, 4, 18, 0, 0, 0, time.UTC)
	session := &models.Session{Skill: "Guitar", ScheduledTime: &scheduled}

	assert.Equal(t, "Your Guitar session is confirmed!", confirmationEmailSubject(session.Skill))

	body := confirmationEmailBody(session)
	assert.Contains(t, body, "Guitar")
	assert.Contains(t, body, scheduled.Format(time.RFC1123))
}

func TestConfirmationEmailBodyWithoutScheduledTime(t *testing.T) {
	session := &models.Session{Skill: "Guitar"}

	body := confirmationEmailBody(session)
	assert.Contains(t, body, "a time to be announced")
}

func TestDeclineEmailContent(t *testing.T) {
	session := &models.Session{Skill: "Chess"}

	assert.Equal(t, "Your Chess session request was declined", declineEmailSubject(session.Skill))
	assert.Contains(t, declineEmailBody(session), "Chess")
}
