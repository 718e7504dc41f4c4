package services

import (
	"errors"
	"testing"
	"time"

	"github.com/anjiri1684/skill_swap/meetings"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRequestSessionCreatesPendingRecord(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")

	session, err := RequestSession(db, learner.ID, teacher.ID, "Guitar")
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusPending, session.Status)
	assert.Equal(t, teacher.ID, session.TeacherID)
	assert.Equal(t, learner.ID, session.LearnerID)
	assert.Equal(t, "Guitar", session.Skill)
	assert.Nil(t, session.ScheduledTime)
	assert.Equal(t, DefaultDurationHours, session.DurationHours)
	assert.False(t, session.RequestedDate.IsZero())
}

func TestRequestSessionRejectsSelfAndMissingTeacher(t *testing.T) {
	db := setupTestDB(t)
	learner := createTestUser(t, db, "Learner")

	_, err := RequestSession(db, learner.ID, learner.ID, "Guitar")
	assert.ErrorIs(t, err, ErrSelfRequest)

	_, err = RequestSession(db, learner.ID, uuid.New(), "Guitar")
	assert.ErrorIs(t, err, ErrNotFound)

	teacher := createTestUser(t, db, "Teacher")
	_, err = RequestSession(db, learner.ID, teacher.ID, "   ")
	assert.ErrorIs(t, err, ErrSkillRequired)
}

func TestDeclineSessionCancelsAndClearsFields(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Chess")

	declined, err := DeclineSession(db, session.ID, teacher.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusCancelled, declined.Status)
	assert.Nil(t, declined.ScheduledTime)
	assert.Nil(t, declined.MeetingLink)
	assert.Nil(t, declined.StartURL)
	assert.Equal(t, DefaultDurationHours, declined.DurationHours)
}

func TestDeclineSessionRequiresTeacherAndPendingState(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Chess")

	_, err := DeclineSession(db, session.ID, learner.ID)
	assert.ErrorIs(t, err, ErrNotTeacher)

	confirmed := createConfirmedSession(t, db, teacher, learner, "Chess")
	_, err = DeclineSession(db, confirmed.ID, teacher.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestConfirmSingleSetsScheduleFields(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Painting")

	scheduled := time.Now().Add(48 * time.Hour).Truncate(time.Second)
	confirmed, err := ConfirmSingle(db, session.ID, teacher.ID, SingleSchedule{
		ScheduledTime: scheduled,
		DurationHours: 1.5,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusConfirmed, confirmed.Status)
	require.NotNil(t, confirmed.ScheduledTime)
	assert.Equal(t, scheduled.Unix(), confirmed.ScheduledTime.Unix())
	assert.Equal(t, 1.5, confirmed.DurationHours)
	assert.Nil(t, confirmed.MeetingLink)
}

func TestConfirmSingleValidatesSchedule(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Painting")

	_, err := ConfirmSingle(db, session.ID, teacher.ID, SingleSchedule{DurationHours: 1})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	_, err = ConfirmSingle(db, session.ID, teacher.ID, SingleSchedule{
		ScheduledTime: time.Now().Add(time.Hour),
		DurationHours: 12,
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	// The failed confirms must not have moved the session.
	assert.Equal(t, models.SessionStatusPending, reloadSession(t, db, session.ID).Status)
}

func TestConfirmRecurringCreatesOneSessionPerDate(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Spanish")

	sessions, err := ConfirmRecurring(db, session.ID, teacher.ID, RecurringSchedule{
		NumberOfWeeks: 2,
		DaysOfWeek:    []string{"Monday", "Thursday"},
		TimeOfDay:     "10:00",
	})
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	// The original session carries the first date; the rest are copies.
	assert.Equal(t, session.ID, sessions[0].ID)
	for i, s := range sessions {
		assert.Equal(t, models.SessionStatusConfirmed, s.Status)
		assert.Equal(t, teacher.ID, s.TeacherID)
		assert.Equal(t, learner.ID, s.LearnerID)
		assert.Equal(t, "Spanish", s.Skill)
		assert.Equal(t, session.RequestedDate.Unix(), s.RequestedDate.Unix())
		require.NotNil(t, s.ScheduledTime)
		assert.True(t, s.ScheduledTime.After(time.Now().Add(-time.Minute)))
		if i > 0 {
			assert.NotEqual(t, session.ID, s.ID)
			assert.True(t, s.ScheduledTime.After(*sessions[i-1].ScheduledTime))
		}
	}

	var count int64
	db.Model(&models.Session{}).Where("status = ?", models.SessionStatusConfirmed).Count(&count)
	assert.EqualValues(t, 4, count)
}

func TestConfirmRecurringRejectsEmptyPattern(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Spanish")

	_, err := ConfirmRecurring(db, session.ID, teacher.ID, RecurringSchedule{
		NumberOfWeeks: 2,
		DaysOfWeek:    nil,
		TimeOfDay:     "10:00",
	})
	assert.ErrorIs(t, err, ErrInvalidSchedule)

	// Nothing created, original stays pending.
	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, models.SessionStatusPending, reloadSession(t, db, session.ID).Status)
}

func TestRescheduleClearsMeetingLinks(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Yoga")

	link := "https://meet.example.com/j/123"
	start := "https://meet.example.com/s/123"
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{"meeting_link": link, "start_url": start}).Error)

	newTime := time.Now().Add(72 * time.Hour)
	duration := 2.0
	updated, err := RescheduleSession(db, session.ID, teacher.ID, newTime, &duration)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusConfirmed, updated.Status)
	assert.Equal(t, newTime.Unix(), updated.ScheduledTime.Unix())
	assert.Equal(t, 2.0, updated.DurationHours)
	assert.Nil(t, updated.MeetingLink)
	assert.Nil(t, updated.StartURL)
}

func TestRescheduleRequiresConfirmedState(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createPendingSession(t, db, teacher, learner, "Yoga")

	_, err := RescheduleSession(db, session.ID, teacher.ID, time.Now().Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = RescheduleSession(db, session.ID, learner.ID, time.Now().Add(time.Hour), nil)
	assert.ErrorIs(t, err, ErrNotTeacher)
}

func TestCancelSessionByEitherParticipant(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	outsider := createTestUser(t, db, "Outsider")

	session := createConfirmedSession(t, db, teacher, learner, "Cooking")

	_, err := CancelSession(db, session.ID, outsider.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	cancelled, err := CancelSession(db, session.ID, learner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCancelled, cancelled.Status)
	assert.Nil(t, cancelled.ScheduledTime)
}

func TestCancelDoesNotAdjustAccruedHours(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")

	completed := createConfirmedSession(t, db, teacher, learner, "Cooking")
	_, err := CompleteSession(db, completed.ID, teacher.ID)
	require.NoError(t, err)
	taughtBefore := reloadUser(t, db, teacher.ID).HoursTaught

	// Completed sessions cannot be cancelled at all.
	_, err = CancelSession(db, completed.ID, teacher.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, taughtBefore, reloadUser(t, db, teacher.ID).HoursTaught)
}

func TestCompleteSessionAppliesSideEffects(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Guitar")

	// Simulate drifted flags from an earlier inconsistency; completion must
	// reset both.
	require.NoError(t, db.Model(&models.Session{}).Where("id = ?", session.ID).
		Updates(map[string]interface{}{"teacher_reviewed": true, "learner_reviewed": true}).Error)

	completed, err := CompleteSession(db, session.ID, learner.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusCompleted, completed.Status)
	assert.False(t, completed.TeacherReviewed)
	assert.False(t, completed.LearnerReviewed)

	assert.Equal(t, session.DurationHours, reloadUser(t, db, teacher.ID).HoursTaught)
	assert.Equal(t, session.DurationHours, reloadUser(t, db, learner.ID).HoursLearned)
	assert.Equal(t, 1, reloadUser(t, db, teacher.ID).CurrentStreak)
	assert.Equal(t, 1, reloadUser(t, db, learner.ID).CurrentStreak)
}

func TestCompleteSessionIsSerializedPerRecord(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Guitar")

	_, err := CompleteSession(db, session.ID, teacher.ID)
	require.NoError(t, err)

	// A second completion must observe the first transition and be
	// rejected, with no double-counted hours.
	_, err = CompleteSession(db, session.ID, learner.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, session.DurationHours, reloadUser(t, db, teacher.ID).HoursTaught)
}

func TestTerminalStatesAreClosed(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")

	completed := createConfirmedSession(t, db, teacher, learner, "Guitar")
	_, err := CompleteSession(db, completed.ID, teacher.ID)
	require.NoError(t, err)

	cancelled := createConfirmedSession(t, db, teacher, learner, "Guitar")
	_, err = CancelSession(db, cancelled.ID, teacher.ID)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{completed.ID, cancelled.ID} {
		_, err = DeclineSession(db, id, teacher.ID)
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = ConfirmSingle(db, id, teacher.ID, SingleSchedule{ScheduledTime: time.Now().Add(time.Hour), DurationHours: 1})
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = ConfirmRecurring(db, id, teacher.ID, RecurringSchedule{NumberOfWeeks: 1, DaysOfWeek: []string{"Monday"}, TimeOfDay: "10:00"})
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = RescheduleSession(db, id, teacher.ID, time.Now().Add(time.Hour), nil)
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = CompleteSession(db, id, teacher.ID)
		assert.ErrorIs(t, err, ErrInvalidState)

		_, err = CancelSession(db, id, teacher.ID)
		assert.ErrorIs(t, err, ErrInvalidState)
	}
}

type fakeProvisioner struct {
	meeting *meetings.Meeting
	err     error
	calls   int
}

func (f *fakeProvisioner) CreateMeeting(topic string, startTime time.Time) (*meetings.Meeting, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.meeting, nil
}

func TestProvisionMeetingStoresLinksOnce(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Guitar")

	provisioner := &fakeProvisioner{meeting: &meetings.Meeting{
		JoinURL:  "https://meet.example.com/j/guitar",
		StartURL: "https://meet.example.com/s/guitar",
	}}

	provisioned, err := ProvisionMeeting(db, provisioner, session.ID, teacher.ID)
	require.NoError(t, err)
	require.NotNil(t, provisioned.MeetingLink)
	assert.Equal(t, "https://meet.example.com/j/guitar", *provisioned.MeetingLink)
	require.NotNil(t, provisioned.StartURL)
	assert.Equal(t, "https://meet.example.com/s/guitar", *provisioned.StartURL)

	// Idempotent: the collaborator is not called again.
	again, err := ProvisionMeeting(db, provisioner, session.ID, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, *provisioned.MeetingLink, *again.MeetingLink)
	assert.Equal(t, 1, provisioner.calls)
}

// racingProvisioner writes a rival's links directly before returning its
// own, standing in for a concurrent provisioning call that wins the race.
type racingProvisioner struct {
	db        *gorm.DB
	sessionID uuid.UUID
	meeting   *meetings.Meeting
}

func (p *racingProvisioner) CreateMeeting(topic string, startTime time.Time) (*meetings.Meeting, error) {
	err := p.db.Model(&models.Session{}).Where("id = ?", p.sessionID).
		Updates(map[string]interface{}{
			"meeting_link": "https://meet.example.com/j/winner",
			"start_url":    "https://meet.example.com/s/winner",
		}).Error
	if err != nil {
		return nil, err
	}
	return p.meeting, nil
}

func TestProvisionMeetingDoesNotOverwriteConcurrentLinks(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Guitar")

	provisioner := &racingProvisioner{
		db:        db,
		sessionID: session.ID,
		meeting: &meetings.Meeting{
			JoinURL:  "https://meet.example.com/j/loser",
			StartURL: "https://meet.example.com/s/loser",
		},
	}

	provisioned, err := ProvisionMeeting(db, provisioner, session.ID, teacher.ID)
	require.NoError(t, err)

	// The first writer's links survive; the late result is discarded.
	require.NotNil(t, provisioned.MeetingLink)
	assert.Equal(t, "https://meet.example.com/j/winner", *provisioned.MeetingLink)
	require.NotNil(t, provisioned.StartURL)
	assert.Equal(t, "https://meet.example.com/s/winner", *provisioned.StartURL)
}

func TestProvisionMeetingFailureLeavesSessionUntouched(t *testing.T) {
	db := setupTestDB(t)
	teacher := createTestUser(t, db, "Teacher")
	learner := createTestUser(t, db, "Learner")
	session := createConfirmedSession(t, db, teacher, learner, "Guitar")

	provisioner := &fakeProvisioner{err: errors.New("upstream unavailable")}

	_, err := ProvisionMeeting(db, provisioner, session.ID, teacher.ID)
	assert.ErrorIs(t, err, ErrProvisioning)

	reloaded := reloadSession(t, db, session.ID)
	assert.Equal(t, models.SessionStatusConfirmed, reloaded.Status)
	assert.Nil(t, reloaded.MeetingLink)

	_, err = ProvisionMeeting(db, provisioner, session.ID, learner.ID)
	assert.ErrorIs(t, err, ErrNotTeacher)
}
