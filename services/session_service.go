package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/skill_swap/meetings"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultDurationHours = 1.0
	MinDurationHours     = 0.5
	MaxDurationHours     = 8.0
)

// SingleSchedule confirms a request for one explicit time slot.
type SingleSchedule struct {
	ScheduledTime time.Time
	DurationHours float64
}

// RecurringSchedule confirms a request as a weekly series.
type RecurringSchedule struct {
	NumberOfWeeks int
	DaysOfWeek    []string
	TimeOfDay     string
	DurationHours float64
}

// MeetingProvisioner is the external video-meeting collaborator. Its
// failures are independent of scheduling state.
type MeetingProvisioner interface {
	CreateMeeting(topic string, startTime time.Time) (*meetings.Meeting, error)
}

func normalizeDuration(hours float64) (float64, error) {
	if hours == 0 {
		return DefaultDurationHours, nil
	}
	if hours < MinDurationHours || hours > MaxDurationHours {
		return 0, fmt.Errorf("%w: duration must be between %.1f and %.1f hours", ErrInvalidSchedule, MinDurationHours, MaxDurationHours)
	}
	return hours, nil
}

// RequestSession creates a new pending session from a learner to a teacher.
func RequestSession(db *gorm.DB, learnerID, teacherID uuid.UUID, skill string) (*models.Session, error) {
	if learnerID == teacherID {
		return nil, ErrSelfRequest
	}
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return nil, ErrSkillRequired
	}

	var teacher models.User
	if err := db.First(&teacher, "id = ?", teacherID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	session := models.Session{
		TeacherID:     teacherID,
		LearnerID:     learnerID,
		Skill:         skill,
		Status:        models.SessionStatusPending,
		RequestedDate: time.Now(),
		DurationHours: DefaultDurationHours,
	}
	if err := db.Create(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// DeclineSession cancels a still-pending request. Teacher only.
func DeclineSession(db *gorm.DB, sessionID, callerID uuid.UUID) (*models.Session, error) {
	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotTeacher
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusPending).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusCancelled,
			"scheduled_time": nil,
			"meeting_link":   nil,
			"start_url":      nil,
			"duration_hours": DefaultDurationHours,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	return findSession(db, sessionID)
}

// ConfirmSingle confirms a pending request for one explicit slot.
func ConfirmSingle(db *gorm.DB, sessionID, callerID uuid.UUID, schedule SingleSchedule) (*models.Session, error) {
	if schedule.ScheduledTime.IsZero() {
		return nil, ErrInvalidSchedule
	}
	duration, err := normalizeDuration(schedule.DurationHours)
	if err != nil {
		return nil, err
	}

	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotTeacher
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusPending).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusConfirmed,
			"scheduled_time": schedule.ScheduledTime,
			"duration_hours": duration,
			"meeting_link":   nil,
			"start_url":      nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	return findSession(db, sessionID)
}

// ConfirmRecurring confirms a pending request as a weekly series. The
// original session takes the first generated date; one additional confirmed
// session is created per remaining date, copying the parties, skill and
// request timestamp. Creation of the extra sessions is best effort: the
// original session's confirmation is never rolled back, and the returned
// slice reports exactly the sessions that exist.
func ConfirmRecurring(db *gorm.DB, sessionID, callerID uuid.UUID, schedule RecurringSchedule) ([]models.Session, error) {
	duration, err := normalizeDuration(schedule.DurationHours)
	if err != nil {
		return nil, err
	}

	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotTeacher
	}
	if session.Status != models.SessionStatusPending {
		return nil, ErrInvalidState
	}

	dates, err := utils.GenerateSessionDates(schedule.NumberOfWeeks, schedule.DaysOfWeek, schedule.TimeOfDay)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if len(dates) == 0 {
		return nil, ErrNoDatesGenerated
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusPending).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusConfirmed,
			"scheduled_time": dates[0],
			"duration_hours": duration,
			"meeting_link":   nil,
			"start_url":      nil,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	confirmed, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	sessions := []models.Session{*confirmed}

	for _, date := range dates[1:] {
		scheduled := date
		extra := models.Session{
			TeacherID:     session.TeacherID,
			LearnerID:     session.LearnerID,
			Skill:         session.Skill,
			Status:        models.SessionStatusConfirmed,
			RequestedDate: session.RequestedDate,
			ScheduledTime: &scheduled,
			DurationHours: duration,
		}
		if err := db.Create(&extra).Error; err != nil {
			log.Printf("🔥 Failed to create recurring session for %s at %s: %v", sessionID, scheduled, err)
			continue
		}
		sessions = append(sessions, extra)
	}
	return sessions, nil
}

// RescheduleSession moves a confirmed session to a new time. Any previously
// provisioned meeting links are cleared so a fresh meeting is created on
// demand.
func RescheduleSession(db *gorm.DB, sessionID, callerID uuid.UUID, newTime time.Time, newDuration *float64) (*models.Session, error) {
	if newTime.IsZero() {
		return nil, ErrInvalidSchedule
	}

	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotTeacher
	}

	updates := map[string]interface{}{
		"scheduled_time": newTime,
		"meeting_link":   nil,
		"start_url":      nil,
	}
	if newDuration != nil {
		duration, err := normalizeDuration(*newDuration)
		if err != nil {
			return nil, err
		}
		updates["duration_hours"] = duration
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusConfirmed).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	return findSession(db, sessionID)
}

// CancelSession cancels a pending or confirmed session. Either participant
// may cancel; hours already accrued from completed sessions are never
// adjusted because completed sessions cannot be cancelled.
func CancelSession(db *gorm.DB, sessionID, callerID uuid.UUID) (*models.Session, error) {
	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(callerID) {
		return nil, ErrNotParticipant
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status IN ?", sessionID, []string{models.SessionStatusPending, models.SessionStatusConfirmed}).
		Updates(map[string]interface{}{
			"status":         models.SessionStatusCancelled,
			"scheduled_time": nil,
			"meeting_link":   nil,
			"start_url":      nil,
			"duration_hours": DefaultDurationHours,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}
	return findSession(db, sessionID)
}

// CompleteSession marks a confirmed session completed and applies the
// completion side effects: both review flags reset, hour totals credited to
// both parties and both streaks updated. The writes after the status
// transition are independent; a failure there is logged, not rolled back.
func CompleteSession(db *gorm.DB, sessionID, callerID uuid.UUID) (*models.Session, error) {
	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsParticipant(callerID) {
		return nil, ErrNotParticipant
	}

	result := db.Model(&models.Session{}).
		Where("id = ? AND status = ?", sessionID, models.SessionStatusConfirmed).
		Updates(map[string]interface{}{
			"status":           models.SessionStatusCompleted,
			"teacher_reviewed": false,
			"learner_reviewed": false,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrInvalidState
	}

	if err := db.Model(&models.User{}).Where("id = ?", session.TeacherID).
		Update("hours_taught", gorm.Expr("hours_taught + ?", session.DurationHours)).Error; err != nil {
		log.Printf("🔥 Failed to credit taught hours for session %s: %v", sessionID, err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", session.LearnerID).
		Update("hours_learned", gorm.Expr("hours_learned + ?", session.DurationHours)).Error; err != nil {
		log.Printf("🔥 Failed to credit learned hours for session %s: %v", sessionID, err)
	}

	if err := UpdateStreak(db, session.TeacherID); err != nil {
		log.Printf("🔥 Failed to update streak for teacher %s: %v", session.TeacherID, err)
	}
	if err := UpdateStreak(db, session.LearnerID); err != nil {
		log.Printf("🔥 Failed to update streak for learner %s: %v", session.LearnerID, err)
	}

	return findSession(db, sessionID)
}

// ProvisionMeeting fetches a join/start link for a confirmed session from
// the meeting collaborator. Idempotent: an already-provisioned session is
// returned unchanged. A provisioning failure leaves the session untouched.
func ProvisionMeeting(db *gorm.DB, provisioner MeetingProvisioner, sessionID, callerID uuid.UUID) (*models.Session, error) {
	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.TeacherID != callerID {
		return nil, ErrNotTeacher
	}
	if session.Status != models.SessionStatusConfirmed || session.ScheduledTime == nil {
		return nil, ErrInvalidState
	}
	if session.MeetingLink != nil {
		return session, nil
	}

	topic := fmt.Sprintf("SkillSwap: %s session", session.Skill)
	meeting, err := provisioner.CreateMeeting(topic, *session.ScheduledTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvisioning, err)
	}

	// Guarded write: if a concurrent call provisioned first, keep its links
	// and return them instead of overwriting.
	result := db.Model(&models.Session{}).
		Where("id = ? AND meeting_link IS NULL", sessionID).
		Updates(map[string]interface{}{
			"meeting_link": meeting.JoinURL,
			"start_url":    meeting.StartURL,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	return findSession(db, sessionID)
}

func findSession(db *gorm.DB, sessionID uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := db.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}
