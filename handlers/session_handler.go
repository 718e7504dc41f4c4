package handlers

import (
	"errors"
	"time"

	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/anjiri1684/skill_swap/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var meetingProvisioner services.MeetingProvisioner

// InitMeetingProvisioner wires the external meeting collaborator. Called
// once at startup; tests inject fakes through the service layer instead.
func InitMeetingProvisioner(p services.MeetingProvisioner) {
	meetingProvisioner = p
}

func currentUserID(c *fiber.Ctx) uuid.UUID {
	token := c.Locals("user").(*jwt.Token)
	claims := token.Claims.(jwt.MapClaims)
	userID, _ := uuid.Parse(claims["user_id"].(string))
	return userID
}

// serviceError maps the service-layer error taxonomy onto HTTP statuses.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrNotTeacher), errors.Is(err, services.ErrNotParticipant):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrAlreadyReviewed):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrProvisioning):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrSelfRequest),
		errors.Is(err, services.ErrSelfReview),
		errors.Is(err, services.ErrSkillRequired),
		errors.Is(err, services.ErrInvalidRating),
		errors.Is(err, services.ErrInvalidSchedule),
		errors.Is(err, services.ErrNoDatesGenerated):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

type RequestSessionRequest struct {
	TeacherID string `json:"teacher_id" validate:"required,uuid"`
	Skill     string `json:"skill" validate:"required"`
}

func RequestSession(c *fiber.Ctx) error {
	learnerID := currentUserID(c)

	var req RequestSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	teacherID, _ := uuid.Parse(req.TeacherID)

	session, err := services.RequestSession(database.DB, learnerID, teacherID, req.Skill)
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.NotifyUser(teacherID, "session_requested", session)

	return c.Status(fiber.StatusCreated).JSON(session)
}

type SingleScheduleRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
	DurationHours float64   `json:"duration_hours" validate:"required,min=0.5,max=8"`
}

type RecurringScheduleRequest struct {
	NumberOfWeeks int      `json:"number_of_weeks" validate:"required,min=1,max=52"`
	DaysOfWeek    []string `json:"days_of_week" validate:"required,min=1"`
	TimeOfDay     string   `json:"time_of_day" validate:"required"`
	DurationHours float64  `json:"duration_hours" validate:"omitempty,min=0.5,max=8"`
}

type RespondToSessionRequest struct {
	Decision  string                    `json:"decision" validate:"required,oneof=confirm decline"`
	Single    *SingleScheduleRequest    `json:"single,omitempty"`
	Recurring *RecurringScheduleRequest `json:"recurring,omitempty"`
}

// RespondToSession is the teacher's answer to a pending request: decline,
// confirm a single slot, or confirm a weekly series. The schedule is an
// explicit tagged choice; exactly one of "single" and "recurring" must be
// present on a confirm.
func RespondToSession(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req RespondToSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Decision == "decline" {
		session, err := services.DeclineSession(database.DB, sessionID, teacherID)
		if err != nil {
			return serviceError(c, err)
		}
		go websocket.NotifyUser(session.LearnerID, "session_declined", session)
		go sendSessionEmail(session.LearnerID, declineEmailSubject(session.Skill), declineEmailBody(session))
		return c.JSON(session)
	}

	if (req.Single == nil) == (req.Recurring == nil) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "A confirm must include exactly one of 'single' or 'recurring'"})
	}

	if req.Single != nil {
		session, err := services.ConfirmSingle(database.DB, sessionID, teacherID, services.SingleSchedule{
			ScheduledTime: req.Single.ScheduledTime,
			DurationHours: req.Single.DurationHours,
		})
		if err != nil {
			return serviceError(c, err)
		}
		go notifyConfirmed(session)
		return c.JSON(fiber.Map{"sessions": []models.Session{*session}})
	}

	sessions, err := services.ConfirmRecurring(database.DB, sessionID, teacherID, services.RecurringSchedule{
		NumberOfWeeks: req.Recurring.NumberOfWeeks,
		DaysOfWeek:    req.Recurring.DaysOfWeek,
		TimeOfDay:     req.Recurring.TimeOfDay,
		DurationHours: req.Recurring.DurationHours,
	})
	if err != nil {
		return serviceError(c, err)
	}
	go notifyConfirmed(&sessions[0])
	return c.JSON(fiber.Map{"sessions": sessions})
}

func notifyConfirmed(session *models.Session) {
	websocket.NotifyUser(session.LearnerID, "session_confirmed", session)
	sendSessionEmail(session.LearnerID, confirmationEmailSubject(session.Skill), confirmationEmailBody(session))
}

type RescheduleSessionRequest struct {
	ScheduledTime time.Time `json:"scheduled_time" validate:"required"`
	DurationHours *float64  `json:"duration_hours" validate:"omitempty,min=0.5,max=8"`
}

func RescheduleSession(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req RescheduleSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := services.RescheduleSession(database.DB, sessionID, teacherID, req.ScheduledTime, req.DurationHours)
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.NotifyUser(session.LearnerID, "session_rescheduled", session)

	return c.JSON(session)
}

func CancelSession(c *fiber.Ctx) error {
	callerID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := services.CancelSession(database.DB, sessionID, callerID)
	if err != nil {
		return serviceError(c, err)
	}

	counterpart := session.TeacherID
	if callerID == session.TeacherID {
		counterpart = session.LearnerID
	}
	go websocket.NotifyUser(counterpart, "session_cancelled", session)

	return c.JSON(session)
}

func CompleteSession(c *fiber.Ctx) error {
	callerID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := services.CompleteSession(database.DB, sessionID, callerID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(session)
}

func ProvisionMeeting(c *fiber.Ctx) error {
	teacherID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	session, err := services.ProvisionMeeting(database.DB, meetingProvisioner, sessionID, teacherID)
	if err != nil {
		return serviceError(c, err)
	}

	go websocket.NotifyUser(session.LearnerID, "meeting_created", session)

	return c.JSON(fiber.Map{
		"meeting_link": session.MeetingLink,
		"start_url":    session.StartURL,
	})
}

func GetMySessions(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var teaching []models.Session
	database.DB.
		Preload("Learner").
		Where("teacher_id = ?", userID).
		Order("created_at desc").
		Find(&teaching)

	var learning []models.Session
	database.DB.
		Preload("Teacher").
		Where("learner_id = ?", userID).
		Order("created_at desc").
		Find(&learning)

	return c.JSON(fiber.Map{
		"teaching": teaching,
		"learning": learning,
	})
}
