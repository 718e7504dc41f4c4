package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TeacherID uuid.UUID `gorm:"not null;index" json:"teacher_id"`
	LearnerID uuid.UUID `gorm:"not null;index" json:"learner_id"`
	Skill     string    `gorm:"size:255;not null" json:"skill"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`

	RequestedDate time.Time  `gorm:"not null" json:"requested_date"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	DurationHours float64    `gorm:"type:numeric(4,2);not null;default:1" json:"duration_hours"`

	MeetingLink *string `gorm:"size:512" json:"meeting_link"`
	StartURL    *string `gorm:"size:512" json:"start_url"`

	TeacherReviewed bool `gorm:"not null;default:false" json:"teacher_reviewed"`
	LearnerReviewed bool `gorm:"not null;default:false" json:"learner_reviewed"`

	// Reciprocal skill-swap linkage. Stored and surfaced only; completing
	// one side of a pair has no effect on the other.
	PairedSessionID *uuid.UUID `json:"paired_session_id"`

	Teacher User `gorm:"foreignkey:TeacherID" json:"teacher,omitempty"`
	Learner User `gorm:"foreignkey:LearnerID" json:"learner,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.RequestedDate.IsZero() {
		s.RequestedDate = time.Now()
	}
	return nil
}

func (s *Session) IsParticipant(userID uuid.UUID) bool {
	return s.TeacherID == userID || s.LearnerID == userID
}
