package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SessionID  uuid.UUID `gorm:"not null;uniqueIndex:idx_reviews_session_reviewer" json:"session_id"`
	ReviewerID uuid.UUID `gorm:"not null;uniqueIndex:idx_reviews_session_reviewer" json:"reviewer_id"`
	RevieweeID uuid.UUID `gorm:"not null;index" json:"reviewee_id"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string    `gorm:"type:text" json:"comment"`

	Session  Session `gorm:"foreignkey:SessionID" json:"-"`
	Reviewer User    `gorm:"foreignkey:ReviewerID" json:"reviewer,omitempty"`
	Reviewee User    `gorm:"foreignkey:RevieweeID" json:"reviewee,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
