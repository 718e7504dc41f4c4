package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"size:20;not null;default:'member'" json:"role"`

	SkillsOffered *string `gorm:"type:text" json:"skills_offered"`
	SkillsWanted  *string `gorm:"type:text" json:"skills_wanted"`

	HoursTaught  float64 `gorm:"type:numeric(10,2);default:0.00" json:"hours_taught"`
	HoursLearned float64 `gorm:"type:numeric(10,2);default:0.00" json:"hours_learned"`

	CurrentStreak        int        `gorm:"default:0" json:"current_streak"`
	LastSessionCompleted *time.Time `json:"last_session_completed"`

	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	TotalRatings  int     `gorm:"default:0" json:"total_ratings"`

	ProfilePictureURL *string `gorm:"size:255" json:"profile_picture_url"`
	TimeZone          *string `gorm:"size:100" json:"time_zone"`
	Bio               *string `gorm:"type:text" json:"bio"`

	Conversations []*Conversation `gorm:"many2many:conversation_participants;" json:"-"`

	ResetPasswordToken          *string    `gorm:"size:255;unique" json:"-"`
	ResetPasswordTokenExpiresAt *time.Time `json:"-"`
	IsActive                    bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
