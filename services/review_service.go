package services

import (
	"errors"
	"log"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxReviewCommentLength = 2000

// SubmitReview records one participant's rating of the other for a completed
// session. The review table is the source of truth for "has reviewed"; the
// boolean flags on the session are a repairable cache and are synchronized
// here whenever they disagree with the table.
func SubmitReview(db *gorm.DB, sessionID, reviewerID, revieweeID uuid.UUID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if reviewerID == revieweeID {
		return nil, ErrSelfReview
	}
	if len(comment) > maxReviewCommentLength {
		return nil, errors.New("comment is too long")
	}

	session, err := findSession(db, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusCompleted {
		return nil, ErrInvalidState
	}
	if !session.IsParticipant(reviewerID) || !session.IsParticipant(revieweeID) {
		return nil, ErrNotParticipant
	}

	flagColumn := "learner_reviewed"
	flagSet := session.LearnerReviewed
	if reviewerID == session.TeacherID {
		flagColumn = "teacher_reviewed"
		flagSet = session.TeacherReviewed
	}

	var existing models.Review
	err = db.Where("session_id = ? AND reviewer_id = ?", sessionID, reviewerID).First(&existing).Error
	if err == nil {
		if !flagSet {
			log.Printf("⚠️ Review flag out of sync for session %s (%s was false with a review on record), repairing", sessionID, flagColumn)
			if err := db.Model(&models.Session{}).Where("id = ?", sessionID).Update(flagColumn, true).Error; err != nil {
				log.Printf("🔥 Failed to repair review flag for session %s: %v", sessionID, err)
			}
		}
		return nil, ErrAlreadyReviewed
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if flagSet {
		// Flag claims a review that does not exist. The flag is only a
		// cache, so clear it and let the submission proceed.
		log.Printf("⚠️ Review flag out of sync for session %s (%s was true with no review on record), repairing", sessionID, flagColumn)
		if err := db.Model(&models.Session{}).Where("id = ?", sessionID).Update(flagColumn, false).Error; err != nil {
			return nil, err
		}
	}

	var review models.Review
	err = db.Transaction(func(tx *gorm.DB) error {
		review = models.Review{
			SessionID:  sessionID,
			ReviewerID: reviewerID,
			RevieweeID: revieweeID,
			Rating:     rating,
			Comment:    strings.TrimSpace(comment),
		}
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		if err := tx.Model(&models.Session{}).Where("id = ?", sessionID).Update(flagColumn, true).Error; err != nil {
			return err
		}

		var reviewee models.User
		if err := tx.First(&reviewee, "id = ?", revieweeID).Error; err != nil {
			return err
		}
		newCount := reviewee.TotalRatings + 1
		newAverage := (reviewee.AverageRating*float64(reviewee.TotalRatings) + float64(rating)) / float64(newCount)

		// Targeted update so an unrelated invalid profile field cannot block
		// the aggregate write.
		return tx.Model(&models.User{}).Where("id = ?", revieweeID).
			Updates(map[string]interface{}{
				"average_rating": newAverage,
				"total_ratings":  newCount,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviewsForUser returns all reviews received by a user, newest first.
func ListReviewsForUser(db *gorm.DB, userID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Preload("Reviewer").
		Where("reviewee_id = ?", userID).
		Order("created_at desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
