package handlers

import (
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitReviewRequest struct {
	RevieweeID string `json:"reviewee_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	Comment    string `json:"comment" validate:"max=2000"`
}

func SubmitReview(c *fiber.Ctx) error {
	reviewerID := currentUserID(c)
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session id"})
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	revieweeID, _ := uuid.Parse(req.RevieweeID)

	review, err := services.SubmitReview(database.DB, sessionID, reviewerID, revieweeID, req.Rating, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(review)
}

func ListReviewsForUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	reviews, err := services.ListReviewsForUser(database.DB, userID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(reviews)
}
