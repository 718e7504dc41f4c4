package handlers

import (
	"github.com/anjiri1684/skill_swap/database"
	"github.com/anjiri1684/skill_swap/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FullName          *string `json:"full_name"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	TimeZone          *string `json:"time_zone"`
	Bio               *string `json:"bio"`
	SkillsOffered     *string `json:"skills_offered"`
	SkillsWanted      *string `json:"skills_wanted"`
}

func GetProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(user)
}

func UpdateProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var user models.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.TimeZone != nil {
		user.TimeZone = req.TimeZone
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.SkillsOffered != nil {
		user.SkillsOffered = req.SkillsOffered
	}
	if req.SkillsWanted != nil {
		user.SkillsWanted = req.SkillsWanted
	}

	database.DB.Save(&user)

	return c.JSON(user)
}

// PublicUserResponse is the profile shape other members can see.
type PublicUserResponse struct {
	ID            uuid.UUID `json:"id"`
	FullName      string    `json:"full_name"`
	Bio           *string   `json:"bio"`
	SkillsOffered *string   `json:"skills_offered"`
	SkillsWanted  *string   `json:"skills_wanted"`
	HoursTaught   float64   `json:"hours_taught"`
	HoursLearned  float64   `json:"hours_learned"`
	CurrentStreak int       `json:"current_streak"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
}

func publicUser(user models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:            user.ID,
		FullName:      user.FullName,
		Bio:           user.Bio,
		SkillsOffered: user.SkillsOffered,
		SkillsWanted:  user.SkillsWanted,
		HoursTaught:   user.HoursTaught,
		HoursLearned:  user.HoursLearned,
		CurrentStreak: user.CurrentStreak,
		AverageRating: user.AverageRating,
		TotalRatings:  user.TotalRatings,
	}
}

func GetUserProfile(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var user models.User
	if err := database.DB.Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(publicUser(user))
}

func BrowseUsers(c *fiber.Ctx) error {
	query := database.DB.Where("is_active = ?", true)
	if skill := c.Query("skill"); skill != "" {
		query = query.Where("skills_offered ILIKE ?", "%"+skill+"%")
	}

	var users []models.User
	if err := query.Order("average_rating desc").Limit(50).Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	results := make([]PublicUserResponse, 0, len(users))
	for _, user := range users {
		results = append(results, publicUser(user))
	}
	return c.JSON(results)
}
