package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
)

func UserRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	users := api.Group("/users", middleware.Protected())
	users.Get("", handlers.BrowseUsers)
	users.Get("/:userId", handlers.GetUserProfile)
	users.Get("/:userId/reviews", handlers.ListReviewsForUser)
}
