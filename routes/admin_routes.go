package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/users", handlers.AdminListUsers)
	admin.Patch("/users/:userId/status", handlers.AdminUpdateUserStatus)
	admin.Get("/sessions", handlers.AdminListSessions)
	admin.Get("/reviews", handlers.AdminListReviews)
}
