package routes

import (
	"github.com/anjiri1684/skill_swap/handlers"
	"github.com/anjiri1684/skill_swap/middleware"
	"github.com/gofiber/fiber/v2"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/me", handlers.GetMySessions)
	sessions.Post("", handlers.RequestSession)
	sessions.Post("/:sessionId/respond", handlers.RespondToSession)
	sessions.Put("/:sessionId/reschedule", handlers.RescheduleSession)
	sessions.Post("/:sessionId/cancel", handlers.CancelSession)
	sessions.Post("/:sessionId/complete", handlers.CompleteSession)
	sessions.Post("/:sessionId/meeting", handlers.ProvisionMeeting)
	sessions.Post("/:sessionId/review", handlers.SubmitReview)
}
