package routes

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	tasks := api.Group("/tasks", protected)
	tasks.Get("/assigned", h.TaskHandler.ListAssigned)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)

	tasks.Post("/:id/toggle", h.TaskHandler.ToggleTask)
	tasks.Post("/:id/assign", h.TaskHandler.AssignTask)
	tasks.Put("/:id/notes", h.TaskHandler.UpdateNotes)

	tasks.Post("/:id/submissions", h.TaskHandler.AddSubmission)
	tasks.Post("/:id/submissions/upload", h.TaskHandler.UploadSubmission)
	tasks.Post("/:id/feedback", h.TaskHandler.AddFeedback)
}
