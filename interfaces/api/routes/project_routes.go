package routes

import (
	"github.com/gofiber/fiber/v2"

	"project-tracker/interfaces/api/handlers"
)

func SetupProjectRoutes(api fiber.Router, h *handlers.Handlers, protected fiber.Handler) {
	projects := api.Group("/projects", protected)
	projects.Post("/", h.ProjectHandler.CreateProject)
	projects.Get("/", h.ProjectHandler.ListProjects)
	projects.Get("/slug/:slug", h.ProjectHandler.GetProjectBySlug)
	projects.Get("/:id", h.ProjectHandler.GetProject)
	projects.Put("/:id", h.ProjectHandler.UpdateProject)
	projects.Delete("/:id", h.ProjectHandler.DeleteProject)

	projects.Post("/:id/members", h.ProjectHandler.AddMember)
	projects.Delete("/:id/members/:username", h.ProjectHandler.RemoveMember)

	projects.Post("/:id/tasks", h.TaskHandler.CreateTask)
	projects.Get("/:id/tasks", h.TaskHandler.ListProjectTasks)
}
