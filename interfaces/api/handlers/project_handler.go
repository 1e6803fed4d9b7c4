package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/dto"
	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

type ProjectHandler struct {
	projectService services.ProjectService
}

func NewProjectHandler(projectService services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProject POST /api/v1/projects
func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	project, err := h.projectService.CreateProject(ctx, actor, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.ProjectToDetailResponse(project, time.Now()))
}

// ListProjects GET /api/v1/projects?scope=mine|all&page=&limit=
func (h *ProjectHandler) ListProjects(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	page, limit, offset := utils.ParsePagination(c)
	projects, total, err := h.projectService.ListProjects(c.UserContext(), actor, c.Query("scope"), offset, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.ProjectsToProjectResponses(projects), total, page, limit)
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	project, err := h.projectService.ViewProject(c.UserContext(), actor, id)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToDetailResponse(project, time.Now()))
}

// GetProjectBySlug GET /api/v1/projects/slug/:slug
func (h *ProjectHandler) GetProjectBySlug(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	project, err := h.projectService.ViewProjectBySlug(c.UserContext(), actor, c.Params("slug"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToDetailResponse(project, time.Now()))
}

func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	project, err := h.projectService.EditProject(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToDetailResponse(project, time.Now()))
}

func (h *ProjectHandler) DeleteProject(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	if err := h.projectService.DeleteProject(c.UserContext(), actor, id); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.NoContentResponse(c)
}

// AddMember POST /api/v1/projects/:id/members
func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	project, err := h.projectService.AddMember(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToProjectResponse(project))
}

// RemoveMember DELETE /api/v1/projects/:id/members/:username
func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	project, err := h.projectService.RemoveMember(c.UserContext(), actor, id, c.Params("username"))
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.ProjectToProjectResponse(project))
}
