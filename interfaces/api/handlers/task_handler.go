package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"project-tracker/domain/dto"
	"project-tracker/domain/services"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

type TaskHandler struct {
	taskService   services.TaskService
	maxUploadSize int64
}

func NewTaskHandler(taskService services.TaskService, maxUploadSize int64) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		maxUploadSize: maxUploadSize,
	}
}

// CreateTask POST /api/v1/projects/:id/tasks
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	projectID, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.CreateTask(ctx, actor, projectID, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task, time.Now()))
}

// ListProjectTasks GET /api/v1/projects/:id/tasks
func (h *TaskHandler) ListProjectTasks(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	projectID, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	tasks, err := h.taskService.ListProjectTasks(c.UserContext(), actor, projectID)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks, time.Now()))
}

// ListAssigned GET /api/v1/tasks/assigned
func (h *TaskHandler) ListAssigned(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}

	page, limit, offset := utils.ParsePagination(c)
	tasks, total, err := h.taskService.ListAssignedTasks(c.UserContext(), actor, offset, limit)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.PaginatedSuccessResponse(c, dto.TasksToTaskResponses(tasks, time.Now()), total, page, limit)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	task, err := h.taskService.GetTask(c.UserContext(), actor, id)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToDetailResponse(task, time.Now()))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.EditTask(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToDetailResponse(task, time.Now()))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	if err := h.taskService.DeleteTask(c.UserContext(), actor, id); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.NoContentResponse(c)
}

// ToggleTask POST /api/v1/tasks/:id/toggle
func (h *TaskHandler) ToggleTask(c *fiber.Ctx) error {
	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	task, err := h.taskService.ToggleTask(c.UserContext(), actor, id)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, &dto.ToggleTaskResponse{
		ID:          task.ID,
		IsCompleted: task.IsCompleted,
		Status:      string(task.Status),
	})
}

// AssignTask POST /api/v1/tasks/:id/assign
func (h *TaskHandler) AssignTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.AssignTask(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task, time.Now()))
}

// UpdateNotes PUT /api/v1/tasks/:id/notes
func (h *TaskHandler) UpdateNotes(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.UpdateNotesRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	task, err := h.taskService.UpdateNotes(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task, time.Now()))
}

// AddSubmission POST /api/v1/tasks/:id/submissions
func (h *TaskHandler) AddSubmission(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.CreateSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	submission, err := h.taskService.AddSubmission(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.SubmissionToResponse(submission))
}

// UploadSubmission POST /api/v1/tasks/:id/submissions/upload (multipart: file, content)
func (h *TaskHandler) UploadSubmission(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ValidationErrorResponse(c, map[string]string{"file": "is required"})
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		logger.WarnContext(ctx, "Upload rejected - file too large", "size", fileHeader.Size, "max", h.maxUploadSize)
		return utils.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, utils.ErrCodeTooLarge,
			"File exceeds "+utils.FormatBytes(uint64(h.maxUploadSize)), nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open uploaded file", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
	defer file.Close()

	submission, err := h.taskService.UploadSubmission(ctx, actor, id, &dto.UploadSubmissionInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      file,
		Content:     c.FormValue("content"),
	})
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.SubmissionToResponse(submission))
}

// AddFeedback POST /api/v1/tasks/:id/feedback
func (h *TaskHandler) AddFeedback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	actor, err := utils.GetActor(c)
	if err != nil {
		return utils.UnauthorizedResponse(c, "")
	}
	id, ok, err := parseID(c, "id")
	if !ok {
		return err
	}

	var req dto.CreateFeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	feedback, err := h.taskService.AddFeedback(ctx, actor, id, &req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.CreatedResponse(c, dto.FeedbackToResponse(feedback))
}
