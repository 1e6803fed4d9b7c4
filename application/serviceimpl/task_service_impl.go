package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
	"project-tracker/domain/policy"
	"project-tracker/domain/ports"
	"project-tracker/domain/repositories"
	"project-tracker/domain/services"
	"project-tracker/pkg/apperror"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/utils"
)

const overdueSweepLimit = 500

type TaskServiceImpl struct {
	taskRepo      repositories.TaskRepository
	projectRepo   repositories.ProjectRepository
	userRepo      repositories.UserRepository
	collabRepo    repositories.CollaborationRepository
	transactor    repositories.Transactor
	storage       ports.StoragePort
	publisher     ports.EventPublisherPort
	maxUploadSize int64
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	collabRepo repositories.CollaborationRepository,
	transactor repositories.Transactor,
	storage ports.StoragePort,
	publisher ports.EventPublisherPort,
	maxUploadSize int64,
) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		userRepo:      userRepo,
		collabRepo:    collabRepo,
		transactor:    transactor,
		storage:       storage,
		publisher:     publisher,
		maxUploadSize: maxUploadSize,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, lookupErr(ctx, "project", err)
	}
	if !policy.CanAccessProject(actor, project) {
		return nil, apperror.Forbidden("you do not have access to this project")
	}

	req.Title = strings.TrimSpace(req.Title)
	req.ParentID = strings.TrimSpace(req.ParentID)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Notes:       req.Notes,
		ProjectID:   project.ID,
		CreatedByID: actor.ID,
	}
	if err := task.SetStatus(strings.TrimSpace(req.Status)); err != nil {
		return nil, err
	}
	if task.Priority, err = models.ParsePriority(strings.TrimSpace(req.Priority)); err != nil {
		return nil, err
	}
	if task.DueDate, err = parseDueDate(req.DueDate); err != nil {
		return nil, err
	}

	if req.ParentID != "" {
		parentID, err := uuid.Parse(req.ParentID)
		if err != nil {
			return nil, apperror.ValidationFields("invalid parent task", map[string]string{"parentId": "must be a valid id"})
		}
		parent, err := s.taskRepo.GetByID(ctx, parentID)
		if err != nil {
			return nil, lookupErr(ctx, "parent task", err)
		}
		if parent.ProjectID != project.ID {
			return nil, apperror.ValidationFields("invalid parent task", map[string]string{
				"parentId": "must belong to the same project",
			})
		}
		task.ParentID = &parent.ID
	}

	var assignee *models.User
	if username := strings.TrimSpace(req.AssignedTo); username != "" {
		assignee, err = s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			return nil, lookupErr(ctx, "user", err)
		}
		task.AssignedToID = &assignee.ID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, storageErr(ctx, "failed to create task", err)
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "project_id", project.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskCreated,
		ProjectID: project.ID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"title": task.Title},
	})
	if assignee != nil {
		s.publishAssigned(ctx, actor, task, assignee)
	}

	return s.detail(ctx, task.ID)
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(actor, task, project) {
		return nil, apperror.Forbidden("you do not have access to this task")
	}
	return s.detail(ctx, task.ID)
}

func (s *TaskServiceImpl) ListProjectTasks(ctx context.Context, actor *models.User, projectID uuid.UUID) ([]*models.Task, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, lookupErr(ctx, "project", err)
	}
	if !policy.CanViewProject(actor, project) {
		return nil, apperror.Forbidden("")
	}

	tasks, err := s.taskRepo.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, storageErr(ctx, "failed to list tasks", err)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) ListAssignedTasks(ctx context.Context, actor *models.User, offset, limit int) ([]*models.Task, int64, error) {
	if !policy.CanBrowse(actor) {
		return nil, 0, apperror.Forbidden("")
	}

	tasks, err := s.taskRepo.ListAssignedTo(ctx, actor.ID, offset, limit)
	if err != nil {
		return nil, 0, storageErr(ctx, "failed to list assigned tasks", err)
	}
	total, err := s.taskRepo.CountAssignedTo(ctx, actor.ID)
	if err != nil {
		return nil, 0, storageErr(ctx, "failed to count assigned tasks", err)
	}
	return tasks, total, nil
}

// EditTask admin เท่านั้น status ที่เปลี่ยนจะ derive is_completed ตาม
func (s *TaskServiceImpl) EditTask(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	task, _, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditTask(actor) {
		return nil, apperror.Forbidden("only admins can edit tasks")
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	updated := *task
	updated.Title = req.Title
	updated.Description = strings.TrimSpace(req.Description)
	if req.Status != nil {
		if err := updated.SetStatus(strings.TrimSpace(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		if updated.Priority, err = models.ParsePriority(strings.TrimSpace(*req.Priority)); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if updated.DueDate, err = parseDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, &updated); err != nil {
		return nil, storageErr(ctx, "failed to update task", err)
	}

	logger.InfoContext(ctx, "Task updated", "task_id", updated.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskUpdated,
		ProjectID: updated.ProjectID.String(),
		TaskID:    updated.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"status": string(updated.Status)},
	})

	return s.detail(ctx, updated.ID)
}

// DeleteTask ลบงานและ subtask ชั้นเดียว พร้อม feedback/submission ของทุกงานที่ถูกลบ
// subtask ชั้นถัดไปจะกลายเป็นงาน top-level
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor *models.User, taskID uuid.UUID) error {
	task, _, err := s.load(ctx, taskID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteTask(actor) {
		return apperror.Forbidden("only admins can delete tasks")
	}

	var (
		childIDs []uuid.UUID
		keys     []string
	)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		if childIDs, err = s.taskRepo.ListChildIDs(ctx, task.ID); err != nil {
			return err
		}
		doomed := append([]uuid.UUID{task.ID}, childIDs...)

		if keys, err = s.collabRepo.ListStorageKeys(ctx, doomed); err != nil {
			return err
		}
		if err := s.collabRepo.DeleteByTaskIDs(ctx, doomed); err != nil {
			return err
		}
		if err := s.taskRepo.DetachChildren(ctx, childIDs); err != nil {
			return err
		}
		if err := s.taskRepo.DeleteByIDs(ctx, childIDs); err != nil {
			return err
		}
		return s.taskRepo.DeleteByIDs(ctx, []uuid.UUID{task.ID})
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", task.ID, "error", err)
		return apperror.Storage("failed to delete task", err)
	}

	removeAttachments(ctx, s.storage, keys)

	logger.InfoContext(ctx, "Task deleted", "task_id", task.ID, "subtasks", len(childIDs))
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskDeleted,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"subtasks": strconv.Itoa(len(childIDs))},
	})
	return nil
}

func (s *TaskServiceImpl) ToggleTask(ctx context.Context, actor *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(actor, task, project) {
		return nil, apperror.Forbidden("you do not have access to this task")
	}

	task.ToggleCompletion()
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, storageErr(ctx, "failed to toggle task", err)
	}

	logger.InfoContext(ctx, "Task toggled", "task_id", task.ID, "is_completed", task.IsCompleted)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskToggled,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data: map[string]string{
			"status":      string(task.Status),
			"isCompleted": strconv.FormatBool(task.IsCompleted),
		},
	})
	return task, nil
}

// AssignTask ไม่บังคับว่าผู้รับงานต้องเป็นสมาชิกโปรเจกต์
func (s *TaskServiceImpl) AssignTask(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.AssignTaskRequest) (*models.Task, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessProject(actor, project) {
		return nil, apperror.Forbidden("you do not have access to this project")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, apperror.ValidationFields("username is required", map[string]string{"username": "is required"})
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	assignee, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(ctx, "user", err)
	}

	task.AssignedToID = &assignee.ID
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, storageErr(ctx, "failed to assign task", err)
	}

	logger.InfoContext(ctx, "Task assigned", "task_id", task.ID, "assignee_id", assignee.ID)
	s.publishAssigned(ctx, actor, task, assignee)

	return s.detail(ctx, task.ID)
}

func (s *TaskServiceImpl) UpdateNotes(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.UpdateNotesRequest) (*models.Task, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(actor, task, project) {
		return nil, apperror.Forbidden("you do not have access to this task")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	task.Notes = req.Notes
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, storageErr(ctx, "failed to update notes", err)
	}

	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskUpdated,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"field": "notes"},
	})
	return s.detail(ctx, task.ID)
}

// ========== Collaboration ==========

func (s *TaskServiceImpl) AddSubmission(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.CreateSubmissionRequest) (*models.Submission, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(actor, task, project) {
		return nil, apperror.Forbidden("you do not have access to this task")
	}

	req.Content = strings.TrimSpace(req.Content)
	req.URL = strings.TrimSpace(req.URL)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.Content == "" && req.URL == "" {
		return nil, apperror.ValidationFields("submission is empty", map[string]string{
			"content": "content or url is required",
		})
	}
	if req.URL != "" && !isAbsoluteURL(req.URL) {
		return nil, invalidURL("url")
	}

	submission := &models.Submission{
		TaskID:      task.ID,
		SubmitterID: &actor.ID,
		Content:     req.Content,
		URL:         req.URL,
	}
	return s.saveSubmission(ctx, actor, task, submission)
}

// UploadSubmission เก็บไฟล์ผ่าน storage แล้วบันทึก submission ที่ชี้ไปยัง URL ของไฟล์
func (s *TaskServiceImpl) UploadSubmission(ctx context.Context, actor *models.User, taskID uuid.UUID, input *dto.UploadSubmissionInput) (*models.Submission, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccessTask(actor, task, project) {
		return nil, apperror.Forbidden("you do not have access to this task")
	}

	if input == nil || input.Reader == nil {
		return nil, apperror.ValidationFields("file is required", map[string]string{"file": "is required"})
	}
	if s.maxUploadSize > 0 && input.Size > s.maxUploadSize {
		return nil, apperror.ValidationFields("file is too large", map[string]string{
			"file": fmt.Sprintf("must be at most %s", utils.FormatBytes(uint64(s.maxUploadSize))),
		})
	}
	if s.storage == nil {
		return nil, apperror.Storage("file storage is not configured", nil)
	}

	key := utils.AttachmentPath(project.ID.String(), task.ID.String(), uuid.NewString()[:8], input.Filename)
	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// size มาจาก client อ่านจริงไม่เกิน max+1 แล้วนับเอง
	body := &countingReader{r: input.Reader}
	if s.maxUploadSize > 0 {
		body.r = io.LimitReader(input.Reader, s.maxUploadSize+1)
	}

	fileURL, err := s.storage.UploadFile(ctx, body, input.Size, key, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload attachment", "task_id", task.ID, "key", key, "error", err)
		return nil, apperror.Storage("failed to store file", err)
	}
	if s.maxUploadSize > 0 && body.n > s.maxUploadSize {
		removeAttachments(ctx, s.storage, []string{key})
		return nil, apperror.ValidationFields("file is too large", map[string]string{
			"file": fmt.Sprintf("must be at most %s", utils.FormatBytes(uint64(s.maxUploadSize))),
		})
	}

	submission := &models.Submission{
		TaskID:      task.ID,
		SubmitterID: &actor.ID,
		Content:     strings.TrimSpace(input.Content),
		URL:         fileURL,
		StorageKey:  key,
	}
	saved, err := s.saveSubmission(ctx, actor, task, submission)
	if err != nil {
		removeAttachments(ctx, s.storage, []string{key})
		return nil, err
	}
	return saved, nil
}

func (s *TaskServiceImpl) saveSubmission(ctx context.Context, actor *models.User, task *models.Task, submission *models.Submission) (*models.Submission, error) {
	if err := s.collabRepo.CreateSubmission(ctx, submission); err != nil {
		return nil, storageErr(ctx, "failed to save submission", err)
	}
	submission.Submitter = actor

	logger.InfoContext(ctx, "Submission added", "task_id", task.ID, "submission_id", submission.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventSubmissionAdded,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"submissionId": submission.ID.String()},
	})
	return submission, nil
}

func (s *TaskServiceImpl) AddFeedback(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.CreateFeedbackRequest) (*models.Feedback, error) {
	task, project, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !policy.CanGiveFeedback(actor, project) {
		return nil, apperror.Forbidden("only admins or the project owner can give feedback")
	}

	req.Content = strings.TrimSpace(req.Content)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{TaskID: task.ID, AuthorID: &actor.ID, Content: req.Content}
	if err := s.collabRepo.CreateFeedback(ctx, feedback); err != nil {
		return nil, storageErr(ctx, "failed to save feedback", err)
	}
	feedback.Author = actor

	logger.InfoContext(ctx, "Feedback added", "task_id", task.ID, "feedback_id", feedback.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventFeedbackAdded,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
	})
	return feedback, nil
}

// ========== Scheduler ==========

func (s *TaskServiceImpl) SweepOverdueTasks(ctx context.Context, now time.Time) (int, error) {
	tasks, err := s.taskRepo.ListOverdue(ctx, now, overdueSweepLimit)
	if err != nil {
		return 0, storageErr(ctx, "failed to list overdue tasks", err)
	}

	for _, task := range tasks {
		event := &ports.ActivityEvent{
			Type:      ports.EventTaskOverdue,
			ProjectID: task.ProjectID.String(),
			TaskID:    task.ID.String(),
			Data:      map[string]string{"dueDate": *dto.FormatDate(task.DueDate)},
		}
		if task.AssignedToID != nil {
			event.Data["assigneeId"] = task.AssignedToID.String()
		}
		publish(ctx, s.publisher, event)
	}

	if len(tasks) > 0 {
		logger.InfoContext(ctx, "Overdue tasks found", "count", len(tasks))
	}
	return len(tasks), nil
}

// ========== Helpers ==========

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// load คืน task พร้อมโปรเจกต์ (มี members) สำหรับเช็คสิทธิ์
func (s *TaskServiceImpl) load(ctx context.Context, taskID uuid.UUID) (*models.Task, *models.Project, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, lookupErr(ctx, "task", err)
	}
	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperror.Storage("task references a missing project", err)
		}
		return nil, nil, storageErr(ctx, "failed to load project", err)
	}
	return task, project, nil
}

func (s *TaskServiceImpl) detail(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, lookupErr(ctx, "task", err)
	}
	return task, nil
}

func (s *TaskServiceImpl) publishAssigned(ctx context.Context, actor *models.User, task *models.Task, assignee *models.User) {
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventTaskAssigned,
		ProjectID: task.ProjectID.String(),
		TaskID:    task.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"assigneeId": assignee.ID.String(), "username": assignee.Username},
	})
}
