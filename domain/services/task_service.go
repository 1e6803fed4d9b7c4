package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
)

type TaskService interface {
	CreateTask(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, actor *models.User, taskID uuid.UUID) (*models.Task, error)
	ListProjectTasks(ctx context.Context, actor *models.User, projectID uuid.UUID) ([]*models.Task, error)
	ListAssignedTasks(ctx context.Context, actor *models.User, offset, limit int) ([]*models.Task, int64, error)
	EditTask(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, actor *models.User, taskID uuid.UUID) error

	// ToggleTask คืน task หลังสลับสถานะ
	ToggleTask(ctx context.Context, actor *models.User, taskID uuid.UUID) (*models.Task, error)
	AssignTask(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.AssignTaskRequest) (*models.Task, error)
	UpdateNotes(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.UpdateNotesRequest) (*models.Task, error)

	// Collaboration
	AddSubmission(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.CreateSubmissionRequest) (*models.Submission, error)
	UploadSubmission(ctx context.Context, actor *models.User, taskID uuid.UUID, input *dto.UploadSubmissionInput) (*models.Submission, error)
	AddFeedback(ctx context.Context, actor *models.User, taskID uuid.UUID, req *dto.CreateFeedbackRequest) (*models.Feedback, error)

	// SweepOverdueTasks job ของ scheduler คืนจำนวนงานที่เลยกำหนด
	SweepOverdueTasks(ctx context.Context, now time.Time) (int, error)
}
