package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"project-tracker/domain/models"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// GetDetail preload assignee, creator, subtasks, feedback และ submissions
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error)
	ListAssignedTo(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Task, error)
	CountAssignedTo(ctx context.Context, userID uuid.UUID) (int64, error)
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Task, error)

	// Tree
	ListChildIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error)
	DetachChildren(ctx context.Context, parentIDs []uuid.UUID) error
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error

	// Project cascade
	ListIDsByProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error

	// User cascade
	ClearAssignee(ctx context.Context, userID uuid.UUID) error
	ReassignCreator(ctx context.Context, from, to uuid.UUID) error
}
