package repositories

import (
	"context"

	"github.com/google/uuid"
	"project-tracker/domain/models"
)

// CollaborationRepository ดูแล feedback และ submission ของ task
type CollaborationRepository interface {
	CreateFeedback(ctx context.Context, feedback *models.Feedback) error
	CreateSubmission(ctx context.Context, submission *models.Submission) error
	ListFeedback(ctx context.Context, taskID uuid.UUID) ([]*models.Feedback, error)
	ListSubmissions(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error)
	// ListStorageKeys key ของไฟล์แนบใน storage ของ task เหล่านี้
	ListStorageKeys(ctx context.Context, taskIDs []uuid.UUID) ([]string, error)
	DeleteByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) error
	// DetachUser null author/submitter ที่อ้างถึง user
	DetachUser(ctx context.Context, userID uuid.UUID) error
}
