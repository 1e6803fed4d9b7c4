package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
)

type CollaborationRepositoryImpl struct {
	db *gorm.DB
}

func NewCollaborationRepository(db *gorm.DB) repositories.CollaborationRepository {
	return &CollaborationRepositoryImpl{db: db}
}

func (r *CollaborationRepositoryImpl) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(feedback).Error
}

func (r *CollaborationRepositoryImpl) CreateSubmission(ctx context.Context, submission *models.Submission) error {
	return conn(ctx, r.db).Omit(clause.Associations).Create(submission).Error
}

func (r *CollaborationRepositoryImpl) ListFeedback(ctx context.Context, taskID uuid.UUID) ([]*models.Feedback, error) {
	var feedback []*models.Feedback
	err := conn(ctx, r.db).Preload("Author").
		Where("task_id = ?", taskID).Order("created_at ASC").Find(&feedback).Error
	return feedback, err
}

func (r *CollaborationRepositoryImpl) ListSubmissions(ctx context.Context, taskID uuid.UUID) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := conn(ctx, r.db).Preload("Submitter").
		Where("task_id = ?", taskID).Order("created_at ASC").Find(&submissions).Error
	return submissions, err
}

func (r *CollaborationRepositoryImpl) ListStorageKeys(ctx context.Context, taskIDs []uuid.UUID) ([]string, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var keys []string
	err := conn(ctx, r.db).Model(&models.Submission{}).
		Where("task_id IN ? AND storage_key <> ''", taskIDs).
		Pluck("storage_key", &keys).Error
	return keys, err
}

func (r *CollaborationRepositoryImpl) DeleteByTaskIDs(ctx context.Context, taskIDs []uuid.UUID) error {
	if len(taskIDs) == 0 {
		return nil
	}
	db := conn(ctx, r.db)
	if err := db.Where("task_id IN ?", taskIDs).Delete(&models.Feedback{}).Error; err != nil {
		return err
	}
	return db.Where("task_id IN ?", taskIDs).Delete(&models.Submission{}).Error
}

func (r *CollaborationRepositoryImpl) DetachUser(ctx context.Context, userID uuid.UUID) error {
	db := conn(ctx, r.db)
	if err := db.Model(&models.Feedback{}).
		Where("author_id = ?", userID).
		Update("author_id", nil).Error; err != nil {
		return err
	}
	return db.Model(&models.Submission{}).
		Where("submitter_id = ?", userID).
		Update("submitter_id", nil).Error
}

var _ repositories.CollaborationRepository = (*CollaborationRepositoryImpl)(nil)
