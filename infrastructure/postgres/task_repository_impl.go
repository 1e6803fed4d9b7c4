package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(task).Error)
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := conn(ctx, r.db).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) GetDetail(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := conn(ctx, r.db).
		Preload("AssignedTo").
		Preload("CreatedBy").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Feedback", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Feedback.Author").
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Submissions.Submitter").
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) Update(ctx context.Context, task *models.Task) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Save(task).Error)
}

func (r *TaskRepositoryImpl) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := conn(ctx, r.db).Preload("AssignedTo").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListAssignedTo(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := conn(ctx, r.db).
		Where("assigned_to_id = ?", userID).
		Order("is_completed ASC, due_date ASC, created_at DESC").
		Offset(offset).Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) CountAssignedTo(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Task{}).Where("assigned_to_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) ListOverdue(ctx context.Context, now time.Time, limit int) ([]*models.Task, error) {
	var tasks []*models.Task
	err := conn(ctx, r.db).
		Where("is_completed = ? AND due_date IS NOT NULL AND due_date < ?", false, now).
		Order("due_date ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListChildIDs(ctx context.Context, parentID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).Model(&models.Task{}).Where("parent_id = ?", parentID).Pluck("id", &ids).Error
	return ids, err
}

// DetachChildren ย้ายลูกของ parentIDs ขึ้นเป็น top-level
func (r *TaskRepositoryImpl) DetachChildren(ctx context.Context, parentIDs []uuid.UUID) error {
	if len(parentIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Model(&models.Task{}).
		Where("parent_id IN ?", parentIDs).
		Update("parent_id", nil).Error
}

func (r *TaskRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return conn(ctx, r.db).Where("id IN ?", ids).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) ListIDsByProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).Model(&models.Task{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error
	return ids, err
}

func (r *TaskRepositoryImpl) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	db := conn(ctx, r.db)
	// ตัด parent ก่อน ไม่งั้น self foreign key จะขวางการลบ
	if err := db.Model(&models.Task{}).
		Where("project_id = ? AND parent_id IS NOT NULL", projectID).
		Update("parent_id", nil).Error; err != nil {
		return err
	}
	return db.Where("project_id = ?", projectID).Delete(&models.Task{}).Error
}

func (r *TaskRepositoryImpl) ClearAssignee(ctx context.Context, userID uuid.UUID) error {
	return conn(ctx, r.db).Model(&models.Task{}).
		Where("assigned_to_id = ?", userID).
		Update("assigned_to_id", nil).Error
}

func (r *TaskRepositoryImpl) ReassignCreator(ctx context.Context, from, to uuid.UUID) error {
	return conn(ctx, r.db).Model(&models.Task{}).
		Where("created_by_id = ?", from).
		Update("created_by_id", to).Error
}
