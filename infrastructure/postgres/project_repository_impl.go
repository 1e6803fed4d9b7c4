package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
)

type ProjectRepositoryImpl struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) repositories.ProjectRepository {
	return &ProjectRepositoryImpl{db: db}
}

// Create บันทึกโปรเจกต์พร้อม roster ใน Members (ไม่ upsert user)
func (r *ProjectRepositoryImpl) Create(ctx context.Context, project *models.Project) error {
	members := project.Members
	project.Members = nil

	db := conn(ctx, r.db)
	if err := db.Omit(clause.Associations).Create(project).Error; err != nil {
		project.Members = members
		return translate(err)
	}

	for i := range members {
		members[i].ProjectID = project.ID
		if err := db.Omit(clause.Associations).Create(&members[i]).Error; err != nil {
			project.Members = members
			return translate(err)
		}
	}
	project.Members = members
	return nil
}

func (r *ProjectRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := conn(ctx, r.db).Preload("Members").Where("id = ?", id).First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := conn(ctx, r.db).Select("id").Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return r.GetDetail(ctx, project.ID)
}

func (r *ProjectRepositoryImpl) GetDetail(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := conn(ctx, r.db).
		Preload("Owner").
		Preload("Members.User").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Tasks.AssignedTo").
		Where("id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Update เขียนเฉพาะ field ของโปรเจกต์ roster แก้ผ่าน AddMember/RemoveMember
func (r *ProjectRepositoryImpl) Update(ctx context.Context, project *models.Project) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Save(project).Error)
}

func (r *ProjectRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&models.Project{}).Error
}

func (r *ProjectRepositoryImpl) List(ctx context.Context, offset, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := conn(ctx, r.db).Preload("Owner").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Project{}).Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) forUser(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	memberOf := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)
	return db.Model(&models.Project{}).Where("owner_id = ? OR id IN (?)", userID, memberOf)
}

func (r *ProjectRepositoryImpl) ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.forUser(conn(ctx, r.db), userID).Preload("Owner").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) CountForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.forUser(conn(ctx, r.db), userID).Count(&count).Error
	return count, err
}

func (r *ProjectRepositoryImpl) AddMember(ctx context.Context, member *models.ProjectMember) error {
	return translate(conn(ctx, r.db).Omit(clause.Associations).Create(member).Error)
}

func (r *ProjectRepositoryImpl) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	result := conn(ctx, r.db).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectMember{})
	return result.RowsAffected > 0, result.Error
}

func (r *ProjectRepositoryImpl) DeleteMembers(ctx context.Context, projectID uuid.UUID) error {
	return conn(ctx, r.db).Where("project_id = ?", projectID).Delete(&models.ProjectMember{}).Error
}

func (r *ProjectRepositoryImpl) RemoveUserFromAllProjects(ctx context.Context, userID uuid.UUID) error {
	return conn(ctx, r.db).Where("user_id = ?", userID).Delete(&models.ProjectMember{}).Error
}

func (r *ProjectRepositoryImpl) ReassignOwner(ctx context.Context, from, to uuid.UUID) ([]uuid.UUID, error) {
	db := conn(ctx, r.db)

	var ids []uuid.UUID
	if err := db.Model(&models.Project{}).Where("owner_id = ?", from).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	err := db.Model(&models.Project{}).Where("id IN ?", ids).Update("owner_id", to).Error
	return ids, err
}

func (r *ProjectRepositoryImpl) RemoveMemberships(ctx context.Context, projectIDs []uuid.UUID, userID uuid.UUID) error {
	if len(projectIDs) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Where("project_id IN ? AND user_id = ?", projectIDs, userID).
		Delete(&models.ProjectMember{}).Error
}
