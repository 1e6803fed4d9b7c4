package repositories

import (
	"context"

	"github.com/google/uuid"
	"project-tracker/domain/models"
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	// GetByID preload Members มาด้วยเพื่อใช้เช็คสิทธิ์
	GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	// GetDetail preload owner, members และ tasks
	GetDetail(ctx context.Context, id uuid.UUID) (*models.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*models.Project, error)
	Count(ctx context.Context) (int64, error)
	// ListForUser โปรเจกต์ที่เป็น owner หรือ member
	ListForUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.Project, error)
	CountForUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// Membership
	AddMember(ctx context.Context, member *models.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error)
	DeleteMembers(ctx context.Context, projectID uuid.UUID) error
	RemoveUserFromAllProjects(ctx context.Context, userID uuid.UUID) error

	// ReassignOwner ย้าย ownership ทุกโปรเจกต์ของ from ไปให้ to คืน id โปรเจกต์ที่ถูกย้าย
	ReassignOwner(ctx context.Context, from, to uuid.UUID) ([]uuid.UUID, error)
	RemoveMemberships(ctx context.Context, projectIDs []uuid.UUID, userID uuid.UUID) error
}
