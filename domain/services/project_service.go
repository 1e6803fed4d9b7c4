package services

import (
	"context"

	"github.com/google/uuid"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
)

type ProjectService interface {
	CreateProject(ctx context.Context, actor *models.User, req *dto.CreateProjectRequest) (*models.Project, error)
	EditProject(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error)
	ViewProject(ctx context.Context, actor *models.User, projectID uuid.UUID) (*models.Project, error)
	ViewProjectBySlug(ctx context.Context, actor *models.User, slug string) (*models.Project, error)
	ListProjects(ctx context.Context, actor *models.User, scope string, offset, limit int) ([]*models.Project, int64, error)
	DeleteProject(ctx context.Context, actor *models.User, projectID uuid.UUID) error

	// Members
	AddMember(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.AddMemberRequest) (*models.Project, error)
	RemoveMember(ctx context.Context, actor *models.User, projectID uuid.UUID, username string) (*models.Project, error)
}
