package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
	"project-tracker/domain/policy"
	"project-tracker/domain/ports"
	"project-tracker/domain/repositories"
	"project-tracker/domain/services"
	"project-tracker/pkg/apperror"
	"project-tracker/pkg/logger"
)

const maxSlugAttempts = 50

type ProjectServiceImpl struct {
	projectRepo repositories.ProjectRepository
	taskRepo    repositories.TaskRepository
	collabRepo  repositories.CollaborationRepository
	userRepo    repositories.UserRepository
	transactor  repositories.Transactor
	storage     ports.StoragePort
	publisher   ports.EventPublisherPort
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	taskRepo repositories.TaskRepository,
	collabRepo repositories.CollaborationRepository,
	userRepo repositories.UserRepository,
	transactor repositories.Transactor,
	storage ports.StoragePort,
	publisher ports.EventPublisherPort,
) services.ProjectService {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		collabRepo:  collabRepo,
		userRepo:    userRepo,
		transactor:  transactor,
		storage:     storage,
		publisher:   publisher,
	}
}

// projectFields ค่าที่ผ่าน validation แล้ว ใช้ร่วมกันระหว่าง create และ edit
type projectFields struct {
	title       string
	description string
	status      string
	priority    models.Priority
	dueDate     string
	features    []string
	projectURL  string
}

func (f *projectFields) validate() error {
	if f.title == "" {
		return apperror.ValidationFields("title is required", map[string]string{"title": "is required"})
	}
	if _, err := models.ParseProjectStatus(f.status); err != nil {
		return err
	}
	if _, err := parseDueDate(f.dueDate); err != nil {
		return err
	}
	if f.projectURL != "" && !isAbsoluteURL(f.projectURL) {
		return invalidURL("projectUrl")
	}
	return nil
}

// apply เขียนทับทุก field ที่แก้ได้ ต้องเรียก validate ก่อน
func (f *projectFields) apply(p *models.Project) error {
	if err := p.SetStatus(f.status); err != nil {
		return err
	}
	due, err := parseDueDate(f.dueDate)
	if err != nil {
		return err
	}
	p.Title = f.title
	p.Description = f.description
	p.Priority = f.priority
	p.DueDate = due
	p.Features = f.features
	p.ProjectURL = f.projectURL
	return nil
}

func newProjectFields(title, description, status, priority, dueDate string, features []string, projectURL string) (*projectFields, error) {
	p, err := models.ParsePriority(strings.TrimSpace(priority))
	if err != nil {
		return nil, err
	}
	f := &projectFields{
		title:       strings.TrimSpace(title),
		description: strings.TrimSpace(description),
		status:      strings.TrimSpace(status),
		priority:    p,
		dueDate:     strings.TrimSpace(dueDate),
		features:    cleanList(features),
		projectURL:  strings.TrimSpace(projectURL),
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *ProjectServiceImpl) CreateProject(ctx context.Context, actor *models.User, req *dto.CreateProjectRequest) (*models.Project, error) {
	if !policy.CanCreateProject(actor) {
		return nil, apperror.Forbidden("only admins can create projects")
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	fields, err := newProjectFields(req.Title, req.Description, req.Status, req.Priority, req.DueDate, req.Features, req.ProjectURL)
	if err != nil {
		return nil, err
	}

	members, err := s.resolveMembers(ctx, actor, req.Members)
	if err != nil {
		return nil, err
	}

	project := &models.Project{OwnerID: actor.ID, Members: members}
	if err := fields.apply(project); err != nil {
		return nil, err
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		projectSlug, err := s.uniqueSlug(ctx, project.Title)
		if err != nil {
			return err
		}
		project.Slug = projectSlug
		return s.projectRepo.Create(ctx, project)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("a project with this slug already exists")
		}
		return nil, storageErr(ctx, "failed to create project", err)
	}

	logger.InfoContext(ctx, "Project created", "project_id", project.ID, "slug", project.Slug, "members", len(members))
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventProjectCreated,
		ProjectID: project.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"title": project.Title},
	})

	return s.detail(ctx, project.ID)
}

func (s *ProjectServiceImpl) EditProject(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditProject(actor, project) {
		return nil, apperror.Forbidden("only the project owner can edit this project")
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	fields, err := newProjectFields(req.Title, req.Description, req.Status, req.Priority, req.DueDate, req.Features, req.ProjectURL)
	if err != nil {
		return nil, err
	}
	if err := fields.apply(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, storageErr(ctx, "failed to update project", err)
	}

	logger.InfoContext(ctx, "Project updated", "project_id", project.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventProjectUpdated,
		ProjectID: project.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"status": string(project.Status)},
	})

	return s.detail(ctx, project.ID)
}

func (s *ProjectServiceImpl) ViewProject(ctx context.Context, actor *models.User, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.detail(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewProject(actor, project) {
		return nil, apperror.Forbidden("")
	}
	return project, nil
}

func (s *ProjectServiceImpl) ViewProjectBySlug(ctx context.Context, actor *models.User, projectSlug string) (*models.Project, error) {
	project, err := s.projectRepo.GetBySlug(ctx, strings.TrimSpace(projectSlug))
	if err != nil {
		return nil, lookupErr(ctx, "project", err)
	}
	if !policy.CanViewProject(actor, project) {
		return nil, apperror.Forbidden("")
	}
	return project, nil
}

// ListProjects scope mine = เป็น owner หรือ member, all = ทั้งองค์กร
func (s *ProjectServiceImpl) ListProjects(ctx context.Context, actor *models.User, scope string, offset, limit int) ([]*models.Project, int64, error) {
	if !policy.CanBrowse(actor) {
		return nil, 0, apperror.Forbidden("")
	}

	var (
		projects []*models.Project
		total    int64
		err      error
	)
	switch scope {
	case "", dto.ProjectScopeMine:
		projects, err = s.projectRepo.ListForUser(ctx, actor.ID, offset, limit)
		if err == nil {
			total, err = s.projectRepo.CountForUser(ctx, actor.ID)
		}
	case dto.ProjectScopeAll:
		projects, err = s.projectRepo.List(ctx, offset, limit)
		if err == nil {
			total, err = s.projectRepo.Count(ctx)
		}
	default:
		return nil, 0, apperror.ValidationFields("invalid scope", map[string]string{"scope": "must be one of mine, all"})
	}
	if err != nil {
		return nil, 0, storageErr(ctx, "failed to list projects", err)
	}
	return projects, total, nil
}

// DeleteProject ลบ task, feedback, submission และ roster ใน transaction เดียว
func (s *ProjectServiceImpl) DeleteProject(ctx context.Context, actor *models.User, projectID uuid.UUID) error {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteProject(actor, project) {
		return apperror.Forbidden("only the project owner or an admin can delete this project")
	}

	var keys []string
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		taskIDs, err := s.taskRepo.ListIDsByProject(ctx, project.ID)
		if err != nil {
			return err
		}
		if keys, err = s.collabRepo.ListStorageKeys(ctx, taskIDs); err != nil {
			return err
		}
		if err := s.collabRepo.DeleteByTaskIDs(ctx, taskIDs); err != nil {
			return err
		}
		if err := s.taskRepo.DeleteByProject(ctx, project.ID); err != nil {
			return err
		}
		if err := s.projectRepo.DeleteMembers(ctx, project.ID); err != nil {
			return err
		}
		return s.projectRepo.Delete(ctx, project.ID)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete project", "project_id", project.ID, "error", err)
		return apperror.Storage("failed to delete project", err)
	}

	removeAttachments(ctx, s.storage, keys)

	logger.InfoContext(ctx, "Project deleted", "project_id", project.ID, "actor_id", actor.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventProjectDeleted,
		ProjectID: project.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"title": project.Title},
	})
	return nil
}

// ========== Members ==========

func (s *ProjectServiceImpl) AddMember(ctx context.Context, actor *models.User, projectID uuid.UUID, req *dto.AddMemberRequest) (*models.Project, error) {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageMembers(actor, project) {
		return nil, apperror.Forbidden("only the project owner or an admin can manage members")
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, lookupErr(ctx, "user", err)
	}
	if user.ID == project.OwnerID {
		return nil, apperror.Validation("the project owner cannot be added as a member")
	}
	if project.HasMember(user.ID) {
		return nil, apperror.Conflict("user is already a member of this project")
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.MemberRoleDefault
	}

	err = s.projectRepo.AddMember(ctx, &models.ProjectMember{ProjectID: project.ID, UserID: user.ID, Role: role})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperror.Conflict("user is already a member of this project")
		}
		return nil, storageErr(ctx, "failed to add member", err)
	}

	logger.InfoContext(ctx, "Project member added", "project_id", project.ID, "user_id", user.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventMemberAdded,
		ProjectID: project.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"username": user.Username, "role": role},
	})

	return s.detail(ctx, project.ID)
}

func (s *ProjectServiceImpl) RemoveMember(ctx context.Context, actor *models.User, projectID uuid.UUID, username string) (*models.Project, error) {
	project, err := s.get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageMembers(actor, project) {
		return nil, apperror.Forbidden("only the project owner or an admin can manage members")
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, lookupErr(ctx, "user", err)
	}

	removed, err := s.projectRepo.RemoveMember(ctx, project.ID, user.ID)
	if err != nil {
		return nil, storageErr(ctx, "failed to remove member", err)
	}
	if !removed {
		return nil, apperror.NotFound("membership")
	}

	logger.InfoContext(ctx, "Project member removed", "project_id", project.ID, "user_id", user.ID)
	publish(ctx, s.publisher, &ports.ActivityEvent{
		Type:      ports.EventMemberRemoved,
		ProjectID: project.ID.String(),
		ActorID:   actor.ID.String(),
		Data:      map[string]string{"username": user.Username},
	})

	return s.detail(ctx, project.ID)
}

// ========== Helpers ==========

func (s *ProjectServiceImpl) get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(ctx, "project", err)
	}
	return project, nil
}

func (s *ProjectServiceImpl) detail(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, lookupErr(ctx, "project", err)
	}
	return project, nil
}

// resolveMembers แปลง username เป็น roster ตัดตัวซ้ำ owner ห้ามอยู่ใน roster
func (s *ProjectServiceImpl) resolveMembers(ctx context.Context, owner *models.User, usernames []string) ([]models.ProjectMember, error) {
	seen := make(map[uuid.UUID]bool)
	members := make([]models.ProjectMember, 0, len(usernames))

	for _, username := range cleanList(usernames) {
		user, err := s.userRepo.GetByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, apperror.NotFound(fmt.Sprintf("user %q", username))
			}
			return nil, storageErr(ctx, "failed to load user", err)
		}
		if user.ID == owner.ID {
			return nil, apperror.ValidationFields("the project owner cannot be a member", map[string]string{
				"members": "must not include the owner",
			})
		}
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		members = append(members, models.ProjectMember{UserID: user.ID, Role: models.MemberRoleDefault})
	}
	return members, nil
}

// uniqueSlug ต่อท้าย -2, -3 ... ถ้าชน
func (s *ProjectServiceImpl) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "project"
	}

	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		exists, err := s.projectRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8]), nil
}

// removeAttachments ลบไฟล์หลัง commit แล้ว ถ้าลบไม่ได้แค่ log
func removeAttachments(ctx context.Context, storage ports.StoragePort, keys []string) {
	if storage == nil {
		return
	}
	for _, key := range keys {
		if err := storage.DeleteFile(ctx, key); err != nil {
			logger.WarnContext(ctx, "Failed to delete attachment", "key", key, "provider", storage.GetProviderName(), "error", err)
		}
	}
}
