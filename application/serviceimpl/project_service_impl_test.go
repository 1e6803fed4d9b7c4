package serviceimpl

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/domain/dto"
	"project-tracker/domain/models"
	"project-tracker/domain/ports"
	"project-tracker/pkg/apperror"
)

func TestCreateProjectIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "alice", false)

	_, err := env.projectService.CreateProject(env.ctx, user, &dto.CreateProjectRequest{Title: "Website"})

	assert.True(t, apperror.Is(err, apperror.ErrForbidden))
	assert.Zero(t, env.count(t, &models.Project{}, ""))
}

func TestCreateProjectRejectsInvalidFields(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)

	cases := map[string]*dto.CreateProjectRequest{
		"bogus status": {Title: "Website", Status: "bogus"},
		"blank title":  {Title: "   "},
		"bad date":     {Title: "Website", DueDate: "31/12/2024"},
		"bad priority": {Title: "Website", Priority: "urgent"},
		"relative url": {Title: "Website", ProjectURL: "/docs"},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.projectService.CreateProject(env.ctx, admin, req)
			assert.True(t, apperror.Is(err, apperror.ErrValidation), "got %v", err)
		})
	}
	assert.Zero(t, env.count(t, &models.Project{}, ""))
}

func TestCreateProjectAppliesDefaultsAndRoster(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)
	bob := env.user(t, "bob", false)
	carol := env.user(t, "carol", false)

	project, err := env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{
		Title:      "Website Redesign",
		DueDate:    "2030-01-15",
		Features:   []string{"login", " ", "search"},
		ProjectURL: "https://example.com/site",
		Members:    []string{"bob", "carol", "bob"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Equal(t, "website-redesign", project.Slug)
	assert.Equal(t, admin.ID, project.OwnerID)
	assert.Equal(t, []string{"login", "search"}, project.Features)
	require.NotNil(t, project.DueDate)
	assert.Equal(t, "2030-01-15", project.DueDate.Format(dto.DateLayout))
	assert.Len(t, project.Members, 2)
	assert.True(t, project.HasMember(bob.ID))
	assert.True(t, project.HasMember(carol.ID))
	assert.Equal(t, []string{ports.EventProjectCreated}, env.events.Types())
}

func TestCreateProjectSlugCollisionGetsSuffix(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)

	first, err := env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{Title: "Roadmap"})
	require.NoError(t, err)
	second, err := env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{Title: "Roadmap"})
	require.NoError(t, err)

	assert.Equal(t, "roadmap", first.Slug)
	assert.Equal(t, "roadmap-2", second.Slug)
}

func TestCreateProjectRosterErrors(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)

	_, err := env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{Title: "X", Members: []string{"ghost"}})
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	_, err = env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{Title: "X", Members: []string{"root"}})
	assert.True(t, apperror.Is(err, apperror.ErrValidation))

	assert.Zero(t, env.count(t, &models.Project{}, ""))
}

func TestEditProjectOnlyOwner(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	admin := env.user(t, "root", true)
	member := env.user(t, "member", false)
	outsider := env.user(t, "outsider", false)
	project := env.project(t, owner, "Mobile App", member)

	req := &dto.UpdateProjectRequest{Title: "Hijacked", Status: "archived"}
	for _, actor := range []*models.User{admin, member, outsider} {
		_, err := env.projectService.EditProject(env.ctx, actor, project.ID, req)
		assert.True(t, apperror.Is(err, apperror.ErrForbidden), actor.Username)
	}

	stored, err := env.projects.GetByID(env.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mobile App", stored.Title)
	assert.Equal(t, models.ProjectStatusActive, stored.Status)
}

func TestEditProjectReplacesFields(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	project := env.project(t, owner, "Mobile App")

	_, err := env.projectService.EditProject(env.ctx, owner, project.ID, &dto.UpdateProjectRequest{
		Title: "Mobile App v2", Status: "on_hold", Priority: "high", DueDate: "2031-06-01",
		Features: []string{"offline"},
	})
	require.NoError(t, err)

	updated, err := env.projectService.EditProject(env.ctx, owner, project.ID, &dto.UpdateProjectRequest{
		Title: "Mobile App v2", Status: "completed",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ProjectStatusCompleted, updated.Status)
	assert.Equal(t, models.PriorityMedium, updated.Priority)
	assert.Nil(t, updated.DueDate)
	assert.Empty(t, updated.Features)
	assert.Equal(t, project.Slug, updated.Slug)
}

func TestProjectBlankDueDateClearsIt(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)

	created, err := env.projectService.CreateProject(env.ctx, admin, &dto.CreateProjectRequest{Title: "Docs", DueDate: "  "})
	require.NoError(t, err)
	assert.Nil(t, created.DueDate)

	_, err = env.projectService.EditProject(env.ctx, admin, created.ID, &dto.UpdateProjectRequest{Title: "Docs", DueDate: "2031-06-01"})
	require.NoError(t, err)

	_, err = env.projectService.EditProject(env.ctx, admin, created.ID, &dto.UpdateProjectRequest{Title: "Docs", DueDate: "   "})
	require.NoError(t, err)

	stored, err := env.projects.GetByID(env.ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DueDate)

	_, err = env.projectService.EditProject(env.ctx, admin, created.ID, &dto.UpdateProjectRequest{Title: "Docs", DueDate: "June 1st"})
	require.True(t, apperror.Is(err, apperror.ErrValidation))
	assert.Contains(t, apperror.From(err).Details, "dueDate")
}

func TestEditProjectInvalidStatusLeavesStoredValue(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	project := env.project(t, owner, "Mobile App")

	_, err := env.projectService.EditProject(env.ctx, owner, project.ID, &dto.UpdateProjectRequest{Title: "Mobile", Status: "bogus"})
	assert.True(t, apperror.Is(err, apperror.ErrValidation))

	stored, err := env.projects.GetByID(env.ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusActive, stored.Status)
	assert.Equal(t, "Mobile App", stored.Title)
}

func TestViewProjectDistinguishesMissingFromForbidden(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	outsider := env.user(t, "outsider", false)
	project := env.project(t, owner, "Docs")
	env.task(t, project, owner, "Write intro", nil)

	_, err := env.projectService.ViewProject(env.ctx, outsider, uuid.New())
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	viewed, err := env.projectService.ViewProject(env.ctx, outsider, project.ID)
	require.NoError(t, err)
	assert.Len(t, viewed.Tasks, 1)
	require.NotNil(t, viewed.Owner)
	assert.Equal(t, "owner", viewed.Owner.Username)

	bySlug, err := env.projectService.ViewProjectBySlug(env.ctx, outsider, project.Slug)
	require.NoError(t, err)
	assert.Equal(t, project.ID, bySlug.ID)

	outsider.IsActive = false
	_, err = env.projectService.ViewProject(env.ctx, outsider, project.ID)
	assert.True(t, apperror.Is(err, apperror.ErrForbidden))
}

func TestListProjectsScopes(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice", false)
	bob := env.user(t, "bob", false)
	env.project(t, alice, "Owned")
	env.project(t, bob, "Joined", alice)
	env.project(t, bob, "Other")

	mine, total, err := env.projectService.ListProjects(env.ctx, alice, dto.ProjectScopeMine, 0, 10)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.EqualValues(t, 2, total)

	all, total, err := env.projectService.ListProjects(env.ctx, alice, dto.ProjectScopeAll, 0, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, total)

	_, _, err = env.projectService.ListProjects(env.ctx, alice, "everything", 0, 10)
	assert.True(t, apperror.Is(err, apperror.ErrValidation))
}

func TestDeleteProjectCascades(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	member := env.user(t, "member", false)
	admin := env.user(t, "root", true)
	project := env.project(t, owner, "Launch", member)
	keep := env.project(t, owner, "Keep")

	parent := env.task(t, project, owner, "Parent", nil)
	child := env.task(t, project, owner, "Child", parent)
	env.feedback(t, parent, owner)
	env.submission(t, child, member)
	kept := env.task(t, keep, owner, "Unrelated", nil)

	upload, err := env.taskService.UploadSubmission(env.ctx, member, child.ID, &dto.UploadSubmissionInput{
		Filename: "report.txt", Size: 5, Reader: stringsReader("hello"),
	})
	require.NoError(t, err)
	require.True(t, env.storage.has(upload.StorageKey))

	_, err = env.projectService.CreateProject(env.ctx, member, &dto.CreateProjectRequest{Title: "nope"})
	require.Error(t, err)
	err = env.projectService.DeleteProject(env.ctx, member, project.ID)
	assert.True(t, apperror.Is(err, apperror.ErrForbidden))

	require.NoError(t, env.projectService.DeleteProject(env.ctx, admin, project.ID))

	assert.Zero(t, env.count(t, &models.Project{}, "id = ?", project.ID))
	assert.Zero(t, env.count(t, &models.Task{}, "project_id = ?", project.ID))
	assert.Zero(t, env.count(t, &models.ProjectMember{}, "project_id = ?", project.ID))
	assert.Zero(t, env.count(t, &models.Feedback{}, ""))
	assert.Zero(t, env.count(t, &models.Submission{}, ""))
	assert.False(t, env.storage.has(upload.StorageKey))
	assert.EqualValues(t, 1, env.count(t, &models.Task{}, "id = ?", kept.ID))

	err = env.projectService.DeleteProject(env.ctx, admin, project.ID)
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))
}

func TestProjectMembers(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	bob := env.user(t, "bob", false)
	outsider := env.user(t, "outsider", false)
	project := env.project(t, owner, "Team")

	_, err := env.projectService.AddMember(env.ctx, outsider, project.ID, &dto.AddMemberRequest{Username: "bob"})
	assert.True(t, apperror.Is(err, apperror.ErrForbidden))

	updated, err := env.projectService.AddMember(env.ctx, owner, project.ID, &dto.AddMemberRequest{Username: "bob", Role: "reviewer"})
	require.NoError(t, err)
	require.Len(t, updated.Members, 1)
	assert.Equal(t, "reviewer", updated.Members[0].Role)
	assert.Equal(t, "bob", updated.Members[0].User.Username)

	_, err = env.projectService.AddMember(env.ctx, owner, project.ID, &dto.AddMemberRequest{Username: "bob"})
	assert.True(t, apperror.Is(err, apperror.ErrConflict))

	_, err = env.projectService.AddMember(env.ctx, owner, project.ID, &dto.AddMemberRequest{Username: "owner"})
	assert.True(t, apperror.Is(err, apperror.ErrValidation))

	_, err = env.projectService.AddMember(env.ctx, owner, project.ID, &dto.AddMemberRequest{Username: "ghost"})
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	updated, err = env.projectService.RemoveMember(env.ctx, owner, project.ID, "bob")
	require.NoError(t, err)
	assert.False(t, updated.HasMember(bob.ID))

	_, err = env.projectService.RemoveMember(env.ctx, owner, project.ID, "bob")
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	assert.Equal(t, []string{ports.EventMemberAdded, ports.EventMemberRemoved}, env.events.Types())
}
