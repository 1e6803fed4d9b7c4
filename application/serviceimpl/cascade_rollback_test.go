package serviceimpl

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
	"project-tracker/infrastructure/memory"
	"project-tracker/infrastructure/postgres"
	"project-tracker/pkg/apperror"
)

var errWriteFailed = errors.New("write failed")

// repo ที่ทำงานจริงทุก method ยกเว้นขั้นสุดท้ายของ cascade

type userRepoFailingDelete struct {
	repositories.UserRepository
}

func (userRepoFailingDelete) Delete(ctx context.Context, id uuid.UUID) error {
	return errWriteFailed
}

type projectRepoFailingDelete struct {
	repositories.ProjectRepository
}

func (projectRepoFailingDelete) Delete(ctx context.Context, id uuid.UUID) error {
	return errWriteFailed
}

type taskRepoFailingDelete struct {
	repositories.TaskRepository
	failOn uuid.UUID
}

func (r taskRepoFailingDelete) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if id == r.failOn {
			return errWriteFailed
		}
	}
	return r.TaskRepository.DeleteByIDs(ctx, ids)
}

func (e *testEnv) storedSubmission(t *testing.T, task *models.Task, submitter *models.User, key string) *models.Submission {
	t.Helper()
	e.storage.files[key] = []byte("attachment")
	s := &models.Submission{TaskID: task.ID, SubmitterID: &submitter.ID, URL: e.storage.GetFileURL(key), StorageKey: key}
	require.NoError(t, e.collab.CreateSubmission(e.ctx, s))
	return s
}

func TestDeleteUserRollsBackWhenFinalStepFails(t *testing.T) {
	env := newTestEnv(t)
	admin := env.user(t, "root", true)
	bob := env.user(t, "bob", false)
	carol := env.user(t, "carol", false)

	owned := env.project(t, bob, "Bob's project", admin, carol)
	shared := env.project(t, carol, "Carol's project", bob)
	task := env.task(t, shared, bob, "Written by bob", nil)
	task.AssignedToID = &bob.ID
	require.NoError(t, env.tasks.Update(env.ctx, task))
	feedback := env.feedback(t, task, bob)
	submission := env.submission(t, task, bob)

	userService := NewUserService(userRepoFailingDelete{env.users}, env.projects, env.tasks, env.collab,
		postgres.NewTransactor(env.db), memory.NewTokenStore(), env.events, testJWTSecret, time.Hour)

	err := userService.DeleteUser(env.ctx, admin, "bob")
	require.True(t, apperror.Is(err, apperror.ErrStorage))

	assert.EqualValues(t, 1, env.count(t, &models.User{}, "id = ?", bob.ID))

	stored, err := env.tasks.GetByID(env.ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedToID)
	assert.Equal(t, bob.ID, *stored.AssignedToID)
	assert.Equal(t, bob.ID, stored.CreatedByID)

	project, err := env.projects.GetByID(env.ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, project.OwnerID)
	assert.True(t, project.HasMember(admin.ID))
	assert.True(t, project.HasMember(carol.ID))
	assert.EqualValues(t, 1, env.count(t, &models.ProjectMember{}, "project_id = ? AND user_id = ?", shared.ID, bob.ID))

	assert.EqualValues(t, 1, env.count(t, &models.Feedback{}, "id = ? AND author_id = ?", feedback.ID, bob.ID))
	assert.EqualValues(t, 1, env.count(t, &models.Submission{}, "id = ? AND submitter_id = ?", submission.ID, bob.ID))
	assert.Empty(t, env.events.Types())
}

func TestDeleteTaskRollsBackWhenFinalStepFails(t *testing.T) {
	f := newTaskFixture(t)
	env := f.env

	parent := env.task(t, f.project, f.owner, "Parent", nil)
	child := env.task(t, f.project, f.owner, "Child", parent)
	grandchild := env.task(t, f.project, f.owner, "Grandchild", child)
	env.feedback(t, parent, f.admin)
	env.feedback(t, child, f.admin)
	submission := env.storedSubmission(t, parent, f.member, "projects/p/tasks/t/a-report.pdf")

	taskService := NewTaskService(taskRepoFailingDelete{TaskRepository: env.tasks, failOn: parent.ID}, env.projects, env.users,
		env.collab, postgres.NewTransactor(env.db), env.storage, env.events, 1024)

	err := taskService.DeleteTask(env.ctx, f.admin, parent.ID)
	require.True(t, apperror.Is(err, apperror.ErrStorage))

	assert.EqualValues(t, 3, env.count(t, &models.Task{}, "project_id = ?", f.project.ID))
	storedGrandchild, err := env.tasks.GetByID(env.ctx, grandchild.ID)
	require.NoError(t, err)
	require.NotNil(t, storedGrandchild.ParentID)
	assert.Equal(t, child.ID, *storedGrandchild.ParentID)

	assert.EqualValues(t, 2, env.count(t, &models.Feedback{}, "task_id IN ?", []uuid.UUID{parent.ID, child.ID}))
	assert.EqualValues(t, 1, env.count(t, &models.Submission{}, "id = ?", submission.ID))
	assert.True(t, env.storage.has(submission.StorageKey), "stored file survives a rolled back delete")
	assert.Empty(t, env.events.Types())
}

func TestDeleteProjectRollsBackWhenFinalStepFails(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner", false)
	member := env.user(t, "member", false)
	project := env.project(t, owner, "Launch", member)

	task := env.task(t, project, owner, "Ship it", nil)
	env.task(t, project, owner, "Sub", task)
	env.feedback(t, task, owner)
	submission := env.storedSubmission(t, task, member, "projects/p/tasks/t/b-build.zip")

	projectService := NewProjectService(projectRepoFailingDelete{env.projects}, env.tasks, env.collab, env.users,
		postgres.NewTransactor(env.db), env.storage, env.events)

	err := projectService.DeleteProject(env.ctx, owner, project.ID)
	require.True(t, apperror.Is(err, apperror.ErrStorage))

	stored, err := env.projects.GetByID(env.ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasMember(member.ID))
	assert.EqualValues(t, 1, env.count(t, &models.ProjectMember{}, "project_id = ?", project.ID))
	assert.EqualValues(t, 2, env.count(t, &models.Task{}, "project_id = ?", project.ID))
	assert.EqualValues(t, 1, env.count(t, &models.Feedback{}, "task_id = ?", task.ID))
	assert.EqualValues(t, 1, env.count(t, &models.Submission{}, "id = ?", submission.ID))
	assert.True(t, env.storage.has(submission.StorageKey))
	assert.Empty(t, env.events.Types())
}
