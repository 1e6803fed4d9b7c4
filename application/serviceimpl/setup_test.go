package serviceimpl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"project-tracker/domain/models"
	"project-tracker/domain/repositories"
	"project-tracker/domain/services"
	"project-tracker/infrastructure/memory"
	"project-tracker/infrastructure/messaging"
	"project-tracker/infrastructure/postgres"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	ctx context.Context
	db  *gorm.DB

	users    repositories.UserRepository
	projects repositories.ProjectRepository
	tasks    repositories.TaskRepository
	collab   repositories.CollaborationRepository

	events  *messaging.RecordingPublisher
	storage *fakeStorage

	userService    services.UserService
	projectService services.ProjectService
	taskService    services.TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: ":memory:",
		LogLevel:   "silent",
	})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	env := &testEnv{
		ctx:      context.Background(),
		db:       db,
		users:    postgres.NewUserRepository(db),
		projects: postgres.NewProjectRepository(db),
		tasks:    postgres.NewTaskRepository(db),
		collab:   postgres.NewCollaborationRepository(db),
		events:   &messaging.RecordingPublisher{},
		storage:  newFakeStorage(),
	}
	tx := postgres.NewTransactor(db)

	env.userService = NewUserService(env.users, env.projects, env.tasks, env.collab, tx,
		memory.NewTokenStore(), env.events, testJWTSecret, time.Hour)
	env.projectService = NewProjectService(env.projects, env.tasks, env.collab, env.users, tx,
		env.storage, env.events)
	env.taskService = NewTaskService(env.tasks, env.projects, env.users, env.collab, tx,
		env.storage, env.events, 1024)

	return env
}

func (e *testEnv) user(t *testing.T, username string, admin bool) *models.User {
	t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		IsActive: true,
	}
	u.SetAdmin(admin)
	require.NoError(t, e.users.Create(e.ctx, u))
	return u
}

func (e *testEnv) project(t *testing.T, owner *models.User, title string, members ...*models.User) *models.Project {
	t.Helper()
	p := &models.Project{
		Title:    title,
		Slug:     strings.ToLower(strings.ReplaceAll(title, " ", "-")) + "-" + uuid.NewString()[:6],
		Status:   models.ProjectStatusActive,
		Priority: models.PriorityMedium,
		OwnerID:  owner.ID,
	}
	for _, m := range members {
		p.Members = append(p.Members, models.ProjectMember{UserID: m.ID, Role: models.MemberRoleDefault})
	}
	require.NoError(t, e.projects.Create(e.ctx, p))
	return p
}

func (e *testEnv) task(t *testing.T, project *models.Project, creator *models.User, title string, parent *models.Task) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:       title,
		Status:      models.TaskStatusOpen,
		Priority:    models.PriorityMedium,
		ProjectID:   project.ID,
		CreatedByID: creator.ID,
	}
	if parent != nil {
		task.ParentID = &parent.ID
	}
	require.NoError(t, e.tasks.Create(e.ctx, task))
	return task
}

func (e *testEnv) feedback(t *testing.T, task *models.Task, author *models.User) *models.Feedback {
	t.Helper()
	f := &models.Feedback{TaskID: task.ID, AuthorID: &author.ID, Content: "looks good"}
	require.NoError(t, e.collab.CreateFeedback(e.ctx, f))
	return f
}

func (e *testEnv) submission(t *testing.T, task *models.Task, submitter *models.User) *models.Submission {
	t.Helper()
	s := &models.Submission{TaskID: task.ID, SubmitterID: &submitter.ID, Content: "done"}
	require.NoError(t, e.collab.CreateSubmission(e.ctx, s))
	return s
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := e.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

// fakeStorage เก็บไฟล์ไว้ใน map
type fakeStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (f *fakeStorage) UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = data
	return f.GetFileURL(path), nil
}

func (f *fakeStorage) DeleteFile(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeStorage) GetFileURL(path string) string {
	return "https://files.example.com/" + path
}

func (f *fakeStorage) GetFileContent(ctx context.Context, path string) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (f *fakeStorage) GetProviderName() string {
	return "fake"
}

func (f *fakeStorage) has(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.files[path]
	return ok
}

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}
