package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-tracker/application/serviceimpl"
	"project-tracker/domain/dto"
	"project-tracker/infrastructure/memory"
	"project-tracker/infrastructure/messaging"
	"project-tracker/infrastructure/postgres"
	"project-tracker/infrastructure/storage"
	"project-tracker/interfaces/api/handlers"
	"project-tracker/interfaces/api/middleware"
	"project-tracker/interfaces/api/routes"
	"project-tracker/pkg/metrics"
)

type apiEnv struct {
	app *fiber.App
	t   *testing.T
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	db, err := postgres.NewDatabase(postgres.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	files, err := storage.NewLocalStorage(storage.LocalStorageConfig{BasePath: t.TempDir(), BaseURL: "http://test/files"})
	require.NoError(t, err)

	users := postgres.NewUserRepository(db)
	projects := postgres.NewProjectRepository(db)
	tasks := postgres.NewTaskRepository(db)
	collab := postgres.NewCollaborationRepository(db)
	tx := postgres.NewTransactor(db)
	events := messaging.NoopPublisher{}

	userService := serviceimpl.NewUserService(users, projects, tasks, collab, tx, memory.NewTokenStore(), events, "api-secret", time.Hour)
	projectService := serviceimpl.NewProjectService(projects, tasks, collab, users, tx, files, events)
	taskService := serviceimpl.NewTaskService(tasks, projects, users, collab, tx, files, events, 1<<20)

	m := metrics.New()
	h := handlers.NewHandlers(&handlers.Services{
		UserService:    userService,
		ProjectService: projectService,
		TaskService:    taskService,
		Metrics:        m,
		JWTTTL:         time.Hour,
		MaxUploadSize:  1 << 20,
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.MetricsMiddleware(m))
	routes.SetupRoutes(app, h, middleware.Protected(userService), nil)

	_, _, err = userService.CreateAdmin(t.Context(), &dto.CreateUserRequest{
		Username: "root", Email: "root@example.com", Password: "root-password",
	})
	require.NoError(t, err)

	return &apiEnv{app: app, t: t}
}

func (e *apiEnv) do(req *http.Request) (*http.Response, envelope) {
	e.t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(e.t, err)

	var body envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), fiber.MIMEApplicationJSON) {
		require.NoError(e.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func (e *apiEnv) call(method, path, token string, payload any) (*http.Response, envelope) {
	e.t.Helper()
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if payload != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.do(req)
}

func (e *apiEnv) login(login, password string) string {
	e.t.Helper()
	resp, body := e.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"login": login, "password": password})
	require.Equal(e.t, http.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	require.NoError(e.t, json.Unmarshal(body.Data, &auth))
	return auth.Token
}

func (e *apiEnv) register(username string) string {
	e.t.Helper()
	resp, _ := e.call(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "email": username + "@example.com", "password": "password-123",
	})
	require.Equal(e.t, http.StatusCreated, resp.StatusCode)
	return e.login(username, "password-123")
}

func decode[T any](t *testing.T, body envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body.Data, &v))
	return v
}

func TestAuthFlow(t *testing.T) {
	env := newAPIEnv(t)
	token := env.register("alice")

	resp, body := env.call(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decode[dto.UserResponse](t, body).Username)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	resp, _ = env.call(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = env.call(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Error.Code)

	resp, _ = env.call(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.call(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"login": "alice", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterValidationEnvelope(t *testing.T) {
	env := newAPIEnv(t)

	resp, body := env.call(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "al", "email": "nope", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "username")
	assert.Contains(t, body.Error.Details, "email")
	assert.Contains(t, body.Error.Details, "password")

	resp, _ = env.call(http.MethodPost, "/api/v1/auth/register", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProjectForbiddenVersusNotFound(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.login("root", "root-password")
	alice := env.register("alice")

	resp, body := env.call(http.MethodPost, "/api/v1/projects", alice, map[string]any{"title": "Nope"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)

	resp, body = env.call(http.MethodPost, "/api/v1/projects", admin, map[string]any{"title": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Error.Details, "title")

	resp, body = env.call(http.MethodPost, "/api/v1/projects", admin, map[string]any{
		"title": "Launch", "priority": "high", "dueDate": "2031-01-01", "features": []string{"sso"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	project := decode[dto.ProjectDetailResponse](t, body)
	assert.Equal(t, "launch", project.Slug)
	path := "/api/v1/projects/" + project.ID.String()

	resp, _ = env.call(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "projects are visible to every active user")

	resp, _ = env.call(http.MethodGet, "/api/v1/projects/slug/launch", alice, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.call(http.MethodPut, path, alice, map[string]any{"title": "Hijack"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.call(http.MethodPut, "/api/v1/projects/5d0c4ac4-7b67-4a3e-a4a4-6f0a3c8e2f11", alice, map[string]any{"title": "Ghost"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.call(http.MethodGet, "/api/v1/projects/not-a-uuid", alice, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, path, alice, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.call(http.MethodGet, path, alice, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.login("root", "root-password")
	alice := env.register("alice")
	bob := env.register("bob")

	_, body := env.call(http.MethodPost, "/api/v1/projects", admin, map[string]any{"title": "Site", "members": []string{"alice"}})
	project := decode[dto.ProjectDetailResponse](t, body)
	tasksPath := "/api/v1/projects/" + project.ID.String() + "/tasks"

	resp, _ := env.call(http.MethodPost, tasksPath, bob, map[string]any{"title": "Outsider task"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.call(http.MethodPost, tasksPath, alice, map[string]any{"title": "Write copy", "assignedTo": "bob"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	task := decode[dto.TaskResponse](t, body)
	taskPath := "/api/v1/tasks/" + task.ID.String()

	resp, body = env.call(http.MethodGet, "/api/v1/tasks/assigned", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.TaskResponse](t, body), 1)

	resp, body = env.call(http.MethodPost, taskPath+"/toggle", bob, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decode[dto.ToggleTaskResponse](t, body)
	assert.True(t, toggled.IsCompleted)
	assert.Equal(t, "completed", toggled.Status)

	resp, _ = env.call(http.MethodPost, taskPath+"/feedback", alice, map[string]any{"content": "nice"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.call(http.MethodPost, taskPath+"/feedback", admin, map[string]any{"content": "nice"})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = env.call(http.MethodPost, taskPath+"/submissions", bob, map[string]any{"url": "not a url"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.call(http.MethodPut, taskPath, alice, map[string]any{"title": "Renamed"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, "/api/v1/tasks/5d0c4ac4-7b67-4a3e-a4a4-6f0a3c8e2f11", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, taskPath, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestUploadSubmission(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.login("root", "root-password")

	_, body := env.call(http.MethodPost, "/api/v1/projects", admin, map[string]any{"title": "Docs"})
	project := decode[dto.ProjectDetailResponse](t, body)
	_, body = env.call(http.MethodPost, "/api/v1/projects/"+project.ID.String()+"/tasks", admin, map[string]any{"title": "Draft"})
	task := decode[dto.TaskResponse](t, body)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "draft.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("first draft"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("content", "attached"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/submissions/upload", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)

	resp, body := env.do(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	submission := decode[dto.SubmissionResponse](t, body)
	assert.True(t, strings.HasPrefix(submission.URL, "http://test/files/projects/"))
	assert.True(t, strings.HasSuffix(submission.URL, "draft.txt"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/tasks/"+task.ID.String()+"/submissions/upload", strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+admin)
	resp, body = env.do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body.Error.Details, "file")
}

func TestAdminRoutes(t *testing.T) {
	env := newAPIEnv(t)
	admin := env.login("root", "root-password")
	alice := env.register("alice")

	resp, _ := env.call(http.MethodGet, "/api/v1/admin/users", alice, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := env.call(http.MethodPost, "/api/v1/admin/users", admin, map[string]any{"username": "carol", "email": "carol@example.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.CreatedUserResponse](t, body)
	assert.NotEmpty(t, created.GeneratedPassword)

	resp, _ = env.call(http.MethodDelete, "/api/v1/admin/users/root", admin, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, "/api/v1/admin/users/ghost", admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.call(http.MethodDelete, "/api/v1/admin/users/carol", admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = env.call(http.MethodGet, "/api/v1/admin/users?page=1&limit=10", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]dto.UserResponse](t, body), 2)

	resp, _ = env.call(http.MethodGet, "/api/v1/users/root", alice, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = env.call(http.MethodGet, "/api/v1/users/lookup/root", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "root", decode[dto.UserLookupResponse](t, body).Username)
}

func TestHealthAndMetrics(t *testing.T) {
	env := newAPIEnv(t)

	resp, _ := env.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tracker_http_requests_total")
}
