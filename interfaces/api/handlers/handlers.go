package handlers

import (
	"time"

	"project-tracker/domain/services"
	"project-tracker/pkg/metrics"
)

// Services รวม dependency ที่ handler ต้องใช้
type Services struct {
	UserService    services.UserService
	ProjectService services.ProjectService
	TaskService    services.TaskService
	Metrics        *metrics.Metrics
	HealthChecks   map[string]HealthCheck
	JWTTTL         time.Duration
	MaxUploadSize  int64
}

// Handlers contains all HTTP handlers
type Handlers struct {
	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	AdminHandler   *AdminHandler
	ProjectHandler *ProjectHandler
	TaskHandler    *TaskHandler
	HealthHandler  *HealthHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		AuthHandler:    NewAuthHandler(services.UserService, services.JWTTTL),
		UserHandler:    NewUserHandler(services.UserService),
		AdminHandler:   NewAdminHandler(services.UserService),
		ProjectHandler: NewProjectHandler(services.ProjectService),
		TaskHandler:    NewTaskHandler(services.TaskService, services.MaxUploadSize),
		HealthHandler:  NewHealthHandler(services.HealthChecks, services.Metrics),
	}
}
