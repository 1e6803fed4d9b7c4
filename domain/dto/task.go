package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=10000"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	ParentID    string `json:"parentId" validate:"omitempty,uuid"`
	AssignedTo  string `json:"assignedTo" validate:"max=64"`
	Notes       string `json:"notes" validate:"max=10000"`
}

// UpdateTaskRequest title และ description ต้องส่งเสมอ ส่วนที่เป็น pointer ส่งเมื่อต้องการแก้
type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=10000"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
}

type AssignTaskRequest struct {
	Username string `json:"username" validate:"max=64"`
}

type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=10000"`
}

type ToggleTaskResponse struct {
	ID          uuid.UUID `json:"id"`
	IsCompleted bool      `json:"isCompleted"`
	Status      string    `json:"status"`
}

type TaskResponse struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"projectId"`
	ParentID    *uuid.UUID   `json:"parentId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      string       `json:"status"`
	Priority    string       `json:"priority"`
	IsCompleted bool         `json:"isCompleted"`
	IsOverdue   bool         `json:"isOverdue"`
	DueDate     *string      `json:"dueDate"`
	Notes       string       `json:"notes"`
	AssignedTo  *UserSummary `json:"assignedTo"`
	CreatedByID uuid.UUID    `json:"createdById"`
	CreatedBy   *UserSummary `json:"createdBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type TaskDetailResponse struct {
	TaskResponse
	Subtasks    []TaskResponse       `json:"subtasks"`
	Feedback    []FeedbackResponse   `json:"feedback"`
	Submissions []SubmissionResponse `json:"submissions"`
}
