package dto

import (
	"time"

	"github.com/google/uuid"
)

const (
	ProjectScopeMine = "mine"
	ProjectScopeAll  = "all"
)

// CreateProjectRequest members เป็น username ของสมาชิกเริ่มต้น
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Features    []string `json:"features" validate:"omitempty,max=100,dive,max=200"`
	ProjectURL  string   `json:"projectUrl" validate:"max=500"`
	Members     []string `json:"members" validate:"omitempty,dive,required"`
}

// UpdateProjectRequest แก้ทุก field พร้อมกัน dueDate ว่าง = ลบ due date
type UpdateProjectRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=10000"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	DueDate     string   `json:"dueDate"`
	Features    []string `json:"features" validate:"omitempty,max=100,dive,max=200"`
	ProjectURL  string   `json:"projectUrl" validate:"max=500"`
}

type AddMemberRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Role     string `json:"role" validate:"omitempty,max=50"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username,omitempty"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joinedAt"`
}

type ProjectResponse struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	Status      string           `json:"status"`
	Priority    string           `json:"priority"`
	DueDate     *string          `json:"dueDate"`
	OwnerID     uuid.UUID        `json:"ownerId"`
	Owner       *UserSummary     `json:"owner,omitempty"`
	Members     []MemberResponse `json:"members"`
	Features    []string         `json:"features"`
	ProjectURL  string           `json:"projectUrl"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Tasks []TaskResponse `json:"tasks"`
}
