package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/pkg/apperror"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusArchived  ProjectStatus = "archived"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

const MemberRoleDefault = "member"

type Project struct {
	ID          uuid.UUID     `gorm:"primaryKey;type:uuid"`
	Title       string        `gorm:"size:200;not null"`
	Slug        string        `gorm:"size:220;uniqueIndex;not null"`
	Description string        `gorm:"type:text"`
	Status      ProjectStatus `gorm:"size:20;not null;index"`
	Priority    Priority      `gorm:"size:10;not null"`
	DueDate     *time.Time
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Features    []string  `gorm:"type:text;serializer:json"`
	ProjectURL  string    `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations
	Owner   *User           `gorm:"foreignKey:OwnerID"`
	Members []ProjectMember `gorm:"foreignKey:ProjectID"`
	Tasks   []Task          `gorm:"foreignKey:ProjectID"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SetStatus เป็นทางเดียวที่เปลี่ยน status ได้ ค่าผิด enum จะไม่แตะค่าเดิม
func (p *Project) SetStatus(status string) error {
	s, err := ParseProjectStatus(status)
	if err != nil {
		return err
	}
	p.Status = s
	return nil
}

// HasMember ไม่นับ owner
func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// ParseProjectStatus ค่าว่างได้ active
func ParseProjectStatus(status string) (ProjectStatus, error) {
	switch ProjectStatus(status) {
	case "":
		return ProjectStatusActive, nil
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusOnHold, ProjectStatusArchived:
		return ProjectStatus(status), nil
	}
	return "", apperror.ValidationFields("invalid project status", map[string]string{
		"status": "must be one of active, completed, on_hold, archived",
	})
}

// ParsePriority ค่าว่างได้ medium
func ParsePriority(priority string) (Priority, error) {
	switch Priority(priority) {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(priority), nil
	}
	return "", apperror.ValidationFields("invalid priority", map[string]string{
		"priority": "must be one of low, medium, high",
	})
}

type ProjectMember struct {
	ProjectID uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `gorm:"primaryKey;type:uuid;index"`
	Role      string    `gorm:"size:50;not null"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
