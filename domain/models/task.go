package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"project-tracker/pkg/apperror"
)

type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "open"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusBlocked    TaskStatus = "blocked"
)

type Task struct {
	ID           uuid.UUID  `gorm:"primaryKey;type:uuid"`
	Title        string     `gorm:"size:200;not null"`
	Description  string     `gorm:"type:text"`
	Status       TaskStatus `gorm:"size:20;not null;index"`
	Priority     Priority   `gorm:"size:10;not null"`
	IsCompleted  bool       `gorm:"not null"`
	DueDate      *time.Time `gorm:"index"`
	Notes        string     `gorm:"type:text"`
	ProjectID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedByID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Relations
	AssignedTo  *User        `gorm:"foreignKey:AssignedToID"`
	CreatedBy   *User        `gorm:"foreignKey:CreatedByID"`
	Subtasks    []Task       `gorm:"foreignKey:ParentID"`
	Feedback    []Feedback   `gorm:"foreignKey:TaskID"`
	Submissions []Submission `gorm:"foreignKey:TaskID"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SetStatus เปลี่ยน status และ derive is_completed ตาม
func (t *Task) SetStatus(status string) error {
	s, err := ParseTaskStatus(status)
	if err != nil {
		return err
	}
	t.Status = s
	t.IsCompleted = s == TaskStatusCompleted
	return nil
}

// ToggleCompletion สลับ is_completed โดย status เป็น completed/open ตาม
func (t *Task) ToggleCompletion() {
	t.IsCompleted = !t.IsCompleted
	if t.IsCompleted {
		t.Status = TaskStatusCompleted
	} else {
		t.Status = TaskStatusOpen
	}
}

func (t *Task) IsAssignedTo(userID uuid.UUID) bool {
	return t.AssignedToID != nil && *t.AssignedToID == userID
}

// IsOverdue งานที่เสร็จแล้วไม่นับ
func (t *Task) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// ParseTaskStatus ค่าว่างได้ open
func ParseTaskStatus(status string) (TaskStatus, error) {
	switch TaskStatus(status) {
	case "":
		return TaskStatusOpen, nil
	case TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBlocked:
		return TaskStatus(status), nil
	}
	return "", apperror.ValidationFields("invalid task status", map[string]string{
		"status": "must be one of open, in_progress, completed, blocked",
	})
}
