package ports

import (
	"context"
	"time"
)

// ประเภท activity event
const (
	EventProjectCreated  = "project.created"
	EventProjectUpdated  = "project.updated"
	EventProjectDeleted  = "project.deleted"
	EventMemberAdded     = "project.member_added"
	EventMemberRemoved   = "project.member_removed"
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskToggled     = "task.toggled"
	EventTaskAssigned    = "task.assigned"
	EventTaskDeleted     = "task.deleted"
	EventTaskOverdue     = "task.overdue"
	EventSubmissionAdded = "task.submission_added"
	EventFeedbackAdded   = "task.feedback_added"
	EventUserDeleted     = "user.deleted"
)

// ActivityEvent plain struct ไม่ผูกกับ transport
type ActivityEvent struct {
	Type       string            `json:"type"`
	ProjectID  string            `json:"projectId,omitempty"`
	TaskID     string            `json:"taskId,omitempty"`
	ActorID    string            `json:"actorId,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// EventPublisherPort ส่ง activity event หลัง commit แล้ว
// error จาก publisher ไม่ทำให้ operation ล้ม
type EventPublisherPort interface {
	Publish(ctx context.Context, event *ActivityEvent) error
}
