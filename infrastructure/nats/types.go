package nats

import "strings"

const (
	StreamName = "ACTIVITY"

	// SubjectActivity prefix ของ activity event ทุกชนิด เช่น activity.task.toggled
	SubjectActivity = "activity"
)

// SubjectFor แปลงชนิด event เป็น subject
func SubjectFor(eventType string) string {
	return SubjectActivity + "." + strings.TrimSpace(eventType)
}

// StreamStatus สถานะของ activity stream สำหรับ health check
type StreamStatus struct {
	Name     string `json:"name"`
	Messages uint64 `json:"messages"`
	Bytes    uint64 `json:"bytes"`
	LastSeq  uint64 `json:"lastSeq"`
}
