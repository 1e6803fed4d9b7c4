package dto

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// CreateSubmissionRequest ต้องมี content หรือ url อย่างน้อยหนึ่งอย่าง
type CreateSubmissionRequest struct {
	Content string `json:"content" validate:"max=10000"`
	URL     string `json:"url" validate:"max=1000"`
}

type CreateFeedbackRequest struct {
	Content string `json:"content" validate:"required,max=10000"`
}

// UploadSubmissionInput ไฟล์ที่ handler อ่านจาก multipart form
type UploadSubmissionInput struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
	Content     string
}

type FeedbackResponse struct {
	ID        uuid.UUID    `json:"id"`
	TaskID    uuid.UUID    `json:"taskId"`
	Author    *UserSummary `json:"author"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
}

type SubmissionResponse struct {
	ID        uuid.UUID    `json:"id"`
	TaskID    uuid.UUID    `json:"taskId"`
	Submitter *UserSummary `json:"submitter"`
	Content   string       `json:"content"`
	URL       string       `json:"url"`
	CreatedAt time.Time    `json:"createdAt"`
}
