package ports

import (
	"context"
	"io"
)

// StoragePort เก็บไฟล์แนบของ submission เปลี่ยน provider ได้ (local, s3)
type StoragePort interface {
	// UploadFile คืน URL ที่เข้าถึงไฟล์ได้ size = -1 ถ้าไม่รู้ขนาด
	UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error)

	DeleteFile(ctx context.Context, path string) error

	GetFileURL(path string) string

	// GetFileContent คืน reader และ content type ผู้เรียกต้อง Close เอง
	GetFileContent(ctx context.Context, path string) (io.ReadCloser, string, error)

	GetProviderName() string
}
