package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"project-tracker/domain/ports"
)

// LocalStorage เก็บไฟล์แนบใน filesystem
type LocalStorage struct {
	basePath       string
	baseURL        string
	minFreePercent float64
}

type LocalStorageConfig struct {
	BasePath       string // ./uploads
	BaseURL        string // http://localhost:8080/files
	MinFreePercent float64
}

func NewLocalStorage(config LocalStorageConfig) (ports.StoragePort, error) {
	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath:       config.BasePath,
		baseURL:        strings.TrimSuffix(config.BaseURL, "/"),
		minFreePercent: config.MinFreePercent,
	}, nil
}

// resolve กัน path หลุดออกนอก basePath
func (l *LocalStorage) resolve(path string) (string, string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + strings.ReplaceAll(path, "\\", "/")))
	clean = strings.TrimPrefix(clean, "/")
	if clean == "" || clean == "." {
		return "", "", fmt.Errorf("invalid storage path %q", path)
	}
	return clean, filepath.Join(l.basePath, filepath.FromSlash(clean)), nil
}

func (l *LocalStorage) UploadFile(ctx context.Context, file io.Reader, size int64, path string, contentType string) (string, error) {
	key, fullPath, err := l.resolve(path)
	if err != nil {
		return "", err
	}

	if err := l.ensureSpace(size); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return l.GetFileURL(key), nil
}

func (l *LocalStorage) DeleteFile(ctx context.Context, path string) error {
	_, fullPath, err := l.resolve(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	l.cleanupEmptyDirs(filepath.Dir(fullPath))
	return nil
}

func (l *LocalStorage) GetFileURL(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return l.baseURL + path
}

func (l *LocalStorage) GetFileContent(ctx context.Context, path string) (io.ReadCloser, string, error) {
	_, fullPath, err := l.resolve(path)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(fullPath)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return file, contentType, nil
}

func (l *LocalStorage) GetProviderName() string {
	return "local"
}

// cleanupEmptyDirs ลบ directory ว่างขึ้นไปจนถึง basePath
func (l *LocalStorage) cleanupEmptyDirs(dir string) {
	absBase, _ := filepath.Abs(l.basePath)
	absDir, _ := filepath.Abs(dir)

	for absDir != absBase && strings.HasPrefix(absDir, absBase) {
		entries, err := os.ReadDir(absDir)
		if err != nil || len(entries) > 0 {
			break
		}
		os.Remove(absDir)
		absDir = filepath.Dir(absDir)
	}
}
