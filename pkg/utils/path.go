package utils

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

var dangerousChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f\x7f]`)

// SanitizeFileName ตัด path และตัวอักษรอันตรายออกจากชื่อไฟล์ที่ผู้ใช้ส่งมา
func SanitizeFileName(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	filename = dangerousChars.ReplaceAllString(filename, "_")
	filename = strings.TrimSpace(filename)

	if filename == "" || filename == "." || filename == ".." || filename == "/" {
		filename = "file"
	}
	return filename
}

// AttachmentPath path ของไฟล์แนบ submission ใน storage
func AttachmentPath(projectID, taskID, fileID, filename string) string {
	return path.Join("projects", projectID, "tasks", taskID, fileID+"-"+SanitizeFileName(filename))
}
